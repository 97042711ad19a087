package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/tweetgenie/internal/config"
	"github.com/blackwell-systems/tweetgenie/internal/logging"
	"github.com/blackwell-systems/tweetgenie/internal/watcher"
)

// minWatchInterval bounds how often the API may be polled.
const minWatchInterval = 30 * time.Second

var (
	watchDaemon      bool
	watchInterval    string
	watchStop        bool
	watchQuiet       bool
	watchMetricsAddr string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll metrics and alert when the account's standing changes",
	Long: `Run a monitor that periodically re-reads the metrics source and re-runs the
analysis. When notable events are detected (engagement falling below the
healthy band, reach becoming volatile, cadence dropping, new high-priority
recommendations), desktop notifications and terminal alerts are emitted.

Examples:
  tweetgenie watch                          # run in foreground (ctrl-c to stop)
  tweetgenie watch --daemon                 # run in background, write PID file
  tweetgenie watch --interval 15m           # check every 15 minutes
  tweetgenie watch --metrics-addr :9108     # expose Prometheus metrics
  tweetgenie watch --stop                   # stop the background daemon`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchDaemon, "daemon", false, "Run in background mode (write PID file, log to file)")
	watchCmd.Flags().StringVar(&watchInterval, "interval", "", "Check interval as duration string (default from config, 5m)")
	watchCmd.Flags().BoolVar(&watchStop, "stop", false, "Stop a running background daemon")
	watchCmd.Flags().BoolVar(&watchQuiet, "quiet", false, "Suppress terminal output, only send notifications")
	watchCmd.Flags().StringVar(&watchMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9108)")
	rootCmd.AddCommand(watchCmd)
}

// pidFilePath returns the path to the daemon PID file.
func pidFilePath() string {
	return filepath.Join(config.ConfigDir(), "watch.pid")
}

// logFilePath returns the path to the daemon log file.
func logFilePath() string {
	return filepath.Join(config.ConfigDir(), "watch.log")
}

// watchMetrics counts polls and alerts.
type watchMetrics struct {
	polls  *prometheus.CounterVec
	alerts *prometheus.CounterVec
}

func newWatchMetrics(reg prometheus.Registerer) *watchMetrics {
	factory := promauto.With(reg)
	return &watchMetrics{
		polls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tweetgenie",
			Subsystem: "watch",
			Name:      "polls_total",
			Help:      "Metric source polls by result.",
		}, []string{"result"}),
		alerts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tweetgenie",
			Subsystem: "watch",
			Name:      "alerts_total",
			Help:      "Alerts emitted by level.",
		}, []string{"level"}),
	}
}

func (m *watchMetrics) poll(ok bool) {
	result := "error"
	if ok {
		result = "ok"
	}
	m.polls.WithLabelValues(result).Inc()
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchStop {
		return stopDaemon(cmd.OutOrStdout(), pidFilePath())
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	logOut := io.Writer(os.Stderr)
	var logFile *os.File
	if watchDaemon {
		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config dir: %w", err)
		}
		f, err := os.OpenFile(logFilePath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer func() { _ = f.Close() }()
		logFile = f
		logOut = f
	}

	e, err := loadEnvWith(cmd, logOut, reg)
	if err != nil {
		return err
	}

	interval, err := resolveInterval(watchInterval, e.cfg.Watch.Interval)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(contextOf(cmd), shutdownSignals...)
	defer cancel()

	if watchMetricsAddr != "" {
		stop := serveMetrics(ctx, watchMetricsAddr, reg, e.log)
		defer stop()
	}

	metrics := newWatchMetrics(reg)
	if logFile != nil {
		return runDaemon(ctx, e, interval, metrics)
	}
	return runForeground(ctx, cmd.OutOrStdout(), e, interval, metrics)
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// resolveInterval parses the --interval flag, falling back to the
// configured interval when the flag is empty.
func resolveInterval(flag string, configured time.Duration) (time.Duration, error) {
	interval := configured
	if flag != "" {
		d, err := time.ParseDuration(flag)
		if err != nil {
			return 0, fmt.Errorf("invalid interval %q: %w", flag, err)
		}
		interval = d
	}
	if interval < minWatchInterval {
		return 0, fmt.Errorf("interval must be at least %s, got %s", minWatchInterval, interval)
	}
	return interval, nil
}

// serveMetrics exposes reg over HTTP until the returned stop func is called.
func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, log *logrus.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.WithField("addr", addr).Info("serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("metrics server failed")
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}

// runForeground runs the watcher in the foreground with live terminal output.
func runForeground(ctx context.Context, out io.Writer, e *env, interval time.Duration, m *watchMetrics) error {
	if !watchQuiet {
		fmt.Fprintf(out, "tweetgenie watching... (checking every %s)\n", interval)
	}

	alertFn := func(a watcher.Alert) {
		m.alerts.WithLabelValues(a.Level).Inc()
		_ = watcher.Notify(a)
		if !watchQuiet {
			printAlert(out, a)
		}
	}

	w := watcher.New(e.provider, e.cfg.Policy, interval, alertFn,
		watcher.WithLogger(e.log), watcher.WithPollHook(m.poll))

	err := w.Run(ctx)
	if errors.Is(err, context.Canceled) {
		if !watchQuiet {
			fmt.Fprintln(out, "\nStopped.")
		}
		return nil
	}
	return err
}

// runDaemon writes the PID file, then runs the watcher logging to the watch
// log. The actual backgrounding should be done by the caller (nohup, &,
// etc.) since Go cannot reliably fork.
func runDaemon(ctx context.Context, e *env, interval time.Duration, m *watchMetrics) error {
	pidPath := pidFilePath()
	if pid, err := readPID(pidPath); err == nil {
		if processExists(pid) {
			return fmt.Errorf("daemon already running (PID %d). Use --stop to stop it", pid)
		}
		_ = os.Remove(pidPath)
	}

	pid := os.Getpid()
	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(pid)), 0o644); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer func() { _ = os.Remove(pidPath) }()

	e.log.WithFields(logging.Fields{"pid": pid, "interval": interval.String()}).Info("daemon started")

	alertFn := func(a watcher.Alert) {
		m.alerts.WithLabelValues(a.Level).Inc()
		_ = watcher.Notify(a)
		e.log.WithFields(logging.Fields{"level": a.Level, "title": a.Title}).Warn(a.Message)
	}

	w := watcher.New(e.provider, e.cfg.Policy, interval, alertFn,
		watcher.WithLogger(e.log), watcher.WithPollHook(m.poll))

	err := w.Run(ctx)
	if errors.Is(err, context.Canceled) {
		e.log.Info("daemon stopped")
		return nil
	}
	return err
}

// readPID reads the daemon PID from path.
func readPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("parsing PID file: %w", err)
	}
	if pid <= 0 {
		return 0, fmt.Errorf("invalid PID %d", pid)
	}
	return pid, nil
}

// stopDaemon terminates the daemon recorded in pidPath and removes the file.
// A PID file naming a dead process is removed and reported as an error.
func stopDaemon(out io.Writer, pidPath string) error {
	pid, err := readPID(pidPath)
	if err != nil {
		return fmt.Errorf("no daemon running (could not read PID file: %v)", err)
	}
	if !processExists(pid) {
		_ = os.Remove(pidPath)
		return fmt.Errorf("no daemon running (PID %d is not active, removed stale PID file)", pid)
	}
	if err := terminate(pid); err != nil {
		return fmt.Errorf("stopping daemon (PID %d): %w", pid, err)
	}
	_ = os.Remove(pidPath)
	fmt.Fprintf(out, "Stopped daemon (PID %d)\n", pid)
	return nil
}

// printAlert formats and prints an alert to the terminal.
func printAlert(w io.Writer, a watcher.Alert) {
	timestamp := a.Time.Format("15:04:05")
	fmt.Fprintf(w, "[%s] %s %s\n", timestamp, alertIcon(a.Level), a.Title)
	if a.Message != "" {
		fmt.Fprintf(w, "         %s\n", a.Message)
	}
}

// alertIcon returns the terminal indicator for an alert level.
func alertIcon(level string) string {
	switch level {
	case watcher.LevelCritical:
		return "\xf0\x9f\x94\xb4" // red circle
	case watcher.LevelWarning:
		return "\xe2\x9a\xa0\xef\xb8\x8f" // warning sign
	case watcher.LevelInfo:
		return "\xe2\x9c\x93" // check mark
	default:
		return " "
	}
}

package watcher

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
)

// Notifier delivers alerts as desktop notifications. It shells out to
// osascript on macOS and notify-send on Linux, and writes to Fallback when
// neither works.
type Notifier struct {
	GOOS     string
	Fallback io.Writer

	lookPath func(string) (string, error)
	run      func(name string, args ...string) error
}

// NewNotifier returns a Notifier for the current platform that falls back
// to stderr.
func NewNotifier() *Notifier {
	return &Notifier{
		GOOS:     runtime.GOOS,
		Fallback: os.Stderr,
		lookPath: exec.LookPath,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

// Notify sends a desktop notification using a platform Notifier.
func Notify(alert Alert) error {
	return NewNotifier().Notify(alert)
}

// Notify delivers a single alert.
func (n *Notifier) Notify(alert Alert) error {
	var err error
	switch n.GOOS {
	case "darwin":
		script := fmt.Sprintf(`display notification %q with title "tweetgenie" subtitle %q`,
			alert.Message, alert.Title)
		err = n.run("osascript", "-e", script)
	case "linux":
		if _, err = n.lookPath("notify-send"); err == nil {
			err = n.run("notify-send", "-u", urgency(alert.Level), "tweetgenie: "+alert.Title, alert.Message)
		}
	default:
		return n.fallback(alert)
	}
	if err != nil {
		return n.fallback(alert)
	}
	return nil
}

func (n *Notifier) fallback(alert Alert) error {
	w := n.Fallback
	if w == nil {
		w = os.Stderr
	}
	_, err := fmt.Fprintf(w, "[%s] %s: %s\n", alert.Level, alert.Title, alert.Message)
	return err
}

// urgency maps an alert level to a notify-send urgency.
func urgency(level string) string {
	switch level {
	case LevelCritical:
		return "critical"
	case LevelInfo:
		return "low"
	default:
		return "normal"
	}
}

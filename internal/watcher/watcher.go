// Package watcher polls the metrics source, re-runs the analysis and emits
// alerts when the account's standing changes between polls.
package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/blackwell-systems/tweetgenie/internal/analyzer"
	"github.com/blackwell-systems/tweetgenie/internal/logging"
	"github.com/blackwell-systems/tweetgenie/internal/source"
	"github.com/blackwell-systems/tweetgenie/internal/suggest"
)

// Alert levels.
const (
	LevelInfo     = "info"
	LevelWarning  = "warning"
	LevelCritical = "critical"
)

// WatchState captures one analysed poll.
type WatchState struct {
	Timestamp      time.Time
	Report         suggest.Report
	Policy         analyzer.Policy
	EngagementRate float64
	TweetsPerDay   float64
	TotalTweets    float64
}

// Alert represents a notable event detected by the watcher.
type Alert struct {
	Level   string    `json:"level"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// Watcher polls a Provider at a regular interval and emits alerts when
// notable changes are detected.
type Watcher struct {
	provider      source.Provider
	policy        analyzer.Policy
	interval      time.Duration
	previous      *WatchState
	alertFn       func(Alert)     // callback for emitting alerts
	lastAlertKeys map[string]bool // dedup: suppress repeated identical alerts
	log           *logrus.Logger
	now           func() time.Time
	polls         func(ok bool)
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger used for poll diagnostics.
func WithLogger(log *logrus.Logger) Option {
	return func(w *Watcher) { w.log = log }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(w *Watcher) { w.now = now }
}

// WithPollHook registers a callback invoked after every poll with its
// outcome.
func WithPollHook(fn func(ok bool)) Option {
	return func(w *Watcher) { w.polls = fn }
}

// New creates a Watcher over the given provider.
func New(provider source.Provider, p analyzer.Policy, interval time.Duration, alertFn func(Alert), opts ...Option) *Watcher {
	w := &Watcher{
		provider:      provider,
		policy:        p,
		interval:      interval,
		alertFn:       alertFn,
		lastAlertKeys: make(map[string]bool),
		log:           logging.Discard(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run starts the watch loop. It takes an initial snapshot, then checks at
// every interval. Blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	initial, err := w.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("initial snapshot: %w", err)
	}
	w.previous = initial
	w.log.WithFields(logrus.Fields{
		"tweets":          initial.TotalTweets,
		"engagement_rate": initial.EngagementRate,
		"interval":        w.interval.String(),
	}).Info("watch started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for _, a := range w.Check(ctx) {
				if w.alertFn != nil {
					w.alertFn(a)
				}
			}
		}
	}
}

// Check performs a single check cycle: takes a new snapshot, compares against
// the previous state, updates the previous state, and returns any alerts.
// Identical alerts are suppressed until the underlying data changes.
func (w *Watcher) Check(ctx context.Context) []Alert {
	curr, err := w.Snapshot(ctx)
	if w.polls != nil {
		w.polls(err == nil)
	}
	if err != nil {
		w.log.WithError(err).Warn("poll failed")
		return w.dedupe([]Alert{{
			Level:   LevelWarning,
			Title:   "Snapshot failed",
			Message: fmt.Sprintf("Could not read metrics: %v", err),
			Time:    w.now(),
		}})
	}

	var raw []Alert
	if w.previous != nil {
		raw = Compare(w.previous, curr)
	}
	w.previous = curr
	return w.dedupe(raw)
}

func (w *Watcher) dedupe(raw []Alert) []Alert {
	currentKeys := make(map[string]bool, len(raw))
	var alerts []Alert
	for _, a := range raw {
		key := a.Level + ":" + a.Title + ":" + a.Message
		currentKeys[key] = true
		if !w.lastAlertKeys[key] {
			alerts = append(alerts, a)
		}
	}
	w.lastAlertKeys = currentKeys
	return alerts
}

// Snapshot reads the current dataset and analyses it. Cached providers are
// refreshed first so every poll sees fresh data.
func (w *Watcher) Snapshot(ctx context.Context) (*WatchState, error) {
	if r, ok := w.provider.(source.Refresher); ok {
		if n := r.Refresh(); n > 0 {
			w.log.WithField("entries", n).Debug("dropped cached responses")
		}
	}

	ds, err := w.provider.Dataset(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}

	report := suggest.Analyze(*ds, w.policy)
	return &WatchState{
		Timestamp:      w.now(),
		Report:         report,
		Policy:         w.policy,
		EngagementRate: analyzer.EngagementRate(report.Dashboard.Overview),
		TweetsPerDay:   report.Dashboard.TweetsPerDay,
		TotalTweets:    report.Dashboard.Overview.TotalTweets.Float(),
	}, nil
}

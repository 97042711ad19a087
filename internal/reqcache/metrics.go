package reqcache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusHooks registers the cache counters with reg and returns hooks
// that increment them, labelled by key scope.
func PrometheusHooks(reg prometheus.Registerer) Hooks {
	factory := promauto.With(reg)
	counter := func(name, help string) *prometheus.CounterVec {
		return factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tweetgenie",
				Subsystem: "reqcache",
				Name:      name,
				Help:      help,
			},
			[]string{"scope"},
		)
	}

	hits := counter("hits_total", "Cached results served without a fetch")
	misses := counter("misses_total", "Lookups that required a fetch")
	errs := counter("errors_total", "Fetches that returned an error")
	shared := counter("shared_total", "Callers that shared an in-flight fetch")

	return Hooks{
		OnHit:    func(scope string) { hits.WithLabelValues(scope).Inc() },
		OnMiss:   func(scope string) { misses.WithLabelValues(scope).Inc() },
		OnError:  func(scope string) { errs.WithLabelValues(scope).Inc() },
		OnShared: func(scope string) { shared.WithLabelValues(scope).Inc() },
	}
}

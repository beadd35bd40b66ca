// Package metrics exposes cache and compilation counters through Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.trai.ch/sassy/internal/core/ports"
)

const namespace = "sassy"

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

var _ ports.Metrics = (*Prometheus)(nil)

// Prometheus records metrics into its own registry.
type Prometheus struct {
	registry *prometheus.Registry

	hits            prometheus.Counter
	misses          prometheus.Counter
	compilations    *prometheus.CounterVec
	compileDuration prometheus.Histogram
	invalidations   prometheus.Counter
	recompiledKeys  prometheus.Counter
}

// New creates a Prometheus recorder backed by a fresh registry.
func New() *Prometheus {
	reg := prometheus.NewRegistry()
	return &Prometheus{
		registry: reg,
		hits: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total number of requests served from the compile cache.",
		}),
		misses: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total number of requests that required a compilation.",
		}),
		compilations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compilations_total",
			Help:      "Total number of compilations by result.",
		}, []string{"result"}),
		compileDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compile_duration_seconds",
			Help:      "Time taken to compile and post-process one stylesheet.",
			Buckets:   prometheus.DefBuckets,
		}),
		invalidations: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalidations_total",
			Help:      "Total number of change batches that triggered a recompilation.",
		}),
		recompiledKeys: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recompiled_keys_total",
			Help:      "Total number of cache entries recompiled after a change.",
		}),
	}
}

// CacheHit implements ports.Metrics.
func (p *Prometheus) CacheHit() {
	p.hits.Inc()
}

// CacheMiss implements ports.Metrics.
func (p *Prometheus) CacheMiss() {
	p.misses.Inc()
}

// Compiled implements ports.Metrics.
func (p *Prometheus) Compiled(d time.Duration, err error) {
	result := resultSuccess
	if err != nil {
		result = resultFailure
	}
	p.compilations.WithLabelValues(result).Inc()
	p.compileDuration.Observe(d.Seconds())
}

// Invalidated implements ports.Metrics.
func (p *Prometheus) Invalidated(n int) {
	p.invalidations.Inc()
	p.recompiledKeys.Add(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// Discard is a ports.Metrics that records nothing.
type Discard struct{}

// CacheHit does nothing.
func (Discard) CacheHit() {}

// CacheMiss does nothing.
func (Discard) CacheMiss() {}

// Compiled does nothing.
func (Discard) Compiled(time.Duration, error) {}

// Invalidated does nothing.
func (Discard) Invalidated(int) {}

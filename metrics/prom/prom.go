// Package prom exports cache.Metrics as Prometheus collectors.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/IvanBrykalov/handlecache/cache"
)

// Adapter implements cache.Metrics and exports Prometheus counters/gauges.
// Safe for concurrent use; all Prometheus metric types are goroutine-safe.
type Adapter struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	overflows prometheus.Counter
	evicts    *prometheus.CounterVec
	entries   prometheus.Gauge
}

// New constructs a Prometheus metrics adapter.
//   - reg:          registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:      Prometheus namespace and subsystem
//   - constLabels:  static labels applied to all metrics (may be nil)
//
// Register one Adapter per cache, told apart by constLabels (e.g. {"cache": "pens"}).
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &Adapter{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "hits_total",
			Help:        "Lookups served by a resident entry",
			ConstLabels: constLabels,
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "misses_total",
			Help:        "Lookups that created a new object",
			ConstLabels: constLabels,
		}),
		overflows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "overflows_total",
			Help:        "Misses served by an uncached entry because every resident entry was referenced",
			ConstLabels: constLabels,
		}),
		evicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "evictions_total",
				Help:        "Resident entries disposed by reason",
				ConstLabels: constLabels,
			},
			[]string{"reason"},
		),
		entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "size_entries",
			Help:        "Number of resident entries",
			ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.hits, a.misses, a.overflows, a.evicts, a.entries)
	return a
}

// Hit increments the hit counter.
func (a *Adapter) Hit() { a.hits.Inc() }

// Miss increments the miss counter.
func (a *Adapter) Miss() { a.misses.Inc() }

// Admit tracks a new resident entry.
func (a *Adapter) Admit() { a.entries.Inc() }

// Overflow increments the overflow counter. Overflow entries are not resident,
// so the size gauge is untouched.
func (a *Adapter) Overflow() { a.overflows.Inc() }

// Evict increments the eviction counter with a reason label and shrinks the size gauge.
func (a *Adapter) Evict(r cache.EvictReason) {
	a.evicts.WithLabelValues(r.String()).Inc()
	a.entries.Dec()
}

// Compile-time check: ensure Adapter implements cache.Metrics.
var _ cache.Metrics = (*Adapter)(nil)

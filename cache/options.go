package cache

import "log/slog"

// Defaults applied by New for zero-valued Options fields.
const (
	DefaultSoftLimit = 20
	DefaultHardLimit = 40

	// DefaultMoveToFront is the number of list steps a lookup may walk before
	// a hit is relocated to the head. Reaching any entry has a fixed baseline
	// cost and each step adds a little; relocation costs roughly as much as
	// thirty steps, so a node is only moved once it has proven expensive to reach.
	DefaultMoveToFront = 30
)

// EvictReason explains why a cached entry was disposed by the engine.
type EvictReason int

const (
	// EvictCompaction: unreferenced tail entry removed while over the soft limit.
	EvictCompaction EvictReason = iota
	// EvictDispose: removed because the whole cache was closed.
	EvictDispose
)

func (r EvictReason) String() string {
	switch r {
	case EvictCompaction:
		return "compaction"
	case EvictDispose:
		return "dispose"
	default:
		return "unknown"
	}
}

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	// Admit is called when a new entry joins the bounded list.
	Admit()
	// Overflow is called when a miss is served by an uncached entry
	// because every resident entry is referenced.
	Overflow()
	Evict(reason EvictReason)
}

// Options configures a Cache. Zero values are safe;
// defaults are applied in New():
//   - SoftLimit == 0   => min(DefaultSoftLimit, HardLimit)
//   - HardLimit == 0   => max(DefaultHardLimit, SoftLimit)
//   - MoveToFront <= 0 => DefaultMoveToFront
//   - nil Metrics      => NoopMetrics
//   - nil Logger       => discard
type Options struct {
	// SoftLimit is the number of entries kept before proactive eviction.
	SoftLimit int

	// HardLimit is the absolute cap on cached entries; beyond it misses are
	// served by uncached overflow entries.
	HardLimit int

	// MoveToFront is the lookup walk length after which a hit is promoted.
	MoveToFront int

	// Name labels log records (e.g. "pen", "brush").
	Name string

	Metrics Metrics
	Logger  *slog.Logger
}

// withDefaults returns a copy of o with defaults applied.
// It panics on limits that can never be satisfied.
func (o Options) withDefaults() Options {
	if o.SoftLimit < 0 || o.HardLimit < 0 {
		panic("cache: limits must be >= 0")
	}
	if o.HardLimit == 0 {
		o.HardLimit = max(DefaultHardLimit, o.SoftLimit)
	}
	if o.SoftLimit == 0 {
		o.SoftLimit = min(DefaultSoftLimit, o.HardLimit)
	}
	if o.SoftLimit > o.HardLimit {
		panic("cache: SoftLimit must be <= HardLimit")
	}
	if o.MoveToFront <= 0 {
		o.MoveToFront = DefaultMoveToFront
	}
	if o.Metrics == nil {
		o.Metrics = NoopMetrics{}
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	if o.Name != "" {
		o.Logger = o.Logger.With(slog.String("cache", o.Name))
	}
	return o
}

package status

import "sync/atomic"

// Registry is the central metrics facade
// Components cache pointers at construction; hot paths write directly to atomics
// Ints hold current levels; Counters only ever grow and export as _total
type Registry struct {
	Bools    *MetricMap[atomic.Bool]
	Ints     *MetricMap[atomic.Int64]
	Counters *MetricMap[atomic.Int64]
	Strings  *MetricMap[AtomicString]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:    NewMetricMap[atomic.Bool](),
		Ints:     NewMetricMap[atomic.Int64](),
		Counters: NewMetricMap[atomic.Int64](),
		Strings:  NewMetricMap[AtomicString](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Counters.Count() + r.Strings.Count()
}

// CounterValues copies every counter, for logging on shutdown
func (r *Registry) CounterValues() map[string]int64 {
	out := make(map[string]int64, r.Counters.Count())
	r.Counters.Range(func(key string, ptr *atomic.Int64) {
		out[key] = ptr.Load()
	})
	return out
}

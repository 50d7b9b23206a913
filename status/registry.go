package status

import (
	"fmt"
	"strconv"
	"sync/atomic"
)

// Registry is the central metrics facade for a session
// Systems cache pointers during construction; update paths write directly to atomics
type Registry struct {
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// Metric is a rendered key/value pair for HUD and log output
type Metric struct {
	Key   string
	Value string
}

// Snapshot renders every metric, ints first, then floats, then strings, each in key order
func (r *Registry) Snapshot() []Metric {
	out := make([]Metric, 0, r.TotalCount())
	r.Ints.Range(func(key string, v *atomic.Int64) {
		out = append(out, Metric{Key: key, Value: strconv.FormatInt(v.Load(), 10)})
	})
	r.Floats.Range(func(key string, v *AtomicFloat) {
		out = append(out, Metric{Key: key, Value: fmt.Sprintf("%.2f", v.Get())})
	})
	r.Strings.Range(func(key string, v *AtomicString) {
		out = append(out, Metric{Key: key, Value: v.Load()})
	})
	return out
}

// Reset zeroes every metric while keeping the pointers systems cached
// Used when a new run reuses the registry
func (r *Registry) Reset() {
	r.Ints.Reset(func(v *atomic.Int64) { v.Store(0) })
	r.Floats.Reset(func(v *AtomicFloat) { v.Set(0) })
	r.Strings.Reset(func(v *AtomicString) { v.Store("") })
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

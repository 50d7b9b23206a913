package status

import (
	"math"
	"sync/atomic"
)

// AtomicFloat is a float64 gauge stored as its IEEE bits; the zero value reads 0.0
type AtomicFloat struct {
	bits atomic.Uint64
}

func (f *AtomicFloat) Set(val float64) {
	f.bits.Store(math.Float64bits(val))
}

func (f *AtomicFloat) Get() float64 {
	return math.Float64frombits(f.bits.Load())
}

// Add adds delta and returns the new value
func (f *AtomicFloat) Add(delta float64) float64 {
	return f.update(func(cur float64) (float64, bool) { return cur + delta, true })
}

// Max raises the gauge to val if val is larger and returns the resulting value
func (f *AtomicFloat) Max(val float64) float64 {
	return f.update(func(cur float64) (float64, bool) { return val, val > cur })
}

// update applies fn in a CAS loop; fn returns false to leave the value unchanged
func (f *AtomicFloat) update(fn func(cur float64) (float64, bool)) float64 {
	for {
		old := f.bits.Load()
		cur := math.Float64frombits(old)
		next, ok := fn(cur)
		if !ok {
			return cur
		}
		if f.bits.CompareAndSwap(old, math.Float64bits(next)) {
			return next
		}
	}
}

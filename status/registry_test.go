package status

import (
	"sync/atomic"
	"testing"
)

func TestMetricMapCachesPointer(t *testing.T) {
	r := NewRegistry()
	a := r.Ints.Get("planet.merges")
	a.Add(3)
	b := r.Ints.Get("planet.merges")
	if a != b {
		t.Fatal("Expected Get to return the cached pointer")
	}
	if b.Load() != 3 {
		t.Errorf("Expected 3, got %d", b.Load())
	}
}

func TestSnapshotOrder(t *testing.T) {
	r := NewRegistry()
	r.Ints.Get("b").Store(2)
	r.Ints.Get("a").Store(1)
	r.Floats.Get("run.time").Set(1.5)
	r.Strings.Get("run.state").Store("playing")

	got := r.Snapshot()
	want := []Metric{
		{"a", "1"},
		{"b", "2"},
		{"run.time", "1.50"},
		{"run.state", "playing"},
	}
	if len(got) != len(want) {
		t.Fatalf("Expected %d metrics, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("metric %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestResetKeepsPointers(t *testing.T) {
	r := NewRegistry()
	p := r.Ints.Get("score")
	p.Store(40)
	r.Ints.Reset(func(v *atomic.Int64) { v.Store(0) })
	if p.Load() != 0 {
		t.Errorf("Expected reset value 0, got %d", p.Load())
	}
}

func TestAtomicStringTruncates(t *testing.T) {
	var s AtomicString
	if s.Load() != "" {
		t.Error("Expected zero value to be empty")
	}
	s.Store("this reason is definitely longer than the hud")
	if len(s.Load()) != MaxStringLen {
		t.Errorf("Expected truncation to %d, got %d", MaxStringLen, len(s.Load()))
	}
}

func TestRegistryReset(t *testing.T) {
	r := NewRegistry()
	merges := r.Ints.Get("planet.merges")
	peak := r.Floats.Get("planet.hazard_peak")
	state := r.Strings.Get("run.state")
	merges.Store(3)
	peak.Set(1.5)
	state.Store("over: hazard")

	r.Reset()
	if merges.Load() != 0 || peak.Get() != 0 || state.Load() != "" {
		t.Errorf("Expected zeroed metrics, got %d %v %q", merges.Load(), peak.Get(), state.Load())
	}
	if r.TotalCount() != 3 {
		t.Errorf("Expected keys to survive reset, got %d", r.TotalCount())
	}
}

func TestAtomicStringKeepsRunes(t *testing.T) {
	var s AtomicString
	// 23 ASCII bytes followed by a two-byte rune straddling the limit
	s.Store("aaaaaaaaaaaaaaaaaaaaaaaé")
	if got := s.Load(); got != "aaaaaaaaaaaaaaaaaaaaaaa" {
		t.Errorf("Expected cut before the split rune, got %q", got)
	}
}

func TestAtomicFloatAdd(t *testing.T) {
	var f AtomicFloat
	f.Add(0.25)
	if got := f.Add(0.5); got != 0.75 {
		t.Errorf("Expected 0.75, got %v", got)
	}
}

func TestAtomicFloatMax(t *testing.T) {
	var f AtomicFloat
	f.Max(1.5)
	if got := f.Max(0.5); got != 1.5 {
		t.Errorf("Expected 1.5 to be kept, got %v", got)
	}
	if got := f.Max(2); got != 2 {
		t.Errorf("Expected 2, got %v", got)
	}
}

package status

import (
	"sync/atomic"
	"unicode/utf8"
)

// MaxStringLen bounds string metrics in bytes, sized for a HUD cell
const MaxStringLen = 24

// AtomicString is a string gauge; the zero value reads ""
type AtomicString struct {
	ptr atomic.Pointer[string]
}

// Store sets the value, cut to MaxStringLen bytes on a rune boundary
func (s *AtomicString) Store(val string) {
	if len(val) > MaxStringLen {
		cut := MaxStringLen
		for cut > 0 && !utf8.RuneStart(val[cut]) {
			cut--
		}
		val = val[:cut]
	}
	s.ptr.Store(&val)
}

func (s *AtomicString) Load() string {
	if p := s.ptr.Load(); p != nil {
		return *p
	}
	return ""
}

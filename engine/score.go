package engine

import "sync/atomic"

// Score is the run's point accumulator, owned by the session
// Every write also publishes the total to the gauge, when one is attached
type Score struct {
	total atomic.Uint64
	gauge *atomic.Int64
}

// NewScore creates a score that mirrors its total into gauge
func NewScore(gauge *atomic.Int64) *Score {
	return &Score{gauge: gauge}
}

// Add increases the score and returns the new total
func (s *Score) Add(n uint64) uint64 {
	total := s.total.Add(n)
	s.publish(total)
	return total
}

func (s *Score) Value() uint64 {
	return s.total.Load()
}

// Reset zeroes the accumulator at the start of a run
func (s *Score) Reset() {
	s.total.Store(0)
	s.publish(0)
}

func (s *Score) publish(total uint64) {
	if s.gauge != nil {
		s.gauge.Store(int64(total))
	}
}

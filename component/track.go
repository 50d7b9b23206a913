package component

import "time"

// TrackStep is one timed command of a track
type TrackStep struct {
	At      time.Duration // Offset from track start
	Command string        // Console command line; ^ expands to the owner entity id
}

// TrackComponent runs console commands at fixed offsets after creation
type TrackComponent struct {
	Steps   []TrackStep // Sorted by At
	Elapsed time.Duration
	Next    int
	Loop    bool
}

// Done reports whether every step has fired and the track does not loop
func (t TrackComponent) Done() bool {
	return !t.Loop && t.Next >= len(t.Steps)
}

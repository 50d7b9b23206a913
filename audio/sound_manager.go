// Package audio synthesizes the game's short sound effects with beep.
package audio

import (
	"math"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog"
)

const (
	sampleRate = beep.SampleRate(48000)
)

// Sound names accepted by Play
const (
	SoundPop      = "pop"
	SoundDrop     = "drop"
	SoundGameOver = "gameover"
)

// Player plays named one-shot sounds
type Player interface {
	Play(name string)
}

// Silent discards every sound
type Silent struct{}

func (Silent) Play(string) {}

// SoundManager manages all game audio
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	log         zerolog.Logger
}

// NewSoundManager creates a new sound manager
func NewSoundManager(log zerolog.Logger) *SoundManager {
	return &SoundManager{
		mixer: &beep.Mixer{},
		log:   log.With().Str("component", "audio").Logger(),
	}
}

// Initialize sets up the audio system
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100))
	if err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup stops all sounds
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	// beep has no speaker close; clearing the mixer silences output
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	sm.initialized = false
}

// Play starts a named one-shot sound; unknown names and an uninitialized device are ignored
func (sm *SoundManager) Play(name string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	streamer, ok := NewStreamer(name)
	if !ok {
		sm.log.Debug().Str("sound", name).Msg("unknown sound")
		return
	}

	speaker.Lock()
	sm.mixer.Add(streamer)
	speaker.Unlock()
}

// NewStreamer builds the finite streamer for a named sound
func NewStreamer(name string) (beep.Streamer, bool) {
	switch strings.ToLower(name) {
	case SoundPop:
		return beep.Take(sampleRate.N(time.Millisecond*120), NewPopGenerator(sampleRate)), true
	case SoundDrop:
		return beep.Take(sampleRate.N(time.Millisecond*80), NewThudGenerator(sampleRate)), true
	case SoundGameOver:
		return beep.Take(sampleRate.N(time.Millisecond*900), NewFallGenerator(sampleRate)), true
	}
	return nil, false
}

// PopGenerator generates a short rising chirp for merges
type PopGenerator struct {
	sr  beep.SampleRate
	pos int
}

// NewPopGenerator creates a pop sound generator
func NewPopGenerator(sr beep.SampleRate) *PopGenerator {
	return &PopGenerator{sr: sr}
}

func (g *PopGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		// Sweep 400Hz upward with a fast exponential decay
		freq := 400 + 2400*t
		envelope := math.Exp(-t * 30)
		sample := 0.3 * envelope * math.Sin(2*math.Pi*freq*t)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *PopGenerator) Err() error {
	return nil
}

// ThudGenerator generates a low thud for drops
type ThudGenerator struct {
	sr  beep.SampleRate
	pos int
}

// NewThudGenerator creates a thud sound generator
func NewThudGenerator(sr beep.SampleRate) *ThudGenerator {
	return &ThudGenerator{sr: sr}
}

func (g *ThudGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		envelope := math.Exp(-t * 40)
		sample := 0.35 * envelope * math.Sin(2*math.Pi*90*t)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ThudGenerator) Err() error {
	return nil
}

// FallGenerator generates a descending three-step tone for game over
type FallGenerator struct {
	sr   beep.SampleRate
	pos  int
	step int
}

// NewFallGenerator creates a game-over sound generator
func NewFallGenerator(sr beep.SampleRate) *FallGenerator {
	return &FallGenerator{sr: sr, step: sr.N(time.Millisecond * 300)}
}

var fallTones = [3]float64{440, 330, 220}

func (g *FallGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		idx := min(g.pos/g.step, len(fallTones)-1)
		local := float64(g.pos%g.step) / float64(g.sr)

		// Square-ish tone: fundamental plus odd harmonic
		freq := fallTones[idx]
		sample := 0.2*math.Sin(2*math.Pi*freq*local) + 0.07*math.Sin(2*math.Pi*freq*3*local)
		sample *= math.Exp(-local * 4)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *FallGenerator) Err() error {
	return nil
}

package input

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/planet/config"
)

// keyBinding identifies a terminal key; r is set only for tcell.KeyRune
type keyBinding struct {
	key tcell.Key
	r   rune
}

var namedKeys = map[string]keyBinding{
	"left":      {key: tcell.KeyLeft},
	"right":     {key: tcell.KeyRight},
	"up":        {key: tcell.KeyUp},
	"down":      {key: tcell.KeyDown},
	"esc":       {key: tcell.KeyEscape},
	"escape":    {key: tcell.KeyEscape},
	"enter":     {key: tcell.KeyEnter},
	"tab":       {key: tcell.KeyTab},
	"backspace": {key: tcell.KeyBackspace2},
	"space":     {key: tcell.KeyRune, r: ' '},
}

// ParseKey resolves a key name from the [Input] section: a named key or a single character
func ParseKey(name string) (keyBinding, bool) {
	if b, ok := namedKeys[strings.ToLower(name)]; ok {
		return b, true
	}
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		return keyBinding{key: tcell.KeyRune, r: r}, true
	}
	return keyBinding{}, false
}

// Terminal maps tcell key events to named inputs
// Terminals report no key release, so an input stays active until its key
// has not repeated for the hold window
type Terminal struct {
	state    *State
	bindings map[keyBinding][]string
	hold     time.Duration
	lastSeen map[string]time.Time
	log      zerolog.Logger
}

// NewTerminal binds every key listed under the inputs of section
func NewTerminal(section config.Section, state *State, hold time.Duration, log zerolog.Logger) *Terminal {
	t := &Terminal{
		state:    state,
		bindings: make(map[keyBinding][]string),
		hold:     hold,
		lastSeen: make(map[string]time.Time),
		log:      log.With().Str("component", "input").Logger(),
	}

	for _, name := range section.Keys() {
		for _, k := range section.Strings(name) {
			b, ok := ParseKey(k)
			if !ok {
				t.log.Warn().Str("input", name).Str("key", k).Msg("unknown key name")
				continue
			}
			t.bindings[b] = append(t.bindings[b], name)
		}
	}
	return t
}

// HandleKey applies a key event; false when the key is not bound
func (t *Terminal) HandleKey(ev *tcell.EventKey, now time.Time) bool {
	b := keyBinding{key: ev.Key()}
	if b.key == tcell.KeyRune {
		b.r = ev.Rune()
	}

	names, ok := t.bindings[b]
	if !ok {
		return false
	}
	for _, name := range names {
		t.state.Press(name)
		t.lastSeen[name] = now
	}
	return true
}

// Tick releases inputs whose key has not been seen within the hold window
func (t *Terminal) Tick(now time.Time) {
	for name, seen := range t.lastSeen {
		if now.Sub(seen) > t.hold {
			t.state.Release(name)
			delete(t.lastSeen, name)
		}
	}
}

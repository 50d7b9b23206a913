package input

import (
	"slices"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/planet/config"
)

func TestStateEdges(t *testing.T) {
	s := NewState()

	s.Press("Drop")
	if !s.IsActive("drop") || !s.HasBeenActivated("DROP") {
		t.Fatal("Expected active input with activation edge")
	}

	s.EndFrame()
	s.Press("Drop")
	if s.HasBeenActivated("Drop") {
		t.Error("Held input must not produce a second edge")
	}
	if !s.IsActive("Drop") {
		t.Error("Expected input still active")
	}

	s.Release("Drop")
	s.Press("Drop")
	if !s.HasBeenActivated("Drop") {
		t.Error("Expected new edge after release")
	}
}

func TestStateValues(t *testing.T) {
	s := NewState()
	s.SetValue("Right", 0.5)
	s.Press("Left")

	if s.Value("Right") != 0.5 || s.Value("Left") != 1 {
		t.Errorf("Unexpected values right=%v left=%v", s.Value("Right"), s.Value("Left"))
	}
	if got := s.Active(); !slices.Equal(got, []string{"left", "right"}) {
		t.Errorf("Expected [left right], got %v", got)
	}
	if got := s.Activated(); !slices.Equal(got, []string{"left", "right"}) {
		t.Errorf("Expected [left right] edges, got %v", got)
	}

	s.SetValue("Right", 0)
	if s.IsActive("Right") {
		t.Error("Zero value must deactivate")
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		name string
		want keyBinding
		ok   bool
	}{
		{"Left", keyBinding{key: tcell.KeyLeft}, true},
		{"space", keyBinding{key: tcell.KeyRune, r: ' '}, true},
		{"a", keyBinding{key: tcell.KeyRune, r: 'a'}, true},
		{"F13x", keyBinding{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseKey(tt.name)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseKey(%q) = %+v %v, expected %+v %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

const inputCatalog = `
[Input]
Left = ["Left", "a"]
Drop = "Space"
Bogus = ["NotAKey"]
`

func TestTerminalHoldWindow(t *testing.T) {
	sec, _ := config.MustParseTOML(inputCatalog).Section("Input")
	s := NewState()
	term := NewTerminal(sec, s, 100*time.Millisecond, zerolog.Nop())

	start := time.Unix(0, 0)
	if !term.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), start) {
		t.Fatal("Expected 'a' to be bound")
	}
	if !s.IsActive("Left") {
		t.Fatal("Expected Left active")
	}

	term.Tick(start.Add(50 * time.Millisecond))
	if !s.IsActive("Left") {
		t.Error("Input released inside hold window")
	}

	term.Tick(start.Add(150 * time.Millisecond))
	if s.IsActive("Left") {
		t.Error("Input not released after hold window")
	}

	if !term.HandleKey(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), start) || !s.IsActive("Drop") {
		t.Error("Expected Space to activate Drop")
	}
	if term.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone), start) {
		t.Error("Unbound key reported as handled")
	}
}

package game

import (
	"context"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/planet/asset"
	"github.com/lixenwraith/planet/config"
	"github.com/lixenwraith/planet/parameter"
	"github.com/lixenwraith/planet/store"
	"github.com/lixenwraith/planet/vmath"
)

const mergeCatalog = `
[Game]
Gravity = 0

[Scene]
Children = ["Seed", "Seed"]
EventHandlerList = "SceneEvents"
Track = ["0.1 SendEvent Hello ^"]

[SceneEvents]
Hello = "AddScore 100"
Bonus = "AddScore 7"

[Seed]
Kind = "planet"
Shape = "circle"
Radius = 1
Position = [5, 5]
Next = "Big"

[Big]
Kind = "planet"
Shape = "circle"
Radius = 2
Score = 4
`

const hazardCatalog = `
[Game]
Hazard = "Lid"
Gravity = 0

[Scene]
Children = ["Lid", "Ball"]
EventHandlerList = "SceneEvents"

[SceneEvents]
GameOver = "EndRun hazard"

[Lid]
Shape = "box"
Static = true
Sensor = true
Size = [20, 2]

[Ball]
Kind = "planet"
Shape = "circle"
Radius = 1
EventHandlerList = "BallEvents"

[BallEvents]
GameOver = "SetLifeTime 0.1"
`

const responseCatalog = `
[Scene]
Glyph = " "

[Thing]
EventHandlerList = "ThingEvents"
Position = [3, 4]

[ThingEvents]
Kill = "Die"
Grow = "Spawn Puff"
Beep = "Play pop"
Fade = "SetLifeTime 2"
Bad = "SetLifeTime soon"
Note = "Log hello there"
Stop = "EndRun"
Bonus = "AddScore 5"
Echo = "SendEvent Echo"

[Puff]
LifeTime = 1
`

type playLog struct {
	sounds []string
}

func (p *playLog) Play(name string) {
	p.sounds = append(p.sounds, name)
}

func newTestSession(t *testing.T, src string, history *store.History) (*Session, *playLog) {
	t.Helper()
	player := &playLog{}
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s, err := NewSession(Options{
		Catalog: config.MustParseTOML(src),
		Player:  player,
		History: history,
		Now:     func() time.Time { return fixed },
		Log:     zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	t.Cleanup(s.Close)
	return s, player
}

func TestSessionMergeThroughPhysics(t *testing.T) {
	s, _ := newTestSession(t, mergeCatalog, nil)
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	s.Step(16 * time.Millisecond)

	var bigs int
	for _, e := range s.World.Entities() {
		if name, _ := s.World.ModelName(e); name == "Big" {
			bigs++
			// Seeds were pushed apart symmetrically before the merge
			if pos, _ := s.World.Position(e); math.Abs(pos.X-5) > 1e-9 || math.Abs(pos.Y-5) > 1e-9 {
				t.Errorf("Expected Big at (5,5), got %v", pos)
			}
		}
		if name, _ := s.World.ModelName(e); name == "Seed" {
			t.Error("Merged seeds should be removed by the end of the frame")
		}
	}
	if bigs != 1 {
		t.Fatalf("Expected one Big, got %d", bigs)
	}
	if s.Score.Value() != 4 {
		t.Errorf("Expected score 4, got %d", s.Score.Value())
	}

	// Scene track fires SendEvent at 0.1s
	s.Step(50 * time.Millisecond)
	s.Step(50 * time.Millisecond)
	if s.Score.Value() != 104 {
		t.Errorf("Expected track bonus applied, got %d", s.Score.Value())
	}
}

func TestSessionGameOver(t *testing.T) {
	history, err := store.Open("", zerolog.Nop())
	if err != nil {
		t.Fatalf("store.Open failed: %v", err)
	}
	defer history.Close()

	s, player := newTestSession(t, hazardCatalog, history)
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	for i := 0; i < 120; i++ {
		s.Step(16 * time.Millisecond)
	}
	if over, _ := s.Over(); over {
		t.Fatal("Run ended before the hazard threshold")
	}

	for i := 0; i < 20; i++ {
		s.Step(16 * time.Millisecond)
	}
	over, reason := s.Over()
	if !over || reason != "hazard" {
		t.Fatalf("Expected hazard game over, got %v %q", over, reason)
	}
	if state := s.Status.Strings.Get(StateKey).Load(); state != "over: hazard" {
		t.Errorf("Expected run state %q, got %q", "over: hazard", state)
	}
	if !slices.Contains(player.sounds, "gameover") {
		t.Errorf("Expected game over sound, got %v", player.sounds)
	}

	// The planet's own GameOver response fades it out
	for i := 0; i < 20; i++ {
		s.Step(16 * time.Millisecond)
	}
	for _, e := range s.World.Entities() {
		if name, _ := s.World.ModelName(e); name == "Ball" {
			t.Error("Expected ball removed by its GameOver response")
		}
	}

	s.Close()
	n, err := history.Count(context.Background())
	if err != nil || n != 1 {
		t.Fatalf("Expected exactly one recorded run, got %d (%v)", n, err)
	}
	best, _, _ := history.Best(context.Background())
	if best.Reason != "hazard" {
		t.Errorf("Expected recorded reason hazard, got %q", best.Reason)
	}
}

func TestSessionConsole(t *testing.T) {
	s, _ := newTestSession(t, mergeCatalog, nil)
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if n, err := s.Console.Exec("SendEvent Bonus"); err != nil || n != 1 {
		t.Fatalf("Expected one delivery, got %v %v", n, err)
	}
	if _, err := s.Console.Exec("SendEvent Bonus " + s.Scene().String()); err != nil {
		t.Fatalf("Targeted SendEvent failed: %v", err)
	}
	score, err := s.Console.Exec("Score")
	if err != nil || score != uint64(14) {
		t.Errorf("Expected score 14, got %v %v", score, err)
	}
}

func TestSessionResponses(t *testing.T) {
	s, player := newTestSession(t, responseCatalog, nil)
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	thing := s.Factory.Create("Thing")
	s.World.Flush()

	s.Events.Send("Beep")
	if !slices.Equal(player.sounds, []string{"pop"}) {
		t.Errorf("Expected pop, got %v", player.sounds)
	}

	s.Events.Send("Fade")
	if s.World.LifeTime(thing) != 2*time.Second {
		t.Errorf("Expected 2s life-time, got %v", s.World.LifeTime(thing))
	}
	s.Events.Send("Bad")
	if s.World.LifeTime(thing) != 2*time.Second {
		t.Error("Malformed SetLifeTime must not change life-time")
	}

	before := s.World.EntityCount()
	s.Events.Send("Grow")
	if s.World.EntityCount() != before+1 {
		t.Errorf("Expected Spawn to add an entity")
	}
	last := s.World.Entities()[s.World.EntityCount()-1]
	if pos, _ := s.World.Position(last); pos != (vmath.Vec2{X: 3, Y: 4}) {
		t.Errorf("Expected spawn at self position, got %v", pos)
	}

	s.Events.Send("Note")
	s.Events.Send("Kill")
	if s.World.LifeTime(thing) != 0 {
		t.Error("Expected Die to zero the life-time")
	}

	s.Events.Send("Stop")
	if over, reason := s.Over(); !over || reason != "event" {
		t.Errorf("Expected run ended by event, got %v %q", over, reason)
	}
}

func TestSessionDefaultCatalog(t *testing.T) {
	s, err := NewSession(Options{Catalog: config.MustParseTOML(asset.DefaultCatalog), Log: zerolog.Nop()})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	defer s.Close()

	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	s.Step(16 * time.Millisecond)

	droppers := s.World.Droppers.All()
	if len(droppers) != 1 {
		t.Fatalf("Expected one dropper, got %d", len(droppers))
	}
	d, _ := s.World.Droppers.Get(droppers[0])
	if _, holding := d.Holding(); !holding {
		t.Fatal("Expected a held placeholder after the first frame")
	}

	s.Input.Press("Drop")
	s.Step(16 * time.Millisecond)
	d, _ = s.World.Droppers.Get(droppers[0])
	if _, holding := d.Holding(); holding {
		t.Error("Expected placeholder dropped")
	}

	simulated := 0
	for _, e := range s.World.Planets.All() {
		if b, _ := s.World.Bodies.Get(e); b.Simulated {
			simulated++
		}
	}
	if simulated != 1 {
		t.Errorf("Expected one falling planet, got %d", simulated)
	}
}

func TestSessionCloseIdempotent(t *testing.T) {
	history, err := store.Open("", zerolog.Nop())
	if err != nil {
		t.Fatalf("store.Open failed: %v", err)
	}
	defer history.Close()

	s, _ := newTestSession(t, mergeCatalog, history)
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	s.Close()
	s.Close()

	if s.World.EntityCount() != 0 {
		t.Errorf("Expected empty world, got %d", s.World.EntityCount())
	}
	if len(s.Events.Events()) != 0 {
		t.Errorf("Expected empty subscription table, got %v", s.Events.Events())
	}
	if over, reason := s.Over(); !over || reason != "quit" {
		t.Errorf("Expected quit, got %v %q", over, reason)
	}
	if n, _ := history.Count(context.Background()); n != 1 {
		t.Errorf("Expected one recorded run, got %d", n)
	}
}

func TestSessionRequiresScene(t *testing.T) {
	s, _ := newTestSession(t, "[Other]\nA = 1\n", nil)
	if err := s.Start(); err != ErrNoScene {
		t.Errorf("Expected ErrNoScene, got %v", err)
	}
}

func TestScriptedScoreUpdatesGauge(t *testing.T) {
	s, _ := newTestSession(t, responseCatalog, nil)
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if state := s.Status.Strings.Get(StateKey).Load(); state != StateRunning {
		t.Errorf("Expected run state %q, got %q", StateRunning, state)
	}
	s.Factory.Create("Thing")
	s.World.Flush()

	s.Events.Send("Bonus")
	s.Events.Send("Bonus")
	if s.Score.Value() != 10 {
		t.Errorf("Expected score 10, got %d", s.Score.Value())
	}
	if got := s.Status.Ints.Get("score").Load(); got != 10 {
		t.Errorf("Expected score gauge 10, got %d", got)
	}
}

func TestSelfForwardingEventTerminates(t *testing.T) {
	s, _ := newTestSession(t, responseCatalog, nil)
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	s.Factory.Create("Thing")
	s.World.Flush()

	if n := s.Events.Send("Echo"); n != 1 {
		t.Errorf("Expected 1 subscriber reached, got %d", n)
	}
	// The outer Send plus nested forwards up to the limit
	if got := s.Status.Ints.Get("event.delivered").Load(); got != parameter.MaxEventDepth {
		t.Errorf("Expected %d deliveries, got %d", parameter.MaxEventDepth, got)
	}
	if got := s.Status.Ints.Get("event.dropped").Load(); got != 1 {
		t.Errorf("Expected 1 dropped send, got %d", got)
	}
}

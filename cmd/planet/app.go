package main

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/planet/audio"
	"github.com/lixenwraith/planet/config"
	"github.com/lixenwraith/planet/core"
	"github.com/lixenwraith/planet/game"
	"github.com/lixenwraith/planet/input"
	"github.com/lixenwraith/planet/parameter"
	"github.com/lixenwraith/planet/status"
	"github.com/lixenwraith/planet/store"
)

var errQuit = errors.New("quit")

// app drives one terminal: it owns the current session and swaps it on restart
type app struct {
	screen  tcell.Screen
	catalog *config.Catalog
	player  audio.Player
	history *store.History
	status  *status.Registry
	log     zerolog.Logger

	session *game.Session
	keys    *input.Terminal
	best    uint64
}

func newApp(screen tcell.Screen, catalog *config.Catalog, player audio.Player, history *store.History, log zerolog.Logger) *app {
	return &app{
		screen:  screen,
		catalog: catalog,
		player:  player,
		history: history,
		status:  status.NewRegistry(),
		log:     log.With().Str("component", "app").Logger(),
	}
}

// restart closes the running session, if any, and starts a fresh one
func (a *app) restart() error {
	if a.session != nil {
		a.session.Close()
		a.status.Reset()
	}

	s, err := game.NewSession(game.Options{
		Catalog: a.catalog,
		Player:  a.player,
		History: a.history,
		Status:  a.status,
		Rand:    rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		Log:     a.log,
	})
	if err != nil {
		return err
	}
	if err := s.Start(); err != nil {
		return err
	}

	inputSec, _ := a.catalog.Section(parameter.SectionInput)
	a.session = s
	a.keys = input.NewTerminal(inputSec, s.Input, parameter.KeyHoldWindow, a.log)
	a.refreshBest()
	return nil
}

func (a *app) refreshBest() {
	if a.history == nil {
		return
	}
	run, ok, err := a.history.Best(context.Background())
	if err != nil {
		a.log.Warn().Err(err).Msg("failed to read best run")
		return
	}
	if ok {
		a.best = run.Score
	}
}

// handleKey routes a key to the session; errQuit ends the loop
func (a *app) handleKey(ev *tcell.EventKey, now time.Time) error {
	if ev.Key() == tcell.KeyCtrlC {
		return errQuit
	}
	if over, _ := a.session.Over(); over && ev.Key() == tcell.KeyRune && ev.Rune() == 'r' {
		return a.restart()
	}
	a.keys.HandleKey(ev, now)
	return nil
}

// tick advances one frame; errQuit once the quit input is held
func (a *app) tick(now time.Time, dt time.Duration) error {
	a.keys.Tick(now)
	if a.session.Input.IsActive(parameter.InputQuit) {
		return errQuit
	}

	wasOver, _ := a.session.Over()
	a.session.Step(dt)
	if over, _ := a.session.Over(); over && !wasOver {
		a.refreshBest()
	}
	return nil
}

func (a *app) run() error {
	if err := a.restart(); err != nil {
		return err
	}
	defer func() { a.session.Close() }()

	events := make(chan tcell.Event, 16)
	core.Go(func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	})

	frameTicker := time.NewTicker(parameter.FrameUpdateInterval)
	defer frameTicker.Stop()
	last := time.Now()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if err := a.handleKey(ev, time.Now()); err != nil {
					return ignoreQuit(err)
				}
			case *tcell.EventResize:
				a.screen.Sync()
			}

		case now := <-frameTicker.C:
			dt := now.Sub(last)
			last = now
			if err := a.tick(now, dt); err != nil {
				return ignoreQuit(err)
			}
			draw(a.screen, a.session, a.best)
		}
	}
}

func ignoreQuit(err error) error {
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

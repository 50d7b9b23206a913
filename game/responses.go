package game

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lixenwraith/planet/engine"
	"github.com/lixenwraith/planet/event"
)

// registerResponses exposes the built-in responses to handler sections
func (s *Session) registerResponses() {
	s.Events.Register("Die", s.respondDie)
	s.Events.Register("SetLifeTime", s.respondSetLifeTime)
	s.Events.Register("AddScore", s.respondAddScore)
	s.Events.Register("SendEvent", s.respondSendEvent)
	s.Events.Register("Spawn", s.respondSpawn)
	s.Events.Register("Play", s.respondPlay)
	s.Events.Register("Log", s.respondLog)
	s.Events.Register("EndRun", s.respondEndRun)
}

func needArgs(c event.Call, n int) error {
	if len(c.Args) < n {
		return fmt.Errorf("%s: %s expects %d argument(s)", c.Section, c.Event, n)
	}
	return nil
}

func (s *Session) respondDie(c event.Call) error {
	s.World.SetLifeTime(c.Self, 0)
	return nil
}

func (s *Session) respondSetLifeTime(c event.Call) error {
	if err := needArgs(c, 1); err != nil {
		return err
	}
	seconds, err := strconv.ParseFloat(c.Args[0], 64)
	if err != nil || seconds < 0 {
		return fmt.Errorf("SetLifeTime: invalid seconds %q", c.Args[0])
	}
	s.World.SetLifeTime(c.Self, time.Duration(seconds*float64(time.Second)))
	return nil
}

func (s *Session) respondAddScore(c event.Call) error {
	if err := needArgs(c, 1); err != nil {
		return err
	}
	n, err := strconv.ParseUint(c.Args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("AddScore: %w", err)
	}
	s.Score.Add(n)
	return nil
}

func (s *Session) respondSendEvent(c event.Call) error {
	if err := needArgs(c, 1); err != nil {
		return err
	}
	s.Events.Send(c.Args[0])
	return nil
}

func (s *Session) respondSpawn(c event.Call) error {
	if err := needArgs(c, 1); err != nil {
		return err
	}
	pos, _ := s.World.Position(c.Self)
	if s.Factory.Create(c.Args[0], engine.At(pos)) == 0 {
		return fmt.Errorf("Spawn: no section %q", c.Args[0])
	}
	return nil
}

func (s *Session) respondPlay(c event.Call) error {
	if err := needArgs(c, 1); err != nil {
		return err
	}
	s.player.Play(c.Args[0])
	return nil
}

func (s *Session) respondLog(c event.Call) error {
	s.log.Info().Stringer("entity", c.Self).Str("event", c.Event).Msg(strings.Join(c.Args, " "))
	return nil
}

func (s *Session) respondEndRun(c event.Call) error {
	reason := "event"
	if len(c.Args) > 0 {
		reason = strings.Join(c.Args, " ")
	}
	s.End(reason)
	return nil
}

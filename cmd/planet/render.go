package main

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/planet/component"
	"github.com/lixenwraith/planet/core"
	"github.com/lixenwraith/planet/engine"
	"github.com/lixenwraith/planet/game"
)

// Terminal cells are about twice as tall as wide
const (
	cellsPerUnitX = 2.0
	cellsPerUnitY = 1.0
	hudRows       = 2
	maxHUDMetrics = 6
)

var (
	styleDefault = tcell.StyleDefault
	styleStatic  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleHeld    = tcell.StyleDefault.Foreground(tcell.ColorYellow).Dim(true)
	stylePlanet  = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleHUD     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleOverlay = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

// toCell maps a world position to a screen cell below the HUD
func toCell(p float64, scale float64, offset int) int {
	return int(math.Floor(p*scale)) + offset
}

func draw(screen tcell.Screen, s *game.Session, best uint64) {
	screen.Clear()
	drawWorld(screen, s.World)
	drawHUD(screen, s, best)
	if over, reason := s.Over(); over {
		drawOverlay(screen, reason)
	}
	screen.Show()
}

// drawWorld renders every glyph-bearing body; boxes fill their extent, circles their disk
func drawWorld(screen tcell.Screen, w *engine.World) {
	for _, e := range w.Entities() {
		obj, ok := w.Objects.Get(e)
		if !ok || obj.Glyph == 0 {
			continue
		}
		body, ok := w.Bodies.Get(e)
		if !ok {
			continue
		}

		style := styleDefault
		switch {
		case body.Static:
			style = styleStatic
		case !body.Simulated:
			style = styleHeld
		case obj.Kind == core.KindPlanet:
			style = stylePlanet
		}

		switch body.Shape {
		case component.ShapeBox:
			x0 := toCell(body.Position.X-body.HalfSize.X, cellsPerUnitX, 0)
			x1 := toCell(body.Position.X+body.HalfSize.X, cellsPerUnitX, 0)
			y0 := toCell(body.Position.Y-body.HalfSize.Y, cellsPerUnitY, hudRows)
			y1 := toCell(body.Position.Y+body.HalfSize.Y, cellsPerUnitY, hudRows)
			for y := y0; y < max(y1, y0+1); y++ {
				for x := x0; x < max(x1, x0+1); x++ {
					screen.SetContent(x, y, obj.Glyph, nil, style)
				}
			}
		case component.ShapeCircle:
			drawDisk(screen, body.Position.X, body.Position.Y, body.Radius, obj.Glyph, style)
		default:
			screen.SetContent(toCell(body.Position.X, cellsPerUnitX, 0), toCell(body.Position.Y, cellsPerUnitY, hudRows), obj.Glyph, nil, style)
		}
	}
}

func drawDisk(screen tcell.Screen, cx, cy, r float64, glyph rune, style tcell.Style) {
	x0 := toCell(cx-r, cellsPerUnitX, 0)
	x1 := toCell(cx+r, cellsPerUnitX, 0)
	y0 := toCell(cy-r, cellsPerUnitY, hudRows)
	y1 := toCell(cy+r, cellsPerUnitY, hudRows)

	drawn := false
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			// Cell center back in world units
			wx := (float64(x)+0.5)/cellsPerUnitX - cx
			wy := (float64(y-hudRows)+0.5)/cellsPerUnitY - cy
			if wx*wx+wy*wy <= r*r {
				screen.SetContent(x, y, glyph, nil, style)
				drawn = true
			}
		}
	}
	if !drawn {
		screen.SetContent(toCell(cx, cellsPerUnitX, 0), toCell(cy, cellsPerUnitY, hudRows), glyph, nil, style)
	}
}

func drawHUD(screen tcell.Screen, s *game.Session, best uint64) {
	state := s.Status.Strings.Get(game.StateKey).Load()
	drawText(screen, 0, 0, fmt.Sprintf("SCORE %d   BEST %d   %s", s.Score.Value(), max(best, s.Score.Value()), state), styleHUD)

	x := 0
	for i, m := range s.Status.Snapshot() {
		if i >= maxHUDMetrics {
			break
		}
		x = drawText(screen, x, 1, fmt.Sprintf("%s=%s ", m.Key, m.Value), styleDefault)
	}
}

func drawOverlay(screen tcell.Screen, reason string) {
	w, h := screen.Size()
	lines := []string{
		"GAME OVER (" + reason + ")",
		"r: restart   q/esc: quit",
	}
	for i, line := range lines {
		drawText(screen, (w-len(line))/2, h/2-1+i, line, styleOverlay)
	}
}

// drawText writes s left to right and returns the column after it
func drawText(screen tcell.Screen, x, y int, s string, style tcell.Style) int {
	for _, r := range s {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}

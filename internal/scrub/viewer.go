// Package scrub is an interactive terminal view for stepping a rig frame by frame.
package scrub

import (
	"context"
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/ivlev/camrigs/internal/rig"
)

const pathPoints = 160

var (
	stylePath   = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleCamera = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleTarget = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleText   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

// Viewer draws a top-down view of the rig with the camera at the current frame.
type Viewer struct {
	Evaluator rig.Evaluator
	Period    float64    // Loop length in frames; 0 for static rigs
	Target    mgl64.Vec3 // Centre of the view
	Title     string
	Screen    tcell.Screen
	Frame     float64
}

// HandleEvent applies one input event and reports whether the viewer should exit.
//
//	left/right  -1/+1 frame     up/down  +10/-10 frames
//	home        frame 0         end      last frame of the loop
//	q, esc      quit
func (v *Viewer) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.Screen.Sync()
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyRight:
			v.Frame++
		case tcell.KeyLeft:
			v.Frame--
		case tcell.KeyUp:
			v.Frame += 10
		case tcell.KeyDown:
			v.Frame -= 10
		case tcell.KeyHome:
			v.Frame = 0
		case tcell.KeyEnd:
			if v.Period > 0 {
				v.Frame = math.Ceil(v.Period) - 1
			}
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				return true
			case 'l':
				v.Frame++
			case 'h':
				v.Frame--
			}
		}
	}
	return false
}

// Run draws and handles input until the user quits or ctx is cancelled.
// The screen must already be initialised; Run does not call Fini.
func (v *Viewer) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		v.Screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	for {
		v.Draw()
		ev := v.Screen.PollEvent()
		if ev == nil {
			return nil
		}
		if _, ok := ev.(*tcell.EventInterrupt); ok && ctx.Err() != nil {
			return ctx.Err()
		}
		if v.HandleEvent(ev) {
			return nil
		}
	}
}

// Draw renders the current frame.
func (v *Viewer) Draw() {
	s := v.Screen
	s.Clear()
	w, h := s.Size()
	if w < 20 || h < 8 {
		putString(s, 0, 0, "terminal too small", styleText)
		s.Show()
		return
	}

	pose := v.Evaluator.Evaluate(v.Frame)
	grid := newGrid(w, h-4, v.Target, v.extent(pose))

	if v.Period > 0 {
		for i := 0; i < pathPoints; i++ {
			p := v.Evaluator.Evaluate(v.Period * float64(i) / pathPoints)
			if x, y, ok := grid.cell(p.Position); ok {
				s.SetContent(x, y+2, '·', nil, stylePath)
			}
		}
	}

	if x, y, ok := grid.cell(v.Target); ok {
		s.SetContent(x, y+2, '+', nil, styleTarget)
	}
	if x, y, ok := grid.cell(pose.Position); ok {
		s.SetContent(x, y+2, '@', nil, styleCamera)
		if dx, dy := arrowStep(pose.Forward); dx != 0 || dy != 0 {
			if grid.inside(x+dx, y+dy) {
				s.SetContent(x+dx, y+dy+2, arrowRune(dx, dy), nil, styleCamera)
			}
		}
	}

	title := v.Title
	if title == "" {
		title = "camrigs"
	}
	header := fmt.Sprintf("%s  frame %.1f", title, v.Frame)
	if v.Period > 0 {
		header += fmt.Sprintf(" / %.1f", v.Period)
	}
	putString(s, 0, 0, header, styleText)
	putString(s, 0, h-2, fmt.Sprintf("pos (%.3f, %.3f, %.3f)  fwd (%.3f, %.3f, %.3f)  f=%.1fmm",
		pose.Position[0], pose.Position[1], pose.Position[2],
		pose.Forward[0], pose.Forward[1], pose.Forward[2], pose.FocalLength), styleText)
	putString(s, 0, h-1, "←/→ frame  ↑/↓ ±10  home/end  q quit", styleText)
	s.Show()
}

// extent is the half-width of the world area shown, in metres
func (v *Viewer) extent(pose rig.Pose) float64 {
	ext := horizontal(pose.Position.Sub(v.Target))
	if v.Period > 0 {
		for i := 0; i < pathPoints; i += 8 {
			p := v.Evaluator.Evaluate(v.Period * float64(i) / pathPoints)
			ext = math.Max(ext, horizontal(p.Position.Sub(v.Target)))
		}
	}
	if ext < 1e-6 {
		ext = 1
	}
	return ext * 1.1
}

func horizontal(d mgl64.Vec3) float64 {
	return math.Hypot(d.X(), d.Y())
}

// grid maps world XY onto terminal cells, which are about twice as tall as wide
type grid struct {
	w, h   int
	centre mgl64.Vec3
	sx, sy float64
}

func newGrid(w, h int, centre mgl64.Vec3, extent float64) grid {
	sy := float64(h/2-1) / extent
	sx := 2 * sy
	if maxX := float64(w/2-1) / extent; sx > maxX {
		sx = maxX
		sy = sx / 2
	}
	return grid{w: w, h: h, centre: centre, sx: sx, sy: sy}
}

func (g grid) cell(p mgl64.Vec3) (int, int, bool) {
	x := int(math.Round(float64(g.w/2) + (p.X()-g.centre.X())*g.sx))
	y := int(math.Round(float64(g.h/2) - (p.Y()-g.centre.Y())*g.sy))
	return x, y, g.inside(x, y)
}

func (g grid) inside(x, y int) bool {
	return x >= 0 && x < g.w && y >= 0 && y < g.h
}

// arrowStep is the neighbouring cell in the view direction, Y pointing up
func arrowStep(forward mgl64.Vec3) (int, int) {
	if horizontal(forward) < 1e-6 {
		return 0, 0
	}
	a := math.Atan2(forward.Y(), forward.X())
	octant := int(math.Round(a/(math.Pi/4))+8) % 8
	steps := [8][2]int{{1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}, {0, 1}, {1, 1}}
	return steps[octant][0], steps[octant][1]
}

func arrowRune(dx, dy int) rune {
	switch {
	case dy == 0 && dx > 0:
		return '→'
	case dy == 0:
		return '←'
	case dx == 0 && dy < 0:
		return '↑'
	case dx == 0:
		return '↓'
	case dx > 0 && dy < 0:
		return '↗'
	case dx < 0 && dy < 0:
		return '↖'
	case dx < 0:
		return '↙'
	}
	return '↘'
}

func putString(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

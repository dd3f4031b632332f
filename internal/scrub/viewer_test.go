package scrub

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/camrigs/internal/orbit"
	"github.com/ivlev/camrigs/internal/rig"
)

func newViewer(t *testing.T) (*Viewer, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)

	o, err := orbit.New(orbit.DefaultConfig())
	require.NoError(t, err)

	return &Viewer{Evaluator: o, Period: o.Period(), Title: "orbit", Screen: screen}, screen
}

func row(s tcell.Screen, y int) string {
	w, _ := s.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.GetContent(x, y)
		b.WriteRune(r)
	}
	return b.String()
}

func find(s tcell.Screen, want rune) (int, int, bool) {
	w, h := s.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if r, _, _, _ := s.GetContent(x, y); r == want {
				return x, y, true
			}
		}
	}
	return 0, 0, false
}

func TestHandleEvent(t *testing.T) {
	v, _ := newViewer(t)

	keys := []struct {
		ev   *tcell.EventKey
		want float64
	}{
		{tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), 1},
		{tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), 11},
		{tcell.NewEventKey(tcell.KeyRune, 'h', tcell.ModNone), 10},
		{tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), 0},
		{tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), -1},
		{tcell.NewEventKey(tcell.KeyEnd, 0, tcell.ModNone), 239},
		{tcell.NewEventKey(tcell.KeyHome, 0, tcell.ModNone), 0},
	}
	for _, k := range keys {
		assert.False(t, v.HandleEvent(k.ev))
		assert.Equal(t, k.want, v.Frame)
	}

	assert.True(t, v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.True(t, v.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
}

func TestDrawPlacesCameraAroundTarget(t *testing.T) {
	v, screen := newViewer(t)

	v.Draw()
	assert.Contains(t, row(screen, 0), "orbit  frame 0.0 / 240.0")
	assert.Contains(t, row(screen, 22), "pos (3.000, 0.000, 1.500)")

	tx, ty, ok := find(screen, '+')
	require.True(t, ok, "target not drawn")
	cx, cy, ok := find(screen, '@')
	require.True(t, ok, "camera not drawn")
	assert.Greater(t, cx, tx, "frame 0 camera sits on +X")
	assert.Equal(t, ty, cy)

	// Camera looks back at the target
	r, _, _, _ := screen.GetContent(cx-1, cy)
	assert.Equal(t, '←', r)

	// A quarter turn later the camera is above the target on screen
	v.Frame = 60
	v.Draw()
	cx, cy, ok = find(screen, '@')
	require.True(t, ok)
	assert.Less(t, cy, ty)
	assert.InDelta(t, tx, cx, 1)
}

func TestDrawStaticRig(t *testing.T) {
	v, screen := newViewer(t)
	v.Period = 0
	v.Evaluator = fixed{}
	v.Draw()

	_, _, ok := find(screen, '·')
	assert.False(t, ok, "static rigs have no path")
	_, _, ok = find(screen, '@')
	assert.True(t, ok)
}

func TestRunQuitsOnKey(t *testing.T) {
	v, screen := newViewer(t)

	go func() {
		screen.InjectKey(tcell.KeyRight, 0, tcell.ModNone)
		screen.InjectKey(tcell.KeyRight, 0, tcell.ModNone)
		screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	}()

	require.NoError(t, v.Run(context.Background()))
	assert.Equal(t, 2.0, v.Frame)
}

func TestRunStopsOnCancel(t *testing.T) {
	v, _ := newViewer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, v.Run(ctx), context.DeadlineExceeded)
}

type fixed struct{}

func (fixed) Evaluate(float64) (p rig.Pose) {
	p.Position = mgl64.Vec3{2, 0, 1}
	p.Forward = mgl64.Vec3{-1, 0, 0}
	return p
}

package rig

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestDirection(t *testing.T) {
	d := Direction(mgl64.Vec3{3, 0, 0}, mgl64.Vec3{0, 0, 0})
	assert.InDelta(t, -1, d.X(), 1e-12)
	assert.InDelta(t, 1, d.Len(), 1e-12)

	assert.Equal(t, DefaultForward, Direction(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{1, 2, 3}))
}

func TestLookRotation(t *testing.T) {
	forwards := []mgl64.Vec3{
		{1, 0, 0},
		{0, 1, 0},
		{-0.5, 0.5, -0.7},
		{0, 0, -1}, // straight down
		{0, 0, 1},  // straight up
	}

	for _, f := range forwards {
		q := LookRotation(f)
		got := LocalForward(q)
		want := f.Normalize()
		for i := 0; i < 3; i++ {
			assert.InDelta(t, want[i], got[i], 1e-9, "forward %v axis %d", f, i)
		}
	}

	// Level cameras keep their local +Y pointing at the sky
	q := LookRotation(mgl64.Vec3{1, 1, 0})
	up := q.Rotate(mgl64.Vec3{0, 1, 0})
	assert.InDelta(t, 1, up.Z(), 1e-9)

	assert.Equal(t, mgl64.QuatIdent(), LookRotation(mgl64.Vec3{}))
}

func TestFieldOfView(t *testing.T) {
	// 18mm on a 36mm sensor is exactly 90 degrees
	assert.InDelta(t, math.Pi/2, FieldOfView(18, DefaultSensorWidth), 1e-12)
	assert.Zero(t, FieldOfView(0, DefaultSensorWidth))
}

func TestConfigError(t *testing.T) {
	err := error(NewConfigError("orbit", "radius", -1.0, "must be > 0"))
	assert.True(t, IsConfigError(err))
	assert.Equal(t, "invalid orbit config: radius = -1 (must be > 0)", err.Error())
	assert.False(t, Finite(1, math.NaN()))
	assert.True(t, Finite(1, -2, 0))
}

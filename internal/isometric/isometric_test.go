package isometric

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/camrigs/internal/rig"
)

func assertVec(t *testing.T, want, got mgl64.Vec3, delta float64, msg string) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], delta, msg)
	}
}

func TestProjectionForward(t *testing.T) {
	inv := 1 / math.Sqrt(3)
	tests := []struct {
		proj    Projection
		forward mgl64.Vec3
	}{
		{TrueIsometric, mgl64.Vec3{-inv, inv, -inv}},
		{Military, mgl64.Vec3{0, 0, -1}},
		{Cavalier, mgl64.Vec3{-math.Sqrt2 / 2, math.Sqrt2 / 2, 0}},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.Projection = tt.proj
		cam, err := New(cfg)
		require.NoError(t, err)
		assertVec(t, tt.forward, cam.Evaluate(0).Forward, 1e-4, tt.proj.String())
	}
}

func TestDepressionMatchesTilt(t *testing.T) {
	for _, p := range Projections() {
		cfg := DefaultConfig()
		cfg.Projection = p
		cam, err := New(cfg)
		require.NoError(t, err)

		f := cam.Evaluate(0).Forward
		depression := rig.ToDegrees(math.Asin(-f.Z()))
		assert.InDelta(t, cam.Angles().Tilt, depression, 1e-6, p.String())
		assert.InDelta(t, 1, f.Len(), 1e-9, p.String())
		assert.Equal(t, 0.0, cam.Evaluate(0).FocalLength)
	}
}

func TestCustomAnglesAndDistance(t *testing.T) {
	cfg := Config{
		Projection:      Custom,
		OrthoScale:      4,
		CustomRotationZ: 0,
		CustomTiltX:     0,
		Target:          mgl64.Vec3{1, 1, 0},
		Distance:        5,
	}
	cam, err := New(cfg)
	require.NoError(t, err)

	pose := cam.Evaluate(17)
	assertVec(t, mgl64.Vec3{0, 1, 0}, pose.Forward, 1e-9, "forward")
	assertVec(t, mgl64.Vec3{1, -4, 0}, pose.Position, 1e-9, "position")
	assert.Equal(t, 4.0, cam.OrthoScale())
	assert.Equal(t, pose, cam.Evaluate(-3))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*Config)
		field string
	}{
		{"zero ortho", func(c *Config) { c.OrthoScale = 0 }, "ortho_scale"},
		{"rotation range", func(c *Config) { c.CustomRotationZ = 181 }, "custom_rotation_z"},
		{"tilt range", func(c *Config) { c.CustomTiltX = -91 }, "custom_tilt_x"},
		{"roll range", func(c *Config) { c.CustomRollY = 200 }, "custom_roll_y"},
		{"negative distance", func(c *Config) { c.Distance = -1 }, "distance"},
		{"projection", func(c *Config) { c.Projection = Projection(12) }, "projection"},
		{"nan", func(c *Config) { c.OrthoScale = math.NaN() }, "values"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mod(&cfg)
			_, err := New(cfg)
			var ce *rig.ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestParseProjection(t *testing.T) {
	p, err := ParseProjection("game-2-1")
	require.NoError(t, err)
	assert.Equal(t, Game21, p)

	var q Projection
	require.NoError(t, q.UnmarshalText([]byte("military")))
	assert.Equal(t, Military, q)

	_, err = ParseProjection("oblique")
	assert.Error(t, err)

	_, ok := Custom.PresetAngles()
	assert.False(t, ok)
	assert.Equal(t, 6, int(Custom))
}

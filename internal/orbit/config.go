package orbit

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/ivlev/camrigs/internal/rig"
)

const rigName = "orbit"

// Config holds the user-facing orbit parameters.
type Config struct {
	Radius           float64    `yaml:"radius" toml:"radius"`                         // Distance from the target in the horizontal plane
	Height           float64    `yaml:"height" toml:"height"`                         // Camera elevation relative to the target
	FocalLength      float64    `yaml:"focal_length" toml:"focal_length"`             // Millimetres
	DurationFrames   int        `yaml:"duration" toml:"duration"`                     // Frames per full loop
	SpeedMultiplier  float64    `yaml:"speed_multiplier" toml:"speed_multiplier"`     // Scales the frame counter
	Reverse          bool       `yaml:"reverse" toml:"reverse"`                       // Orbit clockwise
	Easing           Easing     `yaml:"easing" toml:"easing"`                         // Pacing curve
	StartAngleOffset float64    `yaml:"start_angle_offset" toml:"start_angle_offset"` // Degrees
	Target           mgl64.Vec3 `yaml:"target" toml:"target"`                         // Point the camera looks at; origin when unbound
}

// Validate checks every field against its domain. Values are never clamped.
func (c Config) Validate() error {
	if !rig.Finite(c.Radius, c.Height, c.FocalLength, c.SpeedMultiplier, c.StartAngleOffset,
		c.Target[0], c.Target[1], c.Target[2]) {
		return rig.NewConfigError(rigName, "values", c, "must be finite")
	}
	if c.Radius <= 0 {
		return rig.NewConfigError(rigName, "radius", c.Radius, "must be > 0")
	}
	if c.FocalLength <= 0 {
		return rig.NewConfigError(rigName, "focal_length", c.FocalLength, "must be > 0")
	}
	if c.DurationFrames <= 0 {
		return rig.NewConfigError(rigName, "duration", c.DurationFrames, "must be > 0")
	}
	if c.SpeedMultiplier <= 0 {
		return rig.NewConfigError(rigName, "speed_multiplier", c.SpeedMultiplier, "must be > 0")
	}
	if !c.Easing.Valid() {
		return rig.NewConfigError(rigName, "easing", int(c.Easing), "unknown easing mode")
	}
	return nil
}

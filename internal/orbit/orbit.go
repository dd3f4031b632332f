package orbit

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ivlev/camrigs/internal/rig"
)

// Orbit is a validated orbit configuration. It holds no mutable state, so a
// single Orbit may be evaluated from any number of goroutines.
type Orbit struct {
	cfg      Config
	duration float64
	offset   float64 // start angle in radians
}

// New validates cfg and returns an Orbit ready for evaluation.
func New(cfg Config) (*Orbit, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Orbit{
		cfg:      cfg,
		duration: float64(cfg.DurationFrames),
		offset:   rig.ToRadians(cfg.StartAngleOffset),
	}, nil
}

// Config returns a copy of the configuration the orbit was built from.
func (o *Orbit) Config() Config {
	return o.cfg
}

// Period is the number of frames after which the pose repeats.
func (o *Orbit) Period() float64 {
	return o.duration / o.cfg.SpeedMultiplier
}

// Progress returns the loop position of frame in [0, 1], after direction
// reversal and before easing.
func (o *Orbit) Progress(frame float64) float64 {
	r := math.Mod(frame*o.cfg.SpeedMultiplier, o.duration)
	if r < 0 {
		r += o.duration
	}
	if r >= o.duration {
		// A tiny negative remainder can round up to the full duration
		r = 0
	}

	t := r / o.duration
	if o.cfg.Reverse {
		t = 1 - t
	}
	return t
}

// EasedProgress is Progress passed through the configured easing curve.
func (o *Orbit) EasedProgress(frame float64) float64 {
	return Ease(o.cfg.Easing, o.Progress(frame))
}

// Angle returns the orbit angle in radians around the target at frame.
func (o *Orbit) Angle(frame float64) float64 {
	return o.EasedProgress(frame)*2*math.Pi + o.offset
}

// Evaluate computes the camera pose at frame. It is total over finite frames,
// including negative and very large values.
func (o *Orbit) Evaluate(frame float64) rig.Pose {
	theta := o.Angle(frame)

	pos := mgl64.Vec3{
		o.cfg.Radius * math.Cos(theta),
		o.cfg.Radius * math.Sin(theta),
		o.cfg.Height,
	}.Add(o.cfg.Target)

	forward := rig.Direction(pos, o.cfg.Target)

	return rig.Pose{
		Position:    pos,
		Forward:     forward,
		Rotation:    rig.LookRotation(forward),
		FocalLength: o.cfg.FocalLength,
	}
}

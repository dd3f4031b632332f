package track

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/ivlev/camrigs/internal/orbit"
	"github.com/ivlev/camrigs/internal/rig"
)

const Version = "1.0"

// Track is a sampled camera animation as stored on disk
type Track struct {
	Version string        `yaml:"version"`
	Rig     string        `yaml:"rig"`
	Preset  string        `yaml:"preset,omitempty"`
	FPS     float64       `yaml:"fps"`
	Target  [3]float64    `yaml:"target"`
	Orbit   *orbit.Config `yaml:"orbit,omitempty"`
	Samples []Sample      `yaml:"samples"`
}

// Sample is the camera pose at a single frame
type Sample struct {
	Frame       float64    `yaml:"frame"`
	Progress    float64    `yaml:"progress"`      // Loop position in [0, 1]; 0 for static rigs
	Position    [3]float64 `yaml:"position,flow"` // World space, Z up
	Forward     [3]float64 `yaml:"forward,flow"`  // Unit view direction
	Rotation    [4]float64 `yaml:"rotation,flow"` // Quaternion as w, x, y, z
	FocalLength float64    `yaml:"focal_length"`  // Millimetres; 0 for orthographic and panoramic rigs
}

// NewSample converts an evaluated pose into its stored form
func NewSample(frame, progress float64, p rig.Pose) Sample {
	return Sample{
		Frame:       frame,
		Progress:    progress,
		Position:    p.Position,
		Forward:     p.Forward,
		Rotation:    [4]float64{p.Rotation.W, p.Rotation.V[0], p.Rotation.V[1], p.Rotation.V[2]},
		FocalLength: p.FocalLength,
	}
}

// Pose converts the sample back into a pose
func (s Sample) Pose() rig.Pose {
	return rig.Pose{
		Position:    mgl64.Vec3(s.Position),
		Forward:     mgl64.Vec3(s.Forward),
		Rotation:    mgl64.Quat{W: s.Rotation[0], V: mgl64.Vec3{s.Rotation[1], s.Rotation[2], s.Rotation[3]}},
		FocalLength: s.FocalLength,
	}
}

// Seconds is the sample time at the track frame rate
func (t *Track) Seconds(s Sample) float64 {
	if t.FPS <= 0 {
		return s.Frame
	}
	return s.Frame / t.FPS
}

// Bounds returns the axis-aligned box around all camera positions and the target
func (t *Track) Bounds() (lo, hi mgl64.Vec3) {
	lo = mgl64.Vec3(t.Target)
	hi = lo
	for _, s := range t.Samples {
		for i := 0; i < 3; i++ {
			if s.Position[i] < lo[i] {
				lo[i] = s.Position[i]
			}
			if s.Position[i] > hi[i] {
				hi[i] = s.Position[i]
			}
		}
	}
	return lo, hi
}

// Package stereo builds the VR180 side-by-side stereo rig and the VR360 mono rig.
package stereo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ivlev/camrigs/internal/rig"
)

// Panorama projection identifiers used by the host renderer.
const (
	PanoramaFisheyeEquisolid = "FISHEYE_EQUISOLID"
	PanoramaEquirectangular  = "EQUIRECTANGULAR"
)

const (
	DefaultIPD        = 64.0 // millimetres
	MaxIPD            = 120.0
	DefaultEyeHeight  = 1.6
	FisheyeFOV        = 190.0 // degrees
	FisheyeLens       = 5.2   // millimetres
	mmPerStereoOffset = 2000.0
)

// levelRotation turns the camera's -Z view axis onto world +Y.
var levelRotation = mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{1, 0, 0})

type VR180Config struct {
	IPD      float64    `yaml:"ipd" toml:"ipd"` // Interpupillary distance in millimetres
	Location mgl64.Vec3 `yaml:"location" toml:"location"`
}

func DefaultVR180Config() VR180Config {
	return VR180Config{IPD: DefaultIPD, Location: mgl64.Vec3{0, 0, DefaultEyeHeight}}
}

func (c VR180Config) Validate() error {
	if !rig.Finite(c.IPD, c.Location[0], c.Location[1], c.Location[2]) {
		return rig.NewConfigError("vr180", "values", c, "must be finite")
	}
	if c.IPD < 0 || c.IPD > MaxIPD {
		return rig.NewConfigError("vr180", "ipd", c.IPD, "must be in [0, 120] mm")
	}
	return nil
}

// VR180 is a stereo pair of forward-facing fisheye cameras.
// Eye offsets are derived from the IPD on every call, never stored.
type VR180 struct {
	cfg VR180Config
}

func NewVR180(cfg VR180Config) (*VR180, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &VR180{cfg: cfg}, nil
}

func (r *VR180) IPD() float64 { return r.cfg.IPD }

// WithIPD returns a copy of the rig with a new interpupillary distance. The
// receiver is left unchanged, so rigs shared between goroutines stay immutable.
func (r *VR180) WithIPD(ipd float64) (*VR180, error) {
	next := r.cfg
	next.IPD = ipd
	return NewVR180(next)
}

// LeftX is the left eye's local X offset in metres.
func (r *VR180) LeftX() float64 { return -r.cfg.IPD / mmPerStereoOffset }

// RightX is the right eye's local X offset in metres.
func (r *VR180) RightX() float64 { return r.cfg.IPD / mmPerStereoOffset }

// Baseline is the distance between the eyes in metres.
func (r *VR180) Baseline() float64 { return r.RightX() - r.LeftX() }

// Eyes returns the world positions of both eye cameras.
func (r *VR180) Eyes() (left, right mgl64.Vec3) {
	left = r.cfg.Location.Add(levelRotation.Rotate(mgl64.Vec3{r.LeftX(), 0, 0}))
	right = r.cfg.Location.Add(levelRotation.Rotate(mgl64.Vec3{r.RightX(), 0, 0}))
	return left, right
}

// Evaluate returns the centre pose of the rig.
func (r *VR180) Evaluate(float64) rig.Pose {
	return rig.Pose{
		Position:    r.cfg.Location,
		Forward:     rig.LocalForward(levelRotation),
		Rotation:    levelRotation,
		FocalLength: FisheyeLens,
	}
}

func (r *VR180) Config() VR180Config { return r.cfg }

func (r *VR180) Panorama() string { return PanoramaFisheyeEquisolid }

type VR360Config struct {
	Height float64 `yaml:"height" toml:"height"`
}

func DefaultVR360Config() VR360Config {
	return VR360Config{Height: DefaultEyeHeight}
}

func (c VR360Config) Validate() error {
	if !rig.Finite(c.Height) {
		return rig.NewConfigError("vr360", "height", c.Height, "must be finite")
	}
	return nil
}

// VR360 is a single equirectangular camera at eye height.
type VR360 struct {
	cfg VR360Config
}

func NewVR360(cfg VR360Config) (*VR360, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &VR360{cfg: cfg}, nil
}

// Evaluate returns the level panoramic pose. Focal length is 0: the
// equirectangular projection covers the full sphere.
func (r *VR360) Evaluate(float64) rig.Pose {
	return rig.Pose{
		Position: mgl64.Vec3{0, 0, r.cfg.Height},
		Forward:  rig.LocalForward(levelRotation),
		Rotation: levelRotation,
	}
}

func (r *VR360) Config() VR360Config { return r.cfg }

func (r *VR360) Panorama() string { return PanoramaEquirectangular }

package isometric

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ivlev/camrigs/internal/rig"
)

const rigName = "isometric"

const (
	DefaultOrthoScale = 10.0
	DefaultRotationZ  = 45.0
	DefaultTiltX      = 35.264
)

type Config struct {
	Projection      Projection `yaml:"projection" toml:"projection"`
	OrthoScale      float64    `yaml:"ortho_scale" toml:"ortho_scale"`
	CustomRotationZ float64    `yaml:"custom_rotation_z" toml:"custom_rotation_z"`
	CustomTiltX     float64    `yaml:"custom_tilt_x" toml:"custom_tilt_x"`
	CustomRollY     float64    `yaml:"custom_roll_y" toml:"custom_roll_y"`
	Target          mgl64.Vec3 `yaml:"target" toml:"target"`
	Distance        float64    `yaml:"distance" toml:"distance"` // Pull-back from the target along the view axis
}

// DefaultConfig returns a true isometric camera.
func DefaultConfig() Config {
	return Config{
		Projection:      TrueIsometric,
		OrthoScale:      DefaultOrthoScale,
		CustomRotationZ: DefaultRotationZ,
		CustomTiltX:     DefaultTiltX,
	}
}

func (c Config) Validate() error {
	if !rig.Finite(c.OrthoScale, c.CustomRotationZ, c.CustomTiltX, c.CustomRollY, c.Distance,
		c.Target[0], c.Target[1], c.Target[2]) {
		return rig.NewConfigError(rigName, "values", c, "must be finite")
	}
	if !c.Projection.Valid() {
		return rig.NewConfigError(rigName, "projection", int(c.Projection), "unknown projection")
	}
	if c.OrthoScale <= 0 {
		return rig.NewConfigError(rigName, "ortho_scale", c.OrthoScale, "must be > 0")
	}
	if c.CustomRotationZ < -180 || c.CustomRotationZ > 180 {
		return rig.NewConfigError(rigName, "custom_rotation_z", c.CustomRotationZ, "must be in [-180, 180]")
	}
	if c.CustomTiltX < -90 || c.CustomTiltX > 90 {
		return rig.NewConfigError(rigName, "custom_tilt_x", c.CustomTiltX, "must be in [-90, 90]")
	}
	if c.CustomRollY < -180 || c.CustomRollY > 180 {
		return rig.NewConfigError(rigName, "custom_roll_y", c.CustomRollY, "must be in [-180, 180]")
	}
	if c.Distance < 0 {
		return rig.NewConfigError(rigName, "distance", c.Distance, "must be >= 0")
	}
	return nil
}

// Camera is a fixed orthographic camera. Its pose does not depend on the frame.
type Camera struct {
	cfg    Config
	angles Angles
	pose   rig.Pose
}

func New(cfg Config) (*Camera, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	angles, ok := cfg.Projection.PresetAngles()
	if !ok {
		angles = Angles{Tilt: cfg.CustomTiltX, Roll: cfg.CustomRollY, Rotation: cfg.CustomRotationZ}
	}

	q := Orientation(angles)
	forward := rig.LocalForward(q)

	return &Camera{
		cfg:    cfg,
		angles: angles,
		pose: rig.Pose{
			Position: cfg.Target.Sub(forward.Mul(cfg.Distance)),
			Forward:  forward,
			Rotation: q,
		},
	}, nil
}

// Orientation converts angles to a world rotation: Rz(rotation)·Ry(roll)·Rx(90°-tilt).
func Orientation(a Angles) mgl64.Quat {
	qz := mgl64.QuatRotate(rig.ToRadians(a.Rotation), mgl64.Vec3{0, 0, 1})
	qy := mgl64.QuatRotate(rig.ToRadians(a.Roll), mgl64.Vec3{0, 1, 0})
	qx := mgl64.QuatRotate(math.Pi/2-rig.ToRadians(a.Tilt), mgl64.Vec3{1, 0, 0})
	return qz.Mul(qy).Mul(qx).Normalize()
}

func (c *Camera) Evaluate(float64) rig.Pose {
	return c.pose
}

func (c *Camera) Angles() Angles {
	return c.angles
}

func (c *Camera) OrthoScale() float64 {
	return c.cfg.OrthoScale
}

func (c *Camera) Config() Config {
	return c.cfg
}

// Package scene models the reference stage a rig is previewed in and checks
// sampled camera paths against it.
package scene

import (
	"fmt"
	"strings"

	"github.com/unixpickle/model3d/model3d"

	"github.com/ivlev/camrigs/internal/rig"
)

type Cyclorama int

const (
	Small  Cyclorama = iota // 10 m floor
	Medium                  // 20 m floor
	Large                   // 30 m floor
)

var cycloramaNames = [...]string{"SMALL", "MEDIUM", "LARGE"}

// Size is the floor edge length in metres.
func (c Cyclorama) Size() float64 {
	return 10 * float64(c+1)
}

// WallHeight is the height of the backdrop walls in metres.
func (c Cyclorama) WallHeight() float64 {
	return c.Size() / 4
}

func (c Cyclorama) String() string {
	if c < Small || c > Large {
		return fmt.Sprintf("Cyclorama(%d)", int(c))
	}
	return cycloramaNames[c]
}

func (c Cyclorama) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Cyclorama) UnmarshalText(text []byte) error {
	name := strings.ToUpper(strings.TrimSpace(string(text)))
	for i, n := range cycloramaNames {
		if n == name {
			*c = Cyclorama(i)
			return nil
		}
	}
	return fmt.Errorf("unknown cyclorama size %q", string(text))
}

type Shape int

const (
	Sphere Shape = iota
	Capsule
)

func (s Shape) String() string {
	switch s {
	case Sphere:
		return "SPHERE"
	case Capsule:
		return "CAPSULE"
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

func (s Shape) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Shape) UnmarshalText(text []byte) error {
	switch strings.ToUpper(strings.TrimSpace(string(text))) {
	case "SPHERE":
		*s = Sphere
	case "CAPSULE":
		*s = Capsule
	default:
		return fmt.Errorf("unknown reference shape %q", string(text))
	}
	return nil
}

// Reference prop dimensions in metres.
const (
	SphereRadius      = 0.5
	SphereCenterZ     = 1.0
	CapsuleRadius     = 0.25
	CapsuleHeight     = 1.8
	DefaultClearance  = 0.25
	stageRigName      = "stage"
	propCyclorama     = "cyclorama"
	propReferenceBall = "reference_sphere"
	propReferenceBody = "reference_capsule"
)

type Config struct {
	Cyclorama        Cyclorama `yaml:"cyclorama" toml:"cyclorama"`
	IncludeReference bool      `yaml:"include_reference" toml:"include_reference"`
	ReferenceShape   Shape     `yaml:"reference_shape" toml:"reference_shape"`
	MinClearance     float64   `yaml:"min_clearance" toml:"min_clearance"`
}

func DefaultConfig() Config {
	return Config{
		Cyclorama:        Medium,
		IncludeReference: true,
		ReferenceShape:   Sphere,
		MinClearance:     DefaultClearance,
	}
}

func (c Config) Validate() error {
	if c.Cyclorama < Small || c.Cyclorama > Large {
		return rig.NewConfigError(stageRigName, "cyclorama", int(c.Cyclorama), "unknown size")
	}
	if c.ReferenceShape != Sphere && c.ReferenceShape != Capsule {
		return rig.NewConfigError(stageRigName, "reference_shape", int(c.ReferenceShape), "unknown shape")
	}
	if !rig.Finite(c.MinClearance) || c.MinClearance < 0 {
		return rig.NewConfigError(stageRigName, "min_clearance", c.MinClearance, "must be >= 0")
	}
	return nil
}

// Prop is a solid the camera must stay clear of.
type Prop struct {
	Name  string
	Solid model3d.SDF
}

// Stage is the cyclorama volume plus optional reference props.
type Stage struct {
	cfg   Config
	room  *model3d.Rect
	props []Prop
}

func New(cfg Config) (*Stage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	half := cfg.Cyclorama.Size() / 2
	s := &Stage{
		cfg: cfg,
		room: &model3d.Rect{
			MinVal: model3d.XYZ(-half, -half, 0),
			MaxVal: model3d.XYZ(half, half, cfg.Cyclorama.WallHeight()),
		},
	}

	if cfg.IncludeReference {
		switch cfg.ReferenceShape {
		case Sphere:
			s.props = append(s.props, Prop{
				Name:  propReferenceBall,
				Solid: &model3d.Sphere{Center: model3d.XYZ(0, 0, SphereCenterZ), Radius: SphereRadius},
			})
		case Capsule:
			s.props = append(s.props, Prop{
				Name: propReferenceBody,
				Solid: &model3d.Capsule{
					P1:     model3d.XYZ(0, 0, CapsuleRadius),
					P2:     model3d.XYZ(0, 0, CapsuleHeight-CapsuleRadius),
					Radius: CapsuleRadius,
				},
			})
		}
	}
	return s, nil
}

func (s *Stage) Config() Config { return s.cfg }

func (s *Stage) Props() []Prop { return s.props }

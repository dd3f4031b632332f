package scene

import (
	"fmt"

	"github.com/unixpickle/model3d/model3d"

	"github.com/ivlev/camrigs/internal/track"
)

type ViolationKind int

const (
	InsideProp ViolationKind = iota
	TooClose
	BelowFloor
	OutsideStage
)

func (k ViolationKind) String() string {
	switch k {
	case InsideProp:
		return "inside prop"
	case TooClose:
		return "too close"
	case BelowFloor:
		return "below floor"
	case OutsideStage:
		return "outside stage"
	}
	return fmt.Sprintf("ViolationKind(%d)", int(k))
}

// Violation is one problem found at one sampled frame.
type Violation struct {
	Frame    float64
	Kind     ViolationKind
	Prop     string
	Distance float64 // Signed distance to the prop surface, negative inside
}

func (v Violation) String() string {
	return fmt.Sprintf("frame %.2f: %s %s (%.3f m)", v.Frame, v.Kind, v.Prop, v.Distance)
}

// Clearance returns the distance from p to the nearest prop surface and that
// prop's name. It is negative when p is inside a prop.
func (s *Stage) Clearance(p [3]float64) (float64, string) {
	c := model3d.XYZ(p[0], p[1], p[2])
	best, name := 0.0, ""
	for i, prop := range s.props {
		d := -prop.Solid.SDF(c)
		if i == 0 || d < best {
			best, name = d, prop.Name
		}
	}
	return best, name
}

// Check reports every sample that sits inside a prop, nearer to one than the
// minimum clearance, under the floor, or outside the cyclorama volume.
func (s *Stage) Check(samples []track.Sample) []Violation {
	var out []Violation
	for _, smp := range samples {
		c := model3d.XYZ(smp.Position[0], smp.Position[1], smp.Position[2])

		for _, prop := range s.props {
			d := -prop.Solid.SDF(c)
			switch {
			case d < 0:
				out = append(out, Violation{Frame: smp.Frame, Kind: InsideProp, Prop: prop.Name, Distance: d})
			case d < s.cfg.MinClearance:
				out = append(out, Violation{Frame: smp.Frame, Kind: TooClose, Prop: prop.Name, Distance: d})
			}
		}

		if c.Z < 0 {
			out = append(out, Violation{Frame: smp.Frame, Kind: BelowFloor, Prop: "floor", Distance: c.Z})
		} else if d := s.room.SDF(c); d < 0 {
			out = append(out, Violation{Frame: smp.Frame, Kind: OutsideStage, Prop: propCyclorama, Distance: d})
		}
	}
	return out
}

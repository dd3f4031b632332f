package isometric

import (
	"fmt"
	"strings"
)

// Projection selects one of the standard axonometric camera angles.
type Projection int

const (
	Game21        Projection = iota // 2:1 pixel-art isometric
	Game43                          // 4:3 game isometric
	TrueIsometric                   // Equal foreshortening on all three axes
	Dimetric                        // Two axes share foreshortening
	Military                        // Plan view, straight down
	Cavalier                        // Level, rotated 45 degrees
	Custom                          // Angles taken from the config
)

var projectionNames = [...]string{
	Game21:        "GAME_2_1",
	Game43:        "GAME_4_3",
	TrueIsometric: "TRUE_ISOMETRIC",
	Dimetric:      "DIMETRIC",
	Military:      "MILITARY",
	Cavalier:      "CAVALIER",
	Custom:        "CUSTOM",
}

// Angles are camera orientation angles in degrees.
// Tilt is the depression below the horizon: 0 looks level, 90 looks straight down.
type Angles struct {
	Tilt     float64 `yaml:"tilt" toml:"tilt"`
	Roll     float64 `yaml:"roll" toml:"roll"`
	Rotation float64 `yaml:"rotation" toml:"rotation"`
}

var projectionAngles = map[Projection]Angles{
	Game21:        {Tilt: 26.565, Roll: 0, Rotation: 45},
	Game43:        {Tilt: 30, Roll: 0, Rotation: 45},
	TrueIsometric: {Tilt: 35.264, Roll: 0, Rotation: 45},
	Dimetric:      {Tilt: 30, Roll: 0, Rotation: 45},
	Military:      {Tilt: 90, Roll: 0, Rotation: 0},
	Cavalier:      {Tilt: 0, Roll: 0, Rotation: 45},
}

// Projections lists every projection in index order.
func Projections() []Projection {
	return []Projection{Game21, Game43, TrueIsometric, Dimetric, Military, Cavalier, Custom}
}

func (p Projection) Valid() bool {
	return p >= Game21 && int(p) < len(projectionNames)
}

func (p Projection) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Projection(%d)", int(p))
	}
	return projectionNames[p]
}

// PresetAngles returns the fixed angles of a projection. Custom has none.
func (p Projection) PresetAngles() (Angles, bool) {
	a, ok := projectionAngles[p]
	return a, ok
}

func ParseProjection(s string) (Projection, error) {
	name := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	for i, n := range projectionNames {
		if n == name {
			return Projection(i), nil
		}
	}
	return Custom, fmt.Errorf("unknown projection %q", s)
}

func (p Projection) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("unknown projection %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *Projection) UnmarshalText(text []byte) error {
	v, err := ParseProjection(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

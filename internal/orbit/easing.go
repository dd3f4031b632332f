package orbit

import (
	"fmt"
	"strings"

	"github.com/tanema/gween/ease"
)

// Easing selects the pacing curve applied to normalized orbit progress.
// The first four values keep the integer order of the host's "Easing" socket.
type Easing int

const (
	Linear     Easing = iota // Constant angular speed
	EaseInOut                // Smoothstep, zero slope at both ends
	EaseIn                   // Quadratic acceleration
	EaseOut                  // Quadratic deceleration
	SineInOut                // Sinusoidal S-curve
	CubicInOut               // Cubic S-curve, sharper than smoothstep
)

var easingNames = [...]string{
	Linear:     "LINEAR",
	EaseInOut:  "EASE_IN_OUT",
	EaseIn:     "EASE_IN",
	EaseOut:    "EASE_OUT",
	SineInOut:  "SINE_IN_OUT",
	CubicInOut: "CUBIC_IN_OUT",
}

// Easings lists every supported easing mode.
func Easings() []Easing {
	return []Easing{Linear, EaseInOut, EaseIn, EaseOut, SineInOut, CubicInOut}
}

// Valid reports whether e is a known easing mode.
func (e Easing) Valid() bool {
	return e >= Linear && int(e) < len(easingNames)
}

func (e Easing) String() string {
	if !e.Valid() {
		return fmt.Sprintf("Easing(%d)", int(e))
	}
	return easingNames[e]
}

// ParseEasing accepts the host's identifiers (LINEAR, EASE_IN_OUT, ...) in any case,
// with '-' and '_' treated alike.
func ParseEasing(s string) (Easing, error) {
	name := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	for i, n := range easingNames {
		if n == name {
			return Easing(i), nil
		}
	}
	return Linear, fmt.Errorf("unknown easing %q", s)
}

func (e Easing) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("unknown easing %d", int(e))
	}
	return []byte(e.String()), nil
}

func (e *Easing) UnmarshalText(text []byte) error {
	v, err := ParseEasing(string(text))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// Ease maps normalized progress t through the easing curve.
// t <= 0 maps to exactly 0 and t >= 1 to exactly 1 for every mode, which keeps
// the orbit continuous across the loop boundary.
func Ease(mode Easing, t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}

	switch mode {
	case EaseInOut:
		return t * t * (3 - 2*t)
	case EaseIn:
		return t * t
	case EaseOut:
		u := 1 - t
		return 1 - u*u
	case SineInOut:
		return float64(ease.InOutSine(float32(t), 0, 1, 1))
	case CubicInOut:
		return float64(ease.InOutCubic(float32(t), 0, 1, 1))
	default:
		return t
	}
}

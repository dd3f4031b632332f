package config

import "github.com/ivlev/camrigs/internal/track"

type Config struct {
	RigPath      string
	Rig          string
	Preset       string
	Start        float64
	End          float64
	Loop         bool // End is replaced by one full loop from Start
	Step         float64
	FPS          float64
	Workers      int
	OutputDir    string
	OutputTrack  string
	OutputGLTF   string
	OutputPlot   string
	AspectRatio  float64
	Check        bool
	ShowStats    bool
	Watch        bool
	BuildVersion string
}

const (
	DefaultFPS         = 24.0
	DefaultAspectRatio = 16.0 / 9.0
)

// Default returns the run parameters used when no flags are given: one full
// PRODUCT orbit at 24 fps.
func Default() *Config {
	return &Config{
		Rig:         RigOrbit,
		Start:       0,
		End:         240,
		Step:        1,
		FPS:         DefaultFPS,
		OutputDir:   track.DefaultDir,
		AspectRatio: DefaultAspectRatio,
	}
}

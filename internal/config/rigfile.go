package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/camrigs/internal/isometric"
	"github.com/ivlev/camrigs/internal/orbit"
	"github.com/ivlev/camrigs/internal/rig"
	"github.com/ivlev/camrigs/internal/scene"
	"github.com/ivlev/camrigs/internal/stereo"
)

// Rig identifiers.
const (
	RigOrbit     = "orbit"
	RigIsometric = "isometric"
	RigVR180     = "vr180"
	RigVR360     = "vr360"
)

// RigNames lists the supported rigs.
func RigNames() []string {
	return []string{RigOrbit, RigIsometric, RigVR180, RigVR360}
}

// RigFile describes one rig and the stage it is checked against.
// Only the section matching Rig is used.
type RigFile struct {
	Rig       string             `yaml:"rig" toml:"rig"`
	Preset    string             `yaml:"preset,omitempty" toml:"preset,omitempty"`
	Orbit     orbit.Config       `yaml:"orbit" toml:"orbit"`
	Isometric isometric.Config   `yaml:"isometric" toml:"isometric"`
	VR180     stereo.VR180Config `yaml:"vr180" toml:"vr180"`
	VR360     stereo.VR360Config `yaml:"vr360" toml:"vr360"`
	Stage     scene.Config       `yaml:"stage" toml:"stage"`
}

type rigHeader struct {
	Rig    string `yaml:"rig" toml:"rig"`
	Preset string `yaml:"preset" toml:"preset"`
}

// NewRigFile returns a rig file with every section at its default and the
// orbit section taken from preset (PRODUCT when empty).
func NewRigFile(rigName, preset string) (*RigFile, error) {
	if rigName == "" {
		rigName = RigOrbit
	}
	rf := &RigFile{
		Rig:       strings.ToLower(rigName),
		Preset:    strings.ToUpper(preset),
		Orbit:     orbit.DefaultConfig(),
		Isometric: isometric.DefaultConfig(),
		VR180:     stereo.DefaultVR180Config(),
		VR360:     stereo.DefaultVR360Config(),
		Stage:     scene.DefaultConfig(),
	}
	if rf.Preset != "" {
		cfg, err := orbit.Preset(rf.Preset)
		if err != nil {
			return nil, err
		}
		rf.Orbit = cfg
	}
	return rf, nil
}

// LoadRigFile reads a YAML or TOML rig file, chosen by extension. Fields the
// file leaves out keep the defaults of the named preset.
func LoadRigFile(path string) (*RigFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var decode func([]byte, any) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		decode = func(b []byte, v any) error {
			dec := yaml.NewDecoder(bytes.NewReader(b))
			dec.KnownFields(true)
			if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			return nil
		}
	case ".toml":
		decode = func(b []byte, v any) error {
			return toml.NewDecoder(bytes.NewReader(b)).DisallowUnknownFields().Decode(v)
		}
	default:
		return nil, fmt.Errorf("unsupported rig file extension %q", filepath.Ext(path))
	}

	// The preset decides the defaults, so it is read before the full document
	var hdr rigHeader
	if err := decodeLoose(path, data, &hdr); err != nil {
		return nil, err
	}

	rf, err := NewRigFile(hdr.Rig, hdr.Preset)
	if err != nil {
		return nil, err
	}
	if err := decode(data, rf); err != nil {
		return nil, fmt.Errorf("decode rig file %s: %w", path, err)
	}
	rf.Rig = strings.ToLower(rf.Rig)
	return rf, nil
}

func decodeLoose(path string, data []byte, v any) error {
	var err error
	if strings.ToLower(filepath.Ext(path)) == ".toml" {
		err = toml.Unmarshal(data, v)
	} else {
		err = yaml.Unmarshal(data, v)
	}
	if err != nil {
		return fmt.Errorf("decode rig file %s: %w", path, err)
	}
	return nil
}

// Save writes the rig file as YAML or TOML, by extension.
func (rf *RigFile) Save(path string) error {
	var data []byte
	var err error
	if strings.ToLower(filepath.Ext(path)) == ".toml" {
		data, err = toml.Marshal(rf)
	} else {
		data, err = yaml.Marshal(rf)
	}
	if err != nil {
		return fmt.Errorf("encode rig file: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Evaluator builds the validated rig selected by Rig.
func (rf *RigFile) Evaluator() (rig.Evaluator, error) {
	var (
		ev  rig.Evaluator
		err error
	)
	switch rf.Rig {
	case RigOrbit:
		ev, err = orbit.New(rf.Orbit)
	case RigIsometric:
		ev, err = isometric.New(rf.Isometric)
	case RigVR180:
		ev, err = stereo.NewVR180(rf.VR180)
	case RigVR360:
		ev, err = stereo.NewVR360(rf.VR360)
	default:
		return nil, rig.NewConfigError(rf.Rig, "rig", rf.Rig, "unknown rig, want one of "+strings.Join(RigNames(), ", "))
	}
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// Period is the loop length in frames for time-dependent rigs, 0 otherwise.
func (rf *RigFile) Period() float64 {
	if rf.Rig != RigOrbit || rf.Orbit.SpeedMultiplier <= 0 {
		return 0
	}
	return float64(rf.Orbit.DurationFrames) / rf.Orbit.SpeedMultiplier
}

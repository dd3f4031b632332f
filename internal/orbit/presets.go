package orbit

import (
	"strings"

	"github.com/ivlev/camrigs/internal/rig"
)

// Preset names for common orbit setups.
const (
	PresetProduct       = "PRODUCT"
	PresetDetail        = "DETAIL"
	PresetCharacter     = "CHARACTER"
	PresetHero          = "HERO"
	PresetArchitectural = "ARCHITECTURAL"
	PresetEnvironment   = "ENVIRONMENT"
)

type preset struct {
	name        string
	description string
	cfg         Config
}

var presets = []preset{
	{PresetProduct, "Product Photography", Config{Radius: 3, Height: 1.5, FocalLength: 35, DurationFrames: 240, SpeedMultiplier: 1}},
	{PresetDetail, "Detail Close-Up", Config{Radius: 1.5, Height: 0, FocalLength: 85, DurationFrames: 240, SpeedMultiplier: 1}},
	{PresetCharacter, "Character Showcase", Config{Radius: 4, Height: 1.6, FocalLength: 50, DurationFrames: 360, SpeedMultiplier: 1}},
	{PresetHero, "Hero Shot", Config{Radius: 2.5, Height: 0.5, FocalLength: 24, DurationFrames: 120, SpeedMultiplier: 1, Easing: EaseInOut}},
	{PresetArchitectural, "Architectural Walkaround", Config{Radius: 15, Height: 2, FocalLength: 35, DurationFrames: 480, SpeedMultiplier: 1}},
	{PresetEnvironment, "Environment Tour", Config{Radius: 20, Height: 3, FocalLength: 28, DurationFrames: 600, SpeedMultiplier: 1}},
}

// PresetNames returns the preset identifiers in display order.
func PresetNames() []string {
	names := make([]string, len(presets))
	for i, p := range presets {
		names[i] = p.name
	}
	return names
}

// PresetDescription returns the human readable label of a preset.
func PresetDescription(name string) string {
	for _, p := range presets {
		if p.name == strings.ToUpper(name) {
			return p.description
		}
	}
	return ""
}

// Preset returns the configuration of a named preset.
func Preset(name string) (Config, error) {
	for _, p := range presets {
		if p.name == strings.ToUpper(strings.TrimSpace(name)) {
			return p.cfg, nil
		}
	}
	return Config{}, rig.NewConfigError(rigName, "preset", name, "unknown preset")
}

// DefaultConfig returns the PRODUCT preset.
func DefaultConfig() Config {
	return presets[0].cfg
}

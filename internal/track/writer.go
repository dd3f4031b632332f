package track

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// WriteTrack writes a track to a YAML file, creating parent directories
func WriteTrack(tr *Track, path string) error {
	data, err := yaml.Marshal(tr)
	if err != nil {
		return fmt.Errorf("encode track: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return os.WriteFile(path, data, 0644)
}

// ReadTrack reads a track from a YAML file
func ReadTrack(path string) (*Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tr Track
	if err := yaml.Unmarshal(data, &tr); err != nil {
		return nil, fmt.Errorf("decode track %s: %w", path, err)
	}

	if tr.Version != Version {
		return nil, fmt.Errorf("track %s: unsupported version %q", path, tr.Version)
	}

	return &tr, nil
}

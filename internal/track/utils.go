package track

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DefaultDir is where tracks are written when no output path is given
const DefaultDir = "tracks"

// GenerateTrackPath creates a timestamped track filename
func GenerateTrackPath(dir, rigName string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("track_%s_%s.yaml", strings.ToLower(rigName), timestamp))
}

// FindLatestTrack finds the most recent track file in dir
func FindLatestTrack(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read tracks directory: %w", err)
	}

	type candidate struct {
		path    string
		modTime time.Time
	}

	var tracks []candidate
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "track_") || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		tracks = append(tracks, candidate{filepath.Join(dir, entry.Name()), info.ModTime()})
	}

	if len(tracks) == 0 {
		return "", fmt.Errorf("no track files found in %s", dir)
	}

	// Newest first
	sort.Slice(tracks, func(i, j int) bool {
		return tracks[i].modTime.After(tracks[j].modTime)
	})

	return tracks[0].path, nil
}

package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/camrigs/internal/config"
	"github.com/ivlev/camrigs/internal/orbit"
	"github.com/ivlev/camrigs/internal/track"
)

func TestSampleOnceOneLoop(t *testing.T) {
	dir := t.TempDir()
	rf, err := config.NewRigFile(config.RigOrbit, orbit.PresetHero)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Loop = true
	cfg.Workers = 2
	cfg.OutputDir = ""
	cfg.OutputTrack = filepath.Join(dir, "hero.yaml")

	require.NoError(t, sampleOnce(context.Background(), cfg, rf))

	tr, err := track.ReadTrack(cfg.OutputTrack)
	require.NoError(t, err)
	assert.Len(t, tr.Samples, 120)
	assert.Equal(t, 119.0, tr.Samples[119].Frame)
	assert.Equal(t, orbit.PresetHero, tr.Preset)
	assert.Equal(t, 240.0, cfg.End, "base config is not modified")
}

func TestSampleOnceCheckFails(t *testing.T) {
	rf, err := config.NewRigFile(config.RigOrbit, orbit.PresetEnvironment)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Loop = true
	cfg.Step = 24
	cfg.OutputDir = ""
	cfg.Check = true

	err = sampleOnce(context.Background(), cfg, rf)
	assert.True(t, errors.Is(err, errViolations), "got %v", err)
}

func TestSampleOnceStepLongerThanLoop(t *testing.T) {
	dir := t.TempDir()
	rf, err := config.NewRigFile(config.RigOrbit, orbit.PresetHero)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Loop = true
	cfg.Start = 5
	cfg.Step = 500
	cfg.OutputDir = ""
	cfg.OutputTrack = filepath.Join(dir, "hero.yaml")

	require.NoError(t, sampleOnce(context.Background(), cfg, rf))

	tr, err := track.ReadTrack(cfg.OutputTrack)
	require.NoError(t, err)
	require.Len(t, tr.Samples, 1)
	assert.Equal(t, 5.0, tr.Samples[0].Frame)
}

func TestRunSampleNegativeEnd(t *testing.T) {
	out := filepath.Join(t.TempDir(), "neg.yaml")
	args := []string{"-preset", "product", "-start", "-240", "-end", "-10", "-workers", "2", "-track", out}
	require.NoError(t, runSample(context.Background(), args, false))

	tr, err := track.ReadTrack(out)
	require.NoError(t, err)
	require.Len(t, tr.Samples, 231)
	assert.Equal(t, -240.0, tr.Samples[0].Frame)
	assert.Equal(t, -10.0, tr.Samples[230].Frame)
}

func TestRunSampleDefaultsToOneLoop(t *testing.T) {
	out := filepath.Join(t.TempDir(), "loop.yaml")
	args := []string{"-preset", "hero", "-start", "-60", "-workers", "2", "-track", out}
	require.NoError(t, runSample(context.Background(), args, false))

	tr, err := track.ReadTrack(out)
	require.NoError(t, err)
	require.Len(t, tr.Samples, 120)
	assert.Equal(t, 59.0, tr.Samples[119].Frame)
}

func TestRigFlagsLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "iso.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rig: isometric\nisometric:\n  projection: game_2_1\n"), 0644))

	file, rigName, preset := path, "", ""
	rf, got, err := rigFlags{file: &file, rig: &rigName, preset: &preset}.load()
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.Equal(t, config.RigIsometric, rf.Rig)
}

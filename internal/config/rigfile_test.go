package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/camrigs/internal/isometric"
	"github.com/ivlev/camrigs/internal/orbit"
	"github.com/ivlev/camrigs/internal/rig"
	"github.com/ivlev/camrigs/internal/scene"
	"github.com/ivlev/camrigs/internal/stereo"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadRigFileYAMLOverlaysPreset(t *testing.T) {
	path := writeFile(t, "hero.yaml", `
rig: orbit
preset: hero
orbit:
  radius: 4
  reverse: true
  target: [0, 0, 1]
stage:
  cyclorama: small
`)
	rf, err := LoadRigFile(path)
	require.NoError(t, err)

	assert.Equal(t, RigOrbit, rf.Rig)
	assert.Equal(t, 4.0, rf.Orbit.Radius)
	assert.True(t, rf.Orbit.Reverse)
	assert.Equal(t, orbit.EaseInOut, rf.Orbit.Easing)
	assert.Equal(t, 24.0, rf.Orbit.FocalLength)
	assert.Equal(t, 120, rf.Orbit.DurationFrames)
	assert.Equal(t, 1.0, rf.Orbit.Target.Z())
	assert.Equal(t, scene.Small, rf.Stage.Cyclorama)
	assert.Equal(t, 120.0, rf.Period())

	ev, err := rf.Evaluator()
	require.NoError(t, err)
	_, ok := ev.(*orbit.Orbit)
	assert.True(t, ok)
}

func TestLoadRigFileTOML(t *testing.T) {
	path := writeFile(t, "iso.toml", `
rig = "isometric"

[isometric]
projection = "military"
ortho_scale = 25.0
`)
	rf, err := LoadRigFile(path)
	require.NoError(t, err)

	assert.Equal(t, isometric.Military, rf.Isometric.Projection)
	assert.Equal(t, 25.0, rf.Isometric.OrthoScale)
	assert.Equal(t, 0.0, rf.Period())

	ev, err := rf.Evaluator()
	require.NoError(t, err)
	assert.InDelta(t, -1, ev.Evaluate(0).Forward.Z(), 1e-9)
}

func TestLoadRigFileRejectsUnknownFields(t *testing.T) {
	files := map[string]string{
		"bad.toml":  "rig = \"orbit\"\n[orbit]\nradus = 2.0\n",
		"bad.yaml":  "rig: orbit\norbit:\n  radious: 2\n",
		"top.yaml":  "rig: orbit\ncamera: {}\n",
		"stage.yml": "rig: vr180\nstage:\n  cyclo: small\n",
	}
	for name, content := range files {
		_, err := LoadRigFile(writeFile(t, name, content))
		assert.Error(t, err, name)
	}
}

func TestLoadRigFileErrors(t *testing.T) {
	_, err := LoadRigFile(writeFile(t, "rig.json", "{}"))
	assert.Error(t, err)

	_, err = LoadRigFile(writeFile(t, "rig.yaml", "rig: orbit\npreset: turntable\n"))
	assert.True(t, rig.IsConfigError(err))

	_, err = LoadRigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEvaluatorValidation(t *testing.T) {
	rf, err := LoadRigFile(writeFile(t, "bad.yaml", "rig: orbit\norbit:\n  radius: -1\n"))
	require.NoError(t, err)

	_, err = rf.Evaluator()
	var ce *rig.ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "radius", ce.Field)

	rf.Rig = "dolly"
	_, err = rf.Evaluator()
	assert.True(t, rig.IsConfigError(err))
}

func TestRigFileStereoDefaults(t *testing.T) {
	rf, err := LoadRigFile(writeFile(t, "vr.yml", "rig: VR180\nvr180:\n  ipd: 70\n"))
	require.NoError(t, err)
	assert.Equal(t, RigVR180, rf.Rig)

	ev, err := rf.Evaluator()
	require.NoError(t, err)
	vr := ev.(*stereo.VR180)
	assert.InDelta(t, 0.035, vr.RightX(), 1e-12)
	assert.Equal(t, 1.6, vr.Config().Location.Z())
}

func TestRigFileSaveLoad(t *testing.T) {
	rf, err := NewRigFile(RigOrbit, orbit.PresetDetail)
	require.NoError(t, err)

	for _, name := range []string{"detail.yaml", "detail.toml"} {
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, rf.Save(path))

		loaded, err := LoadRigFile(path)
		require.NoError(t, err, name)
		assert.Equal(t, rf.Orbit, loaded.Orbit, name)
		assert.Equal(t, rf.Stage, loaded.Stage, name)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, RigOrbit, cfg.Rig)
	assert.Equal(t, DefaultFPS, cfg.FPS)
	assert.Equal(t, 1.0, cfg.Step)
}

package system

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWorkers(t *testing.T) {
	assert.Positive(t, DefaultWorkers())
}

func TestMemoryReport(t *testing.T) {
	report, err := MemoryReport()
	if err != nil {
		t.Skipf("memory stats unavailable: %v", err)
	}
	assert.Contains(t, report, "used of")
	t.Logf("Memory: %s", report)
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "0 B", FormatSize(-5))
	assert.True(t, strings.HasSuffix(FormatSize(2048), "KB"), FormatSize(2048))
}

func TestExpandPath(t *testing.T) {
	got, err := ExpandPath("rigs/orbit.yaml")
	require.NoError(t, err)
	assert.Equal(t, "rigs/orbit.yaml", got)

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err = ExpandPath("~/rigs")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "rigs"), got)
}

func TestFindLatestRig(t *testing.T) {
	dir := t.TempDir()
	files := []string{"a.yaml", "b.toml", "c.yml", "d.txt"}
	for i, name := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("rig: orbit\n"), 0644))
		mod := time.Now().Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(p, mod, mod))
	}

	latest, err := FindLatestRig(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "c.yml"), latest)

	_, err = FindLatestRig(t.TempDir())
	assert.Error(t, err)
}

func TestImagePool(t *testing.T) {
	rect := image.Rect(0, 0, 16, 8)
	pool := NewImagePool()

	img := pool.Get(rect)
	assert.Equal(t, rect, img.Bounds())
	pool.Put(img)
	pool.Put(nil)

	canvas := GetImage(rect, color.RGBA{10, 20, 30, 255})
	assert.Equal(t, color.RGBA{10, 20, 30, 255}, canvas.RGBAAt(5, 5))
	PutImage(canvas)
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rig.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rig: orbit\n"), 0644))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, 20*time.Millisecond, func() error {
			if calls.Add(1) == 1 {
				cancel()
			}
			return nil
		})
	}()

	// Give the watcher time to register before writing
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("rig: isometric\n"), 0644))
	os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0644)

	err := <-done
	assert.ErrorIs(t, err, context.Canceled)
	assert.EqualValues(t, 1, calls.Load())
}

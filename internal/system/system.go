package system

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/mitchellh/go-homedir"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

var rigExtensions = []string{".yaml", ".yml", ".toml"}

// DefaultWorkers returns the number of physical cores, or the logical CPU count
// when the host does not report cores.
func DefaultWorkers() int {
	n, err := cpu.Counts(false)
	if err != nil || n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// MemoryReport summarises host memory, e.g. "6.2 GB used of 16.0 GB (38.5%)".
func MemoryReport() (string, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return "", fmt.Errorf("read memory stats: %w", err)
	}
	return fmt.Sprintf("%s used of %s (%.1f%%)",
		datasize.ByteSize(vm.Used).HumanReadable(),
		datasize.ByteSize(vm.Total).HumanReadable(),
		vm.UsedPercent,
	), nil
}

// FormatSize renders a byte count the way MemoryReport does.
func FormatSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return datasize.ByteSize(n).HumanReadable()
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("expand %s: %w", path, err)
	}
	return expanded, nil
}

// IsRigFile reports whether name has a rig file extension.
func IsRigFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range rigExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func FindLatestRig(dir string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !IsRigFile(f.Name()) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("no rig files (.yaml, .yml, .toml) found in %s", dir)
	}

	return latestFile, nil
}

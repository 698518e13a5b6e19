//go:build profile

package profiler

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync/atomic"

	"github.com/hubastard/grove3d/engine/log"
)

var logger = log.New("profiler")

var std atomic.Pointer[Recorder]

// Init starts recording with a ring of capacity scope events. Zero picks
// 1<<20. Scopes started before Init are not recorded.
func Init(capacity int) {
	std.Store(NewRecorder(capacity))
}

// Start begins a scope and returns the func that ends it.
func Start(name string) func() {
	r := std.Load()
	if r == nil {
		return func() {}
	}
	return r.Begin(name)
}

func Enabled() bool { return true }

// Dump writes the recorded scopes as a speedscope file in dir and returns
// its path.
func Dump(dir string) (string, error) {
	r := std.Load()
	if r == nil {
		return "", ErrNoEvents
	}
	path := filepath.Join(dir, "grove3d.profile.speedscope.json")
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("profiler dump: %w", err)
	}
	if err := r.WriteSpeedscope(f, "grove3d sandbox"); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("profiler dump: %w", err)
	}
	return path, os.Rename(tmp, path)
}

// OpenProfilerGraph dumps into the temp dir and opens the result in the
// speedscope CLI when it is installed.
func OpenProfilerGraph() (string, error) {
	path, err := Dump(os.TempDir())
	if err != nil {
		return "", err
	}
	cmd := exec.Command("speedscope", path)
	hideWindow(cmd)
	if err := cmd.Start(); err != nil {
		logger.Warningf("launching speedscope: %v", err)
	}
	return path, nil
}

package launcher

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// ErrSpawnFailed is matched by every SpawnError
var ErrSpawnFailed = errors.New("launch failed")

// SpawnError carries the OS error and the target that could not be started
type SpawnError struct {
	Target   string
	Protocol bool
	Err      error
}

func (e *SpawnError) Error() string {
	if e.Protocol {
		return fmt.Sprintf("launch failed: %v, uri: %s", e.Err, e.Target)
	}
	return fmt.Sprintf("launch failed: %v, path: %s", e.Err, e.Target)
}

func (e *SpawnError) Unwrap() error { return e.Err }

func (e *SpawnError) Is(target error) bool { return target == ErrSpawnFailed }

// Spawner starts detached programs
type Spawner interface {
	// Open hands a protocol URI to the platform handler
	Open(uri string) error
	// Exec starts an executable directly
	Exec(path string) error
}

// OSSpawner starts processes on the local machine. Children are not
// awaited; they are reaped in the background.
type OSSpawner struct {
	goos string
}

// NewOSSpawner creates a spawner for the running platform
func NewOSSpawner() *OSSpawner {
	return &OSSpawner{goos: runtime.GOOS}
}

func (s *OSSpawner) Open(uri string) error {
	name, args := openCommand(s.goos, uri)
	return start(exec.Command(name, args...))
}

func (s *OSSpawner) Exec(path string) error {
	return start(exec.Command(trimQuotes(path)))
}

// openCommand returns the platform URI handler invocation
func openCommand(goos, uri string) (string, []string) {
	switch goos {
	case "windows":
		// the empty argument is the window title consumed by start
		return "cmd", []string{"/c", "start", "", uri}
	case "darwin":
		return "open", []string{uri}
	default:
		return "xdg-open", []string{uri}
	}
}

func trimQuotes(path string) string {
	path = strings.TrimSpace(path)
	if len(path) >= 2 && strings.HasPrefix(path, `"`) && strings.HasSuffix(path, `"`) {
		return path[1 : len(path)-1]
	}
	return path
}

func start(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

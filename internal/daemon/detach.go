package daemon

import (
	"os"

	"github.com/pkg/errors"
)

// ChildEnv marks a process started by Detach
const ChildEnv = "QUICKLAUNCH_DAEMON_CHILD"

// IsChild reports whether this process was started by Detach
func IsChild() bool {
	return os.Getenv(ChildEnv) == "1"
}

// Detach re-executes the current binary with args in the background and
// returns the child PID. Standard streams are closed in the child.
func Detach(args []string) (int, error) {
	exe, err := os.Executable()
	if err != nil {
		return 0, errors.Wrap(err, "failed to locate executable")
	}

	attr := &os.ProcAttr{
		Env:   append(os.Environ(), ChildEnv+"=1"),
		Files: []*os.File{nil, nil, nil},
		Sys:   detachAttr(),
	}

	p, err := os.StartProcess(exe, append([]string{exe}, args...), attr)
	if err != nil {
		return 0, errors.Wrap(err, "failed to start daemon process")
	}

	pid := p.Pid
	_ = p.Release()
	return pid, nil
}

//go:build !windows

package daemon

import (
	"os"
	"syscall"
)

var (
	toggleSignal os.Signal = syscall.SIGUSR1
	stopSignal   os.Signal = syscall.SIGTERM
)

func handledSignals() []os.Signal {
	return []os.Signal{syscall.SIGUSR1, syscall.SIGINT, syscall.SIGTERM}
}

// detachAttr starts the child in its own session
func detachAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}

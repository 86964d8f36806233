//go:build windows

package daemon

import (
	"os"
	"syscall"

	"golang.org/x/sys/windows"
)

// Windows has no user signals; toggling needs the desktop hotkey instead.
var (
	toggleSignal os.Signal
	stopSignal   os.Signal = os.Kill
)

func handledSignals() []os.Signal {
	return []os.Signal{os.Interrupt}
}

// detachAttr starts the child without a console
func detachAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		CreationFlags: windows.DETACHED_PROCESS | windows.CREATE_NEW_PROCESS_GROUP,
		HideWindow:    true,
	}
}

//go:build windows

package win32

import (
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"

	"github.com/quicklaunch/quicklaunch/pkg/window"
)

const (
	swHide    = 0
	swShow    = 5
	swRestore = 9

	swpNoSize = 0x0001
	swpNoMove = 0x0002
)

var (
	hwndTopmost   = ^uintptr(0) // HWND_TOPMOST (-1)
	hwndNoTopmost = ^uintptr(1) // HWND_NOTOPMOST (-2)
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procGetWindowTextLengthW = user32.NewProc("GetWindowTextLengthW")
	procIsIconic             = user32.NewProc("IsIconic")
	procShowWindow           = user32.NewProc("ShowWindow")
	procBringWindowToTop     = user32.NewProc("BringWindowToTop")
	procSetWindowPos         = user32.NewProc("SetWindowPos")
	procSetForegroundWindow  = user32.NewProc("SetForegroundWindow")
)

// Only a limited number of callbacks can ever be created, so one callback is
// shared and dispatches to the visitor of the enumeration in progress.
var (
	enumMu      sync.Mutex
	enumVisit   func(window.Handle) bool
	enumStopped bool

	enumCallback = windows.NewCallback(func(hwnd uintptr, _ uintptr) uintptr {
		if enumVisit(window.Handle(hwnd)) {
			return 1
		}
		enumStopped = true
		return 0
	})
)

// Desktop implements window.Desktop with user32
type Desktop struct{}

// NewDesktop returns the Win32 backend
func NewDesktop() (window.Desktop, error) {
	if err := user32.Load(); err != nil {
		return nil, errors.Wrap(err, "failed to load user32.dll")
	}
	return &Desktop{}, nil
}

func (d *Desktop) Name() string { return "win32" }
func (d *Desktop) Close() error { return nil }

// EachWindow enumerates top-level windows in z-order
func (d *Desktop) EachWindow(visit func(window.Handle) bool) error {
	enumMu.Lock()
	defer enumMu.Unlock()

	enumVisit = visit
	enumStopped = false
	defer func() { enumVisit = nil }()

	err := windows.EnumWindows(enumCallback, nil)
	if err != nil && !enumStopped {
		return errors.Wrap(err, "EnumWindows failed")
	}
	return nil
}

func (d *Desktop) IsVisible(h window.Handle) bool {
	return windows.IsWindowVisible(hwnd(h))
}

func (d *Desktop) OwnerPID(h window.Handle) (int32, bool) {
	var pid uint32
	if _, err := windows.GetWindowThreadProcessId(hwnd(h), &pid); err != nil || pid == 0 {
		return 0, false
	}
	return int32(pid), true
}

func (d *Desktop) HasTitle(h window.Handle) bool {
	n, _, _ := procGetWindowTextLengthW.Call(uintptr(h))
	return n > 0
}

func (d *Desktop) IsMinimized(h window.Handle) bool {
	r, _, _ := procIsIconic.Call(uintptr(h))
	return r != 0
}

// ShowWindow returns the previous visibility, not a status, so it never fails here.
func (d *Desktop) Restore(h window.Handle) error {
	procShowWindow.Call(uintptr(h), swRestore)
	return nil
}

func (d *Desktop) Show(h window.Handle) error {
	procShowWindow.Call(uintptr(h), swShow)
	return nil
}

func (d *Desktop) Hide(h window.Handle) error {
	procShowWindow.Call(uintptr(h), swHide)
	return nil
}

func (d *Desktop) Raise(h window.Handle) error {
	return boolCall(procBringWindowToTop, "BringWindowToTop", uintptr(h))
}

func (d *Desktop) SetTopmost(h window.Handle, on bool) error {
	after := hwndNoTopmost
	if on {
		after = hwndTopmost
	}
	return boolCall(procSetWindowPos, "SetWindowPos", uintptr(h), after, 0, 0, 0, 0, swpNoMove|swpNoSize)
}

func (d *Desktop) SetForeground(h window.Handle) error {
	return boolCall(procSetForegroundWindow, "SetForegroundWindow", uintptr(h))
}

func boolCall(proc *windows.LazyProc, name string, args ...uintptr) error {
	r, _, err := proc.Call(args...)
	if r == 0 {
		return errors.Wrap(err, name+" failed")
	}
	return nil
}

func hwnd(h window.Handle) windows.HWND {
	return windows.HWND(uintptr(h))
}

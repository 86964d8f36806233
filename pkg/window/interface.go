package window

import "github.com/pkg/errors"

var (
	// ErrWindowNotFound is returned when no visible window belongs to the target processes
	ErrWindowNotFound = errors.New("window not found")

	// ErrNoWindow is returned when activation is requested without a window handle
	ErrNoWindow = errors.New("no window handle")

	// ErrUnsupported is returned by managers without windowing capability
	ErrUnsupported = errors.New("window management not supported on this platform")
)

// Handle is an opaque reference to a top-level window (X11 window ID, HWND, ...).
// The zero Handle never refers to a window.
type Handle uint64

// Candidate is a window picked by Locate
type Candidate struct {
	Handle   Handle
	HasTitle bool
}

// Desktop is the set of primitives a native windowing backend provides.
// Implementations live under pkg/integrations.
type Desktop interface {
	// EachWindow calls visit for every top-level window in the platform's
	// enumeration order until visit returns false.
	EachWindow(visit func(Handle) bool) error

	IsVisible(h Handle) bool
	OwnerPID(h Handle) (int32, bool)
	HasTitle(h Handle) bool
	IsMinimized(h Handle) bool

	Restore(h Handle) error
	Show(h Handle) error
	Hide(h Handle) error
	Raise(h Handle) error
	// SetTopmost marks (on=true) or unmarks the window as always-on-top
	SetTopmost(h Handle, on bool) error
	SetForeground(h Handle) error

	// Name returns the backend name for logging/display
	Name() string

	Close() error
}

// Manager is the windowing capability used by the launcher. It is selected once
// at startup: NativeManager where a Desktop backend exists, NullManager otherwise.
type Manager interface {
	// Available reports whether windows can be located and activated at all
	Available() bool

	// Locate picks the best candidate window owned by one of pids
	Locate(pids map[int32]struct{}) (Candidate, bool)

	// Activate brings the window to the foreground
	Activate(h Handle) error

	// Hide hides the window without closing it
	Hide(h Handle) error

	IsVisible(h Handle) bool

	// Focus only requests foreground/input focus, without the full activation sequence
	Focus(h Handle) error

	// Name returns the manager name for logging/display
	Name() string

	Close() error
}

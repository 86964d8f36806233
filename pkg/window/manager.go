package window

import (
	"github.com/quicklaunch/quicklaunch/pkg/core"
)

// NativeManager implements Manager on top of a platform Desktop backend
type NativeManager struct {
	desktop Desktop
	log     core.Logger
}

// NewNativeManager wraps a Desktop backend
func NewNativeManager(d Desktop, log core.Logger) *NativeManager {
	if log == nil {
		log = core.NopLogger{}
	}
	return &NativeManager{desktop: d, log: log}
}

func (m *NativeManager) Available() bool {
	return true
}

func (m *NativeManager) Locate(pids map[int32]struct{}) (Candidate, bool) {
	c, ok := Locate(m.desktop, pids)
	if ok {
		m.log.Debug("Located window", "window", uint64(c.Handle), "titled", c.HasTitle)
	}
	return c, ok
}

func (m *NativeManager) Activate(h Handle) error {
	return Activate(m.desktop, h, m.log)
}

func (m *NativeManager) Hide(h Handle) error {
	if h == 0 {
		return ErrNoWindow
	}
	return m.desktop.Hide(h)
}

func (m *NativeManager) IsVisible(h Handle) bool {
	return h != 0 && m.desktop.IsVisible(h)
}

func (m *NativeManager) Focus(h Handle) error {
	if h == 0 {
		return ErrNoWindow
	}
	return m.desktop.SetForeground(h)
}

func (m *NativeManager) Name() string {
	return m.desktop.Name()
}

func (m *NativeManager) Close() error {
	return m.desktop.Close()
}

// NullManager is used where no windowing capability exists. Running apps are
// then reported as already running instead of being focused.
type NullManager struct {
	reason string
}

// NewNullManager returns a manager that cannot locate or activate anything.
// reason is only used for display.
func NewNullManager(reason string) *NullManager {
	return &NullManager{reason: reason}
}

func (m *NullManager) Available() bool { return false }

func (m *NullManager) Locate(map[int32]struct{}) (Candidate, bool) {
	return Candidate{}, false
}

func (m *NullManager) Activate(Handle) error { return ErrUnsupported }
func (m *NullManager) Hide(Handle) error     { return ErrUnsupported }
func (m *NullManager) IsVisible(Handle) bool { return false }
func (m *NullManager) Focus(Handle) error    { return ErrUnsupported }

func (m *NullManager) Name() string {
	if m.reason == "" {
		return "none"
	}
	return "none (" + m.reason + ")"
}

func (m *NullManager) Close() error { return nil }

package window

import (
	"errors"
	"fmt"
	"testing"
)

type fakeWindow struct {
	handle    Handle
	pid       int32
	title     string
	visible   bool
	minimized bool
}

// MockDesktop is an in-memory Desktop recording every mutating call
type MockDesktop struct {
	windows   []fakeWindow
	calls     []string
	visited   []Handle
	failSteps map[string]error
	closeErr  error
}

func (m *MockDesktop) find(h Handle) *fakeWindow {
	for i := range m.windows {
		if m.windows[i].handle == h {
			return &m.windows[i]
		}
	}
	return nil
}

func (m *MockDesktop) record(step string, h Handle) error {
	m.calls = append(m.calls, fmt.Sprintf("%s:%d", step, h))
	return m.failSteps[step]
}

func (m *MockDesktop) EachWindow(visit func(Handle) bool) error {
	for _, w := range m.windows {
		m.visited = append(m.visited, w.handle)
		if !visit(w.handle) {
			return errors.New("enumeration stopped")
		}
	}
	return nil
}

func (m *MockDesktop) IsVisible(h Handle) bool {
	w := m.find(h)
	return w != nil && w.visible
}

func (m *MockDesktop) OwnerPID(h Handle) (int32, bool) {
	w := m.find(h)
	if w == nil {
		return 0, false
	}
	return w.pid, true
}

func (m *MockDesktop) HasTitle(h Handle) bool {
	w := m.find(h)
	return w != nil && w.title != ""
}

func (m *MockDesktop) IsMinimized(h Handle) bool {
	w := m.find(h)
	return w != nil && w.minimized
}

func (m *MockDesktop) Restore(h Handle) error { return m.record("restore", h) }
func (m *MockDesktop) Show(h Handle) error    { return m.record("show", h) }
func (m *MockDesktop) Hide(h Handle) error    { return m.record("hide", h) }
func (m *MockDesktop) Raise(h Handle) error   { return m.record("raise", h) }

func (m *MockDesktop) SetTopmost(h Handle, on bool) error {
	if on {
		return m.record("topmost", h)
	}
	return m.record("notopmost", h)
}

func (m *MockDesktop) SetForeground(h Handle) error { return m.record("foreground", h) }
func (m *MockDesktop) Name() string                 { return "mock" }
func (m *MockDesktop) Close() error                 { return m.closeErr }

func TestMockDesktop(t *testing.T) {
	var _ Desktop = (*MockDesktop)(nil)
	var _ Manager = (*NativeManager)(nil)
	var _ Manager = (*NullManager)(nil)
}

func TestNativeManager(t *testing.T) {
	desktop := &MockDesktop{
		windows: []fakeWindow{
			{handle: 7, pid: 100, title: "Editor", visible: true},
		},
	}
	m := NewNativeManager(desktop, nil)

	if !m.Available() {
		t.Fatal("Available() = false, want true")
	}
	if m.Name() != "mock" {
		t.Errorf("Name() = %s, want mock", m.Name())
	}

	c, ok := m.Locate(map[int32]struct{}{100: {}})
	if !ok || c.Handle != 7 {
		t.Fatalf("Locate() = %v, %v, want handle 7", c, ok)
	}
	if err := m.Activate(c.Handle); err != nil {
		t.Errorf("Activate() error: %v", err)
	}
	if !m.IsVisible(c.Handle) {
		t.Error("IsVisible() = false, want true")
	}
	if m.IsVisible(0) {
		t.Error("IsVisible(0) = true, want false")
	}
	if err := m.Focus(0); !errors.Is(err, ErrNoWindow) {
		t.Errorf("Focus(0) error = %v, want ErrNoWindow", err)
	}
	if err := m.Hide(c.Handle); err != nil {
		t.Errorf("Hide() error: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

func TestNullManager(t *testing.T) {
	m := NewNullManager("wayland")

	if m.Available() {
		t.Error("Available() = true, want false")
	}
	if _, ok := m.Locate(map[int32]struct{}{1: {}}); ok {
		t.Error("Locate() found a window on the null manager")
	}
	if err := m.Activate(1); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Activate() error = %v, want ErrUnsupported", err)
	}
	if m.Name() != "none (wayland)" {
		t.Errorf("Name() = %s, want none (wayland)", m.Name())
	}
	if NewNullManager("").Name() != "none" {
		t.Errorf("Name() without reason = %s, want none", NewNullManager("").Name())
	}
}

package surface

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/quicklaunch/quicklaunch/pkg/window"
)

// PIDSource finds process IDs by executable name
type PIDSource interface {
	PIDsFor(ctx context.Context, name string) map[int32]struct{}
}

// WindowSurface drives the top-level window of the launcher UI process.
// A hidden window is not found by Locate, so the last located handle is
// kept and reused until the process shows a window again.
type WindowSurface struct {
	windows window.Manager
	pids    PIDSource
	process string

	mu     sync.Mutex
	handle window.Handle
}

// NewWindowSurface creates a surface for the first window owned by process
func NewWindowSurface(windows window.Manager, pids PIDSource, process string) *WindowSurface {
	return &WindowSurface{
		windows: windows,
		pids:    pids,
		process: process,
	}
}

func (s *WindowSurface) current() (window.Handle, error) {
	if !s.windows.Available() {
		return 0, window.ErrUnsupported
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.windows.Locate(s.pids.PIDsFor(context.Background(), s.process)); ok {
		s.handle = c.Handle
	}
	if s.handle == 0 {
		return 0, errors.Wrapf(window.ErrWindowNotFound, "surface process %s", s.process)
	}
	return s.handle, nil
}

func (s *WindowSurface) Visible() bool {
	h, err := s.current()
	return err == nil && s.windows.IsVisible(h)
}

// Show restores and raises the window
func (s *WindowSurface) Show() error {
	h, err := s.current()
	if err != nil {
		return err
	}
	return s.windows.Activate(h)
}

func (s *WindowSurface) Hide() error {
	h, err := s.current()
	if err != nil {
		return err
	}
	return s.windows.Hide(h)
}

func (s *WindowSurface) Focus() error {
	h, err := s.current()
	if err != nil {
		return err
	}
	return s.windows.Focus(h)
}

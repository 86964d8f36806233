// Package surface shows and hides the launcher window.
package surface

import (
	"sync"
	"time"

	"github.com/quicklaunch/quicklaunch/pkg/core"
)

// Surface is the launcher UI window
type Surface interface {
	Visible() bool
	Show() error
	Hide() error
	Focus() error
}

type stopper interface {
	Stop() bool
}

// Toggler flips the surface between hidden and shown. Showing schedules one
// extra focus after a short delay, because some desktops refuse the first
// focus request of a window that was just mapped.
type Toggler struct {
	surface Surface
	delay   time.Duration
	log     core.Logger

	// replaced in tests
	afterFunc func(time.Duration, func()) stopper

	mu      sync.Mutex
	session uint64
	pending stopper
}

// NewToggler creates a toggler. delay <= 0 disables the delayed re-focus.
func NewToggler(s Surface, delay time.Duration, log core.Logger) *Toggler {
	if log == nil {
		log = core.NopLogger{}
	}
	return &Toggler{
		surface: s,
		delay:   delay,
		log:     log,
		afterFunc: func(d time.Duration, f func()) stopper {
			return time.AfterFunc(d, f)
		},
	}
}

// Toggle hides a visible surface, or shows and focuses a hidden one
func (t *Toggler) Toggle() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	// every toggle starts a new visibility session
	t.session++
	t.cancelLocked()

	if t.surface.Visible() {
		return t.surface.Hide()
	}

	if err := t.surface.Show(); err != nil {
		return err
	}
	if err := t.surface.Focus(); err != nil {
		t.log.Debug("Initial surface focus failed", "error", err.Error())
	}

	if t.delay > 0 {
		session := t.session
		t.pending = t.afterFunc(t.delay, func() { t.refocus(session) })
	}
	return nil
}

// Close cancels any pending re-focus
func (t *Toggler) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.session++
	t.cancelLocked()
}

func (t *Toggler) refocus(session uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if session != t.session {
		return
	}
	t.pending = nil

	if !t.surface.Visible() {
		return
	}
	if err := t.surface.Focus(); err != nil {
		t.log.Debug("Surface re-focus failed", "error", err.Error())
	}
}

func (t *Toggler) cancelLocked() {
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
}

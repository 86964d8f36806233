package window

import "github.com/quicklaunch/quicklaunch/pkg/core"

// Activate runs the fixed foreground sequence on h:
//
//  1. restore if minimized, otherwise just show (no resize)
//  2. raise above siblings
//  3. mark topmost
//  4. clear topmost again, the window stays above non-topmost windows
//  5. request foreground and input focus
//
// Steps 3 and 4 get past the foreground lock that silently ignores a plain
// foreground request from a background process. Failure of a single step does
// not abort the sequence; only a missing handle is an error.
func Activate(d Desktop, h Handle, log core.Logger) error {
	if h == 0 {
		return ErrNoWindow
	}
	if log == nil {
		log = core.NopLogger{}
	}

	step := func(name string, err error) {
		if err != nil {
			log.Debug("Activation step failed", "step", name, "window", uint64(h), "error", err.Error())
		}
	}

	if d.IsMinimized(h) {
		step("restore", d.Restore(h))
	} else {
		step("show", d.Show(h))
	}
	step("raise", d.Raise(h))
	step("topmost", d.SetTopmost(h, true))
	step("notopmost", d.SetTopmost(h, false))
	step("foreground", d.SetForeground(h))

	return nil
}

package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v4/process"
)

var (
	// ErrNotRunning is returned when no resident instance owns the PID file
	ErrNotRunning = errors.New("resident instance is not running")
	// ErrToggleUnsupported is returned where the toggle signal does not exist
	ErrToggleUnsupported = errors.New("toggle signal not supported on this platform")
)

type Daemon struct {
	pidFile string
}

func New(pidFile string) *Daemon {
	return &Daemon{pidFile: pidFile}
}

func (d *Daemon) WritePID() error {
	pid := os.Getpid()
	if err := os.WriteFile(d.pidFile, fmt.Appendf([]byte{}, "%d", pid), 0644); err != nil {
		return errors.Wrap(err, "failed to write PID file")
	}
	return nil
}

func (d *Daemon) ReadPID() (int, error) {
	data, err := os.ReadFile(d.pidFile)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, errors.Wrap(err, "failed to read PID file")
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, errors.Wrap(err, "invalid PID in file")
	}

	return pid, nil
}

func (d *Daemon) RemovePID() error {
	if err := os.Remove(d.pidFile); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove PID file")
	}
	return nil
}

// IsRunning reports whether the PID file names a live process. A stale PID
// file is removed.
func (d *Daemon) IsRunning() (bool, int, error) {
	pid, err := d.ReadPID()
	if err != nil {
		return false, 0, err
	}

	if pid <= 0 {
		return false, 0, nil
	}

	alive, err := process.PidExists(int32(pid))
	if err != nil || !alive {
		_ = d.RemovePID()
		return false, 0, nil
	}

	return true, pid, nil
}

// Signal delivers sig to the resident instance
func (d *Daemon) Signal(sig os.Signal) error {
	running, pid, err := d.IsRunning()
	if err != nil {
		return errors.Wrap(err, "error checking daemon status")
	}
	if !running {
		return ErrNotRunning
	}

	p, err := os.FindProcess(pid)
	if err != nil {
		return errors.Wrap(err, "failed to find process")
	}

	if err := p.Signal(sig); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			_ = d.RemovePID()
			return ErrNotRunning
		}
		return errors.Wrapf(err, "failed to send %v", sig)
	}
	return nil
}

// Toggle asks the resident instance to show or hide the launcher
func (d *Daemon) Toggle() error {
	if toggleSignal == nil {
		return ErrToggleUnsupported
	}
	return d.Signal(toggleSignal)
}

// Stop terminates the resident instance and removes its PID file
func (d *Daemon) Stop() error {
	if err := d.Signal(stopSignal); err != nil {
		return err
	}
	return d.RemovePID()
}

// Run writes the PID file and handles signals until ctx is done or a stop
// signal arrives. onToggle runs on the signal goroutine.
func (d *Daemon) Run(ctx context.Context, onToggle func()) error {
	if err := d.WritePID(); err != nil {
		return err
	}
	defer d.RemovePID()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, handledSignals()...)
	defer signal.Stop(sigs)

	d.serve(ctx, sigs, onToggle)
	return nil
}

func (d *Daemon) serve(ctx context.Context, sigs <-chan os.Signal, onToggle func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-sigs:
			if toggleSignal != nil && sig == toggleSignal {
				if onToggle != nil {
					onToggle()
				}
				continue
			}
			return
		}
	}
}

package process

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/quicklaunch/quicklaunch/pkg/core"
)

// Snapshot maps PID to executable name at one point in time
type Snapshot map[int32]string

// Running reports whether any process in the snapshot has exactly this name
func (s Snapshot) Running(name string) bool {
	for _, n := range s {
		if n == name {
			return true
		}
	}
	return false
}

// PIDs returns the set of process IDs whose executable name equals name
func (s Snapshot) PIDs(name string) map[int32]struct{} {
	pids := make(map[int32]struct{})
	for pid, n := range s {
		if n == name {
			pids[pid] = struct{}{}
		}
	}
	return pids
}

// Source enumerates the OS process table
type Source interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}

// SystemSource reads the process table through gopsutil
type SystemSource struct{}

func (SystemSource) Snapshot(ctx context.Context) (Snapshot, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list processes")
	}

	snap := make(Snapshot, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue // exited meanwhile or not readable
		}
		snap[p.Pid] = name
	}
	return snap, nil
}

// Probe answers "is this executable running" questions. Every call
// re-enumerates the full process table; nothing is cached.
type Probe struct {
	source Source
	log    core.Logger
}

// NewProbe creates a probe over the system process table
func NewProbe(log core.Logger) *Probe {
	return NewProbeWithSource(SystemSource{}, log)
}

// NewProbeWithSource creates a probe over a custom process source
func NewProbeWithSource(src Source, log core.Logger) *Probe {
	if log == nil {
		log = core.NopLogger{}
	}
	return &Probe{source: src, log: log}
}

// Refresh takes a fresh snapshot. It never fails: an unreadable process table
// is reported as empty.
func (p *Probe) Refresh(ctx context.Context) Snapshot {
	snap, err := p.source.Snapshot(ctx)
	if err != nil {
		p.log.Warn("Process enumeration failed, treating table as empty", "error", err.Error())
		return Snapshot{}
	}
	return snap
}

// IsRunning reports whether an executable with exactly this name is running
func (p *Probe) IsRunning(ctx context.Context, name string) bool {
	return p.Refresh(ctx).Running(name)
}

// PIDsFor returns the IDs of all processes with this executable name
func (p *Probe) PIDsFor(ctx context.Context, name string) map[int32]struct{} {
	return p.Refresh(ctx).PIDs(name)
}

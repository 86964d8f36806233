package launcher

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/quicklaunch/quicklaunch/internal/registry"
	"github.com/quicklaunch/quicklaunch/pkg/core"
	"github.com/quicklaunch/quicklaunch/pkg/window"
)

// Failure context tags, attached to error logs as "context"
const (
	ContextWindowSwitch   = "window-switch"
	ContextLaunch         = "launch"
	ContextLaunchProtocol = "launch-protocol"
)

// Kind classifies the result of a launch-or-focus request
type Kind int

const (
	Launched Kind = iota
	Switched
	AlreadyRunning
	Failed
)

func (k Kind) String() string {
	switch k {
	case Launched:
		return "launched"
	case Switched:
		return "switched"
	case AlreadyRunning:
		return "already-running"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Outcome is the single result surfaced to the caller
type Outcome struct {
	Kind    Kind
	Message string
	Err     error
}

// Probe answers process table questions
type Probe interface {
	IsRunning(ctx context.Context, name string) bool
	PIDsFor(ctx context.Context, name string) map[int32]struct{}
}

// IsProtocolURI reports whether target is handed to the OS URI handler
// rather than executed: it has a scheme separator, is not quoted and
// contains no backslash.
func IsProtocolURI(target string) bool {
	return strings.Contains(target, ":") &&
		!strings.HasPrefix(target, `"`) &&
		!strings.Contains(target, `\`)
}

// Orchestrator decides between focusing a running application and starting it
type Orchestrator struct {
	probe   Probe
	windows window.Manager
	spawner Spawner
	log     core.Logger
}

// New creates an orchestrator. A nil manager behaves like a platform without
// window control.
func New(probe Probe, windows window.Manager, spawner Spawner, log core.Logger) *Orchestrator {
	if windows == nil {
		windows = window.NewNullManager("")
	}
	if log == nil {
		log = core.NopLogger{}
	}
	return &Orchestrator{
		probe:   probe,
		windows: windows,
		spawner: spawner,
		log:     log,
	}
}

// LaunchOrFocus brings a running app to the foreground or starts it.
// A running app whose window cannot be found or activated is spawned again:
// for tray-resident apps a second start usually brings the window back.
func (o *Orchestrator) LaunchOrFocus(ctx context.Context, app registry.App) Outcome {
	name := app.ProcessName

	if !o.probe.IsRunning(ctx, name) {
		return o.launch(app)
	}

	if !o.windows.Available() {
		return Outcome{
			Kind:    AlreadyRunning,
			Message: fmt.Sprintf("%s is already running", name),
		}
	}

	switchErr := o.switchTo(ctx, name)
	if switchErr == nil {
		o.log.Info("Switched to running app", "app", name)
		return Outcome{
			Kind:    Switched,
			Message: fmt.Sprintf("Switched to %s", name),
		}
	}

	o.log.Debug("Window switch failed, launching again", "app", name, "error", switchErr.Error())
	if fallback := o.launch(app); fallback.Kind == Launched {
		return fallback
	}

	err := errors.Wrap(switchErr, "window switch failed")
	o.log.Error("Window switch failed", err, "context", ContextWindowSwitch, "app", name)
	return Outcome{
		Kind:    Failed,
		Message: err.Error(),
		Err:     err,
	}
}

// Command is the launch_or_focus command surface: a success message or an error
func (o *Orchestrator) Command(ctx context.Context, processName, target string) (string, error) {
	out := o.LaunchOrFocus(ctx, registry.App{
		ProcessName:  processName,
		DisplayName:  processName,
		LaunchTarget: target,
	})
	if out.Kind == Failed {
		return "", out.Err
	}
	return out.Message, nil
}

func (o *Orchestrator) switchTo(ctx context.Context, name string) error {
	pids := o.probe.PIDsFor(ctx, name)

	candidate, ok := o.windows.Locate(pids)
	if !ok {
		return errors.Wrapf(window.ErrWindowNotFound, "%s", name)
	}

	if err := o.windows.Activate(candidate.Handle); err != nil {
		return errors.Wrapf(err, "failed to activate window of %s", name)
	}
	return nil
}

func (o *Orchestrator) launch(app registry.App) Outcome {
	target := app.LaunchTarget
	protocol := IsProtocolURI(target)

	var err error
	if protocol {
		err = o.spawner.Open(target)
	} else {
		err = o.spawner.Exec(target)
	}

	if err != nil {
		spawnErr := &SpawnError{Target: target, Protocol: protocol, Err: err}
		tag := ContextLaunch
		if protocol {
			tag = ContextLaunchProtocol
		}
		o.log.Error("Launch failed", spawnErr, "context", tag, "app", app.ProcessName, "path", target)
		return Outcome{
			Kind:    Failed,
			Message: spawnErr.Error(),
			Err:     spawnErr,
		}
	}

	o.log.Info("Launched app", "app", app.ProcessName, "protocol", protocol)
	return Outcome{
		Kind:    Launched,
		Message: fmt.Sprintf("Launched %s", app.ProcessName),
	}
}

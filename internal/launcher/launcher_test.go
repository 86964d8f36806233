package launcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quicklaunch/quicklaunch/internal/registry"
	"github.com/quicklaunch/quicklaunch/pkg/window"
)

type fakeProbe struct {
	table map[int32]string
}

func (p *fakeProbe) IsRunning(_ context.Context, name string) bool {
	return len(p.PIDsFor(context.Background(), name)) > 0
}

func (p *fakeProbe) PIDsFor(_ context.Context, name string) map[int32]struct{} {
	pids := make(map[int32]struct{})
	for pid, n := range p.table {
		if n == name {
			pids[pid] = struct{}{}
		}
	}
	return pids
}

type fakeManager struct {
	available   bool
	windows     map[int32]window.Handle // owner pid -> window
	activateErr error

	activated []window.Handle
}

func (m *fakeManager) Available() bool { return m.available }

func (m *fakeManager) Locate(pids map[int32]struct{}) (window.Candidate, bool) {
	for pid := range pids {
		if h, ok := m.windows[pid]; ok {
			return window.Candidate{Handle: h, HasTitle: true}, true
		}
	}
	return window.Candidate{}, false
}

func (m *fakeManager) Activate(h window.Handle) error {
	m.activated = append(m.activated, h)
	return m.activateErr
}

func (m *fakeManager) Hide(window.Handle) error    { return nil }
func (m *fakeManager) IsVisible(window.Handle) bool { return true }
func (m *fakeManager) Focus(window.Handle) error   { return nil }
func (m *fakeManager) Name() string                { return "fake" }
func (m *fakeManager) Close() error                { return nil }

type fakeSpawner struct {
	err    error
	opened []string
	execd  []string
}

func (s *fakeSpawner) Open(uri string) error {
	s.opened = append(s.opened, uri)
	return s.err
}

func (s *fakeSpawner) Exec(path string) error {
	s.execd = append(s.execd, path)
	return s.err
}

type logEntry struct {
	msg    string
	err    error
	fields map[string]interface{}
}

type recordingLogger struct {
	errors []logEntry
}

func (r *recordingLogger) Debug(string, ...interface{}) {}
func (r *recordingLogger) Info(string, ...interface{})  {}
func (r *recordingLogger) Warn(string, ...interface{})  {}
func (r *recordingLogger) Error(msg string, err error, kv ...interface{}) {
	fields := make(map[string]interface{})
	for i := 0; i+1 < len(kv); i += 2 {
		fields[kv[i].(string)] = kv[i+1]
	}
	r.errors = append(r.errors, logEntry{msg: msg, err: err, fields: fields})
}

func (r *recordingLogger) contexts() []interface{} {
	var tags []interface{}
	for _, e := range r.errors {
		tags = append(tags, e.fields["context"])
	}
	return tags
}

var code = registry.App{ProcessName: "Code.exe", DisplayName: "VSCode", LaunchTarget: `C:\Tools\VSCode\Code.exe`}

func TestIsProtocolURI(t *testing.T) {
	tests := []struct {
		target string
		want   bool
	}{
		{"calculator:", true},
		{"ms-settings:display", true},
		{"https://example.com/path", true},
		{`C:\Windows\notepad.exe`, false},
		{`"C:\Program Files\x.exe"`, false},
		{`"calculator:"`, false},
		{"code", false},
		{"/usr/bin/code", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, IsProtocolURI(tt.target))
		})
	}
}

func TestLaunchWhenNotRunning(t *testing.T) {
	spawner := &fakeSpawner{}
	mgr := &fakeManager{available: true}
	o := New(&fakeProbe{}, mgr, spawner, nil)

	out := o.LaunchOrFocus(context.Background(), code)

	assert.Equal(t, Launched, out.Kind)
	assert.Equal(t, "Launched Code.exe", out.Message)
	assert.Equal(t, []string{code.LaunchTarget}, spawner.execd)
	assert.Empty(t, spawner.opened)
	assert.Empty(t, mgr.activated, "window control is not consulted for stopped apps")
}

func TestLaunchProtocolTarget(t *testing.T) {
	spawner := &fakeSpawner{}
	o := New(&fakeProbe{}, &fakeManager{available: true}, spawner, nil)

	out := o.LaunchOrFocus(context.Background(), registry.App{
		ProcessName:  "CalculatorApp.exe",
		DisplayName:  "Calculator",
		LaunchTarget: "calculator:",
	})

	assert.Equal(t, Launched, out.Kind)
	assert.Equal(t, []string{"calculator:"}, spawner.opened)
	assert.Empty(t, spawner.execd)
}

func TestLaunchFailure(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		wantTag string
	}{
		{"executable", `C:\missing\app.exe`, ContextLaunch},
		{"protocol", "nosuchscheme:", ContextLaunchProtocol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &recordingLogger{}
			spawner := &fakeSpawner{err: os.ErrNotExist}
			o := New(&fakeProbe{}, &fakeManager{available: true}, spawner, log)

			out := o.LaunchOrFocus(context.Background(), registry.App{ProcessName: "x.exe", LaunchTarget: tt.target})

			assert.Equal(t, Failed, out.Kind)
			require.Error(t, out.Err)
			assert.ErrorIs(t, out.Err, ErrSpawnFailed)
			assert.ErrorIs(t, out.Err, os.ErrNotExist)
			assert.Equal(t, []interface{}{tt.wantTag}, log.contexts())
			assert.Contains(t, out.Message, tt.target)
		})
	}
}

func TestSpawnErrorCarriesTarget(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		protocol bool
	}{
		{"executable", `C:\a.exe`, false},
		{"protocol", "ms-settings:display", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &SpawnError{Target: tt.target, Protocol: tt.protocol, Err: os.ErrNotExist}
			assert.Contains(t, err.Error(), tt.target)
			assert.Contains(t, err.Error(), os.ErrNotExist.Error())
		})
	}
}

func TestRunningWithoutWindowControl(t *testing.T) {
	spawner := &fakeSpawner{}
	o := New(&fakeProbe{table: map[int32]string{10: "Code.exe"}}, window.NewNullManager("darwin"), spawner, nil)

	out := o.LaunchOrFocus(context.Background(), code)

	assert.Equal(t, AlreadyRunning, out.Kind)
	assert.Equal(t, "Code.exe is already running", out.Message)
	assert.Empty(t, spawner.execd)
}

func TestSwitchToRunningApp(t *testing.T) {
	spawner := &fakeSpawner{}
	mgr := &fakeManager{available: true, windows: map[int32]window.Handle{11: 0x400}}
	probe := &fakeProbe{table: map[int32]string{10: "explorer.exe", 11: "Code.exe"}}
	o := New(probe, mgr, spawner, nil)

	out := o.LaunchOrFocus(context.Background(), code)

	assert.Equal(t, Switched, out.Kind)
	assert.Equal(t, "Switched to Code.exe", out.Message)
	assert.Equal(t, []window.Handle{0x400}, mgr.activated)
	assert.Empty(t, spawner.execd)
}

func TestNoWindowFallsBackToLaunch(t *testing.T) {
	log := &recordingLogger{}
	spawner := &fakeSpawner{}
	mgr := &fakeManager{available: true}
	o := New(&fakeProbe{table: map[int32]string{11: "Code.exe"}}, mgr, spawner, log)

	out := o.LaunchOrFocus(context.Background(), code)

	assert.Equal(t, Launched, out.Kind)
	assert.Equal(t, []string{code.LaunchTarget}, spawner.execd)
	assert.Empty(t, log.errors, "a successful fallback is not a failure")
}

func TestActivateErrorFallsBackToLaunch(t *testing.T) {
	spawner := &fakeSpawner{}
	mgr := &fakeManager{
		available:   true,
		windows:     map[int32]window.Handle{11: 0x400},
		activateErr: window.ErrNoWindow,
	}
	o := New(&fakeProbe{table: map[int32]string{11: "Code.exe"}}, mgr, spawner, nil)

	out := o.LaunchOrFocus(context.Background(), code)

	assert.Equal(t, Launched, out.Kind)
	assert.Len(t, spawner.execd, 1)
}

func TestFallbackFailureReportsSwitchError(t *testing.T) {
	log := &recordingLogger{}
	spawner := &fakeSpawner{err: errors.New("access denied")}
	mgr := &fakeManager{available: true}
	o := New(&fakeProbe{table: map[int32]string{11: "Code.exe"}}, mgr, spawner, log)

	out := o.LaunchOrFocus(context.Background(), code)

	assert.Equal(t, Failed, out.Kind)
	assert.ErrorIs(t, out.Err, window.ErrWindowNotFound)
	assert.NotErrorIs(t, out.Err, ErrSpawnFailed)
	assert.Equal(t, []interface{}{ContextLaunch, ContextWindowSwitch}, log.contexts())
	assert.Equal(t, "Code.exe", log.errors[1].fields["app"])
}

func TestCommand(t *testing.T) {
	o := New(&fakeProbe{}, nil, &fakeSpawner{}, nil)
	msg, err := o.Command(context.Background(), "Code.exe", "code")
	require.NoError(t, err)
	assert.Equal(t, "Launched Code.exe", msg)

	o = New(&fakeProbe{}, nil, &fakeSpawner{err: os.ErrPermission}, nil)
	msg, err = o.Command(context.Background(), "Code.exe", "code")
	assert.Empty(t, msg)
	assert.ErrorIs(t, err, ErrSpawnFailed)
}

func TestOpenCommand(t *testing.T) {
	tests := []struct {
		goos     string
		wantName string
		wantArgs []string
	}{
		{"windows", "cmd", []string{"/c", "start", "", "ms-settings:"}},
		{"darwin", "open", []string{"ms-settings:"}},
		{"linux", "xdg-open", []string{"ms-settings:"}},
		{"freebsd", "xdg-open", []string{"ms-settings:"}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			name, args := openCommand(tt.goos, "ms-settings:")
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestTrimQuotes(t *testing.T) {
	assert.Equal(t, `C:\Program Files\a.exe`, trimQuotes(`"C:\Program Files\a.exe"`))
	assert.Equal(t, "code", trimQuotes(" code "))
	assert.Equal(t, `"`, trimQuotes(`"`))
}

func TestOSSpawnerExecMissingBinary(t *testing.T) {
	s := NewOSSpawner()
	err := s.Exec(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}

package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/quicklaunch/quicklaunch/pkg/core"
)

type recordingHook struct {
	msgs   []string
	fields []map[string]interface{}
}

func (h *recordingHook) OnError(msg string, err error, fields map[string]interface{}) {
	h.msgs = append(h.msgs, msg)
	h.fields = append(h.fields, fields)
}

func TestLoggerInterface(t *testing.T) {
	var _ core.Logger = (*Logger)(nil)
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger(WithWriter(&buf), WithLevel(zerolog.InfoLevel))
	if err != nil {
		t.Fatalf("NewLogger() error: %v", err)
	}
	defer log.Close()

	log.Debug("hidden", "k", "v")
	log.Info("App started", "apps", 3)
	log.Warn("Config line malformed", "line", "a,b")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug message written at info level")
	}
	if !strings.Contains(out, `"apps":3`) {
		t.Errorf("info fields missing from output: %s", out)
	}
	if !strings.Contains(out, `"level":"warn"`) {
		t.Errorf("warn level missing from output: %s", out)
	}
}

func TestLoggerHooks(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger(WithWriter(&buf))
	if err != nil {
		t.Fatalf("NewLogger() error: %v", err)
	}

	hook := &recordingHook{}
	log.AddHook(hook)

	log.Info("not forwarded")
	log.Error("Launch failed", errors.New("exec: not found"), "context", "launch", "app", "Code.exe", "dangling")

	if len(hook.msgs) != 1 || hook.msgs[0] != "Launch failed" {
		t.Fatalf("hook messages = %v, want [Launch failed]", hook.msgs)
	}
	if hook.fields[0]["context"] != "launch" || hook.fields[0]["app"] != "Code.exe" {
		t.Errorf("hook fields = %v", hook.fields[0])
	}
	if !strings.Contains(buf.String(), "exec: not found") {
		t.Errorf("error text missing from output: %s", buf.String())
	}
}

func TestCleanup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quicklaunch.log")

	cleared, err := Cleanup(path, 10)
	if err != nil || cleared {
		t.Fatalf("Cleanup(missing) = %v, %v, want false, nil", cleared, err)
	}

	if err := os.WriteFile(path, []byte("short"), 0644); err != nil {
		t.Fatal(err)
	}
	if cleared, _ := Cleanup(path, 10); cleared {
		t.Error("Cleanup() cleared a file below the limit")
	}

	if err := os.WriteFile(path, []byte("much longer than ten bytes"), 0644); err != nil {
		t.Fatal(err)
	}
	cleared, err = Cleanup(path, 10)
	if err != nil || !cleared {
		t.Fatalf("Cleanup(oversized) = %v, %v, want true, nil", cleared, err)
	}
	if info, _ := os.Stat(path); info.Size() != 0 {
		t.Errorf("size after cleanup = %d, want 0", info.Size())
	}
}

func TestWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "quicklaunch.log")

	log, err := NewLogger(WithFile(path, 0))
	if err != nil {
		t.Fatalf("NewLogger() error: %v", err)
	}
	log.Info("Launcher starting", "version", "test")
	if err := log.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "Launcher starting") {
		t.Errorf("log file content = %q", data)
	}
}

func TestWithConsole(t *testing.T) {
	var buf bytes.Buffer

	log, err := NewLogger(WithConsole(&buf))
	if err != nil {
		t.Fatalf("NewLogger() error: %v", err)
	}
	log.Warn("Log file unavailable", "path", "/nowhere")

	out := buf.String()
	if !strings.Contains(out, "Log file unavailable") || !strings.Contains(out, "/nowhere") {
		t.Errorf("console output = %q", out)
	}
}

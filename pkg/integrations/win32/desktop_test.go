package win32

import (
	"runtime"
	"testing"
)

func TestNewDesktop(t *testing.T) {
	d, err := NewDesktop()

	if runtime.GOOS != "windows" {
		if err == nil {
			t.Fatal("NewDesktop() succeeded outside windows")
		}
		return
	}

	if err != nil {
		t.Fatalf("NewDesktop() error: %v", err)
	}
	defer d.Close()

	if d.Name() != "win32" {
		t.Errorf("Name() = %s, want win32", d.Name())
	}
}

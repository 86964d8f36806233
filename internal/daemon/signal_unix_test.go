//go:build !windows

package daemon

import (
	"context"
	"os"
	"syscall"
	"testing"
)

func TestServeToggles(t *testing.T) {
	d, _ := newTestDaemon(t)
	sigs := make(chan os.Signal, 3)
	sigs <- syscall.SIGUSR1
	sigs <- syscall.SIGUSR1
	sigs <- syscall.SIGTERM

	toggles := 0
	d.serve(context.Background(), sigs, func() { toggles++ })

	if toggles != 2 {
		t.Errorf("toggles = %d, want 2", toggles)
	}
}

package detector

import (
	"os"
	"runtime"

	"github.com/quicklaunch/quicklaunch/pkg/core"
	"github.com/quicklaunch/quicklaunch/pkg/integrations/win32"
	"github.com/quicklaunch/quicklaunch/pkg/integrations/x11"
	"github.com/quicklaunch/quicklaunch/pkg/window"
)

// New selects the window manager for this platform. It never fails: when no
// native backend can be used the NullManager is returned and running apps are
// reported instead of focused.
func New(log core.Logger) window.Manager {
	if log == nil {
		log = core.NopLogger{}
	}

	switch Platform() {
	case "windows":
		d, err := win32.NewDesktop()
		if err != nil {
			log.Warn("Win32 window backend unavailable", "error", err.Error())
			return window.NewNullManager("win32 unavailable")
		}
		return window.NewNativeManager(d, log)

	case "x11":
		d, err := x11.NewDesktop()
		if err != nil {
			log.Warn("X11 window backend unavailable", "error", err.Error())
			return window.NewNullManager("x11 unavailable")
		}
		return window.NewNativeManager(d, log)

	default:
		return window.NewNullManager(Platform())
	}
}

// Platform names the windowing environment: "windows", "x11", "wayland" or "unknown"
func Platform() string {
	if runtime.GOOS == "windows" {
		return "windows"
	}
	return DetectDisplayServer()
}

// DetectDisplayServer inspects the session environment on Unix desktops.
// An XWayland DISPLAY alongside a Wayland session still counts as wayland:
// X11 activation requests do not reach native Wayland windows.
func DetectDisplayServer() string {
	sessionType := os.Getenv("XDG_SESSION_TYPE")
	waylandDisplay := os.Getenv("WAYLAND_DISPLAY")
	x11Display := os.Getenv("DISPLAY")

	if sessionType == "wayland" || waylandDisplay != "" {
		return "wayland"
	}

	if sessionType == "x11" || x11Display != "" {
		return "x11"
	}

	return "unknown"
}

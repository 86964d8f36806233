//go:build !windows

package win32

import (
	"github.com/pkg/errors"

	"github.com/quicklaunch/quicklaunch/pkg/window"
)

// NewDesktop is only functional on Windows
func NewDesktop() (window.Desktop, error) {
	return nil, errors.New("win32 backend is only available on windows")
}

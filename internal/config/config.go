package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// AppName is used for notifications and file names
	AppName = "quicklaunch"

	defaultAssetsDir    = "target_app"
	defaultRegistryFile = "target_app.txt"
	defaultLogFile      = "quicklaunch.log"
)

// Config holds all application configuration
type Config struct {
	// AssetsDir holds the registry file and the <display name>.png icons
	AssetsDir string `envconfig:"ASSETS_DIR"`

	Registry RegistryConfig
	Log      LogConfig
	Journal  JournalConfig
	Daemon   DaemonConfig
	Surface  SurfaceConfig
	Notify   NotifyConfig
}

// RegistryConfig holds the monitored app registry location
type RegistryConfig struct {
	File string `envconfig:"FILE"` // Empty means <AssetsDir>/target_app.txt
}

// LogConfig holds logging configuration
type LogConfig struct {
	File     string `envconfig:"FILE"`
	Debug    bool   `envconfig:"DEBUG"`
	MaxBytes int64  `envconfig:"MAX_BYTES"` // Log is cleared at startup above this size
}

// JournalConfig holds the failure journal configuration
type JournalConfig struct {
	Path string `envconfig:"PATH"` // Empty disables the journal
}

// DaemonConfig holds resident instance configuration
type DaemonConfig struct {
	PIDFile string `envconfig:"PID_FILE"`
}

// SurfaceConfig describes the launcher UI window toggled by the resident instance
type SurfaceConfig struct {
	Process      string        `envconfig:"PROCESS"` // Executable name owning the launcher window
	RefocusDelay time.Duration `envconfig:"REFOCUS_DELAY"`
}

// NotifyConfig holds desktop notification configuration
type NotifyConfig struct {
	Enabled bool `envconfig:"ENABLED"`
}

// baseDir is the directory of the running executable, or the working
// directory when it cannot be determined.
func baseDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// Default returns a Config with sensible default values
func Default() *Config {
	base := baseDir()
	return &Config{
		AssetsDir: filepath.Join(base, defaultAssetsDir),
		Registry: RegistryConfig{
			File: "", // Empty means <AssetsDir>/target_app.txt
		},
		Log: LogConfig{
			File:     filepath.Join(base, defaultLogFile),
			Debug:    false,
			MaxBytes: 1 << 20,
		},
		Journal: JournalConfig{
			Path: "", // Disabled unless configured
		},
		Daemon: DaemonConfig{
			PIDFile: filepath.Join(os.TempDir(), fmt.Sprintf("%s-%d.pid", AppName, os.Getuid())),
		},
		Surface: SurfaceConfig{
			Process:      "",
			RefocusDelay: 50 * time.Millisecond,
		},
		Notify: NotifyConfig{
			Enabled: true,
		},
	}
}

// RegistryPath returns the effective registry file path
func (c *Config) RegistryPath() string {
	if c.Registry.File != "" {
		return c.Registry.File
	}
	return filepath.Join(c.AssetsDir, defaultRegistryFile)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.AssetsDir == "" {
		return fmt.Errorf("assets directory cannot be empty")
	}

	if c.Log.File == "" {
		return fmt.Errorf("log file path cannot be empty")
	}

	if c.Log.MaxBytes <= 0 {
		return fmt.Errorf("log size limit must be positive, got %d", c.Log.MaxBytes)
	}

	if c.Daemon.PIDFile == "" {
		return fmt.Errorf("PID file path cannot be empty")
	}

	if c.Surface.RefocusDelay < 0 {
		return fmt.Errorf("refocus delay cannot be negative")
	}

	return nil
}

// String returns a string representation of the config
func (c *Config) String() string {
	journal := c.Journal.Path
	if journal == "" {
		journal = "(disabled)"
	}
	surface := c.Surface.Process
	if surface == "" {
		surface = "(none)"
	}

	return fmt.Sprintf(`Configuration:
  Assets Dir: %s
  Registry: %s
  Log:
    File: %s
    Debug: %v
    Max Bytes: %d
  Journal: %s
  Daemon:
    PID File: %s
  Surface:
    Process: %s
    Refocus Delay: %v
  Notifications: %v`,
		c.AssetsDir,
		c.RegistryPath(),
		c.Log.File,
		c.Log.Debug,
		c.Log.MaxBytes,
		journal,
		c.Daemon.PIDFile,
		surface,
		c.Surface.RefocusDelay,
		c.Notify.Enabled,
	)
}

package tracker

import (
	"context"
	"os"
	"path/filepath"

	"github.com/quicklaunch/quicklaunch/internal/registry"
	"github.com/quicklaunch/quicklaunch/pkg/core"
	"github.com/quicklaunch/quicklaunch/pkg/process"
)

// AppStatus is one registry entry with its current run state
type AppStatus struct {
	ProcessName  string  `json:"process_name"`
	DisplayName  string  `json:"display_name"`
	LaunchTarget string  `json:"launch_path"`
	IsRunning    bool    `json:"is_running"`
	IconPath     *string `json:"icon_path"`
}

// Snapshotter produces a fresh process table
type Snapshotter interface {
	Refresh(ctx context.Context) process.Snapshot
}

type Service struct {
	apps      *registry.Store
	probe     Snapshotter
	assetsDir string
	log       core.Logger
}

func NewService(apps *registry.Store, probe Snapshotter, assetsDir string, log core.Logger) *Service {
	if log == nil {
		log = core.NopLogger{}
	}
	return &Service{
		apps:      apps,
		probe:     probe,
		assetsDir: assetsDir,
		log:       log,
	}
}

// AppList returns every registry entry in file order. One process snapshot
// is shared by the whole list.
func (s *Service) AppList(ctx context.Context) []AppStatus {
	snap := s.probe.Refresh(ctx)
	apps := s.apps.Apps()

	list := make([]AppStatus, 0, len(apps))
	for _, app := range apps {
		list = append(list, AppStatus{
			ProcessName:  app.ProcessName,
			DisplayName:  app.DisplayName,
			LaunchTarget: app.LaunchTarget,
			IsRunning:    snap.Running(app.ProcessName),
			IconPath:     s.IconPath(app.DisplayName),
		})
	}
	return list
}

// IconPath returns the absolute path of <assets>/<displayName>.png, or nil
// when there is no such file.
func (s *Service) IconPath(displayName string) *string {
	path, err := filepath.Abs(filepath.Join(s.assetsDir, displayName+".png"))
	if err != nil {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil
	}
	return &path
}

// CheckStatus logs how many monitored apps are running
func (s *Service) CheckStatus(ctx context.Context) int {
	running := 0
	for _, app := range s.AppList(ctx) {
		if app.IsRunning {
			running++
		}
	}
	s.log.Info("Checked app status", "apps", s.apps.Len(), "running", running)
	return running
}

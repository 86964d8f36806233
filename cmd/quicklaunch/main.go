package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/quicklaunch/quicklaunch/internal/config"
	"github.com/quicklaunch/quicklaunch/internal/daemon"
	"github.com/quicklaunch/quicklaunch/internal/database"
	"github.com/quicklaunch/quicklaunch/internal/launcher"
	"github.com/quicklaunch/quicklaunch/internal/logging"
	"github.com/quicklaunch/quicklaunch/internal/notify"
	"github.com/quicklaunch/quicklaunch/internal/registry"
	"github.com/quicklaunch/quicklaunch/internal/reporter"
	"github.com/quicklaunch/quicklaunch/internal/surface"
	"github.com/quicklaunch/quicklaunch/internal/tracker"
	"github.com/quicklaunch/quicklaunch/pkg/detector"
	"github.com/quicklaunch/quicklaunch/pkg/layout"
	"github.com/quicklaunch/quicklaunch/pkg/process"
)

var (
	version = "0.1.0"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "list":
		listApps(args)
	case "launch":
		launchApp(args)
	case "exec":
		execTarget(args)
	case "size":
		showSize()
	case "start":
		startDaemon()
	case "run":
		runDaemon()
	case "toggle":
		toggleSurface()
	case "stop":
		stopDaemon()
	case "status":
		showStatus()
	case "failures":
		showFailures(args)
	case "clear":
		clearJournal()
	case "version":
		fmt.Printf("quicklaunch version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`quicklaunch - Launch or focus your everyday applications

Usage:
  quicklaunch <command> [options]

Commands:
  list [--json]             List monitored applications and their run state
  launch <query>            Focus the matching application, or start it
  exec <process> <target>   Launch or focus an application outside the registry
  size                      Show the launcher window size for the registry
  start                     Start the resident instance in the background
  run                       Run the resident instance in the foreground
  toggle                    Show or hide the launcher window (bind to a hotkey)
  stop                      Stop the resident instance
  status                    Show resident instance status and configuration
  failures [n] [--json]     Show the last n recorded failures (default 20)
  clear                     Delete all recorded failures
  version                   Show version information
  help                      Show this help message

Examples:
  quicklaunch list
  quicklaunch launch firefox
  quicklaunch launch "vs code"
  quicklaunch exec CalculatorApp.exe calculator:
  quicklaunch start

Environment Variables:
  QUICKLAUNCH_ASSETS_DIR             Directory with target_app.txt and icons
  QUICKLAUNCH_REGISTRY_FILE          Registry file path
  QUICKLAUNCH_LOG_FILE               Log file path
  QUICKLAUNCH_LOG_DEBUG              Enable debug logging (true/false)
  QUICKLAUNCH_LOG_MAX_BYTES          Log size that triggers cleanup at startup
  QUICKLAUNCH_JOURNAL_PATH           Failure journal database (empty disables it)
  QUICKLAUNCH_DAEMON_PID_FILE        PID file path
  QUICKLAUNCH_SURFACE_PROCESS        Process owning the launcher window
  QUICKLAUNCH_SURFACE_REFOCUS_DELAY  Delay of the second focus after showing
  QUICKLAUNCH_NOTIFY_ENABLED         Show desktop notifications on errors

Version: %s
`, version)
}

// app holds the shared services of one command invocation
type app struct {
	cfg     *config.Config
	log     *logging.Logger
	store   *registry.Store
	probe   *process.Probe
	closers []func() error
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}

func loadConfig() *config.Config {
	cfg, err := config.New()
	if err != nil {
		fatal("Failed to load configuration", err)
	}
	if err := cfg.Validate(); err != nil {
		fatal("Invalid configuration", err)
	}
	return cfg
}

// consoleOut receives console logging, and all logging when the log file
// cannot be used
var consoleOut io.Writer = os.Stderr

// openLogger logs to the configured file. An unwritable log file must not stop
// the launcher: it falls back to the console and reports why.
func openLogger(cfg *config.Config, console bool) (*logging.Logger, error) {
	level := zerolog.InfoLevel
	if cfg.Log.Debug {
		level = zerolog.DebugLevel
	}

	opts := []logging.Option{
		logging.WithFile(cfg.Log.File, cfg.Log.MaxBytes),
		logging.WithLevel(level),
	}
	if console {
		opts = append(opts, logging.WithConsole(consoleOut))
	}

	log, err := logging.NewLogger(opts...)
	if err == nil {
		return log, nil
	}

	fallback, fbErr := logging.NewLogger(logging.WithConsole(consoleOut), logging.WithLevel(level))
	if fbErr != nil {
		return nil, fbErr
	}
	fallback.Warn("Log file unavailable", "path", cfg.Log.File, "error", err.Error())
	return fallback, nil
}

func setup(console bool) *app {
	cfg := loadConfig()

	log, err := openLogger(cfg, console)
	if err != nil {
		fatal("Failed to initialize logger", err)
	}

	a := &app{
		cfg:   cfg,
		log:   log,
		store: registry.NewStore(cfg.RegistryPath(), log),
		probe: process.NewProbe(log),
	}
	a.closers = append(a.closers, log.Close)

	if cfg.Notify.Enabled {
		n, err := notify.New(config.AppName, cfg.Log.File)
		if err != nil {
			log.Debug("Desktop notifications unavailable", "error", err.Error())
		} else {
			log.AddHook(n)
			a.closers = append(a.closers, n.Close)
		}
	}

	if cfg.Journal.Path != "" {
		db, err := openJournal(cfg)
		if err != nil {
			log.Warn("Failure journal unavailable", "error", err.Error())
		} else {
			log.AddHook(database.NewHook(database.NewRepository(db)))
			a.closers = append(a.closers, db.Close)
		}
	}

	return a
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

func openJournal(cfg *config.Config) (*database.DB, error) {
	db, err := database.Connect(cfg.Journal.Path)
	if err != nil {
		return nil, err
	}
	if err := db.Initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

func listApps(args []string) {
	a := setup(false)
	defer a.close()

	svc := tracker.NewService(a.store, a.probe, a.cfg.AssetsDir, a.log)
	apps := svc.AppList(context.Background())
	rep := reporter.New()

	if hasFlag(args, "--json") {
		out, err := rep.FormatJSON(apps)
		if err != nil {
			fatal("Failed to format JSON", err)
		}
		fmt.Println(out)
		return
	}
	fmt.Print(rep.FormatAppsText(apps))
}

func newOrchestrator(a *app) (*launcher.Orchestrator, func() error) {
	windows := detector.New(a.log)
	a.log.Debug("Window manager selected", "manager", windows.Name())
	return launcher.New(a.probe, windows, launcher.NewOSSpawner(), a.log), windows.Close
}

func launchApp(args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: quicklaunch launch <query>")
		os.Exit(1)
	}
	if code := launchQuery(strings.Join(args, " ")); code != 0 {
		os.Exit(code)
	}
}

func launchQuery(query string) int {
	a := setup(false)
	defer a.close()

	target, ok := registry.Find(a.store.Apps(), query)
	if !ok {
		fmt.Fprintf(os.Stderr, "No monitored application matches %q\n", query)
		return 1
	}

	orch, closeWindows := newOrchestrator(a)
	defer closeWindows()

	out := orch.LaunchOrFocus(context.Background(), target)
	if out.Kind == launcher.Failed {
		fmt.Fprintln(os.Stderr, out.Message)
		return 1
	}
	fmt.Println(out.Message)
	return 0
}

func execTarget(args []string) {
	if len(args) != 2 {
		fmt.Println("Usage: quicklaunch exec <process> <target>")
		os.Exit(1)
	}
	if code := execCommand(args[0], args[1]); code != 0 {
		os.Exit(code)
	}
}

func execCommand(processName, target string) int {
	a := setup(false)
	defer a.close()

	orch, closeWindows := newOrchestrator(a)
	defer closeWindows()

	msg, err := orch.Command(context.Background(), processName, target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Launch failed: %v\n", err)
		return 1
	}
	fmt.Println(msg)
	return 0
}

func showSize() {
	a := setup(false)
	defer a.close()

	fmt.Print(reporter.New().FormatSize(a.store.Len()))
}

func startDaemon() {
	cfg := loadConfig()

	dm := daemon.New(cfg.Daemon.PIDFile)
	running, pid, err := dm.IsRunning()
	if err != nil {
		fatal("Failed to check daemon status", err)
	}
	if running {
		fmt.Printf("Resident instance is already running (PID: %d)\n", pid)
		os.Exit(1)
	}

	pid, err = daemon.Detach([]string{"run"})
	if err != nil {
		fatal("Failed to start resident instance", err)
	}

	fmt.Printf("Resident instance started (PID: %d)\n", pid)
	fmt.Printf("Logs: %s\n", cfg.Log.File)
}

func runDaemon() {
	a := setup(!daemon.IsChild())
	defer a.close()

	dm := daemon.New(a.cfg.Daemon.PIDFile)
	running, pid, err := dm.IsRunning()
	if err != nil {
		a.log.Error("Failed to check daemon status", err)
		return
	}
	if running {
		a.log.Warn("Resident instance is already running", "pid", pid)
		return
	}

	ctx := context.Background()
	a.log.Info("Starting resident instance", "version", version, "platform", detector.Platform())
	a.log.Debug(a.cfg.String())

	count := a.store.Len()
	dims := layout.Size(count)
	a.log.Info("Launcher size", "apps", count, "width", dims.Width, "height", dims.Height)

	tracker.NewService(a.store, a.probe, a.cfg.AssetsDir, a.log).CheckStatus(ctx)

	windows := detector.New(a.log)
	defer windows.Close()
	a.log.Info("Window manager selected", "manager", windows.Name())

	onToggle := func() {
		a.log.Warn("Toggle ignored, no surface process configured")
	}
	if a.cfg.Surface.Process != "" {
		s := surface.NewWindowSurface(windows, a.probe, a.cfg.Surface.Process)
		toggler := surface.NewToggler(s, a.cfg.Surface.RefocusDelay, a.log)
		defer toggler.Close()

		onToggle = func() {
			if err := toggler.Toggle(); err != nil {
				a.log.Error("Failed to toggle launcher", err, "context", "surface", "app", a.cfg.Surface.Process)
			}
		}
	}

	if err := dm.Run(ctx, onToggle); err != nil {
		a.log.Error("Resident instance failed", err)
		return
	}
	a.log.Info("Resident instance stopped")
}

func toggleSurface() {
	cfg := loadConfig()
	dm := daemon.New(cfg.Daemon.PIDFile)

	if err := dm.Toggle(); err != nil {
		if errors.Is(err, daemon.ErrNotRunning) {
			fmt.Println("Resident instance is not running")
			os.Exit(1)
		}
		fatal("Failed to toggle launcher", err)
	}
}

func stopDaemon() {
	cfg := loadConfig()
	dm := daemon.New(cfg.Daemon.PIDFile)

	running, pid, err := dm.IsRunning()
	if err != nil {
		fatal("Failed to check daemon status", err)
	}

	if !running {
		fmt.Println("Resident instance is not running")
		return
	}

	fmt.Printf("Stopping resident instance (PID: %d)...\n", pid)
	if err := dm.Stop(); err != nil {
		fatal("Failed to stop resident instance", err)
	}

	fmt.Println("Resident instance stopped successfully")
}

func showStatus() {
	a := setup(false)
	defer a.close()

	dm := daemon.New(a.cfg.Daemon.PIDFile)
	running, pid, err := dm.IsRunning()
	if err != nil {
		fatal("Failed to check daemon status", err)
	}

	if running {
		fmt.Printf("Status: Running (PID: %d)\n", pid)
	} else {
		fmt.Println("Status: Not running")
	}

	windows := detector.New(a.log)
	defer windows.Close()

	svc := tracker.NewService(a.store, a.probe, a.cfg.AssetsDir, a.log)
	apps := svc.AppList(context.Background())
	runningApps := 0
	for _, s := range apps {
		if s.IsRunning {
			runningApps++
		}
	}

	fmt.Printf("Platform: %s\n", detector.Platform())
	fmt.Printf("Window Manager: %s\n", windows.Name())
	fmt.Printf("Monitored Apps: %d (%d running)\n\n", len(apps), runningApps)
	fmt.Println(a.cfg.String())
}

func showFailures(args []string) {
	limit := 20
	jsonOutput := false
	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
			continue
		}
		n, err := strconv.Atoi(arg)
		if err != nil || n <= 0 {
			fmt.Printf("Invalid count: %s\n", arg)
			os.Exit(1)
		}
		limit = n
	}

	cfg := loadConfig()
	if cfg.Journal.Path == "" {
		fmt.Println("Failure journal is disabled (set QUICKLAUNCH_JOURNAL_PATH)")
		return
	}

	db, err := openJournal(cfg)
	if err != nil {
		fatal("Failed to open failure journal", err)
	}
	defer db.Close()

	repo := database.NewRepository(db)
	records, err := repo.Recent(limit)
	if err != nil {
		fatal("Failed to read failures", err)
	}

	rep := reporter.New()
	if jsonOutput {
		out, err := rep.FormatJSON(records)
		if err != nil {
			fatal("Failed to format JSON", err)
		}
		fmt.Println(out)
		return
	}

	summary, err := repo.SummarySince(time.Now().Add(-24 * time.Hour))
	if err != nil {
		fatal("Failed to summarize failures", err)
	}
	fmt.Print(rep.FormatFailuresText(records, summary))
}

func clearJournal() {
	cfg := loadConfig()
	if cfg.Journal.Path == "" {
		fmt.Println("Failure journal is disabled (set QUICKLAUNCH_JOURNAL_PATH)")
		return
	}

	fmt.Print("This will delete all recorded failures. Are you sure? (yes/no): ")
	var response string
	fmt.Scanln(&response)

	if response != "yes" && response != "y" {
		fmt.Println("Operation cancelled")
		return
	}

	db, err := openJournal(cfg)
	if err != nil {
		fatal("Failed to open failure journal", err)
	}
	defer db.Close()

	n, err := database.NewRepository(db).Clear()
	if err != nil {
		fatal("Failed to clear failure journal", err)
	}

	fmt.Printf("Removed %d failure records\n", n)
}

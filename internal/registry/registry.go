// Package registry loads the list of monitored applications.
//
// The registry file holds one application per line as three comma separated
// fields: executable name, display name and launch target. Double quotes
// protect commas inside a field and are removed from the result.
package registry

import (
	"bufio"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/sahilm/fuzzy"

	"github.com/quicklaunch/quicklaunch/pkg/core"
)

var (
	// ErrConfigLineMalformed marks a registry line without exactly three fields
	ErrConfigLineMalformed = errors.New("malformed registry line")
	// ErrConfigLoadFailed marks an unreadable registry file
	ErrConfigLoadFailed = errors.New("registry file could not be read")
)

// App is one monitored application
type App struct {
	ProcessName  string `json:"process_name"`
	DisplayName  string `json:"display_name"`
	LaunchTarget string `json:"launch_path"`
}

// Fallback is used when the registry file cannot be read
var Fallback = App{ProcessName: "Code.exe", DisplayName: "VSCode", LaunchTarget: "code"}

// ParseLine splits a registry line into trimmed fields. A quote toggles the
// quoted state and is dropped; commas only separate fields outside quotes.
func ParseLine(line string) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)

	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	return append(fields, strings.TrimSpace(current.String()))
}

// MaxLineBytes is the longest registry line accepted. Longer lines are
// skipped like any other malformed line.
const MaxLineBytes = 64 * 1024

// Parse reads registry entries from r. Blank lines are skipped silently,
// overlong lines and lines without exactly three fields are skipped with a
// warning. On a read error the entries parsed so far are returned with it.
func Parse(r io.Reader, log core.Logger) ([]App, error) {
	if log == nil {
		log = core.NopLogger{}
	}

	var apps []App
	reader := bufio.NewReader(r)
	for {
		raw, readErr := reader.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return apps, errors.Wrap(readErr, "failed to read registry")
		}

		if app, ok := parseEntry(raw, log); ok {
			apps = append(apps, app)
		}

		if readErr == io.EOF {
			return apps, nil
		}
	}
}

func parseEntry(raw string, log core.Logger) (App, bool) {
	if len(raw) > MaxLineBytes {
		log.Warn("Skipping registry line",
			"context", "config-parse",
			"error", errors.Wrapf(ErrConfigLineMalformed, "line of %d bytes starting %q", len(raw), raw[:32]).Error())
		return App{}, false
	}

	line := strings.TrimSpace(raw)
	if line == "" {
		return App{}, false
	}

	fields := ParseLine(line)
	if len(fields) != 3 {
		log.Warn("Skipping registry line",
			"context", "config-parse",
			"error", errors.Wrapf(ErrConfigLineMalformed, "%d fields in %q", len(fields), line).Error())
		return App{}, false
	}

	return App{
		ProcessName:  fields[0],
		DisplayName:  fields[1],
		LaunchTarget: fields[2],
	}, true
}

// Load reads the registry at path. It never fails: a file that cannot be
// opened is logged and replaced by the single Fallback entry. A read error
// part way through keeps the entries read before it.
func Load(path string, log core.Logger) []App {
	if log == nil {
		log = core.NopLogger{}
	}

	f, err := os.Open(path)
	if err != nil {
		log.Error("Failed to load registry",
			errors.Wrapf(ErrConfigLoadFailed, "%s: %v", path, err),
			"context", "config-load")
		return []App{Fallback}
	}
	defer f.Close()

	apps, err := Parse(f, log)
	if err != nil {
		log.Error("Registry read incomplete",
			errors.Wrapf(ErrConfigLoadFailed, "%s: %v", path, err),
			"context", "config-load")
	}
	return apps
}

// Store loads the registry once, on first use, and never reloads it
type Store struct {
	path string
	log  core.Logger

	once sync.Once
	apps []App
}

// NewStore creates a store for the registry file at path
func NewStore(path string, log core.Logger) *Store {
	return &Store{path: path, log: log}
}

// NewStaticStore creates an already loaded store, mainly for tests
func NewStaticStore(apps []App) *Store {
	s := &Store{apps: apps}
	s.once.Do(func() {})
	return s
}

// Apps returns a copy of the registry entries in file order
func (s *Store) Apps() []App {
	s.once.Do(func() {
		s.apps = Load(s.path, s.log)
	})

	out := make([]App, len(s.apps))
	copy(out, s.apps)
	return out
}

// Len returns the number of registry entries
func (s *Store) Len() int {
	return len(s.Apps())
}

// Path returns the registry file path
func (s *Store) Path() string {
	return s.path
}

// Find resolves a user query to a registry entry: exact executable name,
// then case-insensitive display name, then the best fuzzy display name match.
func Find(apps []App, query string) (App, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return App{}, false
	}

	for _, app := range apps {
		if app.ProcessName == query {
			return app, true
		}
	}

	for _, app := range apps {
		if strings.EqualFold(app.DisplayName, query) {
			return app, true
		}
	}

	names := make([]string, len(apps))
	for i, app := range apps {
		names[i] = app.DisplayName
	}

	// Matches are sorted by descending score
	matches := fuzzy.Find(query, names)
	if len(matches) == 0 {
		return App{}, false
	}
	return apps[matches[0].Index], true
}

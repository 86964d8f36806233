package reporter

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/quicklaunch/quicklaunch/internal/models"
	"github.com/quicklaunch/quicklaunch/internal/tracker"
	"github.com/quicklaunch/quicklaunch/pkg/layout"
	"github.com/quicklaunch/quicklaunch/pkg/utils"
)

const separator = "--------------------------------------------------------------------------------"

// Reporter renders command output
type Reporter struct {
	now func() time.Time
}

// New creates a new reporter
func New() *Reporter {
	return &Reporter{now: time.Now}
}

// FormatAppsText formats the app list as a table
func (r *Reporter) FormatAppsText(apps []tracker.AppStatus) string {
	if len(apps) == 0 {
		return "No monitored applications.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-20s %-25s %-8s %s\n", "Application", "Process", "Status", "Launch Target")
	b.WriteString(separator + "\n")

	running := 0
	for _, app := range apps {
		status := "-"
		if app.IsRunning {
			status = "running"
			running++
		}
		fmt.Fprintf(&b, "%-20s %-25s %-8s %s\n",
			utils.Truncate(app.DisplayName, 20),
			utils.Truncate(app.ProcessName, 25),
			status,
			app.LaunchTarget)
	}

	fmt.Fprintf(&b, "\n%d of %d running\n", running, len(apps))
	return b.String()
}

// FormatJSON formats any command result as indented JSON
func (r *Reporter) FormatJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal JSON")
	}
	return string(data), nil
}

// FormatSize describes the launcher surface size for appCount apps
func (r *Reporter) FormatSize(appCount int) string {
	d := layout.Size(appCount)
	return fmt.Sprintf("%d apps: %d rows, %dx%d\n", appCount, layout.Rows(appCount), d.Width, d.Height)
}

// FormatFailuresText formats journal records and per-context counts
func (r *Reporter) FormatFailuresText(records []*models.FailureRecord, summary []models.FailureSummary) string {
	if len(records) == 0 {
		return "No failures recorded.\n"
	}

	var b strings.Builder
	now := r.now()

	if len(summary) > 0 {
		b.WriteString("Last 24h:\n")
		for _, s := range summary {
			fmt.Fprintf(&b, "  %-18s %d\n", s.Context, s.Count)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "%-6s %-16s %-20s %s\n", "Age", "Context", "Application", "Message")
	b.WriteString(separator + "\n")
	for _, rec := range records {
		age := int64(now.Sub(rec.Timestamp) / time.Second)
		fmt.Fprintf(&b, "%-6s %-16s %-20s %s\n",
			utils.FormatRoundedUnit(age),
			rec.Context,
			utils.Truncate(rec.AppName, 20),
			rec.Message)
	}
	return b.String()
}

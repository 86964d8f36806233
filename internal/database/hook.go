package database

import (
	"fmt"
	"time"

	"github.com/quicklaunch/quicklaunch/internal/models"
)

// Hook writes every logged error to the journal
type Hook struct {
	repo *Repository
	now  func() time.Time
}

func NewHook(repo *Repository) *Hook {
	return &Hook{repo: repo, now: time.Now}
}

// OnError records the failure. Journal write errors are dropped, since
// reporting them through the logger would re-enter the hook.
func (h *Hook) OnError(msg string, err error, fields map[string]interface{}) {
	record := &models.FailureRecord{
		Timestamp: h.now(),
		Context:   stringField(fields, "context", "general"),
		AppName:   stringField(fields, "app", ""),
		Message:   msg,
	}
	if err != nil {
		record.Message = fmt.Sprintf("%s: %v", msg, err)
	}

	_ = h.repo.Create(record)
}

func stringField(fields map[string]interface{}, key, fallback string) string {
	v, ok := fields[key]
	if !ok || v == nil {
		return fallback
	}
	return fmt.Sprint(v)
}

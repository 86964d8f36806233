package database

import (
	"time"

	"github.com/pkg/errors"

	"github.com/quicklaunch/quicklaunch/internal/models"
)

// Repository handles all database operations for failure records
type Repository struct {
	db *DB
}

// NewRepository creates a new repository instance
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new failure record
func (r *Repository) Create(record *models.FailureRecord) error {
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	result := r.db.Create(record)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert failure record")
	}
	return nil
}

// Recent returns up to limit records, newest first
func (r *Repository) Recent(limit int) ([]*models.FailureRecord, error) {
	var records []*models.FailureRecord
	result := r.db.Order("timestamp DESC").Order("id DESC").Limit(limit).Find(&records)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query failure records")
	}
	return records, nil
}

// SummarySince counts failures per context tag since a given time
func (r *Repository) SummarySince(since time.Time) ([]models.FailureSummary, error) {
	var rows []struct {
		Context string
		Count   int64
		Last    string
	}

	result := r.db.Model(&models.FailureRecord{}).
		Select("context, COUNT(*) as count, MAX(timestamp) as last").
		Where("timestamp >= ?", since).
		Group("context").
		Order("count DESC").
		Scan(&rows)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query failure summary")
	}

	summaries := make([]models.FailureSummary, 0, len(rows))
	for _, row := range rows {
		s := models.FailureSummary{Context: row.Context, Count: row.Count}
		s.Last, _ = parseTimestamp(row.Last)
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// Clear removes all failure records and returns how many were removed
func (r *Repository) Clear() (int64, error) {
	result := r.db.Unscoped().Where("1 = 1").Delete(&models.FailureRecord{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to clear failure records")
	}
	return result.RowsAffected, nil
}

// sqlite returns MAX() over a datetime column as text
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	time.RFC3339Nano,
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("unrecognized timestamp %q", s)
}

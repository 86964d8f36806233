package models

import (
	"time"

	"gorm.io/gorm"
)

// FailureRecord is one failed operation. Successful launches and switches
// are never recorded.
type FailureRecord struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Timestamp time.Time      `gorm:"not null;index" json:"timestamp"`
	Context   string         `gorm:"not null;index" json:"context"` // e.g. "launch", "window-switch"
	AppName   string         `gorm:"not null;default:''" json:"app_name"`
	Message   string         `gorm:"not null" json:"message"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// FailureSummary counts failures per context tag
type FailureSummary struct {
	Context string    `json:"context"`
	Count   int64     `json:"count"`
	Last    time.Time `json:"last"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// SyncConfigModel is the single stored credential record. The row with
// ID 1 is the global configuration; there is never more than one.
type SyncConfigModel struct {
	ID         uint      `gorm:"primaryKey"`
	StoreURL   string    `gorm:"column:store_url;not null"`
	AdminToken string    `gorm:"column:admin_token;not null"`
	FeedURL    string    `gorm:"column:feed_url;not null"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

func (SyncConfigModel) TableName() string {
	return "sync_configs"
}

// SyncRunModel is one row per sync run, kept for the summary endpoint.
type SyncRunModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Mode       string    `gorm:"not null"`
	State      string    `gorm:"not null;index"`
	StartedAt  time.Time `gorm:"not null;index"`
	FinishedAt time.Time

	FeedProducts int `gorm:"not null;default:0"`
	FeedVariants int `gorm:"not null;default:0"`
	Processed    int `gorm:"not null;default:0"`
	Created      int `gorm:"not null;default:0"`
	Updated      int `gorm:"not null;default:0"`
	Skipped      int `gorm:"not null;default:0"`
	Failed       int `gorm:"not null;default:0"`

	// Errors and Warnings hold JSON-encoded detail lists
	Errors   string `gorm:"type:text"`
	Warnings string `gorm:"type:text"`

	AbortReason string
	CreatedAt   time.Time `gorm:"not null"`
}

func (SyncRunModel) TableName() string {
	return "sync_runs"
}

package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Digest processing statuses.
const (
	DigestStatusPending    = "pending"
	DigestStatusProcessing = "processing"
	DigestStatusCompleted  = "completed"
	DigestStatusFailed     = "failed"
)

// DailyDigest is the per-date summary of a batch run. One row per calendar
// date; a rerun on the same date updates the counts in place.
type DailyDigest struct {
	ID                    uint              `gorm:"primaryKey" json:"id"`
	DigestDate            time.Time         `gorm:"unique;not null;index" json:"digest_date"`
	TotalRawNews          int               `gorm:"not null;default:0" json:"total_raw_news"`
	TotalMergedNews       int               `gorm:"not null;default:0" json:"total_merged_news"`
	TotalCuratedNews      int               `gorm:"not null;default:0" json:"total_curated_news"`
	ProcessingTimeSeconds float64           `json:"processing_time_seconds"`
	RegionalDistribution  datatypes.JSONMap `json:"regional_distribution,omitempty"`
	CategoryDistribution  datatypes.JSONMap `json:"category_distribution,omitempty"`
	Status                string            `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ErrorMessage          string            `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt             time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the DailyDigest model.
func (DailyDigest) TableName() string {
	return "daily_digest"
}

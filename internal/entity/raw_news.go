package entity

import (
	"time"
)

// RawNews represents a news article as collected from a source, before
// deduplication. Rows are immutable once written and retained for audit.
type RawNews struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title       string    `gorm:"type:varchar(500);not null" json:"title"`
	URL         string    `gorm:"type:varchar(2000);unique;not null" json:"url"`
	Source      string    `gorm:"type:varchar(100);not null;index" json:"source"`
	Region      string    `gorm:"type:varchar(50);not null;index" json:"region"`
	Category    string    `gorm:"type:varchar(50);index" json:"category,omitempty"`
	PublishedAt time.Time `gorm:"not null;index" json:"published_at"`
	Summary     string    `gorm:"type:text" json:"summary,omitempty"`
	FetchedAt   time.Time `gorm:"autoCreateTime" json:"fetched_at"`
	BatchID     string    `gorm:"type:varchar(36);not null;index" json:"batch_id"`
}

// TableName specifies the table name for the RawNews model.
func (RawNews) TableName() string {
	return "raw_news"
}

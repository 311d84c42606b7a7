package entity

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// MergedNews is the representative of a cluster of raw articles reporting the
// same story. The representative is chosen by source authority, not recency.
type MergedNews struct {
	ID              string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title           string         `gorm:"type:varchar(500);not null" json:"title"`
	URL             string         `gorm:"type:varchar(2000);not null" json:"url"`
	Source          string         `gorm:"type:varchar(100);not null;index" json:"source"`
	Region          string         `gorm:"type:varchar(50);not null;index" json:"region"`
	Category        string         `gorm:"type:varchar(50);index" json:"category,omitempty"`
	PublishedAt     time.Time      `gorm:"not null;index" json:"published_at"`
	Summary         string         `gorm:"type:text" json:"summary,omitempty"`
	RelatedSources  pq.StringArray `gorm:"type:text[]" json:"related_sources"`
	SourceCount     int            `gorm:"not null;default:1" json:"source_count"`
	ImportanceBoost float64        `gorm:"not null;default:1.0" json:"importance_boost"`
	EmbeddingVector datatypes.JSON `json:"embedding_vector,omitempty"`
	BatchID         string         `gorm:"type:varchar(36);not null;index" json:"batch_id"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the MergedNews model.
func (MergedNews) TableName() string {
	return "merged_news"
}

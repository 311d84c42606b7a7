package entity

import (
	"time"
)

// WatchTarget is a stock symbol on the user's watch-list. The price-monitoring
// subsystem owns these rows; the curator only reads active symbols as context
// for impact analysis.
type WatchTarget struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Symbol    string    `gorm:"type:varchar(20);unique;not null;index" json:"symbol"`
	Name      string    `gorm:"type:varchar(100)" json:"name,omitempty"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the WatchTarget model.
func (WatchTarget) TableName() string {
	return "watch_targets"
}

package repository

import (
	"context"

	"pure-price-press/internal/entity"

	"gorm.io/gorm"
)

// WatchTargetRepository defines the interface for reading the watch-list.
type WatchTargetRepository interface {
	GetActiveSymbols(ctx context.Context) ([]string, error)
}

// NewWatchTargetRepository creates a new instance of WatchTargetRepository.
func NewWatchTargetRepository(db *gorm.DB) WatchTargetRepository {
	return &watchTargetRepository{
		db: db,
	}
}

type watchTargetRepository struct {
	db *gorm.DB
}

func (r *watchTargetRepository) GetActiveSymbols(ctx context.Context) ([]string, error) {
	var symbols []string
	err := r.db.WithContext(ctx).
		Model(&entity.WatchTarget{}).
		Where("is_active = ?", true).
		Order("symbol ASC").
		Pluck("symbol", &symbols).Error
	return symbols, err
}

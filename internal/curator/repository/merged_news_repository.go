package repository

import (
	"context"

	"pure-price-press/internal/entity"

	"gorm.io/gorm"
)

// MergedNewsRepository defines the interface for interacting with merged news
// data.
type MergedNewsRepository interface {
	CreateBatch(ctx context.Context, items []entity.MergedNews) error
	FindByBatchID(ctx context.Context, batchID string) ([]entity.MergedNews, error)
}

// NewMergedNewsRepository creates a new instance of MergedNewsRepository.
func NewMergedNewsRepository(db *gorm.DB) MergedNewsRepository {
	return &mergedNewsRepository{
		db: db,
	}
}

type mergedNewsRepository struct {
	db *gorm.DB
}

func (r *mergedNewsRepository) CreateBatch(ctx context.Context, items []entity.MergedNews) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *mergedNewsRepository) FindByBatchID(ctx context.Context, batchID string) ([]entity.MergedNews, error) {
	var items []entity.MergedNews
	err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("published_at DESC").
		Find(&items).Error
	return items, err
}

package repository

import (
	"context"

	"pure-price-press/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RawNewsRepository defines the interface for interacting with raw news data.
type RawNewsRepository interface {
	CreateIgnoreConflict(ctx context.Context, items []entity.RawNews) (int64, error)
	FindByBatchID(ctx context.Context, batchID string) ([]entity.RawNews, error)
	CountByBatchID(ctx context.Context, batchID string) (int64, error)
}

// NewRawNewsRepository creates a new instance of RawNewsRepository.
func NewRawNewsRepository(db *gorm.DB) RawNewsRepository {
	return &rawNewsRepository{
		db: db,
	}
}

type rawNewsRepository struct {
	db *gorm.DB
}

// CreateIgnoreConflict inserts the collected articles, silently skipping any
// whose URL is already stored. Returns the number of rows actually inserted.
func (r *rawNewsRepository) CreateIgnoreConflict(ctx context.Context, items []entity.RawNews) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}

	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "url"}},
		DoNothing: true,
	}).Create(&items)

	return tx.RowsAffected, tx.Error
}

func (r *rawNewsRepository) FindByBatchID(ctx context.Context, batchID string) ([]entity.RawNews, error) {
	var items []entity.RawNews
	err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("published_at DESC").
		Find(&items).Error
	return items, err
}

func (r *rawNewsRepository) CountByBatchID(ctx context.Context, batchID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.RawNews{}).
		Where("batch_id = ?", batchID).
		Count(&count).Error
	return count, err
}

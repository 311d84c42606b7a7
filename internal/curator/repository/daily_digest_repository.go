package repository

import (
	"context"
	"time"

	"pure-price-press/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DailyDigestRepository defines the interface for interacting with daily
// digest data.
type DailyDigestRepository interface {
	Upsert(ctx context.Context, digest *entity.DailyDigest) error
	FindByDate(ctx context.Context, digestDate time.Time) (*entity.DailyDigest, error)
	FindRecent(ctx context.Context, limit int) ([]entity.DailyDigest, error)
}

// NewDailyDigestRepository creates a new instance of DailyDigestRepository.
func NewDailyDigestRepository(db *gorm.DB) DailyDigestRepository {
	return &dailyDigestRepository{
		db: db,
	}
}

type dailyDigestRepository struct {
	db *gorm.DB
}

// Upsert writes the digest row for its date, updating counts in place when a
// rerun covers a date that already has one.
func (r *dailyDigestRepository) Upsert(ctx context.Context, digest *entity.DailyDigest) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "digest_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_raw_news",
			"total_merged_news",
			"total_curated_news",
			"processing_time_seconds",
			"regional_distribution",
			"category_distribution",
			"status",
			"error_message",
			"updated_at",
		}),
	}).Create(digest).Error
}

func (r *dailyDigestRepository) FindByDate(ctx context.Context, digestDate time.Time) (*entity.DailyDigest, error) {
	var digest entity.DailyDigest
	err := r.db.WithContext(ctx).
		Where("digest_date = ?", digestDate).
		First(&digest).Error
	if err != nil {
		return nil, err
	}
	return &digest, nil
}

func (r *dailyDigestRepository) FindRecent(ctx context.Context, limit int) ([]entity.DailyDigest, error) {
	var digests []entity.DailyDigest
	err := r.db.WithContext(ctx).
		Order("digest_date DESC").
		Limit(limit).
		Find(&digests).Error
	return digests, err
}

package repository

import (
	"context"
	"time"

	"pure-price-press/internal/entity"

	"gorm.io/gorm"
)

// CuratedNewsRepository defines the interface for interacting with curated
// news data.
type CuratedNewsRepository interface {
	CreateBatch(ctx context.Context, items []*entity.CuratedNews) error
	FindSince(ctx context.Context, firstSeenAfter time.Time) ([]entity.CuratedNews, error)
	FindByDigestDate(ctx context.Context, digestDate time.Time) ([]entity.CuratedNews, error)
	UpdateContinuity(ctx context.Context, item *entity.CuratedNews) error
	SetEffectiveScore(ctx context.Context, id uint, score float64) error
	SetPinned(ctx context.Context, id uint, pinned bool, pinnedAt *time.Time) error
	FindDisplayable(ctx context.Context, limit int) ([]entity.CuratedNews, error)
}

// NewCuratedNewsRepository creates a new instance of CuratedNewsRepository.
func NewCuratedNewsRepository(db *gorm.DB) CuratedNewsRepository {
	return &curatedNewsRepository{
		db: db,
	}
}

type curatedNewsRepository struct {
	db *gorm.DB
}

func (r *curatedNewsRepository) CreateBatch(ctx context.Context, items []*entity.CuratedNews) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// FindSince returns items first seen after the given time, oldest first so
// the earliest match wins when scanning for a continuation's original.
func (r *curatedNewsRepository) FindSince(ctx context.Context, firstSeenAfter time.Time) ([]entity.CuratedNews, error) {
	var items []entity.CuratedNews
	err := r.db.WithContext(ctx).
		Where("first_seen_at >= ?", firstSeenAfter).
		Order("first_seen_at ASC").
		Find(&items).Error
	return items, err
}

func (r *curatedNewsRepository) FindByDigestDate(ctx context.Context, digestDate time.Time) ([]entity.CuratedNews, error) {
	var items []entity.CuratedNews
	err := r.db.WithContext(ctx).
		Where("digest_date = ?", digestDate).
		Order("effective_score DESC").
		Find(&items).Error
	return items, err
}

// UpdateContinuity persists the reporting state of an item recognized as the
// canonical row of a continuing story.
func (r *curatedNewsRepository) UpdateContinuity(ctx context.Context, item *entity.CuratedNews) error {
	return r.db.WithContext(ctx).
		Model(&entity.CuratedNews{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"reporting_days":  item.ReportingDays,
			"last_seen_at":    item.LastSeenAt,
			"effective_score": item.EffectiveScore,
		}).Error
}

func (r *curatedNewsRepository) SetEffectiveScore(ctx context.Context, id uint, score float64) error {
	return r.db.WithContext(ctx).
		Model(&entity.CuratedNews{}).
		Where("id = ?", id).
		Update("effective_score", score).Error
}

func (r *curatedNewsRepository) SetPinned(ctx context.Context, id uint, pinned bool, pinnedAt *time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entity.CuratedNews{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_pinned": pinned,
			"pinned_at": pinnedAt,
		}).Error
}

// FindDisplayable returns candidate items for display, highest effective
// score first. Window filtering depends on the current time and lives in the
// scoring service; the query only excludes rows already suppressed.
func (r *curatedNewsRepository) FindDisplayable(ctx context.Context, limit int) ([]entity.CuratedNews, error) {
	var items []entity.CuratedNews
	q := r.db.WithContext(ctx).
		Where("effective_score > 0 OR is_pinned = ?", true).
		Order("effective_score DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&items).Error
	return items, err
}

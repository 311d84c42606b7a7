package service

import (
	"context"
	"testing"
	"time"

	"pure-price-press/internal/curator/config"
	"pure-price-press/internal/entity"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCuratedNewsRepo struct {
	createBatchFn       func(ctx context.Context, items []*entity.CuratedNews) error
	findSinceFn         func(ctx context.Context, firstSeenAfter time.Time) ([]entity.CuratedNews, error)
	findByDigestDateFn  func(ctx context.Context, digestDate time.Time) ([]entity.CuratedNews, error)
	updateContinuityFn  func(ctx context.Context, item *entity.CuratedNews) error
	setEffectiveScoreFn func(ctx context.Context, id uint, score float64) error
	setPinnedFn         func(ctx context.Context, id uint, pinned bool, pinnedAt *time.Time) error
	findDisplayableFn   func(ctx context.Context, limit int) ([]entity.CuratedNews, error)
}

func (m *mockCuratedNewsRepo) CreateBatch(ctx context.Context, items []*entity.CuratedNews) error {
	return m.createBatchFn(ctx, items)
}

func (m *mockCuratedNewsRepo) FindSince(ctx context.Context, firstSeenAfter time.Time) ([]entity.CuratedNews, error) {
	return m.findSinceFn(ctx, firstSeenAfter)
}

func (m *mockCuratedNewsRepo) FindByDigestDate(ctx context.Context, digestDate time.Time) ([]entity.CuratedNews, error) {
	return m.findByDigestDateFn(ctx, digestDate)
}

func (m *mockCuratedNewsRepo) UpdateContinuity(ctx context.Context, item *entity.CuratedNews) error {
	return m.updateContinuityFn(ctx, item)
}

func (m *mockCuratedNewsRepo) SetEffectiveScore(ctx context.Context, id uint, score float64) error {
	return m.setEffectiveScoreFn(ctx, id, score)
}

func (m *mockCuratedNewsRepo) SetPinned(ctx context.Context, id uint, pinned bool, pinnedAt *time.Time) error {
	return m.setPinnedFn(ctx, id, pinned, pinnedAt)
}

func (m *mockCuratedNewsRepo) FindDisplayable(ctx context.Context, limit int) ([]entity.CuratedNews, error) {
	return m.findDisplayableFn(ctx, limit)
}

func continuityConfig() config.ContinuousReporting {
	return config.ContinuousReporting{
		LookbackDays:             7,
		TitleSimilarityThreshold: 0.85,
		SymbolOverlapThreshold:   0.5,
	}
}

func curatedItem(id uint, title string, firstSeen time.Time) entity.CuratedNews {
	return entity.CuratedNews{
		ID:              id,
		MergedNewsID:    "m",
		Title:           title,
		Source:          "Reuters",
		Region:          "north_america",
		ImportanceScore: 8.0,
		SourceCount:     1,
		ReportingDays:   1,
		FirstSeenAt:     &firstSeen,
		EffectiveScore:  8.0,
	}
}

func TestContinuityCompoundsOriginalAndSuppressesNewItem(t *testing.T) {
	now := time.Date(2026, 8, 20, 22, 0, 0, 0, time.UTC)
	original := curatedItem(1, "Toyota recall widens as brake defect probe deepens", now.Add(-25*time.Hour))
	newItem := curatedItem(2, "Toyota recall widens as brake defect probe deepens", now)

	var updated *entity.CuratedNews
	var suppressedID uint
	var suppressedScore float64

	repo := &mockCuratedNewsRepo{
		findSinceFn: func(ctx context.Context, firstSeenAfter time.Time) ([]entity.CuratedNews, error) {
			return []entity.CuratedNews{original, newItem}, nil
		},
		updateContinuityFn: func(ctx context.Context, item *entity.CuratedNews) error {
			updated = item
			return nil
		},
		setEffectiveScoreFn: func(ctx context.Context, id uint, score float64) error {
			suppressedID = id
			suppressedScore = score
			return nil
		},
	}
	svc := NewContinuousReportingService(testLogger(t), continuityConfig(), repo)

	stats, err := svc.Process(context.Background(), []entity.CuratedNews{newItem}, now)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Processed)
	assert.Equal(t, 1, stats.ContinuousFound)
	assert.Equal(t, []uint{1}, stats.UpdatedOriginals)

	require.NotNil(t, updated)
	assert.Equal(t, uint(1), updated.ID)
	assert.Equal(t, 2, updated.ReportingDays)
	require.NotNil(t, updated.LastSeenAt)
	assert.Equal(t, now, *updated.LastSeenAt)
	// 8.0 + reporting boost 0.3 - one-day decay 0.5.
	assert.InDelta(t, 7.8, updated.EffectiveScore, 1e-9)

	assert.Equal(t, uint(2), suppressedID)
	assert.Equal(t, 0.0, suppressedScore)
}

func TestContinuityEarliestOriginalWins(t *testing.T) {
	now := time.Date(2026, 8, 20, 22, 0, 0, 0, time.UTC)
	title := "Fed signals further rate hikes ahead"
	oldest := curatedItem(1, title, now.Add(-3*24*time.Hour))
	middle := curatedItem(2, title, now.Add(-24*time.Hour))
	newItem := curatedItem(3, title, now)

	var updatedID uint
	repo := &mockCuratedNewsRepo{
		findSinceFn: func(ctx context.Context, firstSeenAfter time.Time) ([]entity.CuratedNews, error) {
			// Repository contract: ascending first_seen_at.
			return []entity.CuratedNews{oldest, middle, newItem}, nil
		},
		updateContinuityFn: func(ctx context.Context, item *entity.CuratedNews) error {
			updatedID = item.ID
			return nil
		},
		setEffectiveScoreFn: func(ctx context.Context, id uint, score float64) error { return nil },
	}
	svc := NewContinuousReportingService(testLogger(t), continuityConfig(), repo)

	_, err := svc.Process(context.Background(), []entity.CuratedNews{newItem}, now)
	require.NoError(t, err)
	assert.Equal(t, uint(1), updatedID)
}

func TestContinuityRequiresSymbolOverlap(t *testing.T) {
	now := time.Date(2026, 8, 20, 22, 0, 0, 0, time.UTC)
	original := curatedItem(1, "Chipmaker earnings beat expectations this quarter", now.Add(-24*time.Hour))
	original.AffectedSymbols = pq.StringArray{"NVDA", "TSM"}
	newItem := curatedItem(2, "Chipmaker earnings beat expectations this quarter", now)
	newItem.AffectedSymbols = pq.StringArray{"AAPL", "MSFT"}

	repo := &mockCuratedNewsRepo{
		findSinceFn: func(ctx context.Context, firstSeenAfter time.Time) ([]entity.CuratedNews, error) {
			return []entity.CuratedNews{original, newItem}, nil
		},
		updateContinuityFn: func(ctx context.Context, item *entity.CuratedNews) error {
			t.Fatal("disjoint symbol sets must not match")
			return nil
		},
		setEffectiveScoreFn: func(ctx context.Context, id uint, score float64) error {
			t.Fatal("nothing should be suppressed")
			return nil
		},
	}
	svc := NewContinuousReportingService(testLogger(t), continuityConfig(), repo)

	stats, err := svc.Process(context.Background(), []entity.CuratedNews{newItem}, now)
	require.NoError(t, err)
	assert.Zero(t, stats.ContinuousFound)
}

func TestContinuitySymbolOverlapAgainstSmallerSet(t *testing.T) {
	now := time.Date(2026, 8, 20, 22, 0, 0, 0, time.UTC)
	original := curatedItem(1, "Chipmaker earnings beat expectations this quarter", now.Add(-24*time.Hour))
	original.AffectedSymbols = pq.StringArray{"NVDA", "TSM", "AMD", "INTC"}
	newItem := curatedItem(2, "Chipmaker earnings beat expectations this quarter", now)
	newItem.AffectedSymbols = pq.StringArray{"NVDA", "AAPL"}

	var found bool
	repo := &mockCuratedNewsRepo{
		findSinceFn: func(ctx context.Context, firstSeenAfter time.Time) ([]entity.CuratedNews, error) {
			return []entity.CuratedNews{original, newItem}, nil
		},
		updateContinuityFn: func(ctx context.Context, item *entity.CuratedNews) error {
			found = true
			return nil
		},
		setEffectiveScoreFn: func(ctx context.Context, id uint, score float64) error { return nil },
	}
	svc := NewContinuousReportingService(testLogger(t), continuityConfig(), repo)

	// 1 shared of smaller set size 2 is exactly the 0.5 threshold.
	_, err := svc.Process(context.Background(), []entity.CuratedNews{newItem}, now)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestContinuityCategoryMismatchBlocks(t *testing.T) {
	now := time.Date(2026, 8, 20, 22, 0, 0, 0, time.UTC)
	original := curatedItem(1, "Oil prices surge after North Sea supply disruption", now.Add(-24*time.Hour))
	original.Category = "commodities"
	newItem := curatedItem(2, "Oil prices surge after North Sea supply disruption", now)
	newItem.Category = "earnings"

	repo := &mockCuratedNewsRepo{
		findSinceFn: func(ctx context.Context, firstSeenAfter time.Time) ([]entity.CuratedNews, error) {
			return []entity.CuratedNews{original, newItem}, nil
		},
		updateContinuityFn: func(ctx context.Context, item *entity.CuratedNews) error {
			t.Fatal("different categories must not match")
			return nil
		},
		setEffectiveScoreFn: func(ctx context.Context, id uint, score float64) error { return nil },
	}
	svc := NewContinuousReportingService(testLogger(t), continuityConfig(), repo)

	stats, err := svc.Process(context.Background(), []entity.CuratedNews{newItem}, now)
	require.NoError(t, err)
	assert.Zero(t, stats.ContinuousFound)
}

func TestContinuityCategoryCaseInsensitive(t *testing.T) {
	now := time.Date(2026, 8, 20, 22, 0, 0, 0, time.UTC)
	original := curatedItem(1, "Oil prices surge after North Sea supply disruption", now.Add(-24*time.Hour))
	original.Category = "Commodities"
	newItem := curatedItem(2, "Oil prices surge after North Sea supply disruption", now)
	newItem.Category = "commodities"

	var found bool
	repo := &mockCuratedNewsRepo{
		findSinceFn: func(ctx context.Context, firstSeenAfter time.Time) ([]entity.CuratedNews, error) {
			return []entity.CuratedNews{original, newItem}, nil
		},
		updateContinuityFn: func(ctx context.Context, item *entity.CuratedNews) error {
			found = true
			return nil
		},
		setEffectiveScoreFn: func(ctx context.Context, id uint, score float64) error { return nil },
	}
	svc := NewContinuousReportingService(testLogger(t), continuityConfig(), repo)

	_, err := svc.Process(context.Background(), []entity.CuratedNews{newItem}, now)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestContinuityIgnoresOtherNewItems(t *testing.T) {
	now := time.Date(2026, 8, 20, 22, 0, 0, 0, time.UTC)
	title := "Central bank intervenes in currency markets again"
	// Both items are part of the current batch; neither is a prior original.
	newA := curatedItem(1, title, now)
	newB := curatedItem(2, title, now.Add(time.Minute))

	repo := &mockCuratedNewsRepo{
		findSinceFn: func(ctx context.Context, firstSeenAfter time.Time) ([]entity.CuratedNews, error) {
			return []entity.CuratedNews{newA, newB}, nil
		},
		updateContinuityFn: func(ctx context.Context, item *entity.CuratedNews) error {
			t.Fatal("items from the same run must not chain to each other")
			return nil
		},
		setEffectiveScoreFn: func(ctx context.Context, id uint, score float64) error { return nil },
	}
	svc := NewContinuousReportingService(testLogger(t), continuityConfig(), repo)

	stats, err := svc.Process(context.Background(), []entity.CuratedNews{newA, newB}, now)
	require.NoError(t, err)
	assert.Zero(t, stats.ContinuousFound)
}

func TestContinuityReportingDaysNeverDecreases(t *testing.T) {
	now := time.Date(2026, 8, 20, 22, 0, 0, 0, time.UTC)
	title := "Toyota recall widens as brake defect probe deepens"
	original := curatedItem(1, title, now.Add(-2*24*time.Hour))
	original.ReportingDays = 3

	repo := &mockCuratedNewsRepo{
		findSinceFn: func(ctx context.Context, firstSeenAfter time.Time) ([]entity.CuratedNews, error) {
			return []entity.CuratedNews{original}, nil
		},
		updateContinuityFn: func(ctx context.Context, item *entity.CuratedNews) error {
			original = *item
			return nil
		},
		setEffectiveScoreFn: func(ctx context.Context, id uint, score float64) error { return nil },
	}
	svc := NewContinuousReportingService(testLogger(t), continuityConfig(), repo)

	days := original.ReportingDays
	for i := 0; i < 3; i++ {
		dayN := curatedItem(uint(10+i), title, now.Add(time.Duration(i)*time.Minute))
		_, err := svc.Process(context.Background(), []entity.CuratedNews{dayN}, now)
		require.NoError(t, err)
		assert.Greater(t, original.ReportingDays, days)
		days = original.ReportingDays
	}
	assert.Equal(t, 6, original.ReportingDays)
}

func TestContinuityEmptyInput(t *testing.T) {
	repo := &mockCuratedNewsRepo{
		findSinceFn: func(ctx context.Context, firstSeenAfter time.Time) ([]entity.CuratedNews, error) {
			t.Fatal("no lookup expected for empty input")
			return nil, nil
		},
	}
	svc := NewContinuousReportingService(testLogger(t), continuityConfig(), repo)

	stats, err := svc.Process(context.Background(), nil, time.Now())
	require.NoError(t, err)
	assert.Zero(t, stats.Processed)
}

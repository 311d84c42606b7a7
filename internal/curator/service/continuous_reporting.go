package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pure-price-press/internal/curator/config"
	"pure-price-press/internal/curator/dto"
	"pure-price-press/internal/curator/repository"
	"pure-price-press/internal/entity"
	"pure-price-press/pkg/logger"
	"pure-price-press/pkg/utils"
)

// ContinuousReportingService recognizes that a newly curated article is
// day-N coverage of a story first seen earlier, compounding the original's
// importance instead of double-counting.
type ContinuousReportingService struct {
	logger      *logger.Logger
	cfg         config.ContinuousReporting
	curatedRepo repository.CuratedNewsRepository
}

// NewContinuousReportingService creates a new instance of
// ContinuousReportingService.
func NewContinuousReportingService(log *logger.Logger, cfg config.ContinuousReporting, curatedRepo repository.CuratedNewsRepository) *ContinuousReportingService {
	return &ContinuousReportingService{
		logger:      log,
		cfg:         cfg,
		curatedRepo: curatedRepo,
	}
}

// Process scans each newly persisted item against items first seen within
// the lookback window. On a match the earliest prior is canonical: its
// reporting state compounds and the new item is suppressed from display.
func (s *ContinuousReportingService) Process(ctx context.Context, newItems []entity.CuratedNews, now time.Time) (dto.ContinuityStats, error) {
	stats := dto.ContinuityStats{Processed: len(newItems)}
	if len(newItems) == 0 {
		return stats, nil
	}

	lookbackStart := now.Add(-time.Duration(s.cfg.LookbackDays) * 24 * time.Hour)
	candidates, err := s.curatedRepo.FindSince(ctx, lookbackStart)
	if err != nil {
		return stats, fmt.Errorf("failed to load continuity candidates: %w", err)
	}

	newIDs := make(map[uint]struct{}, len(newItems))
	for _, item := range newItems {
		newIDs[item.ID] = struct{}{}
	}

	for _, item := range newItems {
		original := s.findOriginal(candidates, item, newIDs)
		if original == nil {
			continue
		}

		original.ReportingDays++
		original.LastSeenAt = &now
		original.EffectiveScore = EffectiveScore(
			original.ImportanceScore,
			original.SourceCount,
			original.ReportingDays,
			*original.FirstSeenAt,
			original.IsPinned,
			now,
		)
		if err := s.curatedRepo.UpdateContinuity(ctx, original); err != nil {
			return stats, fmt.Errorf("failed to update continuity for item %d: %w", original.ID, err)
		}
		if err := s.curatedRepo.SetEffectiveScore(ctx, item.ID, 0); err != nil {
			return stats, fmt.Errorf("failed to suppress continuation item %d: %w", item.ID, err)
		}

		stats.ContinuousFound++
		stats.UpdatedOriginals = append(stats.UpdatedOriginals, original.ID)
		s.logger.Info("Continuous reporting detected",
			logger.IntField("original_id", int(original.ID)),
			logger.IntField("continuation_id", int(item.ID)),
			logger.IntField("reporting_days", original.ReportingDays),
		)
	}

	return stats, nil
}

// findOriginal returns the earliest prior item covering the same topic, or
// nil. Candidates arrive ordered by first_seen_at ascending, so the first
// match is the tie-break winner.
func (s *ContinuousReportingService) findOriginal(candidates []entity.CuratedNews, item entity.CuratedNews, newIDs map[uint]struct{}) *entity.CuratedNews {
	if item.FirstSeenAt == nil {
		return nil
	}
	for i := range candidates {
		c := &candidates[i]
		if c.ID == item.ID {
			continue
		}
		if _, isNew := newIDs[c.ID]; isNew {
			continue
		}
		if c.FirstSeenAt == nil || !c.FirstSeenAt.Before(*item.FirstSeenAt) {
			continue
		}
		if s.sameTopic(*c, item) {
			return c
		}
	}
	return nil
}

// sameTopic applies the three-part match: title similarity, symbol overlap
// (when both sides have symbols), and category equality (when both have
// categories).
func (s *ContinuousReportingService) sameTopic(a, b entity.CuratedNews) bool {
	if utils.JaccardSimilarity(a.Title, b.Title) < s.cfg.TitleSimilarityThreshold {
		return false
	}

	if len(a.AffectedSymbols) > 0 && len(b.AffectedSymbols) > 0 {
		if symbolOverlapRatio(a.AffectedSymbols, b.AffectedSymbols) < s.cfg.SymbolOverlapThreshold {
			return false
		}
	}

	if a.Category != "" && b.Category != "" {
		if !strings.EqualFold(a.Category, b.Category) {
			return false
		}
	}
	return true
}

// symbolOverlapRatio is |intersection| relative to the smaller set.
func symbolOverlapRatio(a, b []string) float64 {
	aSet := make(map[string]struct{}, len(a))
	for _, s := range a {
		aSet[s] = struct{}{}
	}
	var overlap int
	seen := make(map[string]struct{}, len(b))
	for _, s := range b {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		if _, ok := aSet[s]; ok {
			overlap++
		}
	}

	smaller := len(aSet)
	if len(seen) < smaller {
		smaller = len(seen)
	}
	if smaller == 0 {
		return 0
	}
	return float64(overlap) / float64(smaller)
}

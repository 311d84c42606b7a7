package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"pure-price-press/internal/curator/config"
	"pure-price-press/internal/curator/dto"
	"pure-price-press/internal/curator/repository"
	"pure-price-press/internal/curator/stockgraph"
	"pure-price-press/internal/entity"
	"pure-price-press/pkg/logger"
	"pure-price-press/pkg/utils"
)

const (
	screeningPassThreshold   = 5.0
	neutralRelevanceScore    = 5.0
	neutralImportanceScore   = 5.0
	verificationPassMinScore = 0.7
	verificationMaxIssues    = 3
	symbolListBloatLimit     = 10
)

// AnalyzerService runs the four-stage scoring pipeline over merged articles.
// A nil AI repository means no reasoning backend is configured; every
// backend-dependent stage then degrades to its neutral default instead of
// failing.
type AnalyzerService struct {
	logger *logger.Logger
	cfg    config.Analyzer
	aiRepo repository.AIRepository
}

// NewAnalyzerService creates a new instance of AnalyzerService.
func NewAnalyzerService(log *logger.Logger, cfg config.Analyzer, aiRepo repository.AIRepository) *AnalyzerService {
	return &AnalyzerService{
		logger: log,
		cfg:    cfg,
		aiRepo: aiRepo,
	}
}

// Analyze screens, deep-analyzes, verifies, and ranks the given articles.
// The returned results are sorted by final rank. watchSymbols is the
// caller's watch-list, passed to deep analysis as context.
func (s *AnalyzerService) Analyze(ctx context.Context, items []entity.MergedNews, watchSymbols []string) ([]dto.CuratedResult, error) {
	if len(items) == 0 {
		return []dto.CuratedResult{}, nil
	}
	if len(watchSymbols) > s.cfg.MaxWatchSymbols {
		watchSymbols = watchSymbols[:s.cfg.MaxWatchSymbols]
	}

	stage1 := s.screen(ctx, items)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis canceled after screening: %w", err)
	}

	var passed []entity.MergedNews
	for _, item := range items {
		if stage1[item.ID].Passed {
			passed = append(passed, item)
		}
	}
	s.logger.Info("Screening complete",
		logger.IntField("input", len(items)),
		logger.IntField("passed", len(passed)),
	)

	stage2 := s.deepAnalyze(ctx, passed, watchSymbols)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis canceled after deep analysis: %w", err)
	}

	results := make([]dto.CuratedResult, 0, len(passed))
	for _, item := range passed {
		r2 := stage2[item.ID]
		r3 := verify(r2)
		results = append(results, dto.CuratedResult{
			Merged: item,
			Stage1: stage1[item.ID],
			Stage2: r2,
			Stage3: r3,
		})
	}

	finalize(results)

	s.logger.Info("Analysis complete", logger.IntField("curated", len(results)))
	return results, nil
}

// screen runs stage 1 over the input in batches. Any batch whose reasoning
// call fails passes all its articles with a neutral score; data is never
// dropped because infrastructure is absent.
func (s *AnalyzerService) screen(ctx context.Context, items []entity.MergedNews) map[string]dto.Stage1Result {
	results := make(map[string]dto.Stage1Result, len(items))
	if s.aiRepo == nil {
		for _, item := range items {
			results[item.ID] = neutralScreening(item.ID, "no reasoning backend configured")
		}
		return results
	}

	var batches [][]entity.MergedNews
	for start := 0; start < len(items); start += s.cfg.ScreeningBatchSize {
		end := start + s.cfg.ScreeningBatchSize
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[start:end])
	}

	batchResults := make([]map[string]dto.Stage1Result, len(batches))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, s.cfg.MaxConcurrent)

	for i, batch := range batches {
		if !utils.ShouldContinue(ctx, s.logger) {
			break
		}
		i, batch := i, batch
		wg.Add(1)
		utils.GoSafe(func() {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()
			batchResults[i] = s.screenBatch(ctx, batch)
		})
	}
	wg.Wait()

	for i, batch := range batches {
		if batchResults[i] == nil {
			for _, item := range batch {
				results[item.ID] = neutralScreening(item.ID, "screening skipped")
			}
			continue
		}
		for id, r := range batchResults[i] {
			results[id] = r
		}
	}
	return results
}

func (s *AnalyzerService) screenBatch(ctx context.Context, batch []entity.MergedNews) map[string]dto.Stage1Result {
	out := make(map[string]dto.Stage1Result, len(batch))

	resp, err := s.aiRepo.ScreenHeadlines(ctx, batch)
	if err != nil {
		s.logger.Error("Screening call failed, passing batch with neutral score",
			logger.ErrorField(err),
			logger.IntField("batch_size", len(batch)),
		)
		for _, item := range batch {
			out[item.ID] = neutralScreening(item.ID, "screening unavailable")
		}
		return out
	}

	for _, item := range resp.Results {
		article := batch[item.Index-1]
		out[article.ID] = dto.Stage1Result{
			NewsID:         article.ID,
			Passed:         item.RelevanceScore >= screeningPassThreshold,
			RelevanceScore: item.RelevanceScore,
			Category:       item.Category,
			BriefReason:    item.BriefReason,
		}
	}
	// Articles the model skipped fail open too.
	for _, article := range batch {
		if _, ok := out[article.ID]; !ok {
			out[article.ID] = neutralScreening(article.ID, "missing from screening response")
		}
	}
	return out
}

func neutralScreening(newsID, reason string) dto.Stage1Result {
	return dto.Stage1Result{
		NewsID:         newsID,
		Passed:         true,
		RelevanceScore: neutralRelevanceScore,
		BriefReason:    reason,
	}
}

// deepAnalyze runs stage 2 per article with bounded concurrency. A failed
// call yields a neutral placeholder; the article is kept.
func (s *AnalyzerService) deepAnalyze(ctx context.Context, items []entity.MergedNews, watchSymbols []string) map[string]dto.Stage2Result {
	slots := make([]dto.Stage2Result, len(items))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, s.cfg.MaxConcurrent)

	for i, item := range items {
		if !utils.ShouldContinue(ctx, s.logger) {
			slots[i] = neutralDeepAnalysis(item)
			continue
		}
		i, item := i, item
		wg.Add(1)
		utils.GoSafe(func() {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()
			slots[i] = s.analyzeOne(ctx, item, watchSymbols)
		})
	}
	wg.Wait()

	results := make(map[string]dto.Stage2Result, len(items))
	for i, item := range items {
		if slots[i].NewsID == "" {
			slots[i] = neutralDeepAnalysis(item)
		}
		results[item.ID] = slots[i]
	}
	return results
}

func (s *AnalyzerService) analyzeOne(ctx context.Context, item entity.MergedNews, watchSymbols []string) dto.Stage2Result {
	if s.aiRepo == nil {
		return neutralDeepAnalysis(item)
	}

	resp, err := s.aiRepo.AnalyzeImpact(ctx, item, watchSymbols)
	if err != nil {
		s.logger.Error("Deep analysis call failed, keeping article with neutral placeholder",
			logger.ErrorField(err),
			logger.StringField("news_id", item.ID),
			logger.StringField("title", item.Title),
		)
		return neutralDeepAnalysis(item)
	}

	return dto.Stage2Result{
		NewsID:              item.ID,
		ImportanceScore:     resp.ImportanceScore,
		AISummary:           resp.AISummary,
		AffectedSymbols:     resp.AffectedSymbols,
		SymbolImpacts:       resp.SymbolImpacts,
		PredictedImpact:     resp.PredictedImpact,
		ImpactDirection:     resp.ImpactDirection,
		SupplyChainAnalysis: resp.SupplyChainAnalysis,
		CompetitorAnalysis:  resp.CompetitorAnalysis,
		KeyPoints:           resp.KeyPoints,
	}
}

func neutralDeepAnalysis(item entity.MergedNews) dto.Stage2Result {
	return dto.Stage2Result{
		NewsID:          item.ID,
		ImportanceScore: neutralImportanceScore,
		AISummary:       item.Summary,
		ImpactDirection: entity.ImpactUncertain,
		SymbolImpacts:   map[string]dto.SymbolImpact{},
	}
}

// verify is stage 3: a purely local consistency check of stage 2's own
// output. It never calls out and never excludes an article.
func verify(r2 dto.Stage2Result) dto.Stage3Result {
	score := 1.0
	var issues []string

	wording := strings.ToLower(r2.PredictedImpact + " " + r2.AISummary)
	if r2.ImpactDirection == entity.ImpactPositive && strings.Contains(wording, "drop") {
		score -= 0.2
		issues = append(issues, "positive direction but impact text mentions a drop")
	}
	if r2.ImpactDirection == entity.ImpactNegative && strings.Contains(wording, "rise") {
		score -= 0.2
		issues = append(issues, "negative direction but impact text mentions a rise")
	}
	if len(r2.AffectedSymbols) > symbolListBloatLimit {
		score -= 0.1
		issues = append(issues, fmt.Sprintf("implausibly broad symbol list (%d symbols)", len(r2.AffectedSymbols)))
	}
	if score < 0 {
		score = 0
	}

	related := make(map[string][]string)
	for _, symbol := range r2.AffectedSymbols {
		if all := stockgraph.AllRelatedSymbols(symbol); len(all) > 0 {
			related[symbol] = all
		}
	}

	return dto.Stage3Result{
		NewsID:             r2.NewsID,
		VerificationPassed: score >= verificationPassMinScore && len(issues) < verificationMaxIssues,
		ConsistencyScore:   score,
		IssuesFound:        issues,
		CorrelationCheck: dto.CorrelationCheck{
			SymbolsChecked: r2.AffectedSymbols,
			Direction:      r2.ImpactDirection,
			RelatedSymbols: related,
		},
	}
}

// finalize is stage 4: compute final scores, sort, and assign dense ranks
// and display buckets in place.
func finalize(results []dto.CuratedResult) {
	for i := range results {
		r := &results[i]
		base := r.Stage2.ImportanceScore
		if !r.Stage3.VerificationPassed {
			base *= 0.8
		}
		base *= r.Stage3.ConsistencyScore
		final := base * r.Merged.ImportanceBoost
		if final > 10 {
			final = 10
		}
		r.Stage4 = dto.Stage4Result{
			NewsID:                r.Merged.ID,
			FinalScore:            final,
			DisplayRecommendation: recommendationFor(final),
			SummaryForUser:        r.Stage2.AISummary,
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Stage4.FinalScore > results[j].Stage4.FinalScore
	})

	rank := 0
	prev := -1.0
	for i := range results {
		if results[i].Stage4.FinalScore != prev {
			rank++
			prev = results[i].Stage4.FinalScore
		}
		results[i].Stage4.FinalRank = rank
	}
}

func recommendationFor(score float64) string {
	switch {
	case score >= 8.0:
		return dto.RecommendationMustSee
	case score >= 6.0:
		return dto.RecommendationImportant
	case score >= 4.0:
		return dto.RecommendationReference
	default:
		return dto.RecommendationLowPriority
	}
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pure-price-press/internal/curator/config"
	"pure-price-press/internal/curator/dto"
	"pure-price-press/internal/curator/repository"
	"pure-price-press/internal/entity"
	"pure-price-press/pkg/common"
	"pure-price-press/pkg/logger"
	"pure-price-press/pkg/telegram"
	"pure-price-press/pkg/utils"

	"github.com/google/uuid"
	"github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
)

// BatchLocker is the subset of redis commands guarding against overlapping
// runs. Satisfied by *redis.Client.
type BatchLocker interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.BoolCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

// ErrBatchAlreadyRunning is returned when a run is rejected because another
// run holds the lock for the same digest date.
var ErrBatchAlreadyRunning = fmt.Errorf("a batch run for this digest date is already in progress")

// BatchService sequences the full pipeline: collect, persist raw,
// deduplicate, persist merged, analyze, localize, persist curated, detect
// continuing stories, and upsert the daily digest. A stage failure marks the
// run failed but keeps earlier committed stages.
type BatchService struct {
	logger      *logger.Logger
	cfg         *config.Config
	collector   *CollectorService
	dedup       *DeduplicationService
	analyzer    *AnalyzerService
	translator  *TranslatorService
	continuity  *ContinuousReportingService
	rawRepo     repository.RawNewsRepository
	mergedRepo  repository.MergedNewsRepository
	curatedRepo repository.CuratedNewsRepository
	digestRepo  repository.DailyDigestRepository
	watchRepo   repository.WatchTargetRepository
	redisClient BatchLocker
	notifier    telegram.Notifier
	lockTTL     time.Duration
}

// NewBatchService creates a new instance of BatchService. notifier may be
// nil when Telegram notification is disabled.
func NewBatchService(
	log *logger.Logger,
	cfg *config.Config,
	collector *CollectorService,
	dedup *DeduplicationService,
	analyzer *AnalyzerService,
	translator *TranslatorService,
	continuity *ContinuousReportingService,
	rawRepo repository.RawNewsRepository,
	mergedRepo repository.MergedNewsRepository,
	curatedRepo repository.CuratedNewsRepository,
	digestRepo repository.DailyDigestRepository,
	watchRepo repository.WatchTargetRepository,
	redisClient BatchLocker,
	notifier telegram.Notifier,
) *BatchService {
	lockTTL, err := time.ParseDuration(cfg.Batch.LockTTL)
	if err != nil || lockTTL <= 0 {
		lockTTL = time.Hour
	}
	return &BatchService{
		logger:      log,
		cfg:         cfg,
		collector:   collector,
		dedup:       dedup,
		analyzer:    analyzer,
		translator:  translator,
		continuity:  continuity,
		rawRepo:     rawRepo,
		mergedRepo:  mergedRepo,
		curatedRepo: curatedRepo,
		digestRepo:  digestRepo,
		watchRepo:   watchRepo,
		redisClient: redisClient,
		notifier:    notifier,
		lockTTL:     lockTTL,
	}
}

// Run executes one batch over articles published within hoursBack. Reruns on
// the same date update the digest counts in place. A second run overlapping
// the first on the same date returns ErrBatchAlreadyRunning.
func (s *BatchService) Run(ctx context.Context, hoursBack int) (*dto.RunSummary, error) {
	if hoursBack <= 0 {
		hoursBack = s.cfg.Collector.HoursBack
	}

	started := utils.TimeNowUTC()
	digestDate := utils.TruncateToDay(started)
	batchID := uuid.NewString()

	summary := &dto.RunSummary{
		BatchID:    batchID,
		DigestDate: digestDate,
		Status:     entity.DigestStatusProcessing,
	}

	lockKey := common.RedisBatchLockKeyPrefix + digestDate.Format("2006-01-02")
	acquired, err := s.redisClient.SetNX(ctx, lockKey, batchID, s.lockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire batch lock: %w", err)
	}
	if !acquired {
		return nil, ErrBatchAlreadyRunning
	}
	defer func() {
		if err := s.redisClient.Del(context.WithoutCancel(ctx), lockKey).Err(); err != nil {
			s.logger.Warn("Failed to release batch lock", logger.ErrorField(err), logger.StringField("key", lockKey))
		}
	}()

	s.logger.Info("Batch run started",
		logger.StringField("batch_id", batchID),
		logger.IntField("hours_back", hoursBack),
	)

	if err := s.writeDigest(ctx, summary, started); err != nil {
		return nil, fmt.Errorf("failed to initialize digest: %w", err)
	}

	// Collection never fails the batch; all-source failure yields zero items.
	rawItems := s.collector.CollectAll(ctx, hoursBack, batchID)
	summary.RegionalBalance = s.collector.CheckRegionalBalance(rawItems)
	for _, d := range summary.RegionalBalance.Deficiencies {
		s.logger.Warn("Regional coverage below target",
			logger.StringField("region", d.Region),
			logger.Float64Field("target", d.Target),
			logger.Float64Field("actual", d.Actual),
		)
	}

	inserted, err := s.rawRepo.CreateIgnoreConflict(ctx, rawItems)
	if err != nil {
		return s.fail(ctx, summary, started, fmt.Errorf("failed to persist raw news: %w", err))
	}
	summary.TotalRawNews = len(rawItems)
	s.logger.Info("Raw news persisted",
		logger.IntField("collected", len(rawItems)),
		logger.IntField("inserted", int(inserted)),
	)

	mergedItems := s.dedup.Deduplicate(rawItems)
	if err := s.mergedRepo.CreateBatch(ctx, mergedItems); err != nil {
		return s.fail(ctx, summary, started, fmt.Errorf("failed to persist merged news: %w", err))
	}
	summary.TotalMergedNews = len(mergedItems)

	watchSymbols, err := s.watchRepo.GetActiveSymbols(ctx)
	if err != nil {
		s.logger.Warn("Failed to load watch-list, analyzing without it", logger.ErrorField(err))
		watchSymbols = nil
	}

	results, err := s.analyzer.Analyze(ctx, mergedItems, watchSymbols)
	if err != nil {
		return s.fail(ctx, summary, started, fmt.Errorf("analysis failed: %w", err))
	}

	s.translator.LocalizeResults(ctx, results)

	now := utils.TimeNowUTC()
	curated := make([]*entity.CuratedNews, 0, len(results))
	for _, r := range results {
		item, err := buildCuratedNews(r, digestDate, now)
		if err != nil {
			return s.fail(ctx, summary, started, fmt.Errorf("failed to build curated item: %w", err))
		}
		curated = append(curated, item)
	}
	if err := s.curatedRepo.CreateBatch(ctx, curated); err != nil {
		return s.fail(ctx, summary, started, fmt.Errorf("failed to persist curated news: %w", err))
	}
	summary.TotalCuratedNews = len(curated)

	newItems := make([]entity.CuratedNews, len(curated))
	for i, item := range curated {
		newItems[i] = *item
	}
	stats, err := s.continuity.Process(ctx, newItems, now)
	if err != nil {
		return s.fail(ctx, summary, started, fmt.Errorf("continuous-reporting pass failed: %w", err))
	}
	summary.Continuity = stats

	summary.Status = entity.DigestStatusCompleted
	summary.ProcessingTimeSeconds = utils.TimeNowUTC().Sub(started).Seconds()
	if err := s.writeDigest(ctx, summary, started); err != nil {
		return nil, fmt.Errorf("failed to finalize digest: %w", err)
	}

	s.notify(summary, curated)

	s.logger.Info("Batch run completed",
		logger.StringField("batch_id", batchID),
		logger.IntField("raw", summary.TotalRawNews),
		logger.IntField("merged", summary.TotalMergedNews),
		logger.IntField("curated", summary.TotalCuratedNews),
		logger.Float64Field("seconds", summary.ProcessingTimeSeconds),
	)
	return summary, nil
}

// fail marks the run failed, retaining earlier committed stages and the
// error message on the digest.
func (s *BatchService) fail(ctx context.Context, summary *dto.RunSummary, started time.Time, cause error) (*dto.RunSummary, error) {
	s.logger.Error("Batch run failed", logger.ErrorField(cause), logger.StringField("batch_id", summary.BatchID))

	summary.Status = entity.DigestStatusFailed
	summary.ErrorMessage = cause.Error()
	summary.ProcessingTimeSeconds = utils.TimeNowUTC().Sub(started).Seconds()
	if err := s.writeDigest(context.WithoutCancel(ctx), summary, started); err != nil {
		s.logger.Error("Failed to record failed digest", logger.ErrorField(err))
	}
	s.notify(summary, nil)
	return summary, cause
}

func (s *BatchService) writeDigest(ctx context.Context, summary *dto.RunSummary, started time.Time) error {
	digest := &entity.DailyDigest{
		DigestDate:            summary.DigestDate,
		TotalRawNews:          summary.TotalRawNews,
		TotalMergedNews:       summary.TotalMergedNews,
		TotalCuratedNews:      summary.TotalCuratedNews,
		ProcessingTimeSeconds: summary.ProcessingTimeSeconds,
		Status:                summary.Status,
		ErrorMessage:          summary.ErrorMessage,
	}

	if summary.RegionalBalance.RegionalStats != nil {
		regional := datatypes.JSONMap{}
		for region, count := range summary.RegionalBalance.RegionalStats {
			regional[region] = count
		}
		digest.RegionalDistribution = regional
	}

	return s.digestRepo.Upsert(ctx, digest)
}

// notify sends the digest summary to Telegram. Best-effort; a send failure
// never fails the batch.
func (s *BatchService) notify(summary *dto.RunSummary, curated []*entity.CuratedNews) {
	if s.notifier == nil {
		return
	}

	var headlines []string
	for _, item := range curated {
		if len(headlines) >= 5 {
			break
		}
		headlines = append(headlines, item.Title)
	}

	msg := telegram.FormatDigestForTelegram(telegram.DigestSummary{
		DigestDate:            summary.DigestDate.Format("2006-01-02"),
		Status:                summary.Status,
		TotalRaw:              summary.TotalRawNews,
		TotalMerged:           summary.TotalMergedNews,
		TotalCurated:          summary.TotalCuratedNews,
		ContinuousFound:       summary.Continuity.ContinuousFound,
		ProcessingTimeSeconds: summary.ProcessingTimeSeconds,
		TopHeadlines:          headlines,
		ErrorMessage:          summary.ErrorMessage,
	})
	if err := s.notifier.SendMessage(msg); err != nil {
		s.logger.Warn("Failed to send digest notification", logger.ErrorField(err))
	}
}

// buildCuratedNews flattens one analysis result into its storage row. The
// initial effective score includes the corroboration boost; decay is zero at
// age zero.
func buildCuratedNews(r dto.CuratedResult, digestDate, now time.Time) (*entity.CuratedNews, error) {
	stage1, err := json.Marshal(r.Stage1)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stage 1 payload: %w", err)
	}
	stage2, err := json.Marshal(r.Stage2)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stage 2 payload: %w", err)
	}
	stage3, err := json.Marshal(r.Stage3)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stage 3 payload: %w", err)
	}
	stage4, err := json.Marshal(r.Stage4)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stage 4 payload: %w", err)
	}
	symbolImpacts, err := json.Marshal(r.Stage2.SymbolImpacts)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal symbol impacts: %w", err)
	}
	verification, err := json.Marshal(r.Stage3.CorrelationCheck)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal verification details: %w", err)
	}

	publishedAt := r.Merged.PublishedAt
	firstSeen := now
	lastSeen := now

	return &entity.CuratedNews{
		MergedNewsID:   r.Merged.ID,
		DigestDate:     digestDate,
		Title:          r.Merged.Title,
		URL:            r.Merged.URL,
		Source:         r.Merged.Source,
		Region:         r.Merged.Region,
		Category:       r.Stage1.Category,
		PublishedAt:    &publishedAt,
		SourceCount:    r.Merged.SourceCount,
		RelatedSources: r.Merged.RelatedSources,

		ImportanceScore:   r.Stage4.FinalScore,
		RelevanceReason:   r.Stage1.BriefReason,
		AISummary:         r.Stage2.AISummary,
		AffectedSymbols:   pq.StringArray(r.Stage2.AffectedSymbols),
		SymbolImpacts:     symbolImpacts,
		PredictedImpact:   r.Stage2.PredictedImpact,
		ImpactDirection:   r.Stage2.ImpactDirection,
		SupplyChainImpact: r.Stage2.SupplyChainAnalysis,
		CompetitorImpact:  r.Stage2.CompetitorAnalysis,

		VerificationPassed:  r.Stage3.VerificationPassed,
		VerificationDetails: verification,
		AnalysisStage1:      stage1,
		AnalysisStage2:      stage2,
		AnalysisStage3:      stage3,
		AnalysisStage4:      stage4,

		FirstSeenAt:    &firstSeen,
		LastSeenAt:     &lastSeen,
		ReportingDays:  1,
		EffectiveScore: EffectiveScore(r.Stage4.FinalScore, r.Merged.SourceCount, 1, now, false, now),
	}, nil
}

package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"pure-price-press/internal/curator/config"
	"pure-price-press/internal/curator/dto"
	"pure-price-press/internal/curator/repository"
	"pure-price-press/internal/entity"
	"pure-price-press/pkg/logger"
	"pure-price-press/pkg/utils"

	"github.com/google/uuid"
)

// regionKeywords maps lowercase keywords in a source display name to a
// region tag. Matching is against the source name only, never content.
var regionKeywords = []struct {
	keyword string
	region  string
}{
	{"nikkei", "japan"},
	{"japan", "japan"},
	{"asahi", "japan"},
	{"yomiuri", "japan"},
	{"toyo keizai", "japan"},
	{"scmp", "asia"},
	{"south china", "asia"},
	{"china", "asia"},
	{"asia", "asia"},
	{"straits", "asia"},
	{"korea", "asia"},
	{"financial times", "europe"},
	{"bbc", "europe"},
	{"guardian", "europe"},
	{"euro", "europe"},
	{"handelsblatt", "europe"},
	{"marketwatch", "north_america"},
	{"wall street", "north_america"},
	{"wsj", "north_america"},
	{"cnbc", "north_america"},
	{"bloomberg", "north_america"},
	{"yahoo finance", "north_america"},
	{"al jazeera", "emerging"},
	{"economic times", "emerging"},
}

// CollectorService fetches articles from every configured source and
// normalizes them into raw news records.
type CollectorService struct {
	logger    *logger.Logger
	cfg       config.Collector
	providers map[string]repository.NewsProvider
}

// NewCollectorService creates a new instance of CollectorService. The
// providers map is keyed by provider name ("rss" for feed sources, the
// api_provider value for API sources).
func NewCollectorService(log *logger.Logger, cfg config.Collector, providers map[string]repository.NewsProvider) *CollectorService {
	return &CollectorService{
		logger:    log,
		cfg:       cfg,
		providers: providers,
	}
}

// CollectAll fans out to all configured sources concurrently and returns the
// merged, URL-deduplicated result. A failing source is logged and excluded;
// all sources failing yields an empty slice, not an error.
func (s *CollectorService) CollectAll(ctx context.Context, hoursBack int, batchID string) []entity.RawNews {
	now := utils.TimeNowUTC()
	since := now.Add(-time.Duration(hoursBack) * time.Hour)

	// Each task owns its result slot; slices are merged only after every
	// task has finished.
	results := make([][]dto.ProviderItem, len(s.cfg.Sources))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, s.cfg.MaxConcurrent)

	for i, source := range s.cfg.Sources {
		if !utils.ShouldContinue(ctx, s.logger) {
			break
		}
		i, source := i, source
		wg.Add(1)
		utils.GoSafe(func() {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			provider := s.providerFor(source)
			if provider == nil {
				s.logger.Warn("No provider for source",
					logger.StringField("source", source.Name),
					logger.StringField("type", source.Type),
					logger.StringField("api_provider", source.APIProvider),
				)
				return
			}

			items, err := provider.Fetch(ctx, source, since)
			if err != nil {
				s.logger.Error("Source fetch failed",
					logger.ErrorField(err),
					logger.StringField("source", source.Name),
				)
				return
			}
			s.logger.Info("Source fetched",
				logger.StringField("source", source.Name),
				logger.IntField("items", len(items)),
			)
			results[i] = items
		})
	}

	wg.Wait()

	// URL-exact dedup, last writer wins.
	byURL := make(map[string]entity.RawNews)
	var order []string
	for i, items := range results {
		source := s.cfg.Sources[i]
		for _, item := range items {
			if item.PublishedAt.Before(since) {
				continue
			}
			raw := entity.RawNews{
				ID:          uuid.NewString(),
				Title:       item.Title,
				URL:         item.URL,
				Source:      item.Source,
				Region:      s.inferRegion(source, item),
				Category:    item.Category,
				PublishedAt: item.PublishedAt,
				Summary:     item.Summary,
				FetchedAt:   now,
				BatchID:     batchID,
			}
			if _, exists := byURL[item.URL]; !exists {
				order = append(order, item.URL)
			}
			byURL[item.URL] = raw
		}
	}

	collected := make([]entity.RawNews, 0, len(byURL))
	for _, url := range order {
		collected = append(collected, byURL[url])
	}

	s.logger.Info("Collection complete",
		logger.IntField("sources", len(s.cfg.Sources)),
		logger.IntField("articles", len(collected)),
	)
	return collected
}

func (s *CollectorService) providerFor(source config.Source) repository.NewsProvider {
	if source.Type == "rss" {
		return s.providers["rss"]
	}
	return s.providers[source.APIProvider]
}

// inferRegion resolves an article's region from the source config, falling
// back to a keyword scan of the source display name, then to the configured
// fallback region.
func (s *CollectorService) inferRegion(source config.Source, item dto.ProviderItem) string {
	if source.Region != "" {
		return source.Region
	}
	name := strings.ToLower(item.Source)
	for _, entry := range regionKeywords {
		if strings.Contains(name, entry.keyword) {
			return entry.region
		}
	}
	return s.cfg.FallbackRegion
}

// CheckRegionalBalance compares the collected distribution against the
// configured targets and flags regions under half their target share. The
// report is advisory and never blocks a batch.
func (s *CollectorService) CheckRegionalBalance(items []entity.RawNews) dto.BalanceReport {
	report := dto.BalanceReport{
		TotalArticles: len(items),
		RegionalStats: make(map[string]int),
		TargetBalance: s.cfg.RegionalBalance,
		ActualBalance: make(map[string]float64),
	}
	if len(items) == 0 {
		return report
	}

	for _, item := range items {
		report.RegionalStats[item.Region]++
	}
	for region, count := range report.RegionalStats {
		report.ActualBalance[region] = float64(count) / float64(len(items))
	}

	regions := make([]string, 0, len(s.cfg.RegionalBalance))
	for region := range s.cfg.RegionalBalance {
		regions = append(regions, region)
	}
	sort.Strings(regions)

	for _, region := range regions {
		target := s.cfg.RegionalBalance[region]
		actual := report.ActualBalance[region]
		if actual < target*0.5 {
			report.Deficiencies = append(report.Deficiencies, dto.RegionalDeficiency{
				Region:    region,
				Target:    target,
				Actual:    actual,
				Shortfall: target*0.5 - actual,
			})
		}
	}
	return report
}

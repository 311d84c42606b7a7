package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"pure-price-press/internal/curator/config"
	"pure-price-press/internal/curator/dto"
	"pure-price-press/internal/curator/repository"
	"pure-price-press/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockNewsProvider struct {
	fetchFn func(ctx context.Context, source config.Source, since time.Time) ([]dto.ProviderItem, error)
}

func (m *mockNewsProvider) Fetch(ctx context.Context, source config.Source, since time.Time) ([]dto.ProviderItem, error) {
	return m.fetchFn(ctx, source, since)
}

func collectorConfig(sources ...config.Source) config.Collector {
	return config.Collector{
		HoursBack:      24,
		FallbackRegion: "north_america",
		MaxConcurrent:  3,
		Sources:        sources,
		RegionalBalance: map[string]float64{
			"north_america": 0.32,
			"japan":         0.20,
			"europe":        0.20,
			"asia":          0.20,
			"emerging":      0.04,
			"other":         0.04,
		},
	}
}

func providerItem(title, url, source string) dto.ProviderItem {
	return dto.ProviderItem{
		Title:       title,
		URL:         url,
		Source:      source,
		PublishedAt: time.Now().UTC().Add(-time.Hour),
	}
}

func TestCollectAllMergesAllSources(t *testing.T) {
	provider := &mockNewsProvider{
		fetchFn: func(ctx context.Context, source config.Source, since time.Time) ([]dto.ProviderItem, error) {
			return []dto.ProviderItem{
				providerItem("story from "+source.Name, "https://example.com/"+source.Name, source.Name),
			}, nil
		},
	}
	svc := NewCollectorService(testLogger(t), collectorConfig(
		config.Source{Name: "MarketWatch", Type: "rss", Region: "north_america"},
		config.Source{Name: "Nikkei Asia", Type: "rss", Region: "japan"},
	), map[string]repository.NewsProvider{"rss": provider})

	collected := svc.CollectAll(context.Background(), 24, "batch-1")

	require.Len(t, collected, 2)
	for _, item := range collected {
		assert.Equal(t, "batch-1", item.BatchID)
		assert.NotEmpty(t, item.ID)
		assert.False(t, item.FetchedAt.IsZero())
	}
}

func TestCollectAllURLDedupLastWriterWins(t *testing.T) {
	provider := &mockNewsProvider{
		fetchFn: func(ctx context.Context, source config.Source, since time.Time) ([]dto.ProviderItem, error) {
			return []dto.ProviderItem{
				providerItem("syndicated story via "+source.Name, "https://example.com/shared", source.Name),
			}, nil
		},
	}
	svc := NewCollectorService(testLogger(t), collectorConfig(
		config.Source{Name: "First Source", Type: "rss", Region: "north_america"},
		config.Source{Name: "Second Source", Type: "rss", Region: "europe"},
	), map[string]repository.NewsProvider{"rss": provider})

	collected := svc.CollectAll(context.Background(), 24, "batch-1")

	require.Len(t, collected, 1)
	assert.Equal(t, "Second Source", collected[0].Source)
	assert.Equal(t, "europe", collected[0].Region)
}

func TestCollectAllPartialSourceFailure(t *testing.T) {
	provider := &mockNewsProvider{
		fetchFn: func(ctx context.Context, source config.Source, since time.Time) ([]dto.ProviderItem, error) {
			if source.Name == "Broken Feed" {
				return nil, fmt.Errorf("connection refused")
			}
			return []dto.ProviderItem{
				providerItem("healthy story", "https://example.com/ok", source.Name),
			}, nil
		},
	}
	svc := NewCollectorService(testLogger(t), collectorConfig(
		config.Source{Name: "Broken Feed", Type: "rss", Region: "europe"},
		config.Source{Name: "Healthy Feed", Type: "rss", Region: "japan"},
	), map[string]repository.NewsProvider{"rss": provider})

	collected := svc.CollectAll(context.Background(), 24, "batch-1")

	require.Len(t, collected, 1)
	assert.Equal(t, "Healthy Feed", collected[0].Source)
}

func TestCollectAllAllSourcesFailingYieldsEmpty(t *testing.T) {
	provider := &mockNewsProvider{
		fetchFn: func(ctx context.Context, source config.Source, since time.Time) ([]dto.ProviderItem, error) {
			return nil, fmt.Errorf("connection refused")
		},
	}
	svc := NewCollectorService(testLogger(t), collectorConfig(
		config.Source{Name: "A", Type: "rss", Region: "europe"},
		config.Source{Name: "B", Type: "rss", Region: "japan"},
	), map[string]repository.NewsProvider{"rss": provider})

	collected := svc.CollectAll(context.Background(), 24, "batch-1")
	assert.Empty(t, collected)
}

func TestCollectAllFiltersStaleItems(t *testing.T) {
	provider := &mockNewsProvider{
		fetchFn: func(ctx context.Context, source config.Source, since time.Time) ([]dto.ProviderItem, error) {
			fresh := providerItem("fresh story", "https://example.com/fresh", source.Name)
			stale := providerItem("stale story", "https://example.com/stale", source.Name)
			stale.PublishedAt = time.Now().UTC().Add(-48 * time.Hour)
			return []dto.ProviderItem{fresh, stale}, nil
		},
	}
	svc := NewCollectorService(testLogger(t), collectorConfig(
		config.Source{Name: "Feed", Type: "rss", Region: "europe"},
	), map[string]repository.NewsProvider{"rss": provider})

	collected := svc.CollectAll(context.Background(), 24, "batch-1")

	require.Len(t, collected, 1)
	assert.Equal(t, "fresh story", collected[0].Title)
}

func TestCollectAllMissingProviderSkipsSource(t *testing.T) {
	svc := NewCollectorService(testLogger(t), collectorConfig(
		config.Source{Name: "Alpha Vantage", Type: "api", APIProvider: "alpha_vantage"},
	), map[string]repository.NewsProvider{})

	collected := svc.CollectAll(context.Background(), 24, "batch-1")
	assert.Empty(t, collected)
}

func TestInferRegion(t *testing.T) {
	svc := NewCollectorService(testLogger(t), collectorConfig(), nil)

	cases := []struct {
		sourceRegion string
		itemSource   string
		want         string
	}{
		{"japan", "anything", "japan"},
		{"", "Nikkei Asia", "japan"},
		{"", "Toyo Keizai Online", "japan"},
		{"", "SCMP Business", "asia"},
		{"", "Financial Times", "europe"},
		{"", "BBC News", "europe"},
		{"", "MarketWatch", "north_america"},
		{"", "CNBC Markets", "north_america"},
		{"", "Al Jazeera English", "emerging"},
		{"", "Economic Times Markets", "emerging"},
		{"", "Unknown Outlet", "north_america"},
	}
	for _, tc := range cases {
		got := svc.inferRegion(config.Source{Region: tc.sourceRegion}, dto.ProviderItem{Source: tc.itemSource})
		assert.Equal(t, tc.want, got, "source %q / item %q", tc.sourceRegion, tc.itemSource)
	}
}

func TestCheckRegionalBalanceFlagsDeficiency(t *testing.T) {
	svc := NewCollectorService(testLogger(t), collectorConfig(), nil)

	var items []entity.RawNews
	for i := 0; i < 9; i++ {
		items = append(items, entity.RawNews{Region: "north_america"})
	}
	items = append(items, entity.RawNews{Region: "europe"})

	report := svc.CheckRegionalBalance(items)

	assert.Equal(t, 10, report.TotalArticles)
	assert.Equal(t, 9, report.RegionalStats["north_america"])
	assert.InDelta(t, 0.1, report.ActualBalance["europe"], 1e-9)

	// japan and asia collected nothing; europe sits at 0.10 against a 0.20
	// target, exactly half, so it is not deficient.
	deficient := make(map[string]bool)
	for _, d := range report.Deficiencies {
		deficient[d.Region] = true
	}
	assert.True(t, deficient["japan"])
	assert.True(t, deficient["asia"])
	assert.False(t, deficient["europe"])
	assert.False(t, deficient["north_america"])
}

func TestCheckRegionalBalanceEmptyInput(t *testing.T) {
	svc := NewCollectorService(testLogger(t), collectorConfig(), nil)
	report := svc.CheckRegionalBalance(nil)
	assert.Zero(t, report.TotalArticles)
	assert.Empty(t, report.Deficiencies)
}

func TestCheckRegionalBalanceDeterministicOrder(t *testing.T) {
	svc := NewCollectorService(testLogger(t), collectorConfig(), nil)
	items := []entity.RawNews{{Region: "north_america"}}

	first := svc.CheckRegionalBalance(items)
	second := svc.CheckRegionalBalance(items)
	require.Equal(t, len(first.Deficiencies), len(second.Deficiencies))
	for i := range first.Deficiencies {
		assert.Equal(t, first.Deficiencies[i].Region, second.Deficiencies[i].Region)
	}
}

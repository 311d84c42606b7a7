package repository

import (
	"context"
	"time"

	"pure-price-press/internal/curator/config"
	"pure-price-press/internal/curator/dto"
	"pure-price-press/internal/entity"
)

// AIRepository is the reasoning backend for the analysis pipeline.
type AIRepository interface {
	ScreenHeadlines(ctx context.Context, items []entity.MergedNews) (*dto.ScreeningResponse, error)
	AnalyzeImpact(ctx context.Context, item entity.MergedNews, watchSymbols []string) (*dto.DeepAnalysisResponse, error)
	Translate(ctx context.Context, texts []string) ([]string, error)
}

// NewsProvider fetches articles from one kind of source. Implementations
// return only items published at or after since.
type NewsProvider interface {
	Fetch(ctx context.Context, source config.Source, since time.Time) ([]dto.ProviderItem, error)
}

package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"pure-price-press/internal/curator/config"
	"pure-price-press/internal/curator/dto"
	"pure-price-press/pkg/logger"
)

// finnhubRepository fetches general market news from the Finnhub news
// endpoint.
type finnhubRepository struct {
	logger  *logger.Logger
	client  *http.Client
	baseURL string
}

type finnhubNewsItem struct {
	Category string `json:"category"`
	Datetime int64  `json:"datetime"`
	Headline string `json:"headline"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

// NewFinnhubRepository creates a NewsProvider backed by Finnhub.
func NewFinnhubRepository(log *logger.Logger) NewsProvider {
	return &finnhubRepository{
		logger:  log,
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: "https://finnhub.io/api/v1/news",
	}
}

func (r *finnhubRepository) Fetch(ctx context.Context, source config.Source, since time.Time) ([]dto.ProviderItem, error) {
	apiKey := source.Params["api_key"]
	if apiKey == "" {
		return nil, fmt.Errorf("finnhub source %s has no api_key param", source.Name)
	}

	category := source.Params["category"]
	if category == "" {
		category = "general"
	}

	q := url.Values{}
	q.Set("category", category)
	q.Set("token", apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", r.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create finnhub request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error("Failed to send request to Finnhub", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to send request to Finnhub: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("received non-OK response from Finnhub: %d - %s", resp.StatusCode, string(body))
	}

	var newsItems []finnhubNewsItem
	if err := json.NewDecoder(resp.Body).Decode(&newsItems); err != nil {
		return nil, fmt.Errorf("failed to decode Finnhub response: %w", err)
	}

	var items []dto.ProviderItem
	for _, item := range newsItems {
		publishedAt := time.Unix(item.Datetime, 0).UTC()
		if publishedAt.Before(since) {
			continue
		}

		items = append(items, dto.ProviderItem{
			Title:       item.Headline,
			URL:         item.URL,
			Source:      source.Name,
			PublishedAt: publishedAt,
			Summary:     item.Summary,
			Category:    item.Category,
		})
	}

	return items, nil
}

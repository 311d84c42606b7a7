package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pure-price-press/internal/curator/config"
	"pure-price-press/internal/curator/dto"
	"pure-price-press/pkg/logger"
)

const alphaVantageTimeLayout = "20060102T150405"

// alphaVantageRepository fetches news from the Alpha Vantage NEWS_SENTIMENT
// endpoint.
type alphaVantageRepository struct {
	logger  *logger.Logger
	client  *http.Client
	baseURL string
}

type alphaVantageFeedItem struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	TimePublished string `json:"time_published"`
	Summary       string `json:"summary"`
	Source        string `json:"source"`
	Topics        []struct {
		Topic string `json:"topic"`
	} `json:"topics"`
}

type alphaVantageResponse struct {
	Feed        []alphaVantageFeedItem `json:"feed"`
	Information string                 `json:"Information"`
	Note        string                 `json:"Note"`
}

// NewAlphaVantageRepository creates a NewsProvider backed by Alpha Vantage.
func NewAlphaVantageRepository(log *logger.Logger) NewsProvider {
	return &alphaVantageRepository{
		logger:  log,
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: "https://www.alphavantage.co/query",
	}
}

func (r *alphaVantageRepository) Fetch(ctx context.Context, source config.Source, since time.Time) ([]dto.ProviderItem, error) {
	apiKey := source.Params["api_key"]
	if apiKey == "" {
		return nil, fmt.Errorf("alpha vantage source %s has no api_key param", source.Name)
	}

	q := url.Values{}
	q.Set("function", "NEWS_SENTIMENT")
	q.Set("apikey", apiKey)
	q.Set("time_from", since.UTC().Format(alphaVantageTimeLayout))
	q.Set("sort", "LATEST")
	if topics := source.Params["topics"]; topics != "" {
		q.Set("topics", topics)
	}
	if tickers := source.Params["tickers"]; tickers != "" {
		q.Set("tickers", tickers)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", r.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create alpha vantage request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error("Failed to send request to Alpha Vantage", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to send request to Alpha Vantage: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("received non-OK response from Alpha Vantage: %d - %s", resp.StatusCode, string(body))
	}

	var avResp alphaVantageResponse
	if err := json.NewDecoder(resp.Body).Decode(&avResp); err != nil {
		return nil, fmt.Errorf("failed to decode Alpha Vantage response: %w", err)
	}

	// Rate-limit notices come back as 200 with a message body and no feed.
	if len(avResp.Feed) == 0 && (avResp.Note != "" || avResp.Information != "") {
		msg := avResp.Note
		if msg == "" {
			msg = avResp.Information
		}
		return nil, fmt.Errorf("alpha vantage returned no feed: %s", msg)
	}

	var items []dto.ProviderItem
	for _, feedItem := range avResp.Feed {
		publishedAt, err := time.Parse(alphaVantageTimeLayout, feedItem.TimePublished)
		if err != nil {
			r.logger.Debug("Skipping alpha vantage item with bad timestamp",
				logger.StringField("time_published", feedItem.TimePublished),
				logger.StringField("url", feedItem.URL),
			)
			continue
		}
		if publishedAt.Before(since) {
			continue
		}

		var topics []string
		for _, t := range feedItem.Topics {
			topics = append(topics, strings.ToLower(t.Topic))
		}

		items = append(items, dto.ProviderItem{
			Title:       feedItem.Title,
			URL:         feedItem.URL,
			Source:      source.Name,
			PublishedAt: publishedAt.UTC(),
			Summary:     feedItem.Summary,
			Topics:      topics,
		})
	}

	return items, nil
}

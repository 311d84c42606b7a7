package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pure-price-press/internal/curator/config"
	"pure-price-press/internal/curator/dto"
	"pure-price-press/pkg/logger"
	"pure-price-press/pkg/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/mauidude/go-readability"
	"github.com/mmcdole/gofeed"
	"github.com/patrickmn/go-cache"
)

const rssSummaryMaxLen = 500

// rssFeedRepository fetches articles from RSS/Atom feeds. Feed bodies are
// cached briefly so sources shared by several configured queries are not
// re-fetched within one run.
type rssFeedRepository struct {
	logger          *logger.Logger
	client          *http.Client
	inmemoryCache   *cache.Cache
	enrichSummaries bool
}

// NewRSSFeedRepository creates a NewsProvider backed by gofeed.
func NewRSSFeedRepository(log *logger.Logger, enrichSummaries bool) NewsProvider {
	return &rssFeedRepository{
		logger:          log,
		client:          &http.Client{Timeout: 30 * time.Second},
		inmemoryCache:   cache.New(5*time.Minute, 10*time.Minute),
		enrichSummaries: enrichSummaries,
	}
}

func (r *rssFeedRepository) Fetch(ctx context.Context, source config.Source, since time.Time) ([]dto.ProviderItem, error) {
	if source.RSSURL == "" {
		return nil, fmt.Errorf("rss source %s has no rss_url", source.Name)
	}

	var feed *gofeed.Feed
	if cached, found := r.inmemoryCache.Get(source.RSSURL); found {
		feed = cached.(*gofeed.Feed)
	} else {
		fp := gofeed.NewParser()
		parsed, err := fp.ParseURLWithContext(source.RSSURL, ctx)
		if err != nil {
			r.logger.Error("Failed to parse RSS feed", logger.ErrorField(err), logger.StringField("url", source.RSSURL))
			return nil, fmt.Errorf("failed to parse RSS feed %s: %w", source.RSSURL, err)
		}
		feed = parsed
		r.inmemoryCache.Set(source.RSSURL, feed, cache.DefaultExpiration)
	}

	var items []dto.ProviderItem
	for _, item := range feed.Items {
		if item.PublishedParsed == nil {
			r.logger.Debug("Skipping feed item without published date", logger.StringField("link", item.Link))
			continue
		}
		if item.PublishedParsed.Before(since) {
			continue
		}

		summary := strings.TrimSpace(item.Description)
		if summary == "" && r.enrichSummaries {
			enriched, err := r.extractSummary(ctx, item.Link)
			if err != nil {
				r.logger.Debug("Failed to enrich feed item", logger.ErrorField(err), logger.StringField("link", item.Link))
			} else {
				summary = enriched
			}
		}

		items = append(items, dto.ProviderItem{
			Title:       utils.CleanToValidUTF8(item.Title),
			URL:         item.Link,
			Source:      source.Name,
			PublishedAt: item.PublishedParsed.UTC(),
			Summary:     utils.Truncate(utils.CleanToValidUTF8(summary), rssSummaryMaxLen),
		})
	}

	return items, nil
}

// extractSummary fetches the article page and pulls readable text out of it.
func (r *rssFeedRepository) extractSummary(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request for feed item: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch article content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch article content, status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	doc, err := readability.NewDocument(string(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse article content: %w", err)
	}
	content := doc.Content()
	docHTML, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(content)))
	if err != nil {
		return "", fmt.Errorf("failed to parse article content: %w", err)
	}

	content = strings.TrimSpace(docHTML.Text())
	content = strings.ReplaceAll(content, "\n", " ")
	content = strings.ReplaceAll(content, "\t", " ")
	content = strings.ReplaceAll(content, "\r", " ")
	return content, nil
}

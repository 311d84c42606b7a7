package dto

import "time"

// ProviderItem is one article as returned by a news provider, before
// normalization into entity.RawNews.
type ProviderItem struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	Summary     string    `json:"summary,omitempty"`
	Category    string    `json:"category,omitempty"`
	Topics      []string  `json:"topics,omitempty"`
}

// RegionalDeficiency flags a region collecting under half its target share.
type RegionalDeficiency struct {
	Region    string  `json:"region"`
	Target    float64 `json:"target"`
	Actual    float64 `json:"actual"`
	Shortfall float64 `json:"shortfall"`
}

// BalanceReport compares observed regional distribution to configured
// targets. Advisory only; it never blocks a batch.
type BalanceReport struct {
	TotalArticles int                  `json:"total_articles"`
	RegionalStats map[string]int       `json:"regional_stats"`
	TargetBalance map[string]float64   `json:"target_balance"`
	ActualBalance map[string]float64   `json:"actual_balance"`
	Deficiencies  []RegionalDeficiency `json:"deficiencies"`
}

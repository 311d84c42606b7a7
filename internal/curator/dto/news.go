package dto

import "time"

// DisplayNewsItem is the read-API view of a curated article, annotated with
// display metadata derived from its effective score.
type DisplayNewsItem struct {
	ID               uint       `json:"id"`
	Title            string     `json:"title"`
	URL              string     `json:"url"`
	Source           string     `json:"source"`
	Region           string     `json:"region"`
	Category         string     `json:"category,omitempty"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
	SourceCount      int        `json:"source_count"`
	AISummary        string     `json:"ai_summary,omitempty"`
	AffectedSymbols  []string   `json:"affected_symbols,omitempty"`
	ImpactDirection  string     `json:"impact_direction,omitempty"`
	EffectiveScore   float64    `json:"effective_score"`
	ScoreLabel       string     `json:"score_label"`
	ScoreColor       string     `json:"score_color"`
	ReportingDays    int        `json:"reporting_days"`
	IsPinned         bool       `json:"is_pinned"`
	RemainingSeconds *int64     `json:"remaining_seconds,omitempty"`
}

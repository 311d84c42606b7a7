package dto

import "time"

// ContinuityStats summarizes a continuous-reporting pass.
type ContinuityStats struct {
	Processed        int    `json:"processed"`
	ContinuousFound  int    `json:"continuous_found"`
	UpdatedOriginals []uint `json:"updated_originals"`
}

// RunSummary is the caller-visible outcome of one batch run.
type RunSummary struct {
	BatchID               string          `json:"batch_id"`
	DigestDate            time.Time       `json:"digest_date"`
	Status                string          `json:"status"`
	TotalRawNews          int             `json:"total_raw_news"`
	TotalMergedNews       int             `json:"total_merged_news"`
	TotalCuratedNews      int             `json:"total_curated_news"`
	Continuity            ContinuityStats `json:"continuity"`
	RegionalBalance       BalanceReport   `json:"regional_balance"`
	ProcessingTimeSeconds float64         `json:"processing_time_seconds"`
	ErrorMessage          string          `json:"error_message,omitempty"`
}

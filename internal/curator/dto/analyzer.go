package dto

import (
	"fmt"

	"pure-price-press/internal/entity"
)

// Display recommendation buckets assigned by final judgment.
const (
	RecommendationMustSee     = "must-see"
	RecommendationImportant   = "important"
	RecommendationReference   = "reference"
	RecommendationLowPriority = "low-priority"
)

// Stage1Result is the screening outcome for one article.
type Stage1Result struct {
	NewsID         string  `json:"news_id"`
	Passed         bool    `json:"passed"`
	RelevanceScore float64 `json:"relevance_score"`
	Category       string  `json:"category"`
	BriefReason    string  `json:"brief_reason"`
}

// SymbolImpact is the per-symbol judgment from deep analysis.
type SymbolImpact struct {
	Direction string `json:"direction"`
	Analysis  string `json:"analysis"`
}

// Stage2Result is the deep analysis outcome for one article.
type Stage2Result struct {
	NewsID              string                  `json:"news_id"`
	ImportanceScore     float64                 `json:"importance_score"`
	AISummary           string                  `json:"ai_summary"`
	AffectedSymbols     []string                `json:"affected_symbols"`
	SymbolImpacts       map[string]SymbolImpact `json:"symbol_impacts"`
	PredictedImpact     string                  `json:"predicted_impact"`
	ImpactDirection     string                  `json:"impact_direction"`
	SupplyChainAnalysis string                  `json:"supply_chain_analysis"`
	CompetitorAnalysis  string                  `json:"competitor_analysis"`
	KeyPoints           []string                `json:"key_points"`
}

// CorrelationCheck captures what the verification stage looked at.
type CorrelationCheck struct {
	SymbolsChecked []string            `json:"symbols_checked"`
	Direction      string              `json:"direction"`
	RelatedSymbols map[string][]string `json:"related_symbols,omitempty"`
}

// Stage3Result is the local consistency verification outcome.
type Stage3Result struct {
	NewsID             string           `json:"news_id"`
	VerificationPassed bool             `json:"verification_passed"`
	ConsistencyScore   float64          `json:"consistency_score"`
	IssuesFound        []string         `json:"issues_found"`
	CorrelationCheck   CorrelationCheck `json:"correlation_check"`
}

// Stage4Result is the final judgment for one article.
type Stage4Result struct {
	NewsID                string  `json:"news_id"`
	FinalScore            float64 `json:"final_score"`
	FinalRank             int     `json:"final_rank"`
	DisplayRecommendation string  `json:"display_recommendation"`
	SummaryForUser        string  `json:"summary_for_user"`
}

// CuratedResult bundles a merged article with all four stage payloads.
type CuratedResult struct {
	Merged entity.MergedNews
	Stage1 Stage1Result
	Stage2 Stage2Result
	Stage3 Stage3Result
	Stage4 Stage4Result
}

// ScreeningItem is one entry of the screening response. Index is 1-based,
// matching the numbering in the prompt.
type ScreeningItem struct {
	Index          int     `json:"index"`
	RelevanceScore float64 `json:"relevance_score"`
	Category       string  `json:"category"`
	Passed         bool    `json:"passed"`
	BriefReason    string  `json:"brief_reason"`
}

// ScreeningResponse is the expected JSON shape of a screening call.
type ScreeningResponse struct {
	Results []ScreeningItem `json:"results"`
}

// Validate checks the screening response against the batch it screened.
// Out-of-range indexes are rejected here so downstream code never re-checks.
func (r *ScreeningResponse) Validate(batchSize int) error {
	if len(r.Results) == 0 {
		return fmt.Errorf("screening response contains no results")
	}
	for _, item := range r.Results {
		if item.Index < 1 || item.Index > batchSize {
			return fmt.Errorf("screening result index %d out of range 1..%d", item.Index, batchSize)
		}
	}
	return nil
}

// DeepAnalysisResponse is the expected JSON shape of a deep analysis call.
type DeepAnalysisResponse struct {
	ImportanceScore     float64                 `json:"importance_score"`
	AISummary           string                  `json:"ai_summary"`
	AffectedSymbols     []string                `json:"affected_symbols"`
	SymbolImpacts       map[string]SymbolImpact `json:"symbol_impacts"`
	PredictedImpact     string                  `json:"predicted_impact"`
	ImpactDirection     string                  `json:"impact_direction"`
	SupplyChainAnalysis string                  `json:"supply_chain_analysis"`
	CompetitorAnalysis  string                  `json:"competitor_analysis"`
	KeyPoints           []string                `json:"key_points"`
}

// Normalize clamps the score into 1..10 and maps unknown directions to
// "uncertain", so every consumer sees a well-formed result.
func (r *DeepAnalysisResponse) Normalize() {
	if r.ImportanceScore < 1 {
		r.ImportanceScore = 1
	}
	if r.ImportanceScore > 10 {
		r.ImportanceScore = 10
	}
	switch r.ImpactDirection {
	case entity.ImpactPositive, entity.ImpactNegative, entity.ImpactMixed, entity.ImpactUncertain:
	default:
		r.ImpactDirection = entity.ImpactUncertain
	}
	if r.SymbolImpacts == nil {
		r.SymbolImpacts = map[string]SymbolImpact{}
	}
}

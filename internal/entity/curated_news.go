package entity

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Impact direction values produced by deep analysis.
const (
	ImpactPositive  = "positive"
	ImpactNegative  = "negative"
	ImpactMixed     = "mixed"
	ImpactUncertain = "uncertain"
)

// CuratedNews is a merged article that survived the full analysis pipeline,
// carrying every stage's payload plus the continuous-reporting state that
// governs its display lifetime. Rows are never deleted; items detected as
// continuations of an earlier story keep their row with effective_score
// forced to zero.
type CuratedNews struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	MergedNewsID string    `gorm:"type:varchar(36);not null;index" json:"merged_news_id"`
	DigestDate   time.Time `gorm:"not null;index" json:"digest_date"`

	Title          string         `gorm:"type:varchar(500);not null" json:"title"`
	URL            string         `gorm:"type:varchar(2000);not null" json:"url"`
	Source         string         `gorm:"type:varchar(100);not null" json:"source"`
	Region         string         `gorm:"type:varchar(50);not null" json:"region"`
	Category       string         `gorm:"type:varchar(50)" json:"category,omitempty"`
	PublishedAt    *time.Time     `gorm:"index" json:"published_at,omitempty"`
	SourceCount    int            `gorm:"not null;default:1" json:"source_count"`
	RelatedSources pq.StringArray `gorm:"type:text[]" json:"related_sources"`

	ImportanceScore   float64        `gorm:"not null;index" json:"importance_score"`
	RelevanceReason   string         `gorm:"type:text;not null" json:"relevance_reason"`
	AISummary         string         `gorm:"column:ai_summary;type:text" json:"ai_summary,omitempty"`
	AffectedSymbols   pq.StringArray `gorm:"type:text[]" json:"affected_symbols"`
	SymbolImpacts     datatypes.JSON `json:"symbol_impacts,omitempty"`
	PredictedImpact   string         `gorm:"type:text" json:"predicted_impact,omitempty"`
	ImpactDirection   string         `gorm:"type:varchar(20)" json:"impact_direction,omitempty"`
	SupplyChainImpact string         `gorm:"type:text" json:"supply_chain_impact,omitempty"`
	CompetitorImpact  string         `gorm:"type:text" json:"competitor_impact,omitempty"`

	VerificationPassed  bool           `gorm:"not null;default:true" json:"verification_passed"`
	VerificationDetails datatypes.JSON `json:"verification_details,omitempty"`
	AnalysisStage1      datatypes.JSON `gorm:"column:analysis_stage_1" json:"analysis_stage_1,omitempty"`
	AnalysisStage2      datatypes.JSON `gorm:"column:analysis_stage_2" json:"analysis_stage_2,omitempty"`
	AnalysisStage3      datatypes.JSON `gorm:"column:analysis_stage_3" json:"analysis_stage_3,omitempty"`
	AnalysisStage4      datatypes.JSON `gorm:"column:analysis_stage_4" json:"analysis_stage_4,omitempty"`

	FirstSeenAt    *time.Time `gorm:"index" json:"first_seen_at,omitempty"`
	LastSeenAt     *time.Time `json:"last_seen_at,omitempty"`
	ReportingDays  int        `gorm:"not null;default:1" json:"reporting_days"`
	IsPinned       bool       `gorm:"not null;default:false" json:"is_pinned"`
	PinnedAt       *time.Time `json:"pinned_at,omitempty"`
	EffectiveScore float64    `gorm:"not null;default:0;index" json:"effective_score"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the CuratedNews model.
func (CuratedNews) TableName() string {
	return "curated_news"
}

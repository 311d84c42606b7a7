package config

import (
	"pure-price-press/pkg/config"
)

// Source describes one configured news source. API sources name a provider
// and query params; feed sources carry an RSS URL.
type Source struct {
	Name        string            `mapstructure:"name"`
	Type        string            `mapstructure:"type"` // "api" or "rss"
	Region      string            `mapstructure:"region"`
	Priority    int               `mapstructure:"priority"`
	APIProvider string            `mapstructure:"api_provider"`
	RSSURL      string            `mapstructure:"rss_url"`
	Params      map[string]string `mapstructure:"params"`
}

// Collector holds collection settings.
type Collector struct {
	HoursBack       int                `mapstructure:"hours_back"`
	FallbackRegion  string             `mapstructure:"fallback_region"`
	MaxConcurrent   int                `mapstructure:"max_concurrent"`
	FetchTimeout    string             `mapstructure:"fetch_timeout"`
	EnrichSummaries bool               `mapstructure:"enrich_summaries"`
	Sources         []Source           `mapstructure:"sources"`
	RegionalBalance map[string]float64 `mapstructure:"regional_balance"`
}

// Deduplicator holds clustering settings.
type Deduplicator struct {
	SimilarityThreshold float64        `mapstructure:"similarity_threshold"`
	SourcePriority      map[string]int `mapstructure:"source_priority"`
}

// Analyzer holds analysis pipeline settings.
type Analyzer struct {
	ScreeningBatchSize int `mapstructure:"screening_batch_size"`
	MaxConcurrent      int `mapstructure:"max_concurrent"`
	MaxWatchSymbols    int `mapstructure:"max_watch_symbols"`
}

// ContinuousReporting holds topic continuity settings.
type ContinuousReporting struct {
	LookbackDays             int     `mapstructure:"lookback_days"`
	TitleSimilarityThreshold float64 `mapstructure:"title_similarity_threshold"`
	SymbolOverlapThreshold   float64 `mapstructure:"symbol_overlap_threshold"`
}

// Batch holds orchestrator settings.
type Batch struct {
	CronSchedule string `mapstructure:"cron_schedule"`
	LockTTL      string `mapstructure:"lock_ttl"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	BaseURL             string `mapstructure:"base_url"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// OpenAI holds the configuration for the OpenAI API.
type OpenAI struct {
	APIKey              string `mapstructure:"api_key"`
	BaseURL             string `mapstructure:"base_url"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// AI selects the reasoning backend. An empty provider runs the pipeline with
// neutral defaults at every stage.
type AI struct {
	Provider string `mapstructure:"provider"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the curator service.
type Config struct {
	App                 config.App          `mapstructure:"app"`
	Logger              config.Logger       `mapstructure:"logger"`
	Database            config.Database     `mapstructure:"database"`
	Redis               config.Redis        `mapstructure:"redis"`
	API                 config.API          `mapstructure:"api"`
	Collector           Collector           `mapstructure:"collector"`
	Deduplicator        Deduplicator        `mapstructure:"deduplicator"`
	Analyzer            Analyzer            `mapstructure:"analyzer"`
	ContinuousReporting ContinuousReporting `mapstructure:"continuous_reporting"`
	Batch               Batch               `mapstructure:"batch"`
	Gemini              Gemini              `mapstructure:"gemini"`
	OpenAI              OpenAI              `mapstructure:"openai"`
	AI                  AI                  `mapstructure:"ai"`
	Telegram            Telegram            `mapstructure:"telegram"`
}

// Load loads the curator configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Collector.HoursBack == 0 {
		cfg.Collector.HoursBack = 24
	}
	if cfg.Collector.FallbackRegion == "" {
		cfg.Collector.FallbackRegion = "north_america"
	}
	if cfg.Collector.MaxConcurrent == 0 {
		cfg.Collector.MaxConcurrent = 5
	}
	if cfg.Deduplicator.SimilarityThreshold == 0 {
		cfg.Deduplicator.SimilarityThreshold = 0.85
	}
	if cfg.Analyzer.ScreeningBatchSize == 0 {
		cfg.Analyzer.ScreeningBatchSize = 10
	}
	if cfg.Analyzer.MaxConcurrent == 0 {
		cfg.Analyzer.MaxConcurrent = 3
	}
	if cfg.Analyzer.MaxWatchSymbols == 0 {
		cfg.Analyzer.MaxWatchSymbols = 20
	}
	if cfg.ContinuousReporting.LookbackDays == 0 {
		cfg.ContinuousReporting.LookbackDays = 7
	}
	if cfg.ContinuousReporting.TitleSimilarityThreshold == 0 {
		cfg.ContinuousReporting.TitleSimilarityThreshold = 0.85
	}
	if cfg.ContinuousReporting.SymbolOverlapThreshold == 0 {
		cfg.ContinuousReporting.SymbolOverlapThreshold = 0.5
	}
	if cfg.Batch.LockTTL == "" {
		cfg.Batch.LockTTL = "1h"
	}
	if cfg.Gemini.BaseURL == "" {
		cfg.Gemini.BaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = "gemini-2.0-flash"
	}
	if cfg.Gemini.MaxRequestPerMinute == 0 {
		cfg.Gemini.MaxRequestPerMinute = 10
	}
	if cfg.Gemini.MaxTokenPerMinute == 0 {
		cfg.Gemini.MaxTokenPerMinute = 250000
	}
	if cfg.OpenAI.BaseURL == "" {
		cfg.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = "gpt-4o-mini"
	}
	if cfg.OpenAI.MaxRequestPerMinute == 0 {
		cfg.OpenAI.MaxRequestPerMinute = 30
	}
	if cfg.OpenAI.MaxTokenPerMinute == 0 {
		cfg.OpenAI.MaxTokenPerMinute = 200000
	}
}

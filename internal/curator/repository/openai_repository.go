package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pure-price-press/internal/curator/config"
	"pure-price-press/internal/curator/dto"
	"pure-price-press/internal/entity"
	"pure-price-press/pkg/logger"
	"pure-price-press/pkg/ratelimit"

	"golang.org/x/time/rate"
)

type openaiAIRepository struct {
	client         *http.Client
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
}

// NewOpenAIRepository creates an AIRepository backed by an OpenAI-compatible
// chat completions endpoint.
func NewOpenAIRepository(cfg *config.Config, log *logger.Logger) AIRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.OpenAI.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	tokenLimiter := ratelimit.NewTokenLimiter(cfg.OpenAI.MaxTokenPerMinute)

	return &openaiAIRepository{
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
		tokenLimiter:   tokenLimiter,
	}
}

func (r *openaiAIRepository) ScreenHeadlines(ctx context.Context, items []entity.MergedNews) (*dto.ScreeningResponse, error) {
	prompt := BuildScreeningPrompt(items)

	resp, err := r.sendRequest(ctx, prompt)
	if err != nil {
		return nil, err
	}

	result := dto.ScreeningResponse{}
	if err := r.parseResponseJSON(resp, &result); err != nil {
		return nil, err
	}
	if err := result.Validate(len(items)); err != nil {
		return nil, fmt.Errorf("invalid screening response: %w", err)
	}

	return &result, nil
}

func (r *openaiAIRepository) AnalyzeImpact(ctx context.Context, item entity.MergedNews, watchSymbols []string) (*dto.DeepAnalysisResponse, error) {
	prompt := BuildDeepAnalysisPrompt(item, watchSymbols)

	resp, err := r.sendRequest(ctx, prompt)
	if err != nil {
		return nil, err
	}

	result := dto.DeepAnalysisResponse{}
	if err := r.parseResponseJSON(resp, &result); err != nil {
		return nil, err
	}
	result.Normalize()

	return &result, nil
}

func (r *openaiAIRepository) Translate(ctx context.Context, texts []string) ([]string, error) {
	prompt := BuildTranslationPrompt(texts)

	resp, err := r.sendRequest(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var result struct {
		Translations []string `json:"translations"`
	}
	if err := r.parseResponseJSON(resp, &result); err != nil {
		return nil, err
	}
	if len(result.Translations) != len(texts) {
		return nil, fmt.Errorf("translation count mismatch: got %d, want %d", len(result.Translations), len(texts))
	}

	return result.Translations, nil
}

func (r *openaiAIRepository) sendRequest(ctx context.Context, prompt string) (*dto.OpenAPIRes, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		r.logger.Error("failed to wait for request limit", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	// The chat endpoint reports no token counts up front, so the budget is
	// charged by a character-based estimate.
	estimatedTokens := len(prompt) / 4
	if err := r.tokenLimiter.Wait(ctx, estimatedTokens); err != nil {
		return nil, fmt.Errorf("failed to wait for token limit: %w", err)
	}

	payload := dto.OpenAPIReq{
		Model: r.cfg.OpenAI.Model,
		Messages: []dto.Message{
			{
				Role:    "user",
				Content: prompt,
			},
		},
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	apiURL := fmt.Sprintf("%s/chat/completions", r.cfg.OpenAI.BaseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.cfg.OpenAI.APIKey)

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error("Failed to send request to OpenAI API", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to send request to OpenAI API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		r.logger.Error("Received non-OK response from OpenAI API", logger.IntField("status_code", resp.StatusCode))
		return nil, fmt.Errorf("received non-OK response from OpenAI API: %d - %s", resp.StatusCode, string(body))
	}

	var openaiResp dto.OpenAPIRes
	if err := json.NewDecoder(resp.Body).Decode(&openaiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	return &openaiResp, nil
}

func (r *openaiAIRepository) parseResponseJSON(resp *dto.OpenAPIRes, out interface{}) error {
	if len(resp.Choices) == 0 {
		return fmt.Errorf("invalid response from OpenAI API: no choices found")
	}

	jsonString := resp.Choices[0].Message.Content
	jsonString = strings.Trim(jsonString, "`json\n`")

	if err := json.Unmarshal([]byte(jsonString), out); err != nil {
		r.logger.Error("Failed to unmarshal OpenAI response", logger.ErrorField(err), logger.StringField("response", jsonString))
		return fmt.Errorf("failed to unmarshal OpenAI response: %w", err)
	}
	return nil
}

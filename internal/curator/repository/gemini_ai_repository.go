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
	"google.golang.org/genai"
)

// geminiAIRepository is an implementation of AIRepository that uses the
// Google Gemini API.
type geminiAIRepository struct {
	client         *http.Client
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

// NewGeminiAIRepository creates a new instance of geminiAIRepository.
func NewGeminiAIRepository(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client) (AIRepository, error) {
	secondsPerRequest := time.Minute / time.Duration(cfg.Gemini.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	tokenLimiter := ratelimit.NewTokenLimiter(cfg.Gemini.MaxTokenPerMinute)

	return &geminiAIRepository{
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
		tokenLimiter:   tokenLimiter,
		genAiClient:    genAiClient,
	}, nil
}

// ScreenHeadlines rates a batch of merged headlines for investment relevance.
func (r *geminiAIRepository) ScreenHeadlines(ctx context.Context, items []entity.MergedNews) (*dto.ScreeningResponse, error) {
	prompt := BuildScreeningPrompt(items)

	geminiResp, err := r.executeGeminiAIRequest(ctx, prompt)
	if err != nil {
		return nil, err
	}

	rawJSON, err := extractGeminiText(geminiResp)
	if err != nil {
		return nil, err
	}

	var result dto.ScreeningResponse
	if err := json.Unmarshal([]byte(rawJSON), &result); err != nil {
		r.logger.Error("Failed to unmarshal screening result from Gemini response", logger.ErrorField(err), logger.StringField("response", rawJSON))
		return nil, fmt.Errorf("failed to unmarshal screening result from Gemini response: %w", err)
	}
	if err := result.Validate(len(items)); err != nil {
		return nil, fmt.Errorf("invalid screening response: %w", err)
	}

	return &result, nil
}

// AnalyzeImpact performs deep market impact analysis for one article.
func (r *geminiAIRepository) AnalyzeImpact(ctx context.Context, item entity.MergedNews, watchSymbols []string) (*dto.DeepAnalysisResponse, error) {
	prompt := BuildDeepAnalysisPrompt(item, watchSymbols)

	geminiResp, err := r.executeGeminiAIRequest(ctx, prompt)
	if err != nil {
		return nil, err
	}

	rawJSON, err := extractGeminiText(geminiResp)
	if err != nil {
		return nil, err
	}

	var result dto.DeepAnalysisResponse
	if err := json.Unmarshal([]byte(rawJSON), &result); err != nil {
		r.logger.Error("Failed to unmarshal analysis result from Gemini response", logger.ErrorField(err), logger.StringField("response", rawJSON))
		return nil, fmt.Errorf("failed to unmarshal analysis result from Gemini response: %w", err)
	}
	result.Normalize()

	return &result, nil
}

// Translate translates the given texts into Japanese, preserving texts that
// are already Japanese.
func (r *geminiAIRepository) Translate(ctx context.Context, texts []string) ([]string, error) {
	prompt := BuildTranslationPrompt(texts)

	geminiResp, err := r.executeGeminiAIRequest(ctx, prompt)
	if err != nil {
		return nil, err
	}

	rawJSON, err := extractGeminiText(geminiResp)
	if err != nil {
		return nil, err
	}

	var result struct {
		Translations []string `json:"translations"`
	}
	if err := json.Unmarshal([]byte(rawJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal translations from Gemini response: %w", err)
	}
	if len(result.Translations) != len(texts) {
		return nil, fmt.Errorf("translation count mismatch: got %d, want %d", len(result.Translations), len(texts))
	}

	return result.Translations, nil
}

func (r *geminiAIRepository) executeGeminiAIRequest(ctx context.Context, prompt string) (*dto.GeminiAPIResponse, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, "user"),
	}
	geminiTokenResp, err := r.genAiClient.Models.CountTokens(ctx, r.cfg.Gemini.Model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count tokens: %w", err)
	}

	r.logger.Debug("Gemini token count",
		logger.IntField("total_tokens", int(geminiTokenResp.TotalTokens)),
		logger.IntField("remaining", r.tokenLimiter.GetRemaining()),
	)

	if err := r.tokenLimiter.Wait(ctx, int(geminiTokenResp.TotalTokens)); err != nil {
		return nil, fmt.Errorf("failed to wait for token limit: %w", err)
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	if int(geminiTokenResp.TotalTokens) > r.cfg.Gemini.MaxTokenPerMinute/2 {
		r.logger.Warn("Token has exceeded 50% of the limit", logger.IntField("remaining", r.tokenLimiter.GetRemaining()))
	}

	payload := dto.GeminiAPIRequest{
		Contents: []dto.Content{{Parts: []dto.Part{{Text: prompt}}}},
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		r.logger.Error("Failed to marshal payload", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	apiURL := fmt.Sprintf("%s/%s:generateContent?key=%s", r.cfg.Gemini.BaseURL, r.cfg.Gemini.Model, r.cfg.Gemini.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		r.logger.Error("Failed to create new http request", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error("Failed to send request to Gemini API", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to send request to Gemini API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		r.logger.Error("Received non-OK response from Gemini API", logger.IntField("status_code", resp.StatusCode))
		return nil, fmt.Errorf("received non-OK response from Gemini API: %d - %s", resp.StatusCode, string(body))
	}

	var geminiResp dto.GeminiAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		r.logger.Error("Failed to decode response body", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	return &geminiResp, nil
}

func extractGeminiText(resp *dto.GeminiAPIResponse) (string, error) {
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("invalid response from Gemini API: no content found")
	}

	jsonString := resp.Candidates[0].Content.Parts[0].Text
	jsonString = strings.Trim(jsonString, "`json\n`")

	return jsonString, nil
}

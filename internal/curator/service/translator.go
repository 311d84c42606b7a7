package service

import (
	"context"

	"pure-price-press/internal/curator/dto"
	"pure-price-press/internal/curator/repository"
	"pure-price-press/pkg/logger"
	"pure-price-press/pkg/utils"
)

// TranslatorService localizes curated display texts into Japanese. Every
// operation is best-effort: on any failure the original text is returned
// unchanged, and the batch continues.
type TranslatorService struct {
	logger *logger.Logger
	aiRepo repository.AIRepository
}

// NewTranslatorService creates a new instance of TranslatorService.
func NewTranslatorService(log *logger.Logger, aiRepo repository.AIRepository) *TranslatorService {
	return &TranslatorService{
		logger: log,
		aiRepo: aiRepo,
	}
}

// Translate translates one text, skipping input that is already Japanese.
func (s *TranslatorService) Translate(ctx context.Context, text string) string {
	out := s.TranslateBatch(ctx, []string{text})
	return out[0]
}

// TranslateBatch translates the given texts in one reasoning call. Texts
// already in Japanese, and empty texts, pass through untouched.
func (s *TranslatorService) TranslateBatch(ctx context.Context, texts []string) []string {
	out := make([]string, len(texts))
	copy(out, texts)

	if s.aiRepo == nil {
		return out
	}

	var pending []string
	var pendingIdx []int
	for i, text := range texts {
		if text == "" || utils.IsJapanese(text) {
			continue
		}
		pending = append(pending, text)
		pendingIdx = append(pendingIdx, i)
	}
	if len(pending) == 0 {
		return out
	}

	translated, err := s.aiRepo.Translate(ctx, pending)
	if err != nil {
		s.logger.Warn("Translation failed, keeping original texts",
			logger.ErrorField(err),
			logger.IntField("texts", len(pending)),
		)
		return out
	}
	if len(translated) != len(pending) {
		s.logger.Warn("Translation count mismatch, keeping original texts",
			logger.IntField("sent", len(pending)),
			logger.IntField("received", len(translated)),
		)
		return out
	}

	for i, idx := range pendingIdx {
		if translated[i] != "" {
			out[idx] = translated[i]
		}
	}
	return out
}

// LocalizeResults translates the user-facing fields of the curated results
// in place: the AI summary and the final display summary.
func (s *TranslatorService) LocalizeResults(ctx context.Context, results []dto.CuratedResult) {
	if s.aiRepo == nil || len(results) == 0 {
		return
	}

	texts := make([]string, 0, len(results)*2)
	for _, r := range results {
		texts = append(texts, r.Stage2.AISummary, r.Stage4.SummaryForUser)
	}

	translated := s.TranslateBatch(ctx, texts)
	for i := range results {
		results[i].Stage2.AISummary = translated[i*2]
		results[i].Stage4.SummaryForUser = translated[i*2+1]
	}
}

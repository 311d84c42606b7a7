package service

import (
	"context"
	"fmt"
	"testing"

	"pure-price-press/internal/curator/dto"
	"pure-price-press/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateBatchSkipsJapaneseAndEmpty(t *testing.T) {
	var sent []string
	ai := &mockAIRepo{
		translateFn: func(ctx context.Context, texts []string) ([]string, error) {
			sent = texts
			out := make([]string, len(texts))
			for i := range texts {
				out[i] = "訳: " + texts[i]
			}
			return out, nil
		},
	}
	svc := NewTranslatorService(testLogger(t), ai)

	result := svc.TranslateBatch(context.Background(), []string{
		"Fed raises rates",
		"日銀が金利を据え置き",
		"",
		"Oil prices surge",
	})

	require.Equal(t, []string{"Fed raises rates", "Oil prices surge"}, sent)
	assert.Equal(t, "訳: Fed raises rates", result[0])
	assert.Equal(t, "日銀が金利を据え置き", result[1])
	assert.Equal(t, "", result[2])
	assert.Equal(t, "訳: Oil prices surge", result[3])
}

func TestTranslateBatchFailureKeepsOriginals(t *testing.T) {
	ai := &mockAIRepo{
		translateFn: func(ctx context.Context, texts []string) ([]string, error) {
			return nil, fmt.Errorf("backend unavailable")
		},
	}
	svc := NewTranslatorService(testLogger(t), ai)

	input := []string{"Fed raises rates", "Oil prices surge"}
	assert.Equal(t, input, svc.TranslateBatch(context.Background(), input))
}

func TestTranslateBatchCountMismatchKeepsOriginals(t *testing.T) {
	ai := &mockAIRepo{
		translateFn: func(ctx context.Context, texts []string) ([]string, error) {
			return []string{"only one"}, nil
		},
	}
	svc := NewTranslatorService(testLogger(t), ai)

	input := []string{"Fed raises rates", "Oil prices surge"}
	assert.Equal(t, input, svc.TranslateBatch(context.Background(), input))
}

func TestTranslateBatchEmptyTranslationKeepsOriginal(t *testing.T) {
	ai := &mockAIRepo{
		translateFn: func(ctx context.Context, texts []string) ([]string, error) {
			return []string{""}, nil
		},
	}
	svc := NewTranslatorService(testLogger(t), ai)

	result := svc.TranslateBatch(context.Background(), []string{"Fed raises rates"})
	assert.Equal(t, "Fed raises rates", result[0])
}

func TestTranslateBatchNilBackendPassesThrough(t *testing.T) {
	svc := NewTranslatorService(testLogger(t), nil)
	input := []string{"Fed raises rates"}
	assert.Equal(t, input, svc.TranslateBatch(context.Background(), input))
}

func TestLocalizeResultsTranslatesDisplayFields(t *testing.T) {
	ai := &mockAIRepo{
		translateFn: func(ctx context.Context, texts []string) ([]string, error) {
			out := make([]string, len(texts))
			for i := range texts {
				out[i] = "訳: " + texts[i]
			}
			return out, nil
		},
	}
	svc := NewTranslatorService(testLogger(t), ai)

	results := []dto.CuratedResult{
		{
			Merged: entity.MergedNews{ID: "a"},
			Stage2: dto.Stage2Result{NewsID: "a", AISummary: "summary a"},
			Stage4: dto.Stage4Result{NewsID: "a", SummaryForUser: "display a"},
		},
		{
			Merged: entity.MergedNews{ID: "b"},
			Stage2: dto.Stage2Result{NewsID: "b", AISummary: "summary b"},
			Stage4: dto.Stage4Result{NewsID: "b", SummaryForUser: "display b"},
		},
	}

	svc.LocalizeResults(context.Background(), results)

	assert.Equal(t, "訳: summary a", results[0].Stage2.AISummary)
	assert.Equal(t, "訳: display a", results[0].Stage4.SummaryForUser)
	assert.Equal(t, "訳: summary b", results[1].Stage2.AISummary)
	assert.Equal(t, "訳: display b", results[1].Stage4.SummaryForUser)
}

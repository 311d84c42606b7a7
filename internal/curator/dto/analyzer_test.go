package dto

import (
	"testing"

	"pure-price-press/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScreeningResponseValidate(t *testing.T) {
	resp := &ScreeningResponse{Results: []ScreeningItem{
		{Index: 1, RelevanceScore: 7.0},
		{Index: 3, RelevanceScore: 2.0},
	}}
	assert.NoError(t, resp.Validate(3))

	assert.Error(t, (&ScreeningResponse{}).Validate(3))

	resp = &ScreeningResponse{Results: []ScreeningItem{{Index: 0}}}
	assert.Error(t, resp.Validate(3))

	resp = &ScreeningResponse{Results: []ScreeningItem{{Index: 4}}}
	assert.Error(t, resp.Validate(3))
}

func TestDeepAnalysisResponseNormalize(t *testing.T) {
	r := &DeepAnalysisResponse{ImportanceScore: 14.0, ImpactDirection: "bullish"}
	r.Normalize()
	assert.Equal(t, 10.0, r.ImportanceScore)
	assert.Equal(t, entity.ImpactUncertain, r.ImpactDirection)
	require.NotNil(t, r.SymbolImpacts)

	r = &DeepAnalysisResponse{ImportanceScore: 0, ImpactDirection: entity.ImpactNegative}
	r.Normalize()
	assert.Equal(t, 1.0, r.ImportanceScore)
	assert.Equal(t, entity.ImpactNegative, r.ImpactDirection)

	r = &DeepAnalysisResponse{ImportanceScore: 6.5, ImpactDirection: entity.ImpactMixed}
	r.Normalize()
	assert.Equal(t, 6.5, r.ImportanceScore)
	assert.Equal(t, entity.ImpactMixed, r.ImpactDirection)
}

package stockgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelatedSymbolsKnown(t *testing.T) {
	rel, ok := RelatedSymbols("AAPL")
	require.True(t, ok)
	assert.Contains(t, rel.SupplyChain, "TSM")
	assert.Contains(t, rel.Competitors, "MSFT")
}

func TestRelatedSymbolsUnknown(t *testing.T) {
	_, ok := RelatedSymbols("ZZZZ")
	assert.False(t, ok)
}

func TestAllRelatedSymbolsDeduplicates(t *testing.T) {
	// QQQ appears in both the sector ETF and index groups of AAPL.
	all := AllRelatedSymbols("AAPL")
	seen := make(map[string]int)
	for _, s := range all {
		seen[s]++
	}
	assert.Equal(t, 1, seen["QQQ"])
	assert.NotEmpty(t, all)
}

func TestAllRelatedSymbolsUnknown(t *testing.T) {
	assert.Nil(t, AllRelatedSymbols("ZZZZ"))
}

func TestAllRelatedSymbolsPreservesGroupOrder(t *testing.T) {
	all := AllRelatedSymbols("NVDA")
	require.NotEmpty(t, all)
	// Supply chain entries come before competitors.
	assert.Equal(t, "TSM", all[0])
}

func TestAffectedBySymbols(t *testing.T) {
	affected := AffectedBySymbols("TSM")
	assert.Contains(t, affected, "AAPL")
	assert.Contains(t, affected, "NVDA")
	assert.Contains(t, affected, "6758.T")

	// Deterministic: repeated calls return the same order.
	assert.Equal(t, affected, AffectedBySymbols("TSM"))
}

func TestAffectedBySymbolsUnknown(t *testing.T) {
	assert.Empty(t, AffectedBySymbols("ZZZZ"))
}

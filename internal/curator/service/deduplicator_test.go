package service

import (
	"testing"
	"time"

	"pure-price-press/internal/curator/config"
	"pure-price-press/internal/entity"
	"pure-price-press/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDeduplicator(t *testing.T) *DeduplicationService {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return NewDeduplicationService(log, config.Deduplicator{
		SimilarityThreshold: 0.85,
		SourcePriority: map[string]int{
			"Reuters":   10,
			"Bloomberg": 10,
			"CNBC":      6,
		},
	})
}

func rawArticle(id, title, source string) entity.RawNews {
	return entity.RawNews{
		ID:          id,
		Title:       title,
		URL:         "https://example.com/" + id,
		Source:      source,
		Region:      "north_america",
		PublishedAt: time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
		BatchID:     "batch-1",
	}
}

func TestDeduplicateSameStoryTwoSources(t *testing.T) {
	svc := newTestDeduplicator(t)

	merged := svc.Deduplicate([]entity.RawNews{
		rawArticle("a", "Fed Raises Rates by 50bps", "Reuters"),
		rawArticle("b", "Fed Raises Rates by 50bps", "Bloomberg"),
	})

	require.Len(t, merged, 1)
	assert.Equal(t, 2, merged[0].SourceCount)
	assert.Equal(t, 1.2, merged[0].ImportanceBoost)
	require.Len(t, merged[0].RelatedSources, 1)
	// Representative is the higher-priority source; on a tie the first wins.
	assert.Equal(t, "Reuters", merged[0].Source)
	assert.Equal(t, "Bloomberg", merged[0].RelatedSources[0])
	assert.Equal(t, 1+len(merged[0].RelatedSources), merged[0].SourceCount)
}

func TestDeduplicateRepresentativeByAuthority(t *testing.T) {
	svc := newTestDeduplicator(t)

	merged := svc.Deduplicate([]entity.RawNews{
		rawArticle("a", "Nvidia announces record quarterly earnings results", "CNBC"),
		rawArticle("b", "Nvidia announces record quarterly earnings results", "Reuters"),
	})

	require.Len(t, merged, 1)
	assert.Equal(t, "Reuters", merged[0].Source)
	assert.Equal(t, []string{"CNBC"}, []string(merged[0].RelatedSources))
}

func TestDeduplicateDistinctStoriesStaySeparate(t *testing.T) {
	svc := newTestDeduplicator(t)

	merged := svc.Deduplicate([]entity.RawNews{
		rawArticle("a", "Fed Raises Rates by 50bps", "Reuters"),
		rawArticle("b", "Toyota recalls two million vehicles over brake defect", "Bloomberg"),
		rawArticle("c", "Oil prices surge after supply disruption in the North Sea", "CNBC"),
	})

	assert.Len(t, merged, 3)
	for _, m := range merged {
		assert.Equal(t, 1, m.SourceCount)
		assert.Equal(t, 1.0, m.ImportanceBoost)
		assert.Empty(t, m.RelatedSources)
	}
}

func TestDeduplicateIdempotent(t *testing.T) {
	svc := newTestDeduplicator(t)
	input := []entity.RawNews{
		rawArticle("a", "Fed Raises Rates by 50bps", "Reuters"),
		rawArticle("b", "Fed Raises Rates by 50bps", "Bloomberg"),
		rawArticle("c", "Toyota recalls two million vehicles over brake defect", "CNBC"),
	}

	first := svc.Deduplicate(input)
	second := svc.Deduplicate(input)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Title, second[i].Title)
		assert.Equal(t, first[i].Source, second[i].Source)
		assert.Equal(t, first[i].SourceCount, second[i].SourceCount)
		assert.Equal(t, first[i].RelatedSources, second[i].RelatedSources)
	}
}

func TestDeduplicateEmptyInput(t *testing.T) {
	svc := newTestDeduplicator(t)
	assert.Empty(t, svc.Deduplicate(nil))
}

func TestDeduplicateSameSourceDuplicateNotDoubleCounted(t *testing.T) {
	svc := newTestDeduplicator(t)

	merged := svc.Deduplicate([]entity.RawNews{
		rawArticle("a", "Fed Raises Rates by 50bps", "Reuters"),
		rawArticle("b", "Fed Raises Rates by 50bps", "Reuters"),
	})

	require.Len(t, merged, 1)
	// Same outlet twice is one source, not two.
	assert.Equal(t, 1, merged[0].SourceCount)
	assert.Empty(t, merged[0].RelatedSources)
}

func TestCosineSimilarityBounds(t *testing.T) {
	vectors := buildTFIDFVectors([]string{
		"Fed Raises Rates by 50bps",
		"Fed Raises Rates by 50bps",
		"Completely unrelated story about sports",
	})

	assert.InDelta(t, 1.0, cosineSimilarity(vectors[0], vectors[1]), 1e-9)
	assert.Less(t, cosineSimilarity(vectors[0], vectors[2]), 0.2)
}

package service

import (
	"encoding/json"

	"pure-price-press/internal/curator/config"
	"pure-price-press/internal/entity"
	"pure-price-press/pkg/logger"
	"pure-price-press/pkg/utils"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// DeduplicationService clusters near-duplicate raw articles into merged
// representatives. Clustering is deterministic for a given input order and
// never consults the clock.
type DeduplicationService struct {
	logger              *logger.Logger
	similarityThreshold float64
	sourcePriority      map[string]int
}

// NewDeduplicationService creates a new instance of DeduplicationService.
func NewDeduplicationService(log *logger.Logger, cfg config.Deduplicator) *DeduplicationService {
	return &DeduplicationService{
		logger:              log,
		similarityThreshold: cfg.SimilarityThreshold,
		sourcePriority:      cfg.SourcePriority,
	}
}

// Deduplicate clusters the given articles by title similarity and returns one
// merged record per cluster. TF-IDF cosine similarity is the primary
// strategy; titles that vectorize to nothing fall back to normalized word-set
// Jaccard.
func (s *DeduplicationService) Deduplicate(items []entity.RawNews) []entity.MergedNews {
	if len(items) == 0 {
		return []entity.MergedNews{}
	}

	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = item.Title
	}
	vectors := buildTFIDFVectors(titles)

	clusters := s.cluster(vectors, titles)

	merged := make([]entity.MergedNews, 0, len(clusters))
	for _, cluster := range clusters {
		merged = append(merged, s.buildMerged(items, vectors, cluster))
	}

	s.logger.Info("Deduplication complete",
		logger.IntField("raw_count", len(items)),
		logger.IntField("merged_count", len(merged)),
	)
	return merged
}

// cluster forms clusters greedily: each unclustered article seeds a new
// cluster and absorbs every later unclustered article similar enough to the
// seed.
func (s *DeduplicationService) cluster(vectors []map[string]float64, titles []string) [][]int {
	n := len(vectors)
	clustered := make([]bool, n)
	var clusters [][]int

	for i := 0; i < n; i++ {
		if clustered[i] {
			continue
		}
		cluster := []int{i}
		clustered[i] = true
		for j := i + 1; j < n; j++ {
			if clustered[j] {
				continue
			}
			if s.similar(vectors, titles, i, j) {
				cluster = append(cluster, j)
				clustered[j] = true
			}
		}
		clusters = append(clusters, cluster)
	}
	return clusters
}

func (s *DeduplicationService) similar(vectors []map[string]float64, titles []string, i, j int) bool {
	if len(vectors[i]) > 0 && len(vectors[j]) > 0 {
		return cosineSimilarity(vectors[i], vectors[j]) >= s.similarityThreshold
	}
	return utils.JaccardSimilarity(titles[i], titles[j]) >= s.similarityThreshold
}

func (s *DeduplicationService) buildMerged(items []entity.RawNews, vectors []map[string]float64, cluster []int) entity.MergedNews {
	repIdx := cluster[0]
	for _, idx := range cluster[1:] {
		if s.sourcePriority[items[idx].Source] > s.sourcePriority[items[repIdx].Source] {
			repIdx = idx
		}
	}
	rep := items[repIdx]

	seenSources := map[string]struct{}{rep.Source: {}}
	var relatedSources []string
	for _, idx := range cluster {
		src := items[idx].Source
		if _, ok := seenSources[src]; ok {
			continue
		}
		seenSources[src] = struct{}{}
		relatedSources = append(relatedSources, src)
	}

	sourceCount := 1 + len(relatedSources)

	embedding, err := json.Marshal(centroid(vectors, cluster))
	if err != nil {
		embedding = nil
	}

	return entity.MergedNews{
		ID:              uuid.NewString(),
		Title:           rep.Title,
		URL:             rep.URL,
		Source:          rep.Source,
		Region:          rep.Region,
		Category:        rep.Category,
		PublishedAt:     rep.PublishedAt,
		Summary:         rep.Summary,
		RelatedSources:  pq.StringArray(relatedSources),
		SourceCount:     sourceCount,
		ImportanceBoost: ImportanceBoost(sourceCount),
		EmbeddingVector: embedding,
		BatchID:         rep.BatchID,
	}
}

// centroid averages the cluster members' TF-IDF vectors.
func centroid(vectors []map[string]float64, cluster []int) map[string]float64 {
	sum := make(map[string]float64)
	for _, idx := range cluster {
		for tok, w := range vectors[idx] {
			sum[tok] += w
		}
	}
	inv := 1.0 / float64(len(cluster))
	for tok := range sum {
		sum[tok] *= inv
	}
	return sum
}

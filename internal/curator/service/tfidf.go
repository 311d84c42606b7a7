package service

import (
	"math"
	"strings"

	"pure-price-press/pkg/utils"
)

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "has": {}, "have": {}, "in": {}, "is": {},
	"it": {}, "its": {}, "of": {}, "on": {}, "or": {}, "that": {}, "the": {},
	"to": {}, "was": {}, "were": {}, "will": {}, "with": {},
}

// tokenize normalizes a title and returns its unigrams plus bigrams, with
// stop words removed before bigram formation.
func tokenize(title string) []string {
	words := strings.Fields(utils.NormalizeText(title))
	var kept []string
	for _, w := range words {
		if _, skip := stopWords[w]; skip {
			continue
		}
		kept = append(kept, w)
	}

	tokens := make([]string, 0, len(kept)*2)
	tokens = append(tokens, kept...)
	for i := 0; i+1 < len(kept); i++ {
		tokens = append(tokens, kept[i]+" "+kept[i+1])
	}
	return tokens
}

// buildTFIDFVectors computes L2-normalized TF-IDF vectors for the given
// titles. Vectors are sparse maps keyed by token. A title whose tokens are
// all stop words yields an empty map.
func buildTFIDFVectors(titles []string) []map[string]float64 {
	n := len(titles)
	docTokens := make([][]string, n)
	df := make(map[string]int)

	for i, title := range titles {
		docTokens[i] = tokenize(title)
		seen := make(map[string]struct{})
		for _, tok := range docTokens[i] {
			if _, ok := seen[tok]; !ok {
				seen[tok] = struct{}{}
				df[tok]++
			}
		}
	}

	vectors := make([]map[string]float64, n)
	for i, tokens := range docTokens {
		vec := make(map[string]float64, len(tokens))
		for _, tok := range tokens {
			vec[tok]++
		}

		var norm float64
		for tok, tf := range vec {
			idf := math.Log(float64(n+1)/float64(df[tok]+1)) + 1
			w := tf * idf
			vec[tok] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for tok := range vec {
				vec[tok] /= norm
			}
		}
		vectors[i] = vec
	}
	return vectors
}

// cosineSimilarity computes the dot product of two L2-normalized sparse
// vectors.
func cosineSimilarity(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for tok, wa := range a {
		if wb, ok := b[tok]; ok {
			dot += wa * wb
		}
	}
	return dot
}

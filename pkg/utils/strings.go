package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var nonWordPattern = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)

// CleanToValidUTF8 strips invalid UTF-8 sequences from a string.
func CleanToValidUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "")
}

// ContainsString reports whether list contains s.
func ContainsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// NormalizeText lowercases, strips punctuation and collapses whitespace,
// producing the canonical form used for title comparison.
func NormalizeText(s string) string {
	s = strings.ToLower(s)
	s = nonWordPattern.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// WordSet splits normalized text into a set of words.
func WordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(NormalizeText(s)) {
		set[w] = struct{}{}
	}
	return set
}

// JaccardSimilarity computes word-set Jaccard similarity of two texts after
// normalization. Returns 0 when either side is empty.
func JaccardSimilarity(a, b string) float64 {
	setA := WordSet(a)
	setB := WordSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// Truncate shortens s to at most max bytes on a rune boundary.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	out := ""
	for _, r := range runes {
		if len(out)+len(string(r)) > max {
			break
		}
		out += string(r)
	}
	return out
}

var japanesePattern = regexp.MustCompile(`[\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FFF}]`)

// IsJapanese reports whether the text contains hiragana, katakana or kanji.
func IsJapanese(s string) bool {
	return japanesePattern.MatchString(s)
}

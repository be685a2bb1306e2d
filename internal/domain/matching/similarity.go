package matching

import (
	"math"
	"strings"
	"unicode"
)

// ══════════════════════════════════════════════════════════════════════════════
// TEXTUAL SIMILARITY
// Lexical similarity between two short free-text answers. The vocabulary is
// local to exactly the two strings being compared, never a corpus, so the
// result only depends on the pair itself.
// ══════════════════════════════════════════════════════════════════════════════

// TextMatcher computes a similarity in [0,1] between two free-text fields.
type TextMatcher interface {
	// Tokenize splits a text into comparison tokens.
	Tokenize(text string) []string

	// Compare returns the similarity of two texts. Empty input on either
	// side yields 0; identical non-empty input yields 1.
	Compare(a, b string) float64
}

// BagOfWordsMatcher is the default TextMatcher: cosine similarity over
// token-count vectors. Tokens are lowercased runs of letters and digits, so
// punctuation and whitespace act as separators in both Japanese and Latin
// text.
type BagOfWordsMatcher struct{}

// NewBagOfWordsMatcher returns the default matcher.
func NewBagOfWordsMatcher() BagOfWordsMatcher {
	return BagOfWordsMatcher{}
}

// Tokenize lowercases the text and splits it on every rune that is neither a
// letter nor a digit.
func (BagOfWordsMatcher) Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// Compare returns the cosine similarity of the two token-count vectors.
func (m BagOfWordsMatcher) Compare(a, b string) float64 {
	ta := m.Tokenize(a)
	tb := m.Tokenize(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	va := tokenCounts(ta)
	vb := tokenCounts(tb)

	var dot, normA, normB float64
	for token, count := range va {
		normA += count * count
		if other, ok := vb[token]; ok {
			dot += count * other
		}
	}
	for _, count := range vb {
		normB += count * count
	}
	if dot == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func tokenCounts(tokens []string) map[string]float64 {
	counts := make(map[string]float64, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	return counts
}

package textutil

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// minTermRunes drops articles and particles such as "of" or "la" from the
// term vector; short titles are still compared by edit distance.
const minTermRunes = 3

// termVector counts the words of a folded title.
type termVector map[string]float64

func newTermVector(folded string) termVector {
	words := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	vec := make(termVector, len(words))
	for _, word := range words {
		if utf8.RuneCountInString(word) < minTermRunes {
			continue
		}
		vec[word]++
	}
	return vec
}

func (v termVector) magnitude() float64 {
	var sum float64
	for _, n := range v {
		sum += n * n
	}
	return math.Sqrt(sum)
}

// TermOverlap is the cosine similarity of the word counts of two titles after
// folding. Word order does not matter. Titles without any word of three or
// more characters score 0.
func TermOverlap(a, b string) float64 {
	va, vb := newTermVector(FoldTitle(a)), newTermVector(FoldTitle(b))
	ma, mb := va.magnitude(), vb.magnitude()
	if ma == 0 || mb == 0 {
		return 0
	}
	var dot float64
	for word, n := range va {
		dot += n * vb[word]
	}
	return dot / (ma * mb)
}

package textutil

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// FoldTitle returns a comparison key for a display title: case folded,
// diacritics stripped and whitespace collapsed.
func FoldTitle(title string) string {
	stripped, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), title)
	if err != nil {
		stripped = title
	}
	return strings.Join(strings.Fields(folder.String(stripped)), " ")
}

// SameTitle reports whether two titles fold to the same key.
func SameTitle(a, b string) bool {
	fa, fb := FoldTitle(a), FoldTitle(b)
	return fa != "" && fa == fb
}

// EditSimilarity is the Levenshtein distance between the folded titles
// normalised into [0,1], where 1 means identical.
func EditSimilarity(a, b string) float64 {
	fa, fb := []rune(FoldTitle(a)), []rune(FoldTitle(b))
	longest := max(len(fa), len(fb))
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(string(fa), string(fb))
	return 1 - float64(dist)/float64(longest)
}

// TitleSimilarity scores two titles as the better of token cosine similarity
// and edit similarity. Token overlap catches reordered titles; edit distance
// catches short titles whose tokens are filtered out.
func TitleSimilarity(a, b string) float64 {
	return max(TermOverlap(a, b), EditSimilarity(a, b))
}

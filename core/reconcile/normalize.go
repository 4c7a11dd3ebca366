package reconcile

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stopWords are removed as whole words before names are compared.
var stopWords = map[string]struct{}{
	"online":     {},
	"casino":     {},
	"gaming":     {},
	"play":       {},
	"slots":      {},
	"sportsbook": {},
	"betting":    {},
	"sports":     {},
	"book":       {},
	"mobile":     {},
	"app":        {},
	"site":       {},
}

// Normalizer canonicalizes a name for comparison.
type Normalizer interface {
	Normalize(name string) string
}

// NormalizerFunc adapts a plain function to the Normalizer interface.
type NormalizerFunc func(string) string

// Normalize calls f(name).
func (f NormalizerFunc) Normalize(name string) string {
	return f(name)
}

// DefaultNormalizer is the normalizer used when none is injected.
var DefaultNormalizer Normalizer = NormalizerFunc(Normalize)

// DefaultFolder is the exact-match form used when none is injected.
var DefaultFolder Normalizer = NormalizerFunc(Fold)

// Normalize lower-cases name, folds diacritics, collapses every run of
// non-alphanumeric characters into a single space and drops stop words.
//
// A name made only of stop words ("Online Casino") keeps its words, so that it
// still compares by content instead of collapsing to the empty string.
// Normalize is idempotent.
func Normalize(name string) string {
	words := tokenize(name)
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if _, stop := stopWords[w]; stop {
			continue
		}
		kept = append(kept, w)
	}
	if len(kept) == 0 {
		return strings.Join(words, " ")
	}
	return strings.Join(kept, " ")
}

// Fold lower-cases name, folds diacritics and collapses non-alphanumeric runs
// into single spaces, keeping stop words. "BetMGM Casino!" folds to "betmgm casino".
func Fold(name string) string {
	return strings.Join(tokenize(name), " ")
}

// tokenize folds name and splits it on non-alphanumeric runs.
func tokenize(name string) []string {
	folded, _, err := transform.String(foldTransformer(), name)
	if err != nil {
		folded = name
	}
	folded = strings.ToLower(folded)
	return strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// foldTransformer strips combining marks ("Café" -> "Cafe").
// Transformers are stateful, so a fresh chain is built per call.
func foldTransformer() transform.Transformer {
	return transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

package reconcile

// Scorer measures how similar two normalized strings are, in [0,1].
type Scorer interface {
	Similarity(a, b string) float64
}

// ScorerFunc adapts a plain function to the Scorer interface.
type ScorerFunc func(a, b string) float64

// Similarity calls f(a, b).
func (f ScorerFunc) Similarity(a, b string) float64 {
	return f(a, b)
}

// DefaultScorer is the scorer used when none is injected.
var DefaultScorer Scorer = ScorerFunc(Similarity)

// Similarity returns the Dice coefficient over character bigrams of a and b:
// 2*|common bigrams| / (|bigrams(a)| + |bigrams(b)|), counting bigrams as a multiset.
// Identical inputs (including two empty strings) score 1. Runs in O(len(a)+len(b)).
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}

	ra, rb := []rune(a), []rune(b)
	if len(ra) < 2 || len(rb) < 2 {
		return 0
	}

	counts := make(map[[2]rune]int, len(ra)-1)
	for i := 0; i < len(ra)-1; i++ {
		counts[[2]rune{ra[i], ra[i+1]}]++
	}

	common := 0
	for i := 0; i < len(rb)-1; i++ {
		bg := [2]rune{rb[i], rb[i+1]}
		if counts[bg] > 0 {
			counts[bg]--
			common++
		}
	}

	total := (len(ra) - 1) + (len(rb) - 1)
	return 2 * float64(common) / float64(total)
}

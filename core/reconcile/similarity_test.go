package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"Identical", "betmgm", "betmgm", 1},
		{"BothEmpty", "", "", 1},
		{"SingleRuneEqual", "a", "a", 1},
		{"SingleRuneDifferent", "a", "b", 0},
		{"OneEmpty", "ab", "", 0},
		{"NoCommonBigrams", "abc", "xyz", 0},
		{"OneCommonBigram", "night", "nacht", 0.25},
		{"MultisetCounting", "aaaa", "aa", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSimilarity_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"betmgm", "bet mgm"},
		{"caesars", "caesar"},
		{"welcome bonus", "welcome offer"},
		{"fanduel", "draftkings"},
		{"aaaa", "aa"},
		{"", "x"},
	}

	for _, p := range pairs {
		assert.Equal(t, Similarity(p[0], p[1]), Similarity(p[1], p[0]), "%q vs %q", p[0], p[1])
	}
}

func TestSimilarity_Range(t *testing.T) {
	pairs := [][2]string{
		{"borgata", "borgata poker"},
		{"golden nugget", "golden nuget"},
		{"unibet", "betrivers"},
	}

	for _, p := range pairs {
		s := Similarity(p[0], p[1])
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}

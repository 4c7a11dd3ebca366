package utils

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToNullDecimal(t *testing.T) {
	tests := []struct {
		name string
		val  any
		want string // empty means NULL
	}{
		{"Nil", nil, ""},
		{"Float", 1000.0, "1000"},
		{"Fraction", 12.5, "12.5"},
		{"Int", 250, "250"},
		{"JSON Number", json.Number("99.99"), "99.99"},
		{"Dollar String", "$1,000", "1000"},
		{"Currency Code", "USD 250.50", "250.5"},
		{"Up To", "up to $500 in bonus credits", "500"},
		{"Not A Number", "N/A", ""},
		{"Empty", "", ""},
		{"Decimal", decimal.NewFromInt(7), "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToNullDecimal(tt.val)
			if tt.want == "" {
				assert.False(t, got.Valid)
				return
			}
			assert.True(t, got.Valid)
			assert.True(t, got.Decimal.Equal(decimal.RequireFromString(tt.want)), got.Decimal.String())
		})
	}
}

func TestToString(t *testing.T) {
	tests := []struct {
		name string
		val  any
		want string
	}{
		{"Nil", nil, ""},
		{"String", "  15x  ", "15x"},
		{"Bytes", []byte("abc"), "abc"},
		{"Float", 30.0, "30"},
		{"Int", 15, "15"},
		{"Bool", true, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToString(tt.val))
		})
	}
}

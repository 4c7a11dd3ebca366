package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var amountPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// ToString converts various types to string. Nil becomes "".
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case []byte:
		return strings.TrimSpace(string(v))
	case json.Number:
		return v.String()
	case float64:
		return decimal.NewFromFloat(v).String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToNullDecimal converts a loosely typed amount to a decimal.
// Numbers convert directly; strings such as "$1,000", "USD 250.50" or
// "up to 500" yield their first number. Anything else is invalid (NULL).
func ToNullDecimal(val any) decimal.NullDecimal {
	switch v := val.(type) {
	case nil:
		return decimal.NullDecimal{}
	case decimal.Decimal:
		return decimal.NewNullDecimal(v)
	case decimal.NullDecimal:
		return v
	case float64:
		return decimal.NewNullDecimal(decimal.NewFromFloat(v))
	case float32:
		return decimal.NewNullDecimal(decimal.NewFromFloat32(v))
	case int:
		return decimal.NewNullDecimal(decimal.NewFromInt(int64(v)))
	case int64:
		return decimal.NewNullDecimal(decimal.NewFromInt(v))
	case int32:
		return decimal.NewNullDecimal(decimal.NewFromInt32(v))
	case json.Number:
		return parseAmount(v.String())
	case string:
		return parseAmount(v)
	case []byte:
		return parseAmount(string(v))
	default:
		return parseAmount(fmt.Sprintf("%v", v))
	}
}

func parseAmount(s string) decimal.NullDecimal {
	s = strings.ReplaceAll(s, ",", "")
	match := amountPattern.FindString(s)
	if match == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(match)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

package number

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ToInt64 converts integer-typed values and integral json.Number literals.
func ToInt64(value any) (int64, bool) {
	switch current := value.(type) {
	case int:
		return int64(current), true
	case int8:
		return int64(current), true
	case int16:
		return int64(current), true
	case int32:
		return int64(current), true
	case int64:
		return current, true
	case uint:
		return uintToInt64(uint64(current))
	case uint8:
		return int64(current), true
	case uint16:
		return int64(current), true
	case uint32:
		return int64(current), true
	case uint64:
		return uintToInt64(current)
	case json.Number:
		if strings.ContainsAny(current.String(), ".eE") {
			return 0, false
		}
		parsed, err := current.Int64()
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// ToDecimal converts any supported numeric value to an exact decimal.
// NaN and infinities are rejected.
func ToDecimal(value any) (decimal.Decimal, error) {
	switch current := value.(type) {
	case decimal.Decimal:
		return current, nil
	case float32:
		return floatToDecimal(float64(current))
	case float64:
		return floatToDecimal(current)
	case uint:
		return decimal.NewFromUint64(uint64(current)), nil
	case uint64:
		return decimal.NewFromUint64(current), nil
	case json.Number:
		parsed, err := decimal.NewFromString(current.String())
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("invalid number %q: %w", current.String(), err)
		}
		return parsed, nil
	case string:
		parsed, err := decimal.NewFromString(current)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("invalid number %q: %w", current, err)
		}
		return parsed, nil
	}

	if integer, ok := ToInt64(value); ok {
		return decimal.NewFromInt(integer), nil
	}

	return decimal.Decimal{}, fmt.Errorf("value %T is not a number", value)
}

// IsNumber reports whether value is one of the numeric types ToDecimal accepts.
func IsNumber(value any) bool {
	switch value.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number, decimal.Decimal:
		return true
	default:
		return false
	}
}

func uintToInt64(value uint64) (int64, bool) {
	if value > math.MaxInt64 {
		return 0, false
	}
	return int64(value), true
}

func floatToDecimal(value float64) (decimal.Decimal, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return decimal.Decimal{}, fmt.Errorf("value %v has no decimal representation", value)
	}
	return decimal.NewFromFloat(value), nil
}

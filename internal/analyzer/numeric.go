package analyzer

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Number is a metric value decoded leniently from JSON. Analytics endpoints
// report counters as numbers, numeric strings, booleans or null; all of them
// decode to a finite float64, with anything unusable becoming 0.
type Number float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*n = 0
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*n = 0
			return nil
		}
		*n = Number(ToNumber(s, 0))
	case bytes.Equal(data, []byte("true")):
		*n = 1
	case bytes.Equal(data, []byte("false")):
		*n = 0
	default:
		*n = Number(ToNumber(string(data), 0))
	}
	return nil
}

// Float returns n as a finite float64.
func (n Number) Float() float64 {
	return ToNumber(float64(n), 0)
}

// Int returns n truncated toward zero.
func (n Number) Int() int {
	return int(n.Float())
}

// ToNumber coerces v to a finite float64. It returns fallback when v is nil,
// not numeric, or coerces to NaN or an infinity. It never panics.
func ToNumber(v any, fallback float64) float64 {
	var f float64
	switch x := v.(type) {
	case nil:
		return fallback
	case float64:
		f = x
	case float32:
		f = float64(x)
	case Number:
		f = float64(x)
	case int:
		f = float64(x)
	case int8:
		f = float64(x)
	case int16:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint8:
		f = float64(x)
	case uint16:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case bool:
		if x {
			return 1
		}
		return 0
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return fallback
		}
		f = parsed
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return fallback
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fallback
		}
		f = parsed
	default:
		return fallback
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}
	return f
}

// SafeDivide returns numerator/denominator, or fallback when the coerced
// denominator is zero or negative.
func SafeDivide(numerator, denominator, fallback float64) float64 {
	den := ToNumber(denominator, 0)
	if den <= 0 {
		return fallback
	}
	return ToNumber(ToNumber(numerator, 0)/den, fallback)
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// weightOf returns the averaging weight of a row reporting the given tweet
// count. Rows with zero or one tweet still carry weight 1.
func weightOf(tweets float64) float64 {
	return math.Max(tweets, 1)
}

package analyzer

import (
	"math"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToNumber(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"nil", nil, -1},
		{"int", 42, 42},
		{"int64", int64(-7), -7},
		{"uint8", uint8(200), 200},
		{"float32", float32(1.5), 1.5},
		{"float64", 3.25, 3.25},
		{"Number", Number(9), 9},
		{"json.Number", json.Number("12.5"), 12.5},
		{"bad json.Number", json.Number("abc"), -1},
		{"numeric string", " 17 ", 17},
		{"empty string", "", -1},
		{"blank string", "   ", -1},
		{"word", "abc", -1},
		{"true", true, 1},
		{"false", false, 0},
		{"NaN", math.NaN(), -1},
		{"+Inf", math.Inf(1), -1},
		{"-Inf", math.Inf(-1), -1},
		{"Inf string", "Inf", -1},
		{"struct", struct{}{}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToNumber(tt.in, -1)
			if got != tt.want {
				t.Errorf("ToNumber(%v, -1) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestToNumber_AlwaysFinite(t *testing.T) {
	inputs := []any{math.MaxFloat64, -math.MaxFloat64, math.SmallestNonzeroFloat64, "1e400", "-1e400", math.NaN()}
	for _, in := range inputs {
		got := ToNumber(in, 0)
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Errorf("ToNumber(%v) = %v, want finite", in, got)
		}
	}
}

func TestSafeDivide(t *testing.T) {
	assert.Equal(t, 2.5, SafeDivide(5, 2, 0))
	assert.Equal(t, 7.0, SafeDivide(5, 0, 7))
	assert.Equal(t, 7.0, SafeDivide(5, -3, 7))
	assert.Equal(t, 0.0, SafeDivide(0, 4, 7))
	assert.Equal(t, 7.0, SafeDivide(5, math.NaN(), 7))
	assert.Equal(t, 7.0, SafeDivide(5, math.Inf(1), 7))
}

func TestNumber_UnmarshalJSON(t *testing.T) {
	var row struct {
		A Number `json:"a"`
		B Number `json:"b"`
		C Number `json:"c"`
		D Number `json:"d"`
		E Number `json:"e"`
		F Number `json:"f"`
		G Number `json:"g"`
	}
	data := `{"a": 12, "b": "3.5", "c": null, "d": true, "e": "n/a", "f": false, "g": 1e2}`
	require.NoError(t, json.Unmarshal([]byte(data), &row))

	assert.Equal(t, Number(12), row.A)
	assert.Equal(t, Number(3.5), row.B)
	assert.Equal(t, Number(0), row.C)
	assert.Equal(t, Number(1), row.D)
	assert.Equal(t, Number(0), row.E)
	assert.Equal(t, Number(0), row.F)
	assert.Equal(t, Number(100), row.G)
}

func TestNumber_Int(t *testing.T) {
	if got := Number(9.9).Int(); got != 9 {
		t.Errorf("Int() = %d, want 9", got)
	}
	if got := Number(math.NaN()).Int(); got != 0 {
		t.Errorf("NaN Int() = %d, want 0", got)
	}
}

package decimal_test

import (
	"encoding/json"
	"testing"

	dec "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/ics-einvoice/internal/decimal"
)

func TestParseAmount(t *testing.T) {
	a, err := decimal.ParseAmount(" 1250.50 ")
	require.NoError(t, err)
	assert.Equal(t, decimal.Amount("1250.50"), a)

	a, err = decimal.ParseAmount("")
	require.NoError(t, err)
	assert.True(t, a.IsEmpty())

	_, err = decimal.ParseAmount("12,50")
	require.Error(t, err)
}

func TestAmount_Or(t *testing.T) {
	assert.Equal(t, decimal.ZeroAmount, decimal.Amount("").Or(decimal.ZeroAmount))
	assert.Equal(t, decimal.Amount("5.00"), decimal.Amount("5.00").Or(decimal.ZeroAmount))
}

func TestAmount_KeepsTrailingZeros(t *testing.T) {
	type wrapper struct {
		Total decimal.Amount `json:"total"`
	}

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"total": 100.10}`), &w))
	assert.Equal(t, decimal.Amount("100.10"), w.Total)

	out, err := json.Marshal(w)
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":"100.10"}`, string(out))

	require.NoError(t, json.Unmarshal([]byte(`{"total": "0.00"}`), &w))
	assert.Equal(t, decimal.ZeroAmount, w.Total)
}

func TestAmount_UnmarshalTrimsStrings(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected decimal.Amount
	}{
		{"padded", `" 10.00 "`, "10.00"},
		{"tab and newline", `"\t10.00\n"`, "10.00"},
		{"blank", `"   "`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a decimal.Amount
			require.NoError(t, json.Unmarshal([]byte(tt.input), &a))
			assert.Equal(t, tt.expected, a)
		})
	}
}

func TestAmount_UnmarshalRejectsGarbage(t *testing.T) {
	var a decimal.Amount
	require.Error(t, json.Unmarshal([]byte(`true`), &a))
}

func TestAmount_Decimal(t *testing.T) {
	d, err := decimal.Amount("99.99").Decimal()
	require.NoError(t, err)
	assert.True(t, d.Equal(dec.RequireFromString("99.99")))

	d, err = decimal.Amount("").Decimal()
	require.NoError(t, err)
	assert.True(t, d.IsZero())
}

func TestNumber_JSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"integer", `3`, `3`},
		{"fraction", `2.5`, `2.5`},
		{"numeric string", `"4"`, `4`},
		{"null", `null`, `0`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n decimal.Number
			require.NoError(t, json.Unmarshal([]byte(tt.input), &n))

			out, err := json.Marshal(n)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(out))
		})
	}
}

func TestNumber_UnmarshalInvalid(t *testing.T) {
	var n decimal.Number
	require.Error(t, json.Unmarshal([]byte(`"abc"`), &n))
}

func TestNumberFromInt(t *testing.T) {
	assert.Equal(t, decimal.Number("1"), decimal.NumberFromInt(1))
	assert.Equal(t, decimal.Number("0"), decimal.NumberFromInt(0))
}

func TestSum(t *testing.T) {
	values := []dec.Decimal{
		dec.NewFromInt(100),
		dec.RequireFromString("0.25"),
		dec.NewFromInt(300),
	}
	result := decimal.Sum(values)
	assert.True(t, result.Equal(dec.RequireFromString("400.25")))
}

func TestSum_Empty(t *testing.T) {
	result := decimal.Sum([]dec.Decimal{})
	assert.True(t, result.IsZero())
}

func TestIsNonNegative(t *testing.T) {
	assert.True(t, decimal.IsNonNegative(dec.NewFromInt(1)))
	assert.True(t, decimal.IsNonNegative(dec.Zero))
	assert.False(t, decimal.IsNonNegative(dec.NewFromInt(-1)))
}

func TestIsDecimal(t *testing.T) {
	assert.True(t, decimal.IsDecimal("10.00"))
	assert.True(t, decimal.IsDecimal("-3"))
	assert.False(t, decimal.IsDecimal("ten"))
	assert.False(t, decimal.IsDecimal(""))
}

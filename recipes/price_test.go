package recipes

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in          string
		expected    Price
		expectError bool
	}{
		{in: "4.99", expected: 499},
		{in: "$12.50", expected: 1250},
		{in: " 3 ", expected: 300},
		{in: "0.005", expected: 1},
		{in: "", expectError: true},
		{in: "$", expectError: true},
		{in: "cheap", expectError: true},
		{in: "NaN", expectError: true},
		{in: "Inf", expectError: true},
		{in: "-Inf", expectError: true},
		{in: "1e30", expectError: true},
		{in: "$99999999999999999999", expectError: true},
		{in: "-1e30", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePrice(tt.in)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestPrice_String(t *testing.T) {
	assert.Equal(t, "$0.00", Price(0).String())
	assert.Equal(t, "$4.05", Price(405).String())
	assert.Equal(t, "$50.00", Dollars(50).String())
	assert.Equal(t, "-$1.25", Price(-125).String())
	assert.Equal(t, "$92233720368547758.07", Price(math.MaxInt64).String())
	assert.Equal(t, "-$92233720368547758.08", Price(math.MinInt64).String())
}

func TestFromDollars(t *testing.T) {
	tests := []struct {
		name        string
		in          float64
		expected    Price
		expectError bool
	}{
		{name: "whole", in: 12, expected: 1200},
		{name: "rounds to cent", in: 0.125, expected: 13},
		{name: "negative", in: -2.5, expected: -250},
		{name: "nan", in: math.NaN(), expectError: true},
		{name: "inf", in: math.Inf(1), expectError: true},
		{name: "negative inf", in: math.Inf(-1), expectError: true},
		{name: "too large", in: 1e30, expectError: true},
		{name: "too small", in: -1e17, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromDollars(tt.in)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDollars_Saturates(t *testing.T) {
	assert.Equal(t, Price(0), Dollars(math.NaN()))
	assert.Equal(t, Price(math.MaxInt64), Dollars(math.Inf(1)))
	assert.Equal(t, Price(-math.MaxInt64), Dollars(-1e30))
	assert.NotEmpty(t, Dollars(-1e30).String())
}

func TestPrice_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		P Price `json:"p"`
	}{P: 1099})
	require.NoError(t, err)
	assert.JSONEq(t, `{"p": 10.99}`, string(b))

	var out struct {
		A Price `json:"a"`
		B Price `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 2.5, "b": "$3.10"}`), &out))
	assert.Equal(t, Price(250), out.A)
	assert.Equal(t, Price(310), out.B)

	assert.Error(t, json.Unmarshal([]byte(`{"a": true}`), &out))
	assert.Error(t, json.Unmarshal([]byte(`{"a": 1e30}`), &out))
	assert.Error(t, json.Unmarshal([]byte(`{"b": "NaN"}`), &out))
}

func TestPrice_YAML(t *testing.T) {
	var out struct {
		P Price `yaml:"p"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("p: 1.75\n"), &out))
	assert.Equal(t, Price(175), out.P)
}

func TestDollars_SumIsExact(t *testing.T) {
	var total Price
	for range 10 {
		total += Dollars(0.10)
	}
	assert.Equal(t, Dollars(1), total)
}

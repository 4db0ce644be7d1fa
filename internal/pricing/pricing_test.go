package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected float64
		wantErr  bool
	}{
		{name: "Plain number", input: "123.45", expected: 123.45},
		{name: "Dollar prefix", input: "$123.45", expected: 123.45},
		{name: "Dollar with space", input: "$ 99", expected: 99},
		{name: "Thousands suffix", input: "1.5k", expected: 1500},
		{name: "Millions suffix", input: "1.5M", expected: 1500000},
		{name: "Suffix is case-insensitive", input: "2m", expected: 2000000},
		{name: "Billions with dollar", input: "$0.5B", expected: 500000000},
		{name: "Trillions", input: "1T", expected: 1e12},
		{name: "Exact suffix scaling", input: "1.1M", expected: 1100000},
		{name: "Empty", input: "", wantErr: true},
		{name: "Only dollar", input: "$", wantErr: true},
		{name: "Only suffix", input: "M", wantErr: true},
		{name: "Garbage", input: "abc", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParsePrice(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestFormatPrice(t *testing.T) {
	testCases := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "Zero", input: 0, expected: "$0.00"},
		{name: "Small", input: 123.456, expected: "$123.46"},
		{name: "Thousands", input: 12345.6, expected: "$12.35k"},
		{name: "Millions", input: 1500000, expected: "$1.50M"},
		{name: "Billions", input: 2.5e9, expected: "$2.50B"},
		{name: "Negative keeps sign outside", input: -12345.6, expected: "-$12.35k"},
		{name: "Just under a unit", input: 999.99, expected: "$999.99"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatPrice(tc.input))
		})
	}
}

func TestParseQuantity(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		max      int64
		expected int64
		wantErr  bool
	}{
		{name: "Plain number", input: "17", max: 100, expected: 17},
		{name: "Max keyword", input: "max", max: 100, expected: 100},
		{name: "All keyword", input: "ALL", max: 42, expected: 42},
		{name: "At the cap", input: "100", max: 100, expected: 100},
		{name: "Over the cap", input: "101", max: 100, wantErr: true},
		{name: "Zero", input: "0", max: 100, wantErr: true},
		{name: "Negative", input: "-3", max: 100, wantErr: true},
		{name: "Fractional", input: "1.5", max: 100, wantErr: true},
		{name: "Garbage", input: "lots", max: 100, wantErr: true},
		{name: "Empty", input: "", max: 100, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseQuantity(tc.input, tc.max)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestUnitsOrdered(t *testing.T) {
	units := Units()
	require.NotEmpty(t, units)
	for i := 1; i < len(units); i++ {
		assert.Greater(t, units[i].Exp, units[i-1].Exp)
	}
}

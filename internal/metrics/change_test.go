package metrics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPercentChange(t *testing.T) {
	tests := []struct {
		current, past string
		want          string
	}{
		{"0", "0", "0%"},
		{"5", "0", "100%"},
		{"0.01", "0", "100%"},
		{"150", "100", "50%"},
		{"50", "100", "-50%"},
		{"100", "100", "0%"},
		{"0", "100", "-100%"},
		{"1", "3", "-67%"},
		{"4", "3", "33%"},
		{"201", "200", "1%"},   // 0.5 rounds up
		{"199", "200", "0%"},   // -0.5 rounds toward +inf
		{"197", "200", "-2%"},  // -1.5 rounds toward +inf
		{"310", "100", "210%"}, // growth above 100%
		{"1234.56", "1000", "23%"},
	}
	for _, tt := range tests {
		got := PercentChange(decimal.RequireFromString(tt.current), decimal.RequireFromString(tt.past))
		assert.Equal(t, tt.want, got, "%s vs %s", tt.current, tt.past)
	}
}

func TestCompare(t *testing.T) {
	c := CompareInt(12, 8)
	assert.True(t, decimal.NewFromInt(12).Equal(c.Current))
	assert.True(t, decimal.NewFromInt(8).Equal(c.Past))
	assert.Equal(t, "50%", c.PercentageChange)

	c = Compare(decimal.Zero, decimal.Zero)
	assert.Equal(t, "0%", c.PercentageChange)
}

func TestAverage(t *testing.T) {
	assert.True(t, decimal.Zero.Equal(Average(decimal.NewFromInt(10), 0)))
	assert.Equal(t, "3.33", Average(decimal.NewFromInt(10), 3).String())
}

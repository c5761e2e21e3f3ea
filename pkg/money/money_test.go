package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRound2_HalfAwayFromZero(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"100.005", "100.01"},
		{"100.004", "100"},
		{"-100.005", "-100.01"},
		{"0.125", "0.13"},
		{"18.0018", "18"},
	}
	for _, tt := range tests {
		got := Round2(decimal.RequireFromString(tt.in))
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "%s -> %s, want %s", tt.in, got, tt.want)
	}
}

func TestApplyDiscount(t *testing.T) {
	got := ApplyDiscount(decimal.NewFromInt(10000), decimal.NewFromInt(10))
	assert.True(t, got.Equal(decimal.NewFromInt(9000)))

	got = ApplyDiscount(decimal.NewFromInt(10000), decimal.Zero)
	assert.True(t, got.Equal(decimal.NewFromInt(10000)))

	got = ApplyDiscount(decimal.NewFromInt(10000), decimal.NewFromInt(100))
	assert.True(t, got.IsZero())
}

func TestPercent(t *testing.T) {
	assert.True(t, Percent(decimal.NewFromInt(18)).Equal(decimal.RequireFromString("0.18")))
	assert.True(t, Percent(decimal.Zero).IsZero())
}

package ui

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatRate(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{"zero", 0, "    0.0"},
		{"plain", 12.34, "   12.3"},
		{"just below K", 999, "  999.0"},
		{"K boundary", 1000, "   1.0K"},
		{"K", 12345, "  12.3K"},
		{"M", 2.5e6, "   2.5M"},
		{"G", 7.3e9, "   7.3G"},
		{"upper bound", 1e12, RatePlaceholder},
		{"negative", -1, RatePlaceholder},
		{"NaN", math.NaN(), RatePlaceholder},
		{"Inf", math.Inf(1), RatePlaceholder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatRate(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, 7, "rate output is fixed width")
		})
	}
}

func TestFormatRate_ScaleIsMonotonic(t *testing.T) {
	suffixRank := func(s string) int {
		switch {
		case strings.HasSuffix(s, "G"):
			return 3
		case strings.HasSuffix(s, "M"):
			return 2
		case strings.HasSuffix(s, "K"):
			return 1
		default:
			return 0
		}
	}

	inputs := []float64{0, 1, 999, 999.9, 1000, 1001, 999999, 1e6, 5e8, 1e9, 9.99e11}
	prev := -1
	for _, v := range inputs {
		rank := suffixRank(FormatRate(v))
		assert.GreaterOrEqual(t, rank, prev, "scale went down at %v", v)
		prev = rank
	}

	assert.Equal(t, 0, suffixRank(FormatRate(999)))
	assert.Equal(t, 1, suffixRank(FormatRate(1000)))
}

func TestFormatSensor(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{"zero", 0, "   0.000"},
		{"voltage", 12.0624, "  12.062"},
		{"temperature", 71.5, "  71.500"},
		{"just below range end", 999.9991, " 999.999"},
		{"sentinel high", 65535, "65535"},
		{"negative sentinel", -1.5, "-1.5"},
		{"range end", 1000, "1000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSensor(tt.in))
		})
	}
}

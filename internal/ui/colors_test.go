package ui

import (
	"testing"

	"github.com/minerator/viewerator/internal/health"
	"github.com/stretchr/testify/assert"
)

func TestHealthColors_Distinct(t *testing.T) {
	seen := make(map[string]health.Level)
	for _, l := range health.Levels() {
		fg, bg := HealthColors(l)
		assert.NotEqual(t, fg, bg, "level %s must be readable", l)
		prev, dup := seen[string(bg)]
		assert.False(t, dup, "levels %s and %s share a background", prev, l)
		seen[string(bg)] = l
	}
}

func TestHealthColors_Palette(t *testing.T) {
	_, bg := HealthColors(health.Critical)
	assert.Equal(t, ColorRed, bg)

	_, bg = HealthColors(health.Hold)
	assert.Equal(t, ColorYellow, bg)

	_, bg = HealthColors(health.RampUp)
	assert.Equal(t, ColorGreen, bg)
}

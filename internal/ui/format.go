package ui

import (
	"fmt"
	"strconv"
)

// RatePlaceholder is rendered for rates that do not fit the scale, including
// NaN and infinities from zero-length measurement windows.
const RatePlaceholder = "*******"

// FormatRate renders a throughput figure right-justified in 7 columns,
// scaling by 1e3/1e6/1e9 with a K/M/G suffix.
func FormatRate(v float64) string {
	switch {
	case v >= 0 && v < 1e3:
		return fmt.Sprintf("%7.1f", v)
	case v >= 1e3 && v < 1e6:
		return fmt.Sprintf("%6.1fK", v/1e3)
	case v >= 1e6 && v < 1e9:
		return fmt.Sprintf("%6.1fM", v/1e6)
	case v >= 1e9 && v < 1e12:
		return fmt.Sprintf("%6.1fG", v/1e9)
	default:
		return RatePlaceholder
	}
}

// FormatSensor renders a sensor reading with three decimals in 8 columns.
// Values outside [0,1000) are sentinels from the board controller and are
// printed as-is with no fixed width.
func FormatSensor(v float64) string {
	if v >= 0 && v < 1000 {
		return fmt.Sprintf("%8.3f", v)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

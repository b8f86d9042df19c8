// Package health classifies the operating state the minerator reports for
// each device subsystem.
package health

// Level is a subsystem health classification. Lower values are worse.
type Level int

// Levels ordered worst to best.
const (
	Critical Level = iota
	SlowDecrease
	Hold
	SlowIncrease
	RampUp
)

// Parse maps a payload health string to a Level. Unknown or empty strings map
// to RampUp: a missing classification never marks a device unhealthy.
func Parse(raw string) Level {
	switch raw {
	case "critical":
		return Critical
	case "slowDecrease":
		return SlowDecrease
	case "hold":
		return Hold
	case "slowIncrease":
		return SlowIncrease
	case "rampUp":
		return RampUp
	default:
		return RampUp
	}
}

// String returns the payload spelling of the level.
func (l Level) String() string {
	switch l {
	case Critical:
		return "critical"
	case SlowDecrease:
		return "slowDecrease"
	case Hold:
		return "hold"
	case SlowIncrease:
		return "slowIncrease"
	case RampUp:
		return "rampUp"
	default:
		return "unknown"
	}
}

// WorseOf returns whichever of a and b is closer to Critical.
func WorseOf(a, b Level) Level {
	if a < b {
		return a
	}
	return b
}

// Worst folds WorseOf over at least one level.
func Worst(first Level, rest ...Level) Level {
	worst := first
	for _, l := range rest {
		worst = WorseOf(worst, l)
	}
	return worst
}

// Levels returns every level, worst first.
func Levels() []Level {
	return []Level{Critical, SlowDecrease, Hold, SlowIncrease, RampUp}
}

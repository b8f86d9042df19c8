package telemetry

import (
	"time"

	"github.com/minerator/viewerator/internal/health"
)

// Variant is the hardware generation of an accelerator card. It decides which
// optional telemetry applies.
type Variant int

const (
	// VariantUnknown is the zero value; detection always picks a generation.
	VariantUnknown Variant = iota
	// VariantTypeA boards carry two regulator phases and a control-regulator
	// temperature sensor.
	VariantTypeA
	// VariantTypeB boards have neither.
	VariantTypeB
)

// String returns the board family name shown to operators.
func (v Variant) String() string {
	switch v {
	case VariantTypeA:
		return "BCU"
	case VariantTypeB:
		return "CVP"
	default:
		return "unknown"
	}
}

// Reading is a sensor value and the minerator's classification of it.
type Reading struct {
	Value  float64
	Health health.Level
}

// Rails holds the board-management electrical and thermal readings.
type Rails struct {
	InputPower    Reading
	Aux12V        Reading
	AuxCurrent    Reading
	Pex12V        Reading
	PexCurrent    Reading
	VccInt        Reading
	VccIntCurrent Reading
	VRCtrlTemp    Reading // TypeA only
}

// Phase is one voltage-regulator phase (TypeA only).
type Phase struct {
	StatusGlobal uint32
	Temperature  Reading
	Vout         float64
}

// Sysmon is one on-die system monitor.
type Sysmon struct {
	Temperature float64
	VccAux      float64
	VccBram     float64
	VccInt      float64
	Health      health.Level
}

// Clock is the clock health record of a compute core.
type Clock struct {
	Multiplier  float64
	BadNonces   float64
	TotalNonces float64
	Health      health.Level
}

// Counters is one set of work counters. StartTime and EndTime (seconds since
// epoch) are only carried by lifetime totals.
type Counters struct {
	Requested  float64
	Calculated float64
	Found      float64
	Valid      float64
	Submitted  float64
	Accepted   float64
	StartTime  float64
	EndTime    float64
}

// Elapsed returns the measurement window in seconds.
func (c Counters) Elapsed() float64 {
	return c.EndTime - c.StartTime
}

// Rate returns v per second over the lifetime window. A zero-length window
// yields NaN or Inf, which formatters render as out of range.
func (c Counters) Rate(v float64) float64 {
	return v / c.Elapsed()
}

// MinuteRate returns v per second for a last-minute counter.
func MinuteRate(v float64) float64 {
	return v / 60
}

// WorkStats is a named pair of lifetime and last-minute counters.
type WorkStats struct {
	Name   string
	Total  Counters
	Minute Counters
}

// Core is one compute core.
type Core struct {
	Clock Clock
	Stats WorkStats
}

// Accounting is a work stream shared by every device of a minerator: the
// fee stream or the work source.
type Accounting struct {
	Difficulty float64
	Stats      WorkStats
}

// Device is the normalized record of one accelerator card.
type Device struct {
	Name       string
	ID         string
	Variant    Variant
	Rails      Rails
	Phases     [2]Phase
	Sysmons    []Sysmon
	Cores      []Core
	Fee        Accounting
	WorkSource Accounting

	// WorstHealth is the worst level across every classified subsystem.
	WorstHealth health.Level
}

// PrimaryStats returns the statistics of the first core.
func (d Device) PrimaryStats() WorkStats {
	if len(d.Cores) == 0 {
		return WorkStats{}
	}
	return d.Cores[0].Stats
}

// Snapshot is the result of one successful parse of the status payload.
type Snapshot struct {
	Minerator  string
	Fee        Accounting
	WorkSource Accounting
	Devices    []Device

	// FetchedAt is stamped by the caller; Normalize leaves it zero.
	FetchedAt time.Time
}

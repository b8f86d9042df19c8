package health

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw  string
		want Level
	}{
		{"critical", Critical},
		{"slowDecrease", SlowDecrease},
		{"hold", Hold},
		{"slowIncrease", SlowIncrease},
		{"rampUp", RampUp},
		{"", RampUp},
		{"CRITICAL", RampUp},
		{"overheating", RampUp},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.raw))
		})
	}
}

func TestString_RoundTrip(t *testing.T) {
	for _, l := range Levels() {
		assert.Equal(t, l, Parse(l.String()))
	}
	assert.Equal(t, "unknown", Level(42).String())
}

func TestWorseOf_Order(t *testing.T) {
	levels := Levels()
	for i, a := range levels {
		for j, b := range levels {
			want := a
			if j < i {
				want = b
			}
			assert.Equal(t, want, WorseOf(a, b), "WorseOf(%s, %s)", a, b)
			assert.Equal(t, WorseOf(a, b), WorseOf(b, a), "commutative for %s, %s", a, b)
		}
		assert.Equal(t, a, WorseOf(a, a), "idempotent for %s", a)
	}
}

func TestWorst(t *testing.T) {
	assert.Equal(t, Hold, Worst(Hold))
	assert.Equal(t, Critical, Worst(RampUp, RampUp, RampUp, RampUp, RampUp, Critical))
	assert.Equal(t, SlowDecrease, Worst(RampUp, SlowIncrease, SlowDecrease, Hold))
}

func TestLevels_WorstFirst(t *testing.T) {
	levels := Levels()
	assert.Len(t, levels, 5)
	assert.Equal(t, Critical, levels[0])
	assert.Equal(t, RampUp, levels[4])
}

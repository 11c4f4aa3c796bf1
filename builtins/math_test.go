package builtins

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/esengine/runtime"
)

func TestMathConstants(t *testing.T) {
	r := newTestRealm(t)
	m := r.global(t, "Math")

	assert.Equal(t, math.Pi, m.Properties["PI"].Value.Number)
	assert.Equal(t, math.E, m.Properties["E"].Value.Number)
	assert.False(t, m.CanPut("PI"))
	assert.False(t, m.Delete("PI"))
	assert.Equal(t, "Math", m.Class)
}

func TestMathFunctions(t *testing.T) {
	r := newTestRealm(t)
	m := r.global(t, "Math")

	tests := []struct {
		fn   string
		args []*runtime.Value
		want float64
	}{
		{"abs", []*runtime.Value{num(-5)}, 5},
		{"floor", []*runtime.Value{num(4.7)}, 4},
		{"ceil", []*runtime.Value{num(4.1)}, 5},
		{"round", []*runtime.Value{num(4.5)}, 5},
		{"round", []*runtime.Value{num(-2.5)}, -2},
		{"round", []*runtime.Value{num(-2.6)}, -3},
		{"trunc", []*runtime.Value{num(-4.7)}, -4},
		{"sign", []*runtime.Value{num(-3)}, -1},
		{"sign", []*runtime.Value{num(0)}, 0},
		{"sqrt", []*runtime.Value{num(16)}, 4},
		{"pow", []*runtime.Value{num(2), num(10)}, 1024},
		{"pow", []*runtime.Value{num(1), runtime.PosInf}, math.NaN()},
		{"max", []*runtime.Value{num(1), num(3), num(2)}, 3},
		{"max", nil, math.Inf(-1)},
		{"min", []*runtime.Value{num(1), num(3), num(-2)}, -2},
		{"min", nil, math.Inf(1)},
		{"min", []*runtime.Value{num(1), str("x")}, math.NaN()},
		{"abs", []*runtime.Value{str("-2")}, 2},
		{"floor", nil, math.NaN()},
		{"random", nil, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.fn, func(t *testing.T) {
			assertNumber(t, tt.want, call(t, m, tt.fn, tt.args...))
		})
	}
}

func TestRoundHalfUpSignedZero(t *testing.T) {
	assert.True(t, math.Signbit(roundHalfUp(-0.4)))
	assert.False(t, math.Signbit(roundHalfUp(0.4)))
	assert.Equal(t, 3.0, roundHalfUp(2.5))
}

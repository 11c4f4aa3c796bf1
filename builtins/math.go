package builtins

import (
	"math"

	"github.com/example/esengine/runtime"
)

func (r *Realm) createMathObject() *runtime.Object {
	m := r.NewObject()
	m.Class = "Math"

	setConstant(m, "PI", runtime.NewNumber(math.Pi))
	setConstant(m, "E", runtime.NewNumber(math.E))
	setConstant(m, "LN2", runtime.NewNumber(math.Ln2))
	setConstant(m, "LN10", runtime.NewNumber(math.Ln10))
	setConstant(m, "LOG2E", runtime.NewNumber(math.Log2E))
	setConstant(m, "LOG10E", runtime.NewNumber(math.Log10E))
	setConstant(m, "SQRT2", runtime.NewNumber(math.Sqrt2))
	setConstant(m, "SQRT1_2", runtime.NewNumber(math.Sqrt2/2))

	r.setMethod(m, "abs", 1, mathUnary(math.Abs))
	r.setMethod(m, "floor", 1, mathUnary(math.Floor))
	r.setMethod(m, "ceil", 1, mathUnary(math.Ceil))
	r.setMethod(m, "round", 1, mathUnary(roundHalfUp))
	r.setMethod(m, "trunc", 1, mathUnary(math.Trunc))
	r.setMethod(m, "sign", 1, mathUnary(sign))
	r.setMethod(m, "sqrt", 1, mathUnary(math.Sqrt))
	r.setMethod(m, "exp", 1, mathUnary(math.Exp))
	r.setMethod(m, "log", 1, mathUnary(math.Log))
	r.setMethod(m, "sin", 1, mathUnary(math.Sin))
	r.setMethod(m, "cos", 1, mathUnary(math.Cos))
	r.setMethod(m, "tan", 1, mathUnary(math.Tan))
	r.setMethod(m, "atan2", 2, mathAtan2)
	r.setMethod(m, "pow", 2, mathPow)
	r.setMethod(m, "max", 2, mathExtreme(math.Inf(-1), func(a, b float64) bool { return a > b }))
	r.setMethod(m, "min", 2, mathExtreme(math.Inf(1), func(a, b float64) bool { return a < b }))
	r.setMethod(m, "random", 0, func(this *runtime.Object, args []*runtime.Value) (*runtime.Value, error) {
		return runtime.NewNumber(r.host.Random()), nil
	})

	return m
}

func mathUnary(fn func(float64) float64) runtime.CallableFunc {
	return func(this *runtime.Object, args []*runtime.Value) (*runtime.Value, error) {
		return runtime.NewNumber(fn(argAt(args, 0).ToNumber())), nil
	}
}

// roundHalfUp rounds .5 towards +Infinity, so Math.round(-2.5) is -2.
func roundHalfUp(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) || x == 0 {
		return x
	}
	if x > 0 && x < 0.5 {
		return 0
	}
	if x < 0 && x >= -0.5 {
		return math.Copysign(0, -1)
	}
	return math.Floor(x + 0.5)
}

func sign(x float64) float64 {
	switch {
	case math.IsNaN(x), x == 0:
		return x
	case x > 0:
		return 1
	default:
		return -1
	}
}

func mathPow(this *runtime.Object, args []*runtime.Value) (*runtime.Value, error) {
	base, exp := argAt(args, 0).ToNumber(), argAt(args, 1).ToNumber()
	if math.IsNaN(exp) || (math.Abs(base) == 1 && math.IsInf(exp, 0)) {
		return runtime.NaN, nil
	}
	return runtime.NewNumber(math.Pow(base, exp)), nil
}

func mathAtan2(this *runtime.Object, args []*runtime.Value) (*runtime.Value, error) {
	return runtime.NewNumber(math.Atan2(argAt(args, 0).ToNumber(), argAt(args, 1).ToNumber())), nil
}

// mathExtreme builds Math.max and Math.min: any NaN argument wins.
func mathExtreme(start float64, better func(a, b float64) bool) runtime.CallableFunc {
	return func(this *runtime.Object, args []*runtime.Value) (*runtime.Value, error) {
		result := start
		for _, a := range args {
			n := a.ToNumber()
			if math.IsNaN(n) {
				return runtime.NaN, nil
			}
			if better(n, result) {
				result = n
			}
		}
		return runtime.NewNumber(result), nil
	}
}

package builtins

import (
	"math"
	"strings"

	"github.com/example/esengine/runtime"
)

// The conversion functions are callable only; the engine has no wrapper
// objects for primitives, so they carry no construct body.

func (r *Realm) createStringFunction() *runtime.Object {
	fn := r.NewNative("String", 1, func(this *runtime.Object, args []*runtime.Value) (*runtime.Value, error) {
		if len(args) == 0 {
			return runtime.NewString(""), nil
		}
		return runtime.NewString(args[0].ToString()), nil
	})
	r.setMethod(fn, "fromCharCode", 1, stringFromCharCode)
	return fn
}

func stringFromCharCode(this *runtime.Object, args []*runtime.Value) (*runtime.Value, error) {
	var sb strings.Builder
	for _, a := range args {
		sb.WriteRune(rune(uint16(a.ToUint32())))
	}
	return runtime.NewString(sb.String()), nil
}

func (r *Realm) createNumberFunction() *runtime.Object {
	fn := r.NewNative("Number", 1, func(this *runtime.Object, args []*runtime.Value) (*runtime.Value, error) {
		if len(args) == 0 {
			return runtime.Zero, nil
		}
		return runtime.NewNumber(args[0].ToNumber()), nil
	})
	setConstant(fn, "MAX_VALUE", runtime.NewNumber(math.MaxFloat64))
	setConstant(fn, "MIN_VALUE", runtime.NewNumber(math.SmallestNonzeroFloat64))
	setConstant(fn, "NaN", runtime.NaN)
	setConstant(fn, "POSITIVE_INFINITY", runtime.PosInf)
	setConstant(fn, "NEGATIVE_INFINITY", runtime.NegInf)
	r.setMethod(fn, "isInteger", 1, numberIsInteger)
	return fn
}

func numberIsInteger(this *runtime.Object, args []*runtime.Value) (*runtime.Value, error) {
	v := argAt(args, 0)
	if v.Type != runtime.TypeNumber || math.IsNaN(v.Number) || math.IsInf(v.Number, 0) {
		return runtime.False, nil
	}
	return runtime.NewBool(math.Trunc(v.Number) == v.Number), nil
}

func (r *Realm) createBooleanFunction() *runtime.Object {
	return r.NewNative("Boolean", 1, func(this *runtime.Object, args []*runtime.Value) (*runtime.Value, error) {
		return runtime.NewBool(argAt(args, 0).ToBoolean()), nil
	})
}

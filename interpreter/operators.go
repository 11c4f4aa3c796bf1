package interpreter

import (
	"fmt"
	"math"

	"github.com/example/esengine/runtime"
)

// binaryOp applies a binary operator to two evaluated operands. Compound
// assignments reuse it with the operator's "=" stripped.
func binaryOp(op string, left, right *runtime.Value) (*runtime.Value, error) {
	switch op {
	case "+":
		if left.Type == runtime.TypeString || right.Type == runtime.TypeString {
			return runtime.NewString(left.ToString() + right.ToString()), nil
		}
		return runtime.NewNumber(left.ToNumber() + right.ToNumber()), nil
	case "-":
		return runtime.NewNumber(left.ToNumber() - right.ToNumber()), nil
	case "*":
		return runtime.NewNumber(left.ToNumber() * right.ToNumber()), nil
	case "/":
		return runtime.NewNumber(left.ToNumber() / right.ToNumber()), nil
	case "%":
		return runtime.NewNumber(math.Mod(left.ToNumber(), right.ToNumber())), nil

	// Relational operators compare numerically; NaN on either side is false.
	case "<":
		return runtime.NewBool(left.ToNumber() < right.ToNumber()), nil
	case ">":
		return runtime.NewBool(left.ToNumber() > right.ToNumber()), nil
	case "<=":
		return runtime.NewBool(left.ToNumber() <= right.ToNumber()), nil
	case ">=":
		return runtime.NewBool(left.ToNumber() >= right.ToNumber()), nil

	case "==":
		return runtime.NewBool(runtime.AbstractEquals(left, right)), nil
	case "!=":
		return runtime.NewBool(!runtime.AbstractEquals(left, right)), nil
	case "===":
		return runtime.NewBool(runtime.StrictEquals(left, right)), nil
	case "!==":
		return runtime.NewBool(!runtime.StrictEquals(left, right)), nil

	case "<<":
		return runtime.NewNumber(float64(left.ToInt32() << (right.ToUint32() & 31))), nil
	case ">>":
		return runtime.NewNumber(float64(left.ToInt32() >> (right.ToUint32() & 31))), nil
	case ">>>":
		return runtime.NewNumber(float64(left.ToUint32() >> (right.ToUint32() & 31))), nil
	case "&":
		return runtime.NewNumber(float64(left.ToInt32() & right.ToInt32())), nil
	case "|":
		return runtime.NewNumber(float64(left.ToInt32() | right.ToInt32())), nil
	case "^":
		return runtime.NewNumber(float64(left.ToInt32() ^ right.ToInt32())), nil

	case "in":
		if !right.IsObject() {
			return nil, fmt.Errorf("TypeError: cannot use 'in' to search for %q in %s", left.ToString(), right.ToString())
		}
		return runtime.NewBool(right.Object.HasProperty(left.ToString())), nil
	case "instanceof":
		return instanceOf(left, right)
	}
	return nil, fmt.Errorf("SyntaxError: unknown operator %s", op)
}

// instanceOf walks v's prototype chain looking for ctor.prototype.
func instanceOf(v, ctor *runtime.Value) (*runtime.Value, error) {
	if !ctor.IsObject() || !ctor.Object.IsCallable() {
		return nil, fmt.Errorf("TypeError: right-hand side of 'instanceof' is not callable")
	}
	if !v.IsObject() {
		return runtime.False, nil
	}
	if !ctor.Object.HasProperty("prototype") {
		return nil, fmt.Errorf("TypeError: function has no prototype property")
	}
	proto := ctor.Object.Get("prototype").Value
	if !proto.IsObject() {
		return nil, fmt.Errorf("TypeError: function has non-object prototype %s", proto.ToString())
	}
	return runtime.NewBool(proto.Object.IsPrototypeOf(v.Object)), nil
}

package builtins

import (
	"fmt"
	"strconv"

	"github.com/example/esengine/runtime"
)

func (r *Realm) createFunctionConstructor() *runtime.Object {
	proto := r.FunctionPrototype
	ctor := r.NewNative("Function", 1, func(this *runtime.Object, args []*runtime.Value) (*runtime.Value, error) {
		fn, err := r.compileFunction(args)
		if err != nil {
			return nil, err
		}
		return runtime.NewObject(fn), nil
	})
	ctor.ConstructBody = func(this *runtime.Object, args []*runtime.Value) (*runtime.Object, error) {
		return r.compileFunction(args)
	}
	setConstant(ctor, "prototype", runtime.NewObject(proto))
	proto.Define("constructor", runtime.NewObject(ctor), runtime.DontEnum)
	proto.Define("length", runtime.Zero, runtime.ReadOnly|runtime.DontEnum|runtime.DontDelete)

	r.setMethod(proto, "toString", 0, functionToString)
	r.setMethod(proto, "call", 1, r.functionCall)
	r.setMethod(proto, "apply", 2, r.functionApply)
	return ctor
}

// compileFunction implements Function(p1, ..., pn, body).
func (r *Realm) compileFunction(args []*runtime.Value) (*runtime.Object, error) {
	if r.Compile == nil {
		return nil, fmt.Errorf("TypeError: Function is %w without a compiler", runtime.ErrNotConstructable)
	}
	var params []string
	body := ""
	for i, a := range args {
		if i == len(args)-1 {
			body = a.ToString()
			break
		}
		params = append(params, a.ToString())
	}
	return r.Compile(params, body)
}

func functionToString(this *runtime.Object, args []*runtime.Value) (*runtime.Value, error) {
	recv := receiver(this)
	if !recv.IsObject() || !recv.Object.IsCallable() {
		return nil, fmt.Errorf("TypeError: Function.prototype.toString requires a function")
	}
	name := ""
	if prop, ok := recv.Object.GetOwn("name"); ok {
		name = prop.Value.ToString()
	}
	return runtime.NewString("function " + name + "() { [native code] }"), nil
}

// invokeWith calls fn with an explicit this value. The fresh activation
// chains to the function's own scope the way an ordinary call would.
func (r *Realm) invokeWith(this *runtime.Object, fn *runtime.Value, thisArg *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	if !fn.IsObject() || !fn.Object.IsCallable() {
		return nil, fmt.Errorf("TypeError: %s is %w", fn.TypeOf(), runtime.ErrNotCallable)
	}
	scope := fn.Object.Scope
	if scope == nil {
		scope = this
	}
	if thisArg.Type == runtime.TypeUndefined || thisArg.Type == runtime.TypeNull {
		thisArg = runtime.NewObject(r.Global)
	}
	act := runtime.NewActivation(scope)
	act.BindThis(thisArg)
	return fn.Object.Call(act, args)
}

func (r *Realm) functionCall(this *runtime.Object, args []*runtime.Value) (*runtime.Value, error) {
	var rest []*runtime.Value
	if len(args) > 1 {
		rest = args[1:]
	}
	return r.invokeWith(this, receiver(this), argAt(args, 0), rest)
}

// MaxApplyArguments bounds the array-like length Function.prototype.apply
// will spread into an argument list.
const MaxApplyArguments = 1 << 16

func (r *Realm) functionApply(this *runtime.Object, args []*runtime.Value) (*runtime.Value, error) {
	list := argAt(args, 1)
	var rest []*runtime.Value
	switch {
	case list.IsObject():
		n := readProperty(list.Object, "length").ToUint32()
		if n > MaxApplyArguments {
			return nil, fmt.Errorf("RangeError: too many arguments to Function.prototype.apply (%d, limit %d)", n, MaxApplyArguments)
		}
		rest = make([]*runtime.Value, 0, n)
		for i := uint32(0); i < n; i++ {
			rest = append(rest, readProperty(list.Object, strconv.FormatUint(uint64(i), 10)))
		}
	case list.Type == runtime.TypeUndefined || list.Type == runtime.TypeNull:
	default:
		return nil, fmt.Errorf("TypeError: second argument to Function.prototype.apply must be an array-like object")
	}
	return r.invokeWith(this, receiver(this), argAt(args, 0), rest)
}

package builtins

import (
	"io"
	"math/rand"
	"os"

	"github.com/example/esengine/runtime"
)

// Host carries the embedding's side of the realm: where console output goes,
// where Math.random draws from.
type Host struct {
	Stdout io.Writer
	Stderr io.Writer
	Random func() float64
}

// Realm holds the intrinsic objects every script function and object literal
// is wired to.
type Realm struct {
	Global            *runtime.Object
	ObjectPrototype   *runtime.Object
	FunctionPrototype *runtime.Object

	// Compile builds a script function from parameter names and body text.
	// The interpreter installs it; without it the Function constructor fails.
	Compile func(params []string, body string) (*runtime.Object, error)

	host Host
}

// RegisterAll populates global with the intrinsics and returns the realm.
func RegisterAll(global *runtime.Object, host Host) *Realm {
	if host.Stdout == nil {
		host.Stdout = os.Stdout
	}
	if host.Stderr == nil {
		host.Stderr = os.Stderr
	}
	if host.Random == nil {
		host.Random = rand.Float64
	}

	objProto := runtime.NewHostObject(nil, "Object")
	fnProto := runtime.NewHostObject(objProto, "Function")
	fnProto.CallBody = func(*runtime.Object, []*runtime.Value) (*runtime.Value, error) {
		return runtime.Undefined, nil
	}

	r := &Realm{
		Global:            global,
		ObjectPrototype:   objProto,
		FunctionPrototype: fnProto,
		host:              host,
	}

	// 1. Object and Function, which everything else hangs off
	r.setGlobal("Object", r.createObjectConstructor())
	r.setGlobal("Function", r.createFunctionConstructor())

	// 2. Conversion functions
	r.setGlobal("String", r.createStringFunction())
	r.setGlobal("Number", r.createNumberFunction())
	r.setGlobal("Boolean", r.createBooleanFunction())

	// 3. Namespaces
	r.setGlobal("Math", r.createMathObject())
	r.setGlobal("console", r.createConsoleObject())

	// 4. Value properties and global functions
	r.registerGlobals()

	return r
}

// NewNative wraps fn as a callable function object of this realm.
func (r *Realm) NewNative(name string, length int, fn runtime.CallableFunc) *runtime.Object {
	obj := runtime.NewHostObject(r.FunctionPrototype, "Function")
	obj.CallBody = fn
	obj.Define("name", runtime.NewString(name), runtime.ReadOnly|runtime.DontEnum|runtime.DontDelete)
	obj.Define("length", runtime.NewNumber(float64(length)), runtime.ReadOnly|runtime.DontEnum|runtime.DontDelete)
	return obj
}

// NewObject creates an empty ordinary object, as the {} literal does.
func (r *Realm) NewObject() *runtime.Object {
	return runtime.NewHostObject(r.ObjectPrototype, "Object")
}

func (r *Realm) setGlobal(name string, obj *runtime.Object) {
	r.Global.Define(name, runtime.NewObject(obj), runtime.DontEnum)
}

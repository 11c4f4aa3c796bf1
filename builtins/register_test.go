package builtins

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/esengine/runtime"
)

type testRealm struct {
	*Realm
	stdout, stderr *bytes.Buffer
}

func newTestRealm(t *testing.T) *testRealm {
	t.Helper()
	var stdout, stderr bytes.Buffer
	global := runtime.NewHostObject(nil, "global")
	r := RegisterAll(global, Host{
		Stdout: &stdout,
		Stderr: &stderr,
		Random: func() float64 { return 0.25 },
	})
	return &testRealm{Realm: r, stdout: &stdout, stderr: &stderr}
}

// global reads a global binding and requires it to be an object.
func (r *testRealm) global(t *testing.T, name string) *runtime.Object {
	t.Helper()
	prop, ok := r.Global.GetOwn(name)
	require.True(t, ok, "global %s missing", name)
	require.True(t, prop.Value.IsObject(), "global %s is not an object", name)
	return prop.Value.Object
}

// call invokes a method of obj with obj as the receiver.
func call(t *testing.T, obj *runtime.Object, name string, args ...*runtime.Value) *runtime.Value {
	t.Helper()
	prop, ok := obj.GetOwn(name)
	require.True(t, ok, "method %s missing", name)
	act := runtime.NewActivation(nil)
	act.BindThis(runtime.NewObject(obj))
	v, err := prop.Value.Object.Call(act, args)
	require.NoError(t, err)
	return v
}

func num(n float64) *runtime.Value { return runtime.NewNumber(n) }
func str(s string) *runtime.Value  { return runtime.NewString(s) }

func TestRegisterAllInstallsGlobals(t *testing.T) {
	r := newTestRealm(t)
	for _, name := range []string{"Object", "Function", "String", "Number", "Boolean", "Math", "console",
		"parseInt", "parseFloat", "isNaN", "isFinite"} {
		prop, ok := r.Global.GetOwn(name)
		require.True(t, ok, name)
		assert.True(t, prop.Attrs.Has(runtime.DontEnum), name)
	}
	assert.Empty(t, r.Global.Keys())
}

func TestGlobalValueProperties(t *testing.T) {
	r := newTestRealm(t)
	for _, name := range []string{"undefined", "NaN", "Infinity"} {
		prop, ok := r.Global.GetOwn(name)
		require.True(t, ok, name)
		assert.Equal(t, runtime.ReadOnly|runtime.DontEnum|runtime.DontDelete, prop.Attrs, name)
		assert.False(t, r.Global.Delete(name), name)
	}
	assert.True(t, r.Global.Properties["Infinity"].Value.Number > 0)
}

func TestPrototypeWiring(t *testing.T) {
	r := newTestRealm(t)
	assert.Nil(t, r.ObjectPrototype.Prototype())
	assert.Same(t, r.ObjectPrototype, r.FunctionPrototype.Prototype())

	objectCtor := r.global(t, "Object")
	assert.Same(t, r.FunctionPrototype, objectCtor.Prototype())
	assert.Same(t, r.ObjectPrototype, objectCtor.Properties["prototype"].Value.Object)
	assert.Same(t, objectCtor, r.ObjectPrototype.Properties["constructor"].Value.Object)

	fnCtor := r.global(t, "Function")
	assert.Same(t, r.FunctionPrototype, fnCtor.Properties["prototype"].Value.Object)
}

func TestNewNative(t *testing.T) {
	r := newTestRealm(t)
	fn := r.NewNative("twice", 1, func(this *runtime.Object, args []*runtime.Value) (*runtime.Value, error) {
		return num(argAt(args, 0).ToNumber() * 2), nil
	})
	assert.Equal(t, "function", runtime.NewObject(fn).TypeOf())
	assert.Equal(t, "twice", fn.Properties["name"].Value.Str)
	assert.Equal(t, 1.0, fn.Properties["length"].Value.Number)

	v, err := fn.Call(nil, []*runtime.Value{num(21)})
	require.NoError(t, err)
	assert.Equal(t, 42.0, v.Number)
}

func TestReceiver(t *testing.T) {
	obj := runtime.NewHostObject(nil, "Object")
	assert.Same(t, runtime.Undefined, receiver(nil))
	assert.Same(t, obj, receiver(obj).Object)

	act := runtime.NewActivation(nil)
	act.BindThis(str("self"))
	inner := runtime.NewActivation(act)
	assert.Equal(t, "self", receiver(inner).Str)
}

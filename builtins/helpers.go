package builtins

import "github.com/example/esengine/runtime"

func argAt(args []*runtime.Value, i int) *runtime.Value {
	if i < len(args) && args[i] != nil {
		return args[i]
	}
	return runtime.Undefined
}

// receiver returns the this value of a native call. Script calls pass the
// activation, which records it; hosts may pass the receiver object directly.
func receiver(this *runtime.Object) *runtime.Value {
	if this == nil {
		return runtime.Undefined
	}
	if v, ok := this.ThisValue(); ok {
		return v
	}
	return runtime.NewObject(this)
}

func (r *Realm) setMethod(obj *runtime.Object, name string, length int, fn runtime.CallableFunc) {
	obj.Define(name, runtime.NewObject(r.NewNative(name, length, fn)), runtime.DontEnum)
}

func setConstant(obj *runtime.Object, name string, val *runtime.Value) {
	obj.Define(name, val, runtime.ReadOnly|runtime.DontEnum|runtime.DontDelete)
}

// className is the [[Class]] reported by Object.prototype.toString.
func className(v *runtime.Value) string {
	switch v.Type {
	case runtime.TypeUndefined:
		return "Undefined"
	case runtime.TypeNull:
		return "Null"
	case runtime.TypeBoolean:
		return "Boolean"
	case runtime.TypeNumber:
		return "Number"
	case runtime.TypeString:
		return "String"
	case runtime.TypeObject:
		if v.Object != nil {
			return v.Object.Class
		}
	}
	return "Object"
}

// readProperty reads name through the prototype chain without materialising
// a slot on a miss.
func readProperty(obj *runtime.Object, name string) *runtime.Value {
	if !obj.HasProperty(name) {
		return runtime.Undefined
	}
	return obj.Get(name).Value
}

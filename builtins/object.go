package builtins

import (
	"fmt"

	"github.com/example/esengine/runtime"
)

func (r *Realm) createObjectConstructor() *runtime.Object {
	proto := r.ObjectPrototype
	ctor := r.NewNative("Object", 1, func(this *runtime.Object, args []*runtime.Value) (*runtime.Value, error) {
		return runtime.NewObject(r.objectFrom(argAt(args, 0))), nil
	})
	ctor.ConstructBody = func(this *runtime.Object, args []*runtime.Value) (*runtime.Object, error) {
		return r.objectFrom(argAt(args, 0)), nil
	}
	setConstant(ctor, "prototype", runtime.NewObject(proto))
	proto.Define("constructor", runtime.NewObject(ctor), runtime.DontEnum)

	r.setMethod(proto, "toString", 0, objectProtoToString)
	r.setMethod(proto, "valueOf", 0, objectProtoValueOf)
	r.setMethod(proto, "hasOwnProperty", 1, objectProtoHasOwnProperty)
	r.setMethod(proto, "isPrototypeOf", 1, objectProtoIsPrototypeOf)
	r.setMethod(proto, "propertyIsEnumerable", 1, objectProtoPropertyIsEnumerable)

	r.setMethod(ctor, "getPrototypeOf", 1, r.objectGetPrototypeOf)
	r.setMethod(ctor, "setPrototypeOf", 2, objectSetPrototypeOf)
	return ctor
}

// objectFrom passes objects through and makes a fresh one for anything else.
func (r *Realm) objectFrom(v *runtime.Value) *runtime.Object {
	if v.IsObject() {
		return v.Object
	}
	return r.NewObject()
}

func objectProtoToString(this *runtime.Object, args []*runtime.Value) (*runtime.Value, error) {
	return runtime.NewString("[object " + className(receiver(this)) + "]"), nil
}

func objectProtoValueOf(this *runtime.Object, args []*runtime.Value) (*runtime.Value, error) {
	return receiver(this), nil
}

func objectProtoHasOwnProperty(this *runtime.Object, args []*runtime.Value) (*runtime.Value, error) {
	recv := receiver(this)
	if !recv.IsObject() {
		return runtime.False, nil
	}
	return runtime.NewBool(recv.Object.HasOwnProperty(argAt(args, 0).ToString())), nil
}

func objectProtoIsPrototypeOf(this *runtime.Object, args []*runtime.Value) (*runtime.Value, error) {
	recv, v := receiver(this), argAt(args, 0)
	if !recv.IsObject() || !v.IsObject() {
		return runtime.False, nil
	}
	return runtime.NewBool(recv.Object.IsPrototypeOf(v.Object)), nil
}

func objectProtoPropertyIsEnumerable(this *runtime.Object, args []*runtime.Value) (*runtime.Value, error) {
	recv := receiver(this)
	if !recv.IsObject() {
		return runtime.False, nil
	}
	prop, ok := recv.Object.GetOwn(argAt(args, 0).ToString())
	if !ok {
		return runtime.False, nil
	}
	return runtime.NewBool(!prop.Attrs.Has(runtime.DontEnum) && !prop.Attrs.Has(runtime.Internal)), nil
}

func (r *Realm) objectGetPrototypeOf(this *runtime.Object, args []*runtime.Value) (*runtime.Value, error) {
	v := argAt(args, 0)
	if !v.IsObject() {
		return nil, fmt.Errorf("TypeError: Object.getPrototypeOf called on %s", v.TypeOf())
	}
	if p := v.Object.Prototype(); p != nil {
		return runtime.NewObject(p), nil
	}
	return runtime.Null, nil
}

func objectSetPrototypeOf(this *runtime.Object, args []*runtime.Value) (*runtime.Value, error) {
	target, proto := argAt(args, 0), argAt(args, 1)
	if !target.IsObject() {
		return nil, fmt.Errorf("TypeError: Object.setPrototypeOf called on %s", target.TypeOf())
	}
	var p *runtime.Object
	switch {
	case proto.IsObject():
		p = proto.Object
	case proto.Type == runtime.TypeNull:
	default:
		return nil, fmt.Errorf("TypeError: object prototype may only be an object or null")
	}
	if err := target.Object.SetPrototype(p); err != nil {
		return nil, err
	}
	return target, nil
}

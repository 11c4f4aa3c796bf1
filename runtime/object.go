package runtime

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotCallable      = errors.New("not callable")
	ErrNotConstructable = errors.New("not a constructor")
	ErrPrototypeCycle   = errors.New("cyclic prototype chain")
)

// Attributes is the set of flags carried by a Property.
type Attributes uint8

const (
	ReadOnly Attributes = 1 << iota
	DontEnum
	DontDelete
	Internal
)

func (a Attributes) Has(flag Attributes) bool {
	return a&flag != 0
}

func (a Attributes) String() string {
	if a == 0 {
		return "None"
	}
	var names []string
	for _, f := range []struct {
		flag Attributes
		name string
	}{{ReadOnly, "ReadOnly"}, {DontEnum, "DontEnum"}, {DontDelete, "DontDelete"}, {Internal, "Internal"}} {
		if a.Has(f.flag) {
			names = append(names, f.name)
		}
	}
	return strings.Join(names, "|")
}

// Property is a named slot owned by exactly one object.
type Property struct {
	Value  *Value
	Attrs  Attributes
	Setter func(*Value) *Value
}

// Assign stores v into the slot, passing it through the setter when one is
// attached. ReadOnly slots are left untouched and Assign reports false.
func (p *Property) Assign(v *Value) bool {
	if p.Attrs.Has(ReadOnly) {
		return false
	}
	if p.Setter != nil {
		v = p.Setter(v)
	}
	p.Value = v
	return true
}

// CallableFunc is the native body invoked by Call. For script calls, this is
// the activation object of the call.
type CallableFunc func(this *Object, args []*Value) (*Value, error)

// ConstructFunc is the native body invoked by Construct.
type ConstructFunc func(this *Object, args []*Value) (*Object, error)

// Object is a host object: plain objects, functions, prototypes and
// activation records all share this shape.
type Object struct {
	Class         string
	Scope         *Object
	Properties    map[string]*Property
	CallBody      CallableFunc
	ConstructBody ConstructFunc

	prototype *Object
}

// NewHostObject creates an empty object delegating to proto, which may be nil.
func NewHostObject(proto *Object, class string) *Object {
	return &Object{
		Class:      class,
		Properties: make(map[string]*Property),
		prototype:  proto,
	}
}

func (o *Object) Prototype() *Object {
	return o.prototype
}

// SetPrototype replaces the delegation link. A link that would make o reachable
// from its own chain is rejected, so every lookup walk terminates.
func (o *Object) SetPrototype(proto *Object) error {
	for p := proto; p != nil; p = p.prototype {
		if p == o {
			return fmt.Errorf("TypeError: %w through %s object", ErrPrototypeCycle, o.Class)
		}
	}
	o.prototype = proto
	return nil
}

func (o *Object) lookup(name string) *Property {
	for obj := o; obj != nil; obj = obj.prototype {
		if prop, ok := obj.Properties[name]; ok {
			return prop
		}
	}
	return nil
}

// Get returns the named slot from o or its prototype chain. A miss creates an
// undefined, attribute-less slot on o itself and returns that, so a failed
// lookup is visible to later HasProperty calls.
func (o *Object) Get(name string) *Property {
	if prop := o.lookup(name); prop != nil {
		return prop
	}
	prop := &Property{Value: Undefined}
	o.Properties[name] = prop
	return prop
}

// GetOwn returns the slot stored on o itself without touching the chain.
func (o *Object) GetOwn(name string) (*Property, bool) {
	prop, ok := o.Properties[name]
	return prop, ok
}

// Put writes value under name. It overwrites an existing writable slot found on
// o or its chain; an inherited ReadOnly slot is shadowed by a new own slot
// instead. Put returns false when o's own slot is ReadOnly.
func (o *Object) Put(name string, value *Value, attrs Attributes) bool {
	if !o.CanPut(name) {
		return false
	}
	if prop := o.lookup(name); prop != nil && !prop.Attrs.Has(ReadOnly) {
		prop.Assign(value)
		return true
	}
	o.Properties[name] = &Property{Value: value, Attrs: attrs}
	return true
}

// CanPut is false only when o has its own ReadOnly slot for name.
func (o *Object) CanPut(name string) bool {
	if prop, ok := o.Properties[name]; ok {
		return !prop.Attrs.Has(ReadOnly)
	}
	return true
}

// Define installs an own slot unconditionally, replacing any previous one.
// Hosts use it to pre-populate objects before scripts run.
func (o *Object) Define(name string, value *Value, attrs Attributes) *Property {
	prop := &Property{Value: value, Attrs: attrs}
	o.Properties[name] = prop
	return prop
}

// Delete removes an own slot. Absent names report true; DontDelete slots stay
// and report false.
func (o *Object) Delete(name string) bool {
	prop, ok := o.Properties[name]
	if !ok {
		return true
	}
	if prop.Attrs.Has(DontDelete) {
		return false
	}
	delete(o.Properties, name)
	return true
}

func (o *Object) HasProperty(name string) bool {
	return o.lookup(name) != nil
}

func (o *Object) HasOwnProperty(name string) bool {
	_, ok := o.Properties[name]
	return ok
}

// Keys lists own names without DontEnum or Internal, sorted.
func (o *Object) Keys() []string {
	keys := make([]string, 0, len(o.Properties))
	for name, prop := range o.Properties {
		if prop.Attrs.Has(DontEnum) || prop.Attrs.Has(Internal) {
			continue
		}
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}

// IsPrototypeOf reports whether o appears on v's prototype chain.
func (o *Object) IsPrototypeOf(v *Object) bool {
	if v == nil {
		return false
	}
	for p := v.prototype; p != nil; p = p.prototype {
		if p == o {
			return true
		}
	}
	return false
}

func (o *Object) IsCallable() bool {
	return o.CallBody != nil
}

func (o *Object) IsConstructor() bool {
	return o.ConstructBody != nil
}

func (o *Object) Call(this *Object, args []*Value) (*Value, error) {
	if o.CallBody == nil {
		return nil, fmt.Errorf("TypeError: %s object is %w", o.Class, ErrNotCallable)
	}
	return o.CallBody(this, args)
}

// Construct runs the construct body. Wiring the new instance to a prototype
// is left to the body.
func (o *Object) Construct(this *Object, args []*Value) (*Object, error) {
	if o.ConstructBody == nil {
		return nil, fmt.Errorf("TypeError: %s object is %w", o.Class, ErrNotConstructable)
	}
	return o.ConstructBody(this, args)
}

package runtime

// ThisBinding is the slot name an activation uses for its this value. The
// name is a keyword, so scripts can never reach it as an identifier.
const ThisBinding = "this"

// ActivationClass is the Class of every activation object.
const ActivationClass = "Activation"

// NewActivation creates the variable object for one call, chained to scope
// for free-identifier lookup.
func NewActivation(scope *Object) *Object {
	act := NewHostObject(nil, ActivationClass)
	act.Scope = scope
	return act
}

// BindThis records the receiver of the call that owns this activation.
func (o *Object) BindThis(v *Value) {
	o.Define(ThisBinding, v, ReadOnly|DontEnum|DontDelete|Internal)
}

// ThisValue walks the scope chain for the nearest recorded receiver.
func (o *Object) ThisValue() (*Value, bool) {
	for scope := o; scope != nil; scope = scope.Scope {
		if prop, ok := scope.Properties[ThisBinding]; ok && prop.Attrs.Has(Internal) {
			return prop.Value, true
		}
	}
	return nil, false
}

// Resolve walks o and its scope chain and returns the first object on which
// name is visible.
func (o *Object) Resolve(name string) (*Object, bool) {
	for scope := o; scope != nil; scope = scope.Scope {
		if scope.HasProperty(name) {
			return scope, true
		}
	}
	return nil, false
}

// VisibleNames lists every non-internal name bound along the scope chain,
// innermost first, without duplicates.
func (o *Object) VisibleNames() []string {
	seen := make(map[string]bool)
	var names []string
	for scope := o; scope != nil; scope = scope.Scope {
		for obj := scope; obj != nil; obj = obj.prototype {
			for name, prop := range obj.Properties {
				if prop.Attrs.Has(Internal) || seen[name] {
					continue
				}
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

package builtins

import (
	"fmt"
	"io"
	"strings"

	"github.com/example/esengine/runtime"
)

const maxInspectDepth = 2

func (r *Realm) createConsoleObject() *runtime.Object {
	console := r.NewObject()

	r.setMethod(console, "log", 0, r.printer(r.host.Stdout))
	r.setMethod(console, "info", 0, r.printer(r.host.Stdout))
	r.setMethod(console, "debug", 0, r.printer(r.host.Stdout))
	r.setMethod(console, "warn", 0, r.printer(r.host.Stderr))
	r.setMethod(console, "error", 0, r.printer(r.host.Stderr))

	return console
}

func (r *Realm) printer(w io.Writer) runtime.CallableFunc {
	return func(this *runtime.Object, args []*runtime.Value) (*runtime.Value, error) {
		if _, err := fmt.Fprintln(w, formatArgs(args)); err != nil {
			return nil, err
		}
		return runtime.Undefined, nil
	}
}

func formatArgs(args []*runtime.Value) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = formatValue(a, 0)
	}
	return strings.Join(parts, " ")
}

func formatValue(v *runtime.Value, depth int) string {
	if v == nil {
		return "undefined"
	}
	if v.Type == runtime.TypeString && depth > 0 {
		return "'" + v.Str + "'"
	}
	if !v.IsObject() {
		return v.ToString()
	}
	obj := v.Object
	if obj.IsCallable() {
		name := ""
		if prop, ok := obj.GetOwn("name"); ok {
			name = prop.Value.ToString()
		}
		if name == "" {
			return "[Function (anonymous)]"
		}
		return "[Function: " + name + "]"
	}
	keys := obj.Keys()
	if len(keys) == 0 {
		return "{}"
	}
	if depth >= maxInspectDepth {
		return "[" + obj.Class + "]"
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + formatValue(obj.Properties[k].Value, depth+1)
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

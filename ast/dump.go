package ast

import (
	"reflect"
	"strings"
)

var nodeInterface = reflect.TypeOf((*Node)(nil)).Elem()

// Dump converts a tree into maps and slices keyed by lower-cased field names,
// tagging every node with its kind. The result encodes cleanly as JSON or YAML.
func Dump(n Node) any {
	if n == nil {
		return nil
	}
	return dumpValue(reflect.ValueOf(n))
}

func dumpValue(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Interface, reflect.Ptr:
		if v.IsNil() {
			return nil
		}
		if v.Type().Implements(nodeInterface) {
			n := v.Interface().(Node)
			out := dumpStruct(reflect.Indirect(reflect.ValueOf(n)))
			out["type"] = n.Kind().String()
			return out
		}
		return dumpValue(v.Elem())
	case reflect.Struct:
		return dumpStruct(v)
	case reflect.Slice:
		if v.IsNil() {
			return []any{}
		}
		list := make([]any, v.Len())
		for i := range list {
			list[i] = dumpValue(v.Index(i))
		}
		return list
	default:
		return v.Interface()
	}
}

func dumpStruct(v reflect.Value) map[string]any {
	out := make(map[string]any, v.NumField())
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Name == "Token" {
			out["line"] = v.Field(i).FieldByName("Line").Interface()
			out["column"] = v.Field(i).FieldByName("Column").Interface()
			continue
		}
		out[strings.ToLower(f.Name[:1])+f.Name[1:]] = dumpValue(v.Field(i))
	}
	return out
}

package runtime

import (
	"math"
	"strings"
)

// ValueType tags the variant held by a Value.
type ValueType int

const (
	TypeUndefined ValueType = iota
	TypeNull
	TypeBoolean
	TypeNumber
	TypeString
	TypeObject
	TypeReference
	TypeList
	TypeCompletion
)

func (t ValueType) String() string {
	switch t {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBoolean:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeObject:
		return "object"
	case TypeReference:
		return "reference"
	case TypeList:
		return "list"
	case TypeCompletion:
		return "completion"
	default:
		return "unknown"
	}
}

// Value is the engine's primitive. Only the field matching Type is meaningful.
// Reference, List and Completion never escape to script code; they carry
// property slots, argument lists and control-flow results inside the engine.
type Value struct {
	Type       ValueType
	Bool       bool
	Number     float64
	Str        string
	Object     *Object
	Ref        *Property
	List       []*Value
	Completion *Completion
}

type CompletionType int

const (
	Normal CompletionType = iota
	Return
	Break
	Continue
)

func (c CompletionType) String() string {
	switch c {
	case Return:
		return "return"
	case Break:
		return "break"
	case Continue:
		return "continue"
	default:
		return "normal"
	}
}

// Completion is the result of running statements. Value is nil when nothing
// produced a value.
type Completion struct {
	Type  CompletionType
	Value *Value
}

var (
	Undefined = &Value{Type: TypeUndefined}
	Null      = &Value{Type: TypeNull}
	True      = &Value{Type: TypeBoolean, Bool: true}
	False     = &Value{Type: TypeBoolean, Bool: false}
	NaN       = &Value{Type: TypeNumber, Number: math.NaN()}
	PosInf    = &Value{Type: TypeNumber, Number: math.Inf(1)}
	NegInf    = &Value{Type: TypeNumber, Number: math.Inf(-1)}
	Zero      = &Value{Type: TypeNumber, Number: 0}
)

func NewNumber(n float64) *Value {
	return &Value{Type: TypeNumber, Number: n}
}

func NewString(s string) *Value {
	return &Value{Type: TypeString, Str: s}
}

func NewBool(b bool) *Value {
	if b {
		return True
	}
	return False
}

func NewObject(obj *Object) *Value {
	return &Value{Type: TypeObject, Object: obj}
}

func NewReference(p *Property) *Value {
	return &Value{Type: TypeReference, Ref: p}
}

func NewList(items []*Value) *Value {
	return &Value{Type: TypeList, List: items}
}

func NewCompletion(t CompletionType, v *Value) *Value {
	return &Value{Type: TypeCompletion, Completion: &Completion{Type: t, Value: v}}
}

// Deref returns the value stored behind a Reference, or v itself.
func (v *Value) Deref() *Value {
	if v.Type == TypeReference {
		if v.Ref == nil || v.Ref.Value == nil {
			return Undefined
		}
		return v.Ref.Value
	}
	return v
}

// IsObject reports whether v holds a non-nil object.
func (v *Value) IsObject() bool {
	return v.Type == TypeObject && v.Object != nil
}

// ToBoolean implements the ECMAScript ToBoolean abstract operation.
func (v *Value) ToBoolean() bool {
	switch v.Type {
	case TypeUndefined, TypeNull:
		return false
	case TypeBoolean:
		return v.Bool
	case TypeNumber:
		return v.Number != 0 && !math.IsNaN(v.Number)
	case TypeString:
		return len(v.Str) > 0
	case TypeObject:
		return true
	case TypeReference:
		return v.Deref().ToBoolean()
	default:
		return false
	}
}

// ToString implements the ECMAScript ToString abstract operation.
func (v *Value) ToString() string {
	switch v.Type {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBoolean:
		if v.Bool {
			return "true"
		}
		return "false"
	case TypeNumber:
		return NumberToString(v.Number)
	case TypeString:
		return v.Str
	case TypeObject:
		if v.Object == nil {
			return "[object Object]"
		}
		return "[object " + v.Object.Class + "]"
	case TypeReference:
		return v.Deref().ToString()
	case TypeList:
		parts := make([]string, len(v.List))
		for i, item := range v.List {
			parts[i] = item.ToString()
		}
		return strings.Join(parts, ",")
	case TypeCompletion:
		if v.Completion == nil || v.Completion.Value == nil {
			return "undefined"
		}
		return v.Completion.Value.ToString()
	default:
		return "undefined"
	}
}

// TypeOf returns the result of the typeof operator.
func (v *Value) TypeOf() string {
	switch v.Type {
	case TypeNull:
		return "object"
	case TypeObject:
		if v.Object != nil && v.Object.IsCallable() {
			return "function"
		}
		return "object"
	case TypeReference:
		return v.Deref().TypeOf()
	default:
		return v.Type.String()
	}
}

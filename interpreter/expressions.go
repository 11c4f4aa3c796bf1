package interpreter

import (
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/example/esengine/ast"
	"github.com/example/esengine/runtime"
)

// Eval evaluates one expression node.
func (c *Context) Eval(node ast.Node) (*runtime.Value, error) {
	if err := c.enter(); err != nil {
		return nil, err
	}
	defer c.leave()

	switch n := node.(type) {
	case *ast.Undefined:
		return runtime.Undefined, nil
	case *ast.Null:
		return runtime.Null, nil
	case *ast.Boolean:
		return runtime.NewBool(n.Value), nil
	case *ast.String:
		return runtime.NewString(n.Value), nil
	case *ast.Number:
		return runtime.NewNumber(runtime.StringToNumber(n.Text)), nil
	case *ast.Ident:
		scope, ok := c.top().Resolve(n.Name)
		if !ok {
			return nil, c.referenceError(n.Name)
		}
		return scope.Get(n.Name).Value, nil
	case *ast.This:
		return c.thisValue(), nil
	case *ast.Object:
		return runtime.NewObject(c.realm.NewObject()), nil
	case *ast.FunctionExpression:
		return runtime.NewObject(c.functionExpression(n)), nil
	case *ast.MemberExpression:
		return c.evalMember(n)
	case *ast.AssignmentExpression:
		return c.evalAssignment(n)
	case *ast.BinaryExpression:
		left, err := c.Eval(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := c.Eval(n.Right)
		if err != nil {
			return nil, err
		}
		return binaryOp(n.Operator, left, right)
	case *ast.LogicalExpression:
		return c.evalLogical(n)
	case *ast.UnaryExpression:
		return c.evalUnary(n)
	case *ast.UpdateExpression:
		return c.evalUpdate(n)
	case *ast.ConditionalExpression:
		test, err := c.Eval(n.Test)
		if err != nil {
			return nil, err
		}
		if test.ToBoolean() {
			return c.Eval(n.Consequent)
		}
		return c.Eval(n.Alternate)
	case *ast.Arguments:
		args, err := c.evalArguments(n)
		if err != nil {
			return nil, err
		}
		return runtime.NewList(args), nil
	case *ast.CallExpression:
		return c.evalCall(n)
	case *ast.NewExpression:
		return c.evalNew(n)
	case nil:
		return runtime.Undefined, nil
	}
	return nil, fmt.Errorf("SyntaxError at %d:%d: %s is not an expression", node.Pos().Line, node.Pos().Column, node.Kind())
}

func (c *Context) thisValue() *runtime.Value {
	if v, ok := c.top().ThisValue(); ok {
		return v
	}
	return runtime.NewObject(c.Global)
}

// memberName evaluates the property key of a member access.
func (c *Context) memberName(n *ast.MemberExpression) (string, error) {
	if n.Computed == nil {
		return n.Property, nil
	}
	key, err := c.Eval(n.Computed)
	if err != nil {
		return "", err
	}
	return key.ToString(), nil
}

func hasProperty(n *ast.MemberExpression) bool {
	return n.Computed != nil || n.Property != ""
}

// baseObject checks the value a property is read from or written to.
// Primitives other than undefined and null have no properties and yield nil.
func baseObject(v *runtime.Value, name, verb string) (*runtime.Object, error) {
	switch v.Type {
	case runtime.TypeObject:
		return v.Object, nil
	case runtime.TypeUndefined, runtime.TypeNull:
		return nil, fmt.Errorf("TypeError: cannot %s property %q of %s", verb, name, v.ToString())
	}
	return nil, nil
}

func (c *Context) evalMember(n *ast.MemberExpression) (*runtime.Value, error) {
	objVal, err := c.Eval(n.Object)
	if err != nil {
		return nil, err
	}
	if !hasProperty(n) {
		return objVal, nil
	}
	name, err := c.memberName(n)
	if err != nil {
		return nil, err
	}
	return memberOf(objVal, name)
}

func memberOf(objVal *runtime.Value, name string) (*runtime.Value, error) {
	obj, err := baseObject(objVal, name, "read")
	if err != nil {
		return nil, err
	}
	if obj == nil {
		if objVal.Type == runtime.TypeString && name == "length" {
			return runtime.NewNumber(float64(len(utf16.Encode([]rune(objVal.Str))))), nil
		}
		return runtime.Undefined, nil
	}
	return obj.Get(name).Value, nil
}

// reference resolves an assignment target to its property slot. A bare
// identifier bound nowhere is created on the current activation when create
// is set.
func (c *Context) reference(target ast.Node, create bool) (*runtime.Property, error) {
	switch t := target.(type) {
	case *ast.Ident:
		if scope, ok := c.top().Resolve(t.Name); ok {
			return scope.Get(t.Name), nil
		}
		if !create {
			return nil, c.referenceError(t.Name)
		}
		return c.top().Get(t.Name), nil
	case *ast.MemberExpression:
		if !hasProperty(t) {
			return c.reference(t.Object, create)
		}
		objVal, err := c.Eval(t.Object)
		if err != nil {
			return nil, err
		}
		name, err := c.memberName(t)
		if err != nil {
			return nil, err
		}
		obj, err := baseObject(objVal, name, "set")
		if err != nil {
			return nil, err
		}
		if obj == nil {
			// writes to primitives are dropped
			return &runtime.Property{Value: runtime.Undefined}, nil
		}
		return obj.Get(name), nil
	}
	pos := target.Pos()
	return nil, fmt.Errorf("SyntaxError at %d:%d: invalid assignment target", pos.Line, pos.Column)
}

func (c *Context) evalAssignment(n *ast.AssignmentExpression) (*runtime.Value, error) {
	ref, err := c.reference(n.Target, true)
	if err != nil {
		return nil, err
	}
	value, err := c.Eval(n.Value)
	if err != nil {
		return nil, err
	}
	if n.Operator != "=" {
		value, err = binaryOp(strings.TrimSuffix(n.Operator, "="), ref.Value, value)
		if err != nil {
			return nil, err
		}
	}
	ref.Assign(value)
	return value, nil
}

func (c *Context) evalLogical(n *ast.LogicalExpression) (*runtime.Value, error) {
	left, err := c.Eval(n.Left)
	if err != nil {
		return nil, err
	}
	switch n.Operator {
	case "&&":
		if !left.ToBoolean() {
			return left, nil
		}
	case "||":
		if left.ToBoolean() {
			return left, nil
		}
	default:
		return nil, fmt.Errorf("SyntaxError: unknown logical operator %s", n.Operator)
	}
	return c.Eval(n.Right)
}

func (c *Context) evalUnary(n *ast.UnaryExpression) (*runtime.Value, error) {
	switch n.Operator {
	case "typeof":
		if id, ok := n.Operand.(*ast.Ident); ok {
			if _, bound := c.top().Resolve(id.Name); !bound {
				return runtime.NewString("undefined"), nil
			}
		}
	case "delete":
		return c.evalDelete(n.Operand)
	}

	v, err := c.Eval(n.Operand)
	if err != nil {
		return nil, err
	}
	switch n.Operator {
	case "typeof":
		return runtime.NewString(v.TypeOf()), nil
	case "void":
		return runtime.Undefined, nil
	case "+":
		return runtime.NewNumber(v.ToNumber()), nil
	case "-":
		return runtime.NewNumber(-v.ToNumber()), nil
	case "~":
		return runtime.NewNumber(float64(^v.ToInt32())), nil
	case "!":
		return runtime.NewBool(!v.ToBoolean()), nil
	}
	return nil, fmt.Errorf("SyntaxError: unknown unary operator %s", n.Operator)
}

func (c *Context) evalDelete(operand ast.Node) (*runtime.Value, error) {
	switch t := operand.(type) {
	case *ast.Ident:
		scope, ok := c.top().Resolve(t.Name)
		if !ok {
			return runtime.True, nil
		}
		return runtime.NewBool(scope.Delete(t.Name)), nil
	case *ast.MemberExpression:
		if hasProperty(t) {
			objVal, err := c.Eval(t.Object)
			if err != nil {
				return nil, err
			}
			name, err := c.memberName(t)
			if err != nil {
				return nil, err
			}
			obj, err := baseObject(objVal, name, "delete")
			if err != nil {
				return nil, err
			}
			if obj == nil {
				return runtime.True, nil
			}
			return runtime.NewBool(obj.Delete(name)), nil
		}
	}
	if _, err := c.Eval(operand); err != nil {
		return nil, err
	}
	return runtime.True, nil
}

func (c *Context) evalUpdate(n *ast.UpdateExpression) (*runtime.Value, error) {
	ref, err := c.reference(n.Target, false)
	if err != nil {
		return nil, err
	}
	old := ref.Value.ToNumber()
	updated := old + 1
	if n.Operator == "--" {
		updated = old - 1
	}
	ref.Assign(runtime.NewNumber(updated))
	if n.Prefix {
		return runtime.NewNumber(updated), nil
	}
	return runtime.NewNumber(old), nil
}

package interpreter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/example/esengine/ast"
	"github.com/example/esengine/parser"
	"github.com/example/esengine/runtime"
)

// functionExpression creates the function object for an expression. A named
// expression sees its own name through an extra scope holding only that
// binding.
func (c *Context) functionExpression(n *ast.FunctionExpression) *runtime.Object {
	scope := c.top()
	if n.Name == "" {
		return c.newFunction(n.Name, n.Params, n.Body, scope)
	}
	self := runtime.NewActivation(scope)
	fn := c.newFunction(n.Name, n.Params, n.Body, self)
	self.Define(n.Name, runtime.NewObject(fn), runtime.ReadOnly|runtime.DontDelete)
	return fn
}

// newFunction builds a script function closing over scope. Its prototype
// property is a fresh object whose constructor points back at it.
func (c *Context) newFunction(name string, params []string, body *ast.Block, scope *runtime.Object) *runtime.Object {
	fn := runtime.NewHostObject(c.realm.FunctionPrototype, "Function")
	fn.Scope = scope
	fn.Define("length", runtime.NewNumber(float64(len(params))), runtime.ReadOnly|runtime.DontEnum|runtime.DontDelete)
	fn.Define("name", runtime.NewString(name), runtime.ReadOnly|runtime.DontEnum|runtime.DontDelete)

	proto := c.realm.NewObject()
	proto.Define("constructor", runtime.NewObject(fn), runtime.DontEnum)
	fn.Define("prototype", runtime.NewObject(proto), runtime.DontDelete)

	fn.CallBody = func(this *runtime.Object, args []*runtime.Value) (*runtime.Value, error) {
		act := this
		if act == nil || act.Class != runtime.ActivationClass {
			act = runtime.NewActivation(fn.Scope)
			if this == nil {
				act.BindThis(runtime.NewObject(c.Global))
			} else {
				act.BindThis(runtime.NewObject(this))
			}
		}
		return c.invoke(name, params, body, act, args)
	}
	fn.ConstructBody = func(this *runtime.Object, args []*runtime.Value) (*runtime.Object, error) {
		instProto := c.realm.ObjectPrototype
		if prop, ok := fn.GetOwn("prototype"); ok && prop.Value.IsObject() {
			instProto = prop.Value.Object
		}
		inst := runtime.NewHostObject(instProto, "Object")
		act := runtime.NewActivation(fn.Scope)
		act.BindThis(runtime.NewObject(inst))
		result, err := c.invoke(name, params, body, act, args)
		if err != nil {
			return nil, err
		}
		if result.IsObject() {
			return result.Object, nil
		}
		return inst, nil
	}
	return fn
}

// invoke binds arguments on act and runs body with act on top of the stack.
func (c *Context) invoke(name string, params []string, body *ast.Block, act *runtime.Object, args []*runtime.Value) (*runtime.Value, error) {
	if c.top() != act {
		c.push(act)
		defer c.pop()
	}
	act.Define("arguments", runtime.NewObject(c.argumentsObject(args)), runtime.DontDelete)
	for i, param := range params {
		v := runtime.Undefined
		if i < len(args) {
			v = args[i]
		}
		act.Define(param, v, runtime.DontDelete)
	}

	result, err := c.Run(body)
	if err != nil {
		return nil, err
	}
	if completion := result.Completion; completion.Type == runtime.Return && completion.Value != nil {
		return completion.Value, nil
	}
	return runtime.Undefined, nil
}

func (c *Context) argumentsObject(args []*runtime.Value) *runtime.Object {
	obj := c.realm.NewObject()
	obj.Class = "Arguments"
	for i, a := range args {
		obj.Put(strconv.Itoa(i), a, 0)
	}
	obj.Define("length", runtime.NewNumber(float64(len(args))), runtime.DontEnum)
	return obj
}

// compile backs the Function constructor. The source is parsed as a single
// function expression, so a body cannot close it early and smuggle in more
// statements. Functions made this way close over the global object only.
func (c *Context) compile(params []string, body string) (*runtime.Object, error) {
	src := "(function anonymous(" + strings.Join(params, ", ") + ") {\n" + body + "\n});"
	program, err := parser.ParseSource(src, parser.WithMaxDepth(c.parseDepth))
	if err != nil {
		return nil, err
	}
	if len(program.Body) != 1 {
		return nil, fmt.Errorf("SyntaxError: malformed function body")
	}
	fe, ok := program.Body[0].(*ast.FunctionExpression)
	if !ok {
		return nil, fmt.Errorf("SyntaxError: malformed function body")
	}
	return c.newFunction(fe.Name, fe.Params, fe.Body, c.Global), nil
}

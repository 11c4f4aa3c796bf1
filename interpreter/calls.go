package interpreter

import (
	"fmt"

	"github.com/example/esengine/ast"
	"github.com/example/esengine/runtime"
)

// describe renders a callee for error messages and logs.
func describe(n ast.Node) string {
	switch n := n.(type) {
	case *ast.Ident:
		return n.Name
	case *ast.This:
		return "this"
	case *ast.MemberExpression:
		switch {
		case n.Computed != nil:
			return describe(n.Object) + "[...]"
		case n.Property != "":
			return describe(n.Object) + "." + n.Property
		}
		return describe(n.Object)
	case *ast.CallExpression:
		return describe(n.Callee) + "(...)"
	case *ast.FunctionExpression:
		if n.Name != "" {
			return n.Name
		}
		return "function"
	}
	return "expression"
}

func (c *Context) evalArguments(args *ast.Arguments) ([]*runtime.Value, error) {
	if args == nil {
		return nil, nil
	}
	values := make([]*runtime.Value, 0, len(args.List))
	for _, arg := range args.List {
		v, err := c.Eval(arg)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// callee evaluates the function position of a call. A member access yields
// its base object as the receiver.
func (c *Context) callee(n ast.Node) (fn, this *runtime.Value, err error) {
	if m, ok := n.(*ast.MemberExpression); ok && hasProperty(m) {
		objVal, err := c.Eval(m.Object)
		if err != nil {
			return nil, nil, err
		}
		name, err := c.memberName(m)
		if err != nil {
			return nil, nil, err
		}
		fn, err := memberOf(objVal, name)
		if err != nil {
			return nil, nil, err
		}
		return fn, objVal, nil
	}
	fn, err = c.Eval(n)
	return fn, nil, err
}

// evalCall runs a whole call chain f(a)(b)... one hop at a time. Each hop
// gets its own activation, chained to the callee's captured scope, and all of
// them are popped once the chain resolves.
func (c *Context) evalCall(n *ast.CallExpression) (*runtime.Value, error) {
	var hops []*ast.Arguments
	var target ast.Node = n
	for {
		call, ok := target.(*ast.CallExpression)
		if !ok {
			break
		}
		hops = append(hops, call.Arguments)
		target = call.Callee
	}
	for i, j := 0, len(hops)-1; i < j; i, j = i+1, j-1 {
		hops[i], hops[j] = hops[j], hops[i]
	}

	caller := c.top()
	fnVal, thisVal, err := c.callee(target)
	if err != nil {
		return nil, err
	}

	pushed := 0
	defer func() {
		for ; pushed > 0; pushed-- {
			c.pop()
		}
	}()

	name := describe(target)
	for i, hop := range hops {
		var args []*runtime.Value
		if i == 0 {
			args, err = c.evalArguments(hop)
		} else {
			// later argument groups still belong to the caller's scope
			c.push(caller)
			args, err = c.evalArguments(hop)
			c.pop()
		}
		if err != nil {
			return nil, err
		}

		if !fnVal.IsObject() || !fnVal.Object.IsCallable() {
			return nil, fmt.Errorf("TypeError: %s is %w", name, runtime.ErrNotCallable)
		}
		fn := fnVal.Object
		scope := fn.Scope
		if scope == nil {
			scope = c.top()
		}
		act := runtime.NewActivation(scope)
		if i == 0 && thisVal != nil {
			act.BindThis(thisVal)
		} else {
			act.BindThis(runtime.NewObject(c.Global))
		}

		c.push(act)
		pushed++
		c.logger.Debug("call", "function", name, "arity", len(args), "depth", c.Depth())
		fnVal, err = fn.Call(act, args)
		if err != nil {
			return nil, err
		}
		name += "(...)"
	}
	return fnVal, nil
}

func (c *Context) evalNew(n *ast.NewExpression) (*runtime.Value, error) {
	ctor, err := c.Eval(n.Callee)
	if err != nil {
		return nil, err
	}
	args, err := c.evalArguments(n.Arguments)
	if err != nil {
		return nil, err
	}
	if !ctor.IsObject() || !ctor.Object.IsConstructor() {
		return nil, fmt.Errorf("TypeError: %s is %w", describe(n.Callee), runtime.ErrNotConstructable)
	}
	c.logger.Debug("construct", "function", describe(n.Callee), "arity", len(args), "depth", c.Depth())
	obj, err := ctor.Object.Construct(c.top(), args)
	if err != nil {
		return nil, err
	}
	return runtime.NewObject(obj), nil
}

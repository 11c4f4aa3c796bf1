package interpreter

import (
	"github.com/example/esengine/ast"
	"github.com/example/esengine/runtime"
)

// Run drives statements from an explicit pending stack local to this call.
// Blocks push their children instead of recursing, so long statement lists
// cost no native stack. The result is a Completion value whose inner Value
// is nil when nothing produced one.
func (c *Context) Run(root ast.Node) (*runtime.Value, error) {
	pending := []ast.Node{root}
	var last *runtime.Value

	for len(pending) > 0 {
		node := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		switch n := node.(type) {
		case *ast.Block:
			for i := len(n.Body) - 1; i >= 0; i-- {
				pending = append(pending, n.Body[i])
			}
		case *ast.Empty:
		case *ast.VariableDeclaration:
			if err := c.declareVariables(n); err != nil {
				return nil, err
			}
		case *ast.FunctionDeclaration:
			fn := c.newFunction(n.Name, n.Params, n.Body, c.top())
			c.top().Put(n.Name, runtime.NewObject(fn), runtime.DontDelete)
		case *ast.IfExpression:
			cond, err := c.Eval(n.Condition)
			if err != nil {
				return nil, err
			}
			if cond.ToBoolean() {
				pending = append(pending, n.Then)
			} else if n.Else != nil {
				pending = append(pending, n.Else)
			}
		case *ast.WhileExpression:
			completion, err := c.runWhile(n)
			if err != nil {
				return nil, err
			}
			if completion.Value != nil {
				last = completion.Value
			}
			if completion.Type == runtime.Return {
				return runtime.NewCompletion(runtime.Return, completion.Value), nil
			}
		case *ast.ReturnExpression:
			if n.Value == nil {
				return runtime.NewCompletion(runtime.Return, runtime.Undefined), nil
			}
			v, err := c.Eval(n.Value)
			if err != nil {
				return nil, err
			}
			return runtime.NewCompletion(runtime.Return, v), nil
		case *ast.BreakStatement:
			return runtime.NewCompletion(runtime.Break, last), nil
		case *ast.ContinueStatement:
			return runtime.NewCompletion(runtime.Continue, last), nil
		default:
			v, err := c.Eval(node)
			if err != nil {
				return nil, err
			}
			last = v
		}
	}
	return runtime.NewCompletion(runtime.Normal, last), nil
}

// runWhile drains one full body run per iteration before testing again.
func (c *Context) runWhile(n *ast.WhileExpression) (*runtime.Completion, error) {
	var last *runtime.Value
	iterations := 0
	for {
		cond, err := c.Eval(n.Condition)
		if err != nil {
			return nil, err
		}
		if !cond.ToBoolean() {
			break
		}
		iterations++
		result, err := c.Run(n.Body)
		if err != nil {
			return nil, err
		}
		completion := result.Completion
		if completion.Value != nil {
			last = completion.Value
		}
		if completion.Type == runtime.Return {
			return completion, nil
		}
		if completion.Type == runtime.Break {
			break
		}
	}
	c.logger.Debug("loop exit", "iterations", iterations, "line", n.Token.Line)
	return &runtime.Completion{Type: runtime.Normal, Value: last}, nil
}

// declareVariables binds into the current activation. A declarator without an
// initializer leaves an existing own binding alone.
func (c *Context) declareVariables(n *ast.VariableDeclaration) error {
	act := c.top()
	for _, d := range n.Declarations {
		if d.Init == nil {
			if !act.HasOwnProperty(d.Name) {
				act.Put(d.Name, runtime.Undefined, runtime.DontDelete)
			}
			continue
		}
		v, err := c.Eval(d.Init)
		if err != nil {
			return err
		}
		act.Put(d.Name, v, runtime.DontDelete)
	}
	return nil
}

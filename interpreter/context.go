package interpreter

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/example/esengine/builtins"
	"github.com/example/esengine/config"
	"github.com/example/esengine/runtime"
)

// Context is the execution state of one interpreter: the global object and
// the stack of activations, with the global object at its base.
type Context struct {
	Global *runtime.Object

	realm       *builtins.Realm
	activations []*runtime.Object
	depth       int
	maxDepth    int
	parseDepth  int
	logger      *slog.Logger

	interrupted atomic.Bool
}

func newContext(realm *builtins.Realm, cfg config.Config, logger *slog.Logger) *Context {
	global := realm.Global
	global.BindThis(runtime.NewObject(global))
	return &Context{
		Global:      global,
		realm:       realm,
		activations: []*runtime.Object{global},
		maxDepth:    cfg.MaxDepth,
		parseDepth:  cfg.MaxParseDepth,
		logger:      logger,
	}
}

func (c *Context) top() *runtime.Object {
	return c.activations[len(c.activations)-1]
}

func (c *Context) push(act *runtime.Object) {
	c.activations = append(c.activations, act)
}

func (c *Context) pop() {
	if len(c.activations) > 1 {
		c.activations = c.activations[:len(c.activations)-1]
	}
}

// Depth reports how many activations sit above the global object.
func (c *Context) Depth() int {
	return len(c.activations) - 1
}

// enter runs before every expression, so it is also where a pending
// interrupt takes effect.
func (c *Context) enter() error {
	if c.interrupted.Load() {
		return ErrInterrupted
	}
	if c.depth >= c.maxDepth {
		return fmt.Errorf("%w (limit %d)", ErrDepthExceeded, c.maxDepth)
	}
	c.depth++
	return nil
}

func (c *Context) leave() {
	c.depth--
}

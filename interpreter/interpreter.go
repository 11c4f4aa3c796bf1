// Package interpreter evaluates parsed programs against the prototype-based
// object model in package runtime.
package interpreter

import (
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/example/esengine/ast"
	"github.com/example/esengine/builtins"
	"github.com/example/esengine/config"
	"github.com/example/esengine/parser"
	"github.com/example/esengine/runtime"
	"github.com/example/esengine/token"
)

// Interpreter owns one Context. Bindings persist across Eval calls, so a host
// can run several scripts against the same global object.
type Interpreter struct {
	ctx    *Context
	realm  *builtins.Realm
	cfg    config.Config
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

type Option func(*Interpreter)

func WithConfig(cfg config.Config) Option {
	return func(in *Interpreter) {
		in.cfg = cfg
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(in *Interpreter) {
		in.logger = logger
	}
}

// WithOutput redirects console output. Nil writers keep the process streams.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(in *Interpreter) {
		in.stdout = stdout
		in.stderr = stderr
	}
}

func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		cfg:    config.Default(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.cfg.MaxDepth <= 0 {
		in.cfg.MaxDepth = config.DefaultMaxDepth
	}
	if in.cfg.MaxParseDepth <= 0 {
		in.cfg.MaxParseDepth = config.DefaultMaxParseDepth
	}

	global := runtime.NewHostObject(nil, "global")
	in.realm = builtins.RegisterAll(global, builtins.Host{Stdout: in.stdout, Stderr: in.stderr})
	in.ctx = newContext(in.realm, in.cfg, in.logger)
	in.realm.Compile = in.ctx.compile
	in.bindConfigGlobals()
	return in
}

// Global returns the global object so hosts can pre-populate it.
func (in *Interpreter) Global() *runtime.Object {
	return in.realm.Global
}

func (in *Interpreter) Realm() *builtins.Realm {
	return in.realm
}

func (in *Interpreter) Context() *Context {
	return in.ctx
}

// RegisterNative binds a native Go function as a global function.
func (in *Interpreter) RegisterNative(name string, fn runtime.CallableFunc) {
	in.realm.Global.Define(name, runtime.NewObject(in.realm.NewNative(name, 0, fn)), runtime.DontEnum)
}

func (in *Interpreter) Parse(tokens []token.Token) (*ast.Block, error) {
	return parser.Parse(tokens, parser.WithMaxDepth(in.cfg.MaxParseDepth))
}

// Run executes a parsed program. The result is the value of the last
// expression statement evaluated, or the returned value, or undefined.
func (in *Interpreter) Run(program *ast.Block) (*runtime.Value, error) {
	in.logger.Debug("program start", "statements", len(program.Body))
	completion, err := in.ctx.Run(program)
	if err != nil {
		in.logger.Debug("program failed", "error", err)
		return nil, err
	}
	result := completion.Completion.Value
	if result == nil {
		result = runtime.Undefined
	}
	in.logger.Debug("program finish", "completion", completion.Completion.Type, "result", result.ToString())
	return result, nil
}

// Interrupt stops the program running on another goroutine at its next
// expression. The interpreter stays interrupted: every later run fails with
// ErrInterrupted.
func (in *Interpreter) Interrupt() {
	in.ctx.interrupted.Store(true)
}

// EvalTokens parses and runs an already-lexed program.
func (in *Interpreter) EvalTokens(tokens []token.Token) (*runtime.Value, error) {
	program, err := in.Parse(tokens)
	if err != nil {
		return nil, err
	}
	return in.Run(program)
}

// Eval lexes, parses and runs source text.
func (in *Interpreter) Eval(source string) (*runtime.Value, error) {
	program, err := parser.ParseSource(source, parser.WithMaxDepth(in.cfg.MaxParseDepth))
	if err != nil {
		return nil, err
	}
	return in.Run(program)
}

func (in *Interpreter) bindConfigGlobals() {
	attrs := runtime.DontDelete
	if !in.cfg.WritableGlobals {
		attrs |= runtime.ReadOnly
	}
	names := make([]string, 0, len(in.cfg.Globals))
	for name := range in.cfg.Globals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		in.realm.Global.Define(name, in.hostValue(in.cfg.Globals[name]), attrs)
	}
}

// hostValue converts decoded configuration data into an engine value. Lists
// become array-like objects with indexed properties and a length.
func (in *Interpreter) hostValue(v any) *runtime.Value {
	switch v := v.(type) {
	case nil:
		return runtime.Null
	case bool:
		return runtime.NewBool(v)
	case int:
		return runtime.NewNumber(float64(v))
	case int64:
		return runtime.NewNumber(float64(v))
	case uint64:
		return runtime.NewNumber(float64(v))
	case float64:
		return runtime.NewNumber(v)
	case string:
		return runtime.NewString(v)
	case []any:
		obj := in.realm.NewObject()
		obj.Class = "Array"
		for i, item := range v {
			obj.Put(fmt.Sprint(i), in.hostValue(item), 0)
		}
		obj.Define("length", runtime.NewNumber(float64(len(v))), runtime.DontEnum|runtime.DontDelete)
		return runtime.NewObject(obj)
	case map[string]any:
		obj := in.realm.NewObject()
		for k, item := range v {
			obj.Put(k, in.hostValue(item), 0)
		}
		return runtime.NewObject(obj)
	default:
		return runtime.NewString(fmt.Sprint(v))
	}
}

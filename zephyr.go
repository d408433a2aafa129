// Package zephyr embeds the zephyr scripting language in Go programs.
//
// An Engine holds a persistent interpreter: bindings made by one Eval call
// are visible to the next, which is what a REPL or a long-lived host wants.
//
//	eng := zephyr.New()
//	eng.Register("greet", func(args []zephyr.Value) (zephyr.Value, error) {
//		return zephyr.String("hello"), nil
//	})
//	val, err := eng.Eval(`greet()`)
package zephyr

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"zephyr-lang/internal/diag"
	"zephyr-lang/internal/lexer"
	"zephyr-lang/internal/parser"
	"zephyr-lang/internal/runtime"
)

// Value is a zephyr runtime value as seen by hosts.
type Value = runtime.Value

// NativeFn is a Go function callable from scripts.
type NativeFn = runtime.NativeFn

// ModuleResolver loads a module value for a require() spec the runtime does
// not provide itself.
type ModuleResolver = runtime.ModuleResolver

// Convenience constructors for host-built values.
func Number(f float64) Value { return runtime.NumberVal(f) }
func String(s string) Value  { return runtime.StringVal(s) }
func Bool(b bool) Value      { return runtime.BoolVal(b) }
func Undefined() Value       { return runtime.UndefinedVal{} }

// NewObject creates an empty object value for host-built modules.
func NewObject() *runtime.ObjectVal { return runtime.NewObject() }

// Engine is a persistent zephyr interpreter with a host-facing surface.
type Engine struct {
	interp *runtime.Interpreter
}

// Option configures an Engine.
type Option func(*config)

type config struct {
	runtimeOpts []runtime.Option
}

// WithOutput directs console.log output of the engine.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		c.runtimeOpts = append(c.runtimeOpts, runtime.WithOutput(w))
	}
}

// WithErrorOutput directs console.error output of the engine.
func WithErrorOutput(w io.Writer) Option {
	return func(c *config) {
		c.runtimeOpts = append(c.runtimeOpts, runtime.WithErrorOutput(w))
	}
}

// WithModuleResolver installs a resolver for require() specs beyond the
// builtin modules.
func WithModuleResolver(r ModuleResolver) Option {
	return func(c *config) {
		c.runtimeOpts = append(c.runtimeOpts, runtime.WithModuleResolver(r))
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Engine{interp: runtime.NewInterpreter(cfg.runtimeOpts...)}
}

// Eval runs source against the engine's interpreter and returns the value of
// the last statement. Any lex or parse diagnostic aborts before execution.
func (e *Engine) Eval(source string) (Value, error) {
	return e.EvalFile(source, "<eval>")
}

// EvalFile is Eval with a file name for diagnostics.
func (e *Engine) EvalFile(source, filename string) (Value, error) {
	l := lexer.New(source, filename)
	tokens, lexDiags := l.Tokenize()
	if diag.HasErrors(lexDiags) {
		return nil, diagError(lexDiags)
	}
	p := parser.New(tokens)
	prog, parseDiags := p.ParseProgram()
	if diag.HasErrors(parseDiags) {
		return nil, diagError(parseDiags)
	}
	return e.interp.Run(prog)
}

// Register exposes a Go function to scripts under name.
func (e *Engine) Register(name string, fn NativeFn) {
	e.interp.Registry().RegisterFn(name, fn)
}

// RegisterModule makes value available to scripts as require(name).
func (e *Engine) RegisterModule(name string, value Value) {
	e.interp.Modules().Register(name, value)
}

func diagError(ds []diag.Diagnostic) error {
	var sb strings.Builder
	for _, d := range ds {
		if d.Severity != diag.Error {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s", d)
	}
	return errors.New(sb.String())
}

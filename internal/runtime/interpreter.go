package runtime

import (
	"fmt"
	"io"
	"math"
	"os"

	"zephyr-lang/internal/ast"
	"zephyr-lang/internal/span"
	"zephyr-lang/internal/token"
)

// ============================================================
// Control flow signals
// ============================================================

// ExecSignal represents a control flow signal from statement execution.
type ExecSignal int

const (
	SigNone   ExecSignal = iota
	SigReturn            // return from function
)

// ExecResult carries the statement's value and a control flow signal.
// For SigReturn the value is the returned value.
type ExecResult struct {
	Signal ExecSignal
	Value  Value
}

func valueResult(v Value) ExecResult {
	return ExecResult{Signal: SigNone, Value: v}
}

var resultUndefined = ExecResult{Signal: SigNone, Value: UndefinedVal{}}

// ============================================================
// Runtime errors
// ============================================================

// RuntimeError represents a failure during evaluation.
type RuntimeError struct {
	Message string
	Span    span.Span
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error at %d:%d: %s", e.Span.Start.Line, e.Span.Start.Column, e.Message)
}

func runtimeErr(s span.Span, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Message: fmt.Sprintf(format, args...), Span: s}
}

// ThrownError represents a value raised by a throw statement.
type ThrownError struct {
	Value Value
	Span  span.Span
}

func (e *ThrownError) Error() string {
	return fmt.Sprintf("uncaught throw at %d:%d: %s", e.Span.Start.Line, e.Span.Start.Column, e.Value.String())
}

// ============================================================
// Interpreter
// ============================================================

// Interpreter walks the AST and executes it against a persistent
// environment, so repeated Run calls behave like a REPL session.
type Interpreter struct {
	global   *Environment
	env      *Environment
	registry *Registry
	modules  *ModuleRegistry
	out      io.Writer
	errOut   io.Writer
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithOutput directs console output to w.
func WithOutput(w io.Writer) Option {
	return func(i *Interpreter) { i.out = w }
}

// WithErrorOutput directs console error output to w.
func WithErrorOutput(w io.Writer) Option {
	return func(i *Interpreter) { i.errOut = w }
}

// WithModuleResolver installs the host resolver used by require().
func WithModuleResolver(r ModuleResolver) Option {
	return func(i *Interpreter) { i.modules.SetResolver(r) }
}

// NewInterpreter creates an interpreter with all native functions and
// builtin modules registered.
func NewInterpreter(opts ...Option) *Interpreter {
	global := NewEnvironment(nil)
	i := &Interpreter{
		global:   global,
		env:      global,
		registry: NewRegistry(),
		modules:  NewModuleRegistry(),
		out:      os.Stdout,
		errOut:   os.Stderr,
	}
	for _, opt := range opts {
		opt(i)
	}

	registerConsole(i)
	registerFS(i)
	registerHTTP(i)
	registerPath(i)
	registerEnv(i)
	i.registry.RegisterFn("require", i.requireFn)

	// Predeclared globals: the console module object and require itself.
	consoleMod, _ := i.modules.Resolve("console")
	global.Define("console", consoleMod)
	global.Define("require", FuncRefVal{Name: "require"})

	return i
}

// Registry exposes the native function registry for hosts.
func (i *Interpreter) Registry() *Registry { return i.registry }

// Modules exposes the module registry for hosts.
func (i *Interpreter) Modules() *ModuleRegistry { return i.modules }

// Env returns the current environment (useful for the REPL).
func (i *Interpreter) Env() *Environment { return i.env }

// Run executes a program and returns the last statement's value. A
// top-level return ends execution early with the returned value.
func (i *Interpreter) Run(prog *ast.Program) (Value, error) {
	var last Value = UndefinedVal{}
	for _, stmt := range prog.Body {
		result, err := i.execStmt(stmt)
		if err != nil {
			return nil, err
		}
		if result.Signal == SigReturn {
			return result.Value, nil
		}
		last = result.Value
	}
	return last, nil
}

// ============================================================
// Statement execution
// ============================================================

func (i *Interpreter) execStmt(stmt ast.Stmt) (ExecResult, error) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		val, err := i.evalExpr(s.Expr)
		if err != nil {
			return resultUndefined, err
		}
		return valueResult(val), nil

	case *ast.VarDeclStmt:
		return i.execVarDecl(s)

	case *ast.FuncDeclStmt:
		return i.execFuncDecl(s)

	case *ast.ReturnStmt:
		var val Value = UndefinedVal{}
		if s.Value != nil {
			v, err := i.evalExpr(s.Value)
			if err != nil {
				return resultUndefined, err
			}
			val = v
		}
		return ExecResult{Signal: SigReturn, Value: val}, nil

	case *ast.IfStmt:
		return i.execIf(s)

	case *ast.WhileStmt:
		return i.execWhile(s)

	case *ast.TryStmt:
		return i.execTry(s)

	case *ast.ThrowStmt:
		return i.execThrow(s)

	case *ast.BlockStmt:
		return i.execBlock(s, NewEnvironment(i.env))

	default:
		return resultUndefined, runtimeErr(stmt.GetSpan(), "unhandled statement type: %T", stmt)
	}
}

func (i *Interpreter) execVarDecl(s *ast.VarDeclStmt) (ExecResult, error) {
	var val Value = UndefinedVal{}
	if s.Init != nil {
		v, err := i.evalExpr(s.Init)
		if err != nil {
			return resultUndefined, err
		}
		val = v.Clone()
	}
	// const is accepted but not enforced; redeclaration rebinds.
	i.env.Define(s.Name, val)
	return resultUndefined, nil
}

func (i *Interpreter) execFuncDecl(s *ast.FuncDeclStmt) (ExecResult, error) {
	fn := &FuncVal{
		Name:    s.Name,
		Params:  s.Params,
		Body:    s.Body,
		Closure: i.env,
		IsAsync: s.IsAsync,
	}
	i.env.Define(s.Name, fn)
	return resultUndefined, nil
}

func (i *Interpreter) execIf(s *ast.IfStmt) (ExecResult, error) {
	cond, err := i.evalExpr(s.Condition)
	if err != nil {
		return resultUndefined, err
	}

	if IsTruthy(cond) {
		return i.execBranch(s.Then)
	}
	if s.Else != nil {
		return i.execBranch(s.Else)
	}
	return resultUndefined, nil
}

// execBranch runs an if/while branch. A braced branch gets its own scope;
// a bare statement runs in the enclosing one.
func (i *Interpreter) execBranch(stmt ast.Stmt) (ExecResult, error) {
	if block, ok := stmt.(*ast.BlockStmt); ok {
		return i.execBlock(block, NewEnvironment(i.env))
	}
	return i.execStmt(stmt)
}

func (i *Interpreter) execWhile(s *ast.WhileStmt) (ExecResult, error) {
	for {
		cond, err := i.evalExpr(s.Condition)
		if err != nil {
			return resultUndefined, err
		}
		if !IsTruthy(cond) {
			break
		}

		result, err := i.execBranch(s.Body)
		if err != nil {
			return resultUndefined, err
		}
		if result.Signal == SigReturn {
			return result, nil // propagate non-local return
		}
	}
	return resultUndefined, nil
}

// execBlock runs a block in blockEnv and yields the last statement's value.
func (i *Interpreter) execBlock(block *ast.BlockStmt, blockEnv *Environment) (ExecResult, error) {
	prevEnv := i.env
	i.env = blockEnv
	defer func() { i.env = prevEnv }()

	last := resultUndefined
	for _, stmt := range block.Stmts {
		result, err := i.execStmt(stmt)
		if err != nil {
			return resultUndefined, err
		}
		if result.Signal != SigNone {
			return result, nil // propagate signal
		}
		last = result
	}
	return last, nil
}

func (i *Interpreter) execTry(s *ast.TryStmt) (ExecResult, error) {
	result, err := i.execBlock(s.Body, NewEnvironment(i.env))
	if err == nil {
		return result, nil
	}

	if s.CatchBody == nil {
		return resultUndefined, err // no catch clause, re-raise
	}

	// The catch parameter binds to the display form of what was raised.
	var errVal Value
	switch e := err.(type) {
	case *ThrownError:
		errVal = StringVal(e.Value.String())
	case *RuntimeError:
		errVal = StringVal(e.Message)
	default:
		errVal = StringVal(err.Error())
	}

	catchEnv := NewEnvironment(i.env)
	if s.CatchParam != "" {
		catchEnv.Define(s.CatchParam, errVal)
	}
	return i.execBlock(s.CatchBody, catchEnv)
}

func (i *Interpreter) execThrow(s *ast.ThrowStmt) (ExecResult, error) {
	val, err := i.evalExpr(s.Value)
	if err != nil {
		return resultUndefined, err
	}
	return resultUndefined, &ThrownError{Value: val, Span: s.GetSpan()}
}

// ============================================================
// Expression evaluation
// ============================================================

func (i *Interpreter) evalExpr(expr ast.Expr) (Value, error) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return NumberVal(e.Value), nil
	case *ast.StringLiteral:
		return StringVal(e.Value), nil
	case *ast.BoolLiteral:
		return BoolVal(e.Value), nil
	case *ast.NullLiteral:
		return NullVal{}, nil
	case *ast.UndefinedLiteral:
		return UndefinedVal{}, nil
	case *ast.IdentExpr:
		return i.evalIdent(e)
	case *ast.BinaryExpr:
		return i.evalBinary(e)
	case *ast.AssignExpr:
		return i.evalAssign(e)
	case *ast.CallExpr:
		return i.evalCall(e)
	case *ast.MemberExpr:
		return i.evalMember(e)
	case *ast.IndexExpr:
		return i.evalIndex(e)
	case *ast.ArrayLiteral:
		return i.evalArrayLiteral(e)
	case *ast.ObjectLiteral:
		return i.evalObjectLiteral(e)
	case *ast.AwaitExpr:
		// await is a synchronous pass-through
		return i.evalExpr(e.Operand)
	default:
		return nil, runtimeErr(expr.GetSpan(), "unhandled expression type: %T", expr)
	}
}

func (i *Interpreter) evalIdent(e *ast.IdentExpr) (Value, error) {
	if val, ok := i.env.Get(e.Name); ok {
		return val, nil
	}
	return nil, runtimeErr(e.GetSpan(), "undefined variable '%s'", e.Name)
}

func (i *Interpreter) evalAssign(e *ast.AssignExpr) (Value, error) {
	val, err := i.evalExpr(e.Value)
	if err != nil {
		return nil, err
	}
	copied := val.Clone()
	i.env.Assign(e.Name, copied)
	return copied, nil
}

func (i *Interpreter) evalBinary(e *ast.BinaryExpr) (Value, error) {
	// Both operands always evaluate; && and || do not short-circuit.
	left, err := i.evalExpr(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evalExpr(e.Right)
	if err != nil {
		return nil, err
	}

	switch l := left.(type) {
	case NumberVal:
		switch r := right.(type) {
		case NumberVal:
			return numberOp(e, float64(l), float64(r))
		case StringVal:
			if e.Op == token.PLUS {
				return StringVal(l.String() + string(r)), nil
			}
		}
	case StringVal:
		switch r := right.(type) {
		case StringVal:
			switch e.Op {
			case token.PLUS:
				return StringVal(string(l) + string(r)), nil
			case token.EQ:
				return BoolVal(string(l) == string(r)), nil
			case token.NEQ:
				return BoolVal(string(l) != string(r)), nil
			}
		case NumberVal:
			if e.Op == token.PLUS {
				return StringVal(string(l) + r.String()), nil
			}
		}
	case BoolVal:
		if r, ok := right.(BoolVal); ok {
			switch e.Op {
			case token.AND:
				return BoolVal(bool(l) && bool(r)), nil
			case token.OR:
				return BoolVal(bool(l) || bool(r)), nil
			case token.EQ:
				return BoolVal(bool(l) == bool(r)), nil
			case token.NEQ:
				return BoolVal(bool(l) != bool(r)), nil
			}
		}
	}

	return nil, runtimeErr(e.GetSpan(), "type mismatch: cannot apply '%s' to '%s' and '%s'",
		e.Op, left.TypeName(), right.TypeName())
}

// numberOp applies a binary operator to two numbers. Arithmetic follows
// IEEE-754: dividing by zero yields an infinity or NaN, never an error.
func numberOp(e *ast.BinaryExpr, l, r float64) (Value, error) {
	switch e.Op {
	case token.PLUS:
		return NumberVal(l + r), nil
	case token.MINUS:
		return NumberVal(l - r), nil
	case token.STAR:
		return NumberVal(l * r), nil
	case token.SLASH:
		return NumberVal(l / r), nil
	case token.PERCENT:
		return NumberVal(math.Mod(l, r)), nil
	case token.EQ:
		return BoolVal(l == r), nil
	case token.NEQ:
		return BoolVal(l != r), nil
	case token.LT:
		return BoolVal(l < r), nil
	case token.LTE:
		return BoolVal(l <= r), nil
	case token.GT:
		return BoolVal(l > r), nil
	case token.GTE:
		return BoolVal(l >= r), nil
	default:
		return nil, runtimeErr(e.GetSpan(), "type mismatch: cannot apply '%s' to 'number' and 'number'", e.Op)
	}
}

// ============================================================
// Calls
// ============================================================

func (i *Interpreter) evalCall(e *ast.CallExpr) (Value, error) {
	// Arguments evaluate left to right before the callee resolves, so
	// argument side effects happen even when the lookup fails.
	args := make([]Value, len(e.Args))
	for idx, argExpr := range e.Args {
		val, err := i.evalExpr(argExpr)
		if err != nil {
			return nil, err
		}
		args[idx] = val.Clone()
	}

	switch callee := e.Callee.(type) {
	case *ast.IdentExpr:
		return i.callNamed(callee.Name, args, e.GetSpan())

	case *ast.MemberExpr:
		if obj, ok := callee.Object.(*ast.IdentExpr); ok {
			return i.callMember(obj.Name, callee.Property, args, e.GetSpan())
		}
		return nil, runtimeErr(e.GetSpan(), "unsupported call target")

	default:
		return nil, runtimeErr(e.GetSpan(), "unsupported call target")
	}
}

// callNamed resolves a bare-identifier call: the scope chain first (user
// functions, rebound natives), then the native registry.
func (i *Interpreter) callNamed(name string, args []Value, s span.Span) (Value, error) {
	if val, ok := i.env.Get(name); ok {
		switch fn := val.(type) {
		case *FuncVal:
			return i.callFunction(fn, args)
		case FuncRefVal:
			return i.callRegistered(fn.Name, args, s)
		case Callable:
			return fn.Call(args)
		}
		// Fall through: the name is bound to a non-callable, but a native
		// of the same name may still exist.
	}
	return i.callRegistered(name, args, s)
}

// callMember resolves obj.prop(...). If obj is bound to an object whose
// property is callable, that wins; otherwise the call dispatches through
// the synthesized registry key "obj_prop".
func (i *Interpreter) callMember(objName, prop string, args []Value, s span.Span) (Value, error) {
	if val, ok := i.env.Get(objName); ok {
		if obj, ok := val.(*ObjectVal); ok {
			switch fn := obj.Props[prop].(type) {
			case *FuncVal:
				return i.callFunction(fn, args)
			case FuncRefVal:
				return i.callRegistered(fn.Name, args, s)
			case Callable:
				return fn.Call(args)
			}
		}
	}
	return i.callRegistered(objName+"_"+prop, args, s)
}

func (i *Interpreter) callRegistered(name string, args []Value, s span.Span) (Value, error) {
	fn, ok := i.registry.Lookup(name)
	if !ok {
		return nil, runtimeErr(s, "undefined function '%s'", name)
	}
	val, err := fn.Call(args)
	if err != nil {
		if _, isRT := err.(*RuntimeError); isRT {
			return nil, err
		}
		if _, isThrown := err.(*ThrownError); isThrown {
			return nil, err
		}
		return nil, runtimeErr(s, "%s: %s", name, err)
	}
	if val == nil {
		val = UndefinedVal{}
	}
	return val, nil
}

// callFunction invokes a user closure. Parameters bind positionally into
// a fresh scope on the closure; missing arguments become undefined and
// extras are ignored. Without an explicit return the body's last
// statement value is the result.
func (i *Interpreter) callFunction(fn *FuncVal, args []Value) (Value, error) {
	funcEnv := NewEnvironment(fn.Closure)
	for idx, param := range fn.Params {
		if idx < len(args) {
			funcEnv.Define(param, args[idx])
		} else {
			funcEnv.Define(param, UndefinedVal{})
		}
	}

	result, err := i.execBlock(fn.Body, funcEnv)
	if err != nil {
		return nil, err
	}
	return result.Value, nil
}

// ============================================================
// Member / index access
// ============================================================

func (i *Interpreter) evalMember(e *ast.MemberExpr) (Value, error) {
	obj, err := i.evalExpr(e.Object)
	if err != nil {
		return nil, err
	}

	if o, ok := obj.(*ObjectVal); ok {
		if val, exists := o.Props[e.Property]; exists {
			return val, nil
		}
	}
	// Missing property or member access on a non-object is undefined,
	// never an error.
	return UndefinedVal{}, nil
}

func (i *Interpreter) evalIndex(e *ast.IndexExpr) (Value, error) {
	obj, err := i.evalExpr(e.Object)
	if err != nil {
		return nil, err
	}
	idx, err := i.evalExpr(e.Index)
	if err != nil {
		return nil, err
	}

	switch o := obj.(type) {
	case *ArrayVal:
		if n, ok := idx.(NumberVal); ok {
			pos := int(float64(n)) // fractional indices truncate
			if pos >= 0 && pos < len(o.Elements) {
				return o.Elements[pos], nil
			}
		}
	case *ObjectVal:
		if key, ok := idx.(StringVal); ok {
			if val, exists := o.Props[string(key)]; exists {
				return val, nil
			}
		}
	}
	return UndefinedVal{}, nil
}

// ============================================================
// Literals
// ============================================================

func (i *Interpreter) evalArrayLiteral(e *ast.ArrayLiteral) (Value, error) {
	elements := make([]Value, len(e.Elements))
	for idx, elemExpr := range e.Elements {
		val, err := i.evalExpr(elemExpr)
		if err != nil {
			return nil, err
		}
		elements[idx] = val
	}
	return &ArrayVal{Elements: elements}, nil
}

func (i *Interpreter) evalObjectLiteral(e *ast.ObjectLiteral) (Value, error) {
	obj := NewObject()
	for idx, key := range e.Keys {
		val, err := i.evalExpr(e.Values[idx])
		if err != nil {
			return nil, err
		}
		obj.Props[key] = val
	}
	return obj, nil
}

// ============================================================
// require
// ============================================================

func (i *Interpreter) requireFn(args []Value) (Value, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("require() expects a module name")
	}
	spec, ok := args[0].(StringVal)
	if !ok {
		return nil, fmt.Errorf("require() expects a string, got '%s'", args[0].TypeName())
	}
	return i.modules.Resolve(string(spec))
}

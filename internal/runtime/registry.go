package runtime

import "sync"

// Callable is the single capability shared by user closures and native
// functions: apply to already-evaluated arguments and produce a value.
type Callable interface {
	Call(args []Value) (Value, error)
}

// NativeFn is the Go signature for native functions.
type NativeFn func(args []Value) (Value, error)

// NativeVal wraps a Go function as a callable runtime value.
type NativeVal struct {
	Name string
	Fn   NativeFn
}

func (v *NativeVal) TypeName() string { return "function" }
func (v *NativeVal) String() string   { return "<native " + v.Name + ">" }
func (v *NativeVal) Clone() Value     { return v }

func (v *NativeVal) Call(args []Value) (Value, error) {
	return v.Fn(args)
}

// Registry maps flat names to callables. Member-style calls dispatch
// through synthesized keys such as "console_log", so every native lives
// under one flat namespace. Reads may be concurrent; registration takes
// the write lock and silently overwrites.
type Registry struct {
	mu  sync.RWMutex
	fns map[string]Callable
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{fns: make(map[string]Callable)}
}

// Register binds name to fn, replacing any previous binding.
func (r *Registry) Register(name string, fn Callable) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fns[name] = fn
}

// RegisterFn is a convenience wrapper for registering a Go function.
func (r *Registry) RegisterFn(name string, fn NativeFn) {
	r.Register(name, &NativeVal{Name: name, Fn: fn})
}

// Lookup returns the callable bound to name.
func (r *Registry) Lookup(name string) (Callable, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.fns[name]
	return fn, ok
}

// Names returns a snapshot of all registered names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.fns))
	for name := range r.fns {
		names = append(names, name)
	}
	return names
}

package runtime

import (
	"fmt"
	"sync"
)

// ModuleResolver loads a module for an import spec the registry itself
// does not know. The host (CLI, embedder) supplies one to resolve file
// modules and installed packages.
type ModuleResolver func(spec string) (Value, error)

// ModuleRegistry holds named modules available through require().
type ModuleRegistry struct {
	mu       sync.RWMutex
	modules  map[string]Value
	resolver ModuleResolver
}

// NewModuleRegistry creates a registry preloaded with the builtin modules.
func NewModuleRegistry() *ModuleRegistry {
	m := &ModuleRegistry{modules: make(map[string]Value)}
	for name, members := range builtinModules {
		obj := NewObject()
		for _, member := range members {
			obj.Props[member] = FuncRefVal{Name: name + "_" + member}
		}
		m.modules[name] = obj
	}
	return m
}

// builtinModules lists the members each builtin module exposes. The
// registry key for a member is "<module>_<member>".
var builtinModules = map[string][]string{
	"console": {"log", "error", "warn"},
	"fs":      {"readFile", "writeFile", "exists"},
	"http":    {"createServer", "request"},
	"path":    {"join", "dirname", "basename"},
	"env":     {"get", "load"},
}

// Register makes a module value available under name, replacing any
// previous module of that name.
func (m *ModuleRegistry) Register(name string, module Value) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modules[name] = module
}

// SetResolver installs the host resolver consulted for unknown specs.
func (m *ModuleRegistry) SetResolver(r ModuleResolver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolver = r
}

// Resolve returns the module for spec: registered modules first, then the
// host resolver if one is installed.
func (m *ModuleRegistry) Resolve(spec string) (Value, error) {
	m.mu.RLock()
	mod, ok := m.modules[spec]
	resolver := m.resolver
	m.mu.RUnlock()

	if ok {
		return mod, nil
	}
	if resolver != nil {
		return resolver(spec)
	}
	return nil, fmt.Errorf("module not found: '%s'", spec)
}

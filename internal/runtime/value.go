// Package runtime implements the tree-walking evaluator and runtime value
// system for zephyr.
package runtime

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"zephyr-lang/internal/ast"
)

// Value is the interface for all runtime values.
type Value interface {
	TypeName() string
	String() string
	// Clone returns a deep copy. Binding, assigning, and argument passing
	// copy values, so mutations never flow through a plain copy.
	Clone() Value
}

// ---- Primitive values ----

// UndefinedVal represents undefined.
type UndefinedVal struct{}

func (v UndefinedVal) TypeName() string { return "undefined" }
func (v UndefinedVal) String() string   { return "undefined" }
func (v UndefinedVal) Clone() Value     { return v }

// NullVal represents null.
type NullVal struct{}

func (v NullVal) TypeName() string { return "null" }
func (v NullVal) String() string   { return "null" }
func (v NullVal) Clone() Value     { return v }

// BoolVal represents a boolean value.
type BoolVal bool

func (v BoolVal) TypeName() string { return "boolean" }
func (v BoolVal) String() string   { return strconv.FormatBool(bool(v)) }
func (v BoolVal) Clone() Value     { return v }

// NumberVal represents a numeric value. All numbers are IEEE-754 doubles.
type NumberVal float64

func (v NumberVal) TypeName() string { return "number" }
func (v NumberVal) String() string   { return FormatNumber(float64(v)) }
func (v NumberVal) Clone() Value     { return v }

// StringVal represents a string value.
type StringVal string

func (v StringVal) TypeName() string { return "string" }
func (v StringVal) String() string   { return string(v) }
func (v StringVal) Clone() Value     { return v }

// ---- Composite values ----

// ArrayVal represents an array value.
type ArrayVal struct {
	Elements []Value
}

func (v *ArrayVal) TypeName() string { return "array" }
func (v *ArrayVal) String() string {
	parts := make([]string, len(v.Elements))
	for i, elem := range v.Elements {
		parts[i] = displayElem(elem)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (v *ArrayVal) Clone() Value {
	elements := make([]Value, len(v.Elements))
	for i, elem := range v.Elements {
		elements[i] = elem.Clone()
	}
	return &ArrayVal{Elements: elements}
}

// ObjectVal represents an object: a string-keyed property map.
// Display sorts keys so output is deterministic.
type ObjectVal struct {
	Props map[string]Value
}

// NewObject creates an empty object value.
func NewObject() *ObjectVal {
	return &ObjectVal{Props: make(map[string]Value)}
}

func (v *ObjectVal) TypeName() string { return "object" }
func (v *ObjectVal) String() string {
	keys := make([]string, 0, len(v.Props))
	for k := range v.Props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, displayElem(v.Props[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (v *ObjectVal) Clone() Value {
	props := make(map[string]Value, len(v.Props))
	for k, p := range v.Props {
		props[k] = p.Clone()
	}
	return &ObjectVal{Props: props}
}

// ---- Callable values ----

// FuncVal represents a user-defined function closing over its defining scope.
type FuncVal struct {
	Name    string
	Params  []string
	Body    *ast.BlockStmt
	Closure *Environment
	IsAsync bool
}

func (v *FuncVal) TypeName() string { return "function" }
func (v *FuncVal) String() string   { return fmt.Sprintf("<function %s>", v.Name) }
func (v *FuncVal) Clone() Value     { return v }

// FuncRefVal is a named reference to a native function in the registry.
// Module objects hold these so members stay callable after rebinding.
type FuncRefVal struct {
	Name string
}

func (v FuncRefVal) TypeName() string { return "function" }
func (v FuncRefVal) String() string   { return fmt.Sprintf("<native %s>", v.Name) }
func (v FuncRefVal) Clone() Value     { return v }

// ---- Truthiness ----

// IsTruthy reports the truthiness of a value: false, null, undefined,
// zero, and the empty string are falsy; everything else is truthy.
func IsTruthy(v Value) bool {
	switch val := v.(type) {
	case UndefinedVal:
		return false
	case NullVal:
		return false
	case BoolVal:
		return bool(val)
	case NumberVal:
		return float64(val) != 0
	case StringVal:
		return string(val) != ""
	default:
		return true
	}
}

// ---- Helpers ----

// FormatNumber renders a number without a trailing ".0" for whole values
// and with the shortest decimal form that round-trips.
func FormatNumber(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// displayElem renders a value nested inside an array or object display;
// strings are quoted there, unlike at top level.
func displayElem(v Value) string {
	if s, ok := v.(StringVal); ok {
		return strconv.Quote(string(s))
	}
	return v.String()
}

// ValuesString formats a slice of values with a separator.
func ValuesString(vals []Value, sep string) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = v.String()
	}
	return strings.Join(parts, sep)
}

package runtime

import (
	"sort"
)

// Environment is a flat name to value mapping. Scopes are not chained: a
// function call runs in a Clone of the environment it was declared in, so
// rebinding a name inside the call never reaches the caller.
type Environment struct {
	values map[string]Value
}

// NewEnvironment creates an empty environment.
func NewEnvironment() *Environment {
	return &Environment{values: make(map[string]Value)}
}

// Snapshot returns a copy of the current bindings.
func (e *Environment) Snapshot() map[string]Value {
	out := make(map[string]Value, len(e.values))
	for k, v := range e.values {
		out[k] = v
	}
	return out
}

// Clone returns a shallow copy. Containers stay shared between the two.
func (e *Environment) Clone() *Environment {
	return &Environment{values: e.Snapshot()}
}

// Define inserts or overwrites a binding.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Get retrieves a binding.
func (e *Environment) Get(name string) (Value, bool) {
	v, ok := e.values[name]
	return v, ok
}

// Delete removes a binding if present.
func (e *Environment) Delete(name string) {
	delete(e.values, name)
}

// Merge copies every binding of other into e, overwriting duplicates.
func (e *Environment) Merge(other *Environment) {
	for k, v := range other.values {
		e.values[k] = v
	}
}

// Update writes every given binding back, leaving names absent from bindings
// untouched.
func (e *Environment) Update(bindings map[string]Value) {
	for k, v := range bindings {
		e.values[k] = v
	}
}

// Keys returns the bindings in sorted order (useful for determinism in tests).
func (e *Environment) Keys() []string {
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (e *Environment) Len() int { return len(e.values) }

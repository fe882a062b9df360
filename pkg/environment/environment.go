// Package environment implements the lexically scoped chain of
// name-to-value bindings used by pkg/interpreter.
//
// Grounded on original_source/loxrustlib/src/environment.rs: two
// parallel namespaces (variables and callables), a parent pointer
// forming the scope chain, and a "declared but uninitialized" state
// distinct from a variable bound to nil.
package environment

import "fmt"

// binding holds a variable's value together with whether it has ever
// been assigned. A declared-but-never-initialized variable has
// initialized == false; reading it is a different error than reading
// a name that was never declared at all.
type binding struct {
	value       interface{}
	initialized bool
}

// Environment is one frame of the lexical scope chain.
type Environment struct {
	parent    *Environment
	variables map[string]*binding
	callables map[string]interface{}
}

// New creates a new environment. parent may be nil for the global
// environment.
func New(parent *Environment) *Environment {
	return &Environment{
		parent:    parent,
		variables: make(map[string]*binding),
		callables: make(map[string]interface{}),
	}
}

// Parent returns the enclosing environment, or nil for the global
// environment.
func (e *Environment) Parent() *Environment { return e.parent }

// Define creates or overwrites a variable binding in this frame.
// value may be nil with initialized=false to model a declaration
// without an initializer (`var x;`).
func (e *Environment) Define(name string, value interface{}, initialized bool) {
	e.variables[name] = &binding{value: value, initialized: initialized}
}

// Assign walks the chain outward until it finds an existing binding
// for name and overwrites it there. It returns an error if no such
// binding exists anywhere on the chain — assignment never creates.
func (e *Environment) Assign(name string, value interface{}) error {
	if b, ok := e.variables[name]; ok {
		b.value = value
		b.initialized = true
		return nil
	}
	if e.parent != nil {
		return e.parent.Assign(name, value)
	}
	return fmt.Errorf("assignment to undeclared variable '%s'", name)
}

// Get walks the chain looking for name. ok is false if the name is
// not declared anywhere on the chain. If the name is declared but was
// never initialized, Get returns (nil, false, true) — callers use the
// third return value to distinguish "undeclared" from "uninitialized".
func (e *Environment) Get(name string) (value interface{}, ok bool, declared bool) {
	if b, found := e.variables[name]; found {
		if !b.initialized {
			return nil, false, true
		}
		return b.value, true, true
	}
	if e.parent != nil {
		return e.parent.Get(name)
	}
	return nil, false, false
}

// DefineCallable installs a callable under name in this frame's
// callable namespace.
func (e *Environment) DefineCallable(name string, callable interface{}) {
	e.callables[name] = callable
}

// GetCallable walks the chain for a callable bound to name.
func (e *Environment) GetCallable(name string) (interface{}, bool) {
	if c, ok := e.callables[name]; ok {
		return c, true
	}
	if e.parent != nil {
		return e.parent.GetCallable(name)
	}
	return nil, false
}

// HasCallable reports whether this frame (not its ancestors) already
// names a callable, used to detect re-declaration within one scope.
func (e *Environment) HasCallable(name string) bool {
	_, ok := e.callables[name]
	return ok
}

// ancestor walks up distance parents. A resolver-computed depth that
// does not match the live chain (should not happen if the resolver
// and interpreter agree) panics rather than silently misbehaving.
func (e *Environment) ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		if env.parent == nil {
			panic(fmt.Sprintf("environment: no ancestor at distance %d", distance))
		}
		env = env.parent
	}
	return env
}

// GetAt performs a depth-scoped variable lookup: skip distance
// parents, then look up name in that exact frame. Used when the
// resolver has determined the lexical depth statically.
func (e *Environment) GetAt(distance int, name string) (value interface{}, declared bool) {
	b, ok := e.ancestor(distance).variables[name]
	if !ok || !b.initialized {
		return nil, false
	}
	return b.value, true
}

// GetCallableAt performs a depth-scoped callable lookup.
func (e *Environment) GetCallableAt(distance int, name string) (interface{}, bool) {
	c, ok := e.ancestor(distance).callables[name]
	return c, ok
}

// AssignAt performs a depth-scoped assignment: skip distance parents,
// then write name in that exact frame.
func (e *Environment) AssignAt(distance int, name string, value interface{}) {
	e.ancestor(distance).variables[name] = &binding{value: value, initialized: true}
}

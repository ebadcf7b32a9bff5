package object

import "log/slog"

// Environment is one link of the lexical scope chain: a binding table plus an
// optional enclosing environment. Environments are shared by reference;
// closures keep their defining environment alive and observe later mutations
// to it.
type Environment struct {
	store map[string]Object
	outer *Environment
}

func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]Object)}
}

// NewEnclosedEnvironment creates a child environment. The child holds a
// plain reference to its parent; the parent must outlive every child and
// every closure that captured it.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

// Define inserts or overwrites a binding in this environment only. Shadowing
// happens across environments, never within one.
func (e *Environment) Define(name string, val Object) Object {
	slog.Debug("define binding",
		slog.String("name", name),
		slog.String("type", string(val.Type())))
	e.store[name] = val
	return val
}

// Get resolves a name against this environment, delegating to the enclosing
// chain on a local miss.
func (e *Environment) Get(name string) (Object, bool) {
	val, ok := e.store[name]
	if ok {
		return val, true
	}
	if e.outer != nil {
		return e.outer.Get(name)
	}
	return nil, false
}

// Assign overwrites the binding in the nearest enclosing environment that
// already defines the name. It reports false when no environment in the
// chain does; assignment never creates a binding.
func (e *Environment) Assign(name string, val Object) (Object, bool) {
	if _, ok := e.store[name]; ok {
		slog.Debug("assign binding",
			slog.String("name", name),
			slog.String("type", string(val.Type())))
		e.store[name] = val
		return val, true
	}
	if e.outer != nil {
		return e.outer.Assign(name, val)
	}
	return nil, false
}

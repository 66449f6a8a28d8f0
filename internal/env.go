package internal

// env is one scope in a chain of scopes. Closures and active calls
// may share the same env, so a define or assign is seen by all of them.
type env struct {
	enclosing *env
	values    map[string]interface{}
}

func newEnv(enclosing *env) *env {
	return &env{
		enclosing: enclosing,
		values:    make(map[string]interface{}),
	}
}

func (e *env) get(name *Token) (interface{}, error) {
	for scope := e; scope != nil; scope = scope.enclosing {
		if value, ok := scope.values[name.lexeme]; ok {
			return value, nil
		}
	}
	return nil, newRuntimeError(name, errUndefinedVar, "Undefined variable '%s'.", name.lexeme)
}

// define binds name in this scope only, replacing any previous binding
func (e *env) define(name string, value interface{}) {
	e.values[name] = value
}

// assign never creates a binding: name must already exist somewhere in the chain
func (e *env) assign(name *Token, value interface{}) error {
	for scope := e; scope != nil; scope = scope.enclosing {
		if _, ok := scope.values[name.lexeme]; ok {
			scope.values[name.lexeme] = value
			return nil
		}
	}
	return newRuntimeError(name, errUndefinedVar, "Undefined variable '%s'.", name.lexeme)
}

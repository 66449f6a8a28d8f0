package internal

import "fmt"

type callable interface {
	arity() int
	call(exec *exec, arguments []interface{}) (interface{}, error)
}

// returnValue carries the value of a return statement out of the
// enclosing function body. It is a control transfer, not an error.
type returnValue struct {
	value interface{}
}

type loxFunction struct {
	declaration *fnStmt
	closure     *env
}

func (f *loxFunction) arity() int {
	return len(f.declaration.params)
}

func (f *loxFunction) call(exec *exec, arguments []interface{}) (interface{}, error) {
	env := newEnv(f.closure)
	for i := range f.declaration.params {
		env.define(f.declaration.params[i].lexeme, arguments[i])
	}

	ret, err := exec.executeBlock(f.declaration.body, env)
	if err != nil {
		return nil, err
	}
	if ret != nil {
		return ret.value, nil
	}
	return nil, nil
}

// bind returns a copy of f whose closure defines "this" as instance
func (f *loxFunction) bind(instance *loxInstance) *loxFunction {
	environment := newEnv(f.closure)
	environment.define("this", instance)
	return &loxFunction{
		declaration: f.declaration,
		closure:     environment,
	}
}

func (f *loxFunction) String() string {
	return fmt.Sprintf("<fn %s>", f.declaration.name.lexeme)
}

// NativeFunc implements a function provided by the embedder
type NativeFunc func(arguments []interface{}) (interface{}, error)

type nativeFn struct {
	name       string
	arityValue int
	callFn     NativeFunc
}

func (n *nativeFn) arity() int {
	return n.arityValue
}

func (n *nativeFn) call(exec *exec, arguments []interface{}) (interface{}, error) {
	return n.callFn(arguments)
}

func (n *nativeFn) String() string {
	return "<native fn>"
}

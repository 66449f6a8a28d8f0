package internal

import "fmt"

type loxClass struct {
	name    string
	methods map[string]*loxFunction
}

// findMethod looks name up in this class only
func (c *loxClass) findMethod(name string) *loxFunction {
	if method, ok := c.methods[name]; ok {
		return method
	}
	return nil
}

// arity is always zero: instances are created without arguments
func (c *loxClass) arity() int {
	return 0
}

func (c *loxClass) call(exec *exec, arguments []interface{}) (interface{}, error) {
	return &loxInstance{
		class:  c,
		fields: make(map[string]interface{}),
	}, nil
}

func (c *loxClass) String() string {
	return c.name
}

type loxInstance struct {
	class  *loxClass
	fields map[string]interface{}
}

// get returns a field, or else a method of the class freshly bound to o
func (o *loxInstance) get(name *Token) (interface{}, error) {
	if val, ok := o.fields[name.lexeme]; ok {
		return val, nil
	}
	if method := o.class.findMethod(name.lexeme); method != nil {
		return method.bind(o), nil
	}
	return nil, newRuntimeError(name, errUndefinedProp, "Undefined property '%s'.", name.lexeme)
}

func (o *loxInstance) set(name *Token, value interface{}) {
	o.fields[name.lexeme] = value
}

func (o *loxInstance) String() string {
	return fmt.Sprintf("%s instance", o.class.name)
}

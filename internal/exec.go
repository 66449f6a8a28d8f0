package internal

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// maxCallDepth bounds nested calls so runaway recursion is a runtime
// error instead of a Go stack overflow
const maxCallDepth = 1000

type exec struct {
	globals *env
	env     *env
	printer IPrinter
	log     *logrus.Entry
	depth   int
}

func newExec(printer IPrinter, log *logrus.Entry) *exec {
	globals := newEnv(nil)
	return &exec{
		globals: globals,
		env:     globals,
		printer: printer,
		log:     log,
	}
}

// interpret runs stmts in order and stops at the first runtime error.
// A return at the top level ends the program.
func (e *exec) interpret(stmts []stmt) error {
	for _, s := range stmts {
		ret, err := e.execute(s)
		if err != nil {
			return err
		}
		if ret != nil {
			return nil
		}
	}
	return nil
}

// execute runs one statement. A non-nil returnValue means a return
// statement was reached and the rest of the enclosing body must be skipped.
func (e *exec) execute(s stmt) (*returnValue, error) {
	switch s := s.(type) {
	case *exprStmt:
		_, err := e.evaluate(s.expression)
		return nil, err
	case *printStmt:
		return nil, e.executePrint(s)
	case *varStmt:
		return nil, e.executeVar(s)
	case *blockStmt:
		return e.executeBlock(s.stmts, newEnv(e.env))
	case *ifStmt:
		return e.executeIf(s)
	case *whileStmt:
		return e.executeWhile(s)
	case *fnStmt:
		e.env.define(s.name.lexeme, &loxFunction{
			declaration: s,
			closure:     e.env,
		})
		return nil, nil
	case *returnStmt:
		return e.executeReturn(s)
	case *classStmt:
		return nil, e.executeClass(s)
	}
	panic(fmt.Sprintf("unexpected statement %T", s))
}

func (e *exec) executePrint(s *printStmt) error {
	value, err := e.evaluate(s.expression)
	if err != nil {
		return err
	}
	e.printer.Println(stringify(value))
	return nil
}

func (e *exec) executeVar(s *varStmt) error {
	var value interface{}
	if s.initializer != nil {
		var err error
		if value, err = e.evaluate(s.initializer); err != nil {
			return err
		}
	}
	e.env.define(s.name.lexeme, value)
	return nil
}

// executeBlock runs stmts inside env and restores the previous env on every exit path
func (e *exec) executeBlock(stmts []stmt, env *env) (*returnValue, error) {
	previous := e.env
	defer func() {
		e.env = previous
	}()
	e.env = env
	for _, s := range stmts {
		ret, err := e.execute(s)
		if err != nil || ret != nil {
			return ret, err
		}
	}
	return nil, nil
}

func (e *exec) executeIf(s *ifStmt) (*returnValue, error) {
	cond, err := e.evaluate(s.condition)
	if err != nil {
		return nil, err
	}
	if truthy(cond) {
		return e.execute(s.thenBranch)
	}
	if s.elseBranch != nil {
		return e.execute(s.elseBranch)
	}
	return nil, nil
}

func (e *exec) executeWhile(s *whileStmt) (*returnValue, error) {
	for {
		cond, err := e.evaluate(s.condition)
		if err != nil {
			return nil, err
		}
		if !truthy(cond) {
			return nil, nil
		}
		ret, err := e.execute(s.body)
		if err != nil || ret != nil {
			return ret, err
		}
	}
}

func (e *exec) executeReturn(s *returnStmt) (*returnValue, error) {
	var value interface{}
	if s.value != nil {
		var err error
		if value, err = e.evaluate(s.value); err != nil {
			return nil, err
		}
	}
	return &returnValue{value: value}, nil
}

func (e *exec) executeClass(s *classStmt) error {
	e.env.define(s.name.lexeme, nil)

	methods := make(map[string]*loxFunction, len(s.methods))
	for _, method := range s.methods {
		methods[method.name.lexeme] = &loxFunction{
			declaration: method,
			closure:     e.env,
		}
	}

	e.log.WithFields(logrus.Fields{
		"class":   s.name.lexeme,
		"methods": len(methods),
		"line":    s.name.line,
	}).Debug("class declared")

	return e.env.assign(s.name, &loxClass{
		name:    s.name.lexeme,
		methods: methods,
	})
}

func (e *exec) evaluate(x expr) (interface{}, error) {
	switch x := x.(type) {
	case *literalExpr:
		return x.value, nil
	case *groupingExpr:
		return e.evaluate(x.expression)
	case *unaryExpr:
		return e.evaluateUnary(x)
	case *binaryExpr:
		return e.evaluateBinary(x)
	case *logicalExpr:
		return e.evaluateLogical(x)
	case *variableExpr:
		return e.env.get(x.name)
	case *assignExpr:
		value, err := e.evaluate(x.value)
		if err != nil {
			return nil, err
		}
		if err := e.env.assign(x.name, value); err != nil {
			return nil, err
		}
		return value, nil
	case *callExpr:
		return e.evaluateCall(x)
	case *getExpr:
		object, err := e.evaluate(x.object)
		if err != nil {
			return nil, err
		}
		instance, ok := object.(*loxInstance)
		if !ok {
			return nil, runtimeErr(x.name, errOnlyInstanceProps)
		}
		return instance.get(x.name)
	case *setExpr:
		return e.evaluateSet(x)
	case *thisExpr:
		return e.env.get(x.keyword)
	}
	panic(fmt.Sprintf("unexpected expression %T", x))
}

func (e *exec) evaluateUnary(x *unaryExpr) (interface{}, error) {
	value, err := e.evaluate(x.right)
	if err != nil {
		return nil, err
	}
	switch x.operator.token {
	case tkBang:
		return !truthy(value), nil
	case tkMinus:
		valueNum, ok := value.(float64)
		if !ok {
			return nil, runtimeErr(x.operator, errOperandNumber)
		}
		return -valueNum, nil
	}
	panic(fmt.Sprintf("unexpected unary operator %s", x.operator.token))
}

func (e *exec) evaluateBinary(x *binaryExpr) (interface{}, error) {
	left, err := e.evaluate(x.left)
	if err != nil {
		return nil, err
	}
	right, err := e.evaluate(x.right)
	if err != nil {
		return nil, err
	}

	switch x.operator.token {
	case tkEqualEqual:
		return isEqual(left, right), nil
	case tkBangEqual:
		return !isEqual(left, right), nil
	case tkPlus:
		if leftNum, ok := left.(float64); ok {
			if rightNum, ok := right.(float64); ok {
				return leftNum + rightNum, nil
			}
		}
		if leftStr, ok := left.(string); ok {
			if rightStr, ok := right.(string); ok {
				return leftStr + rightStr, nil
			}
		}
		return nil, runtimeErr(x.operator, errOperandsPlus)
	}

	leftNum, rightNum, err := getNums(x.operator, left, right)
	if err != nil {
		return nil, err
	}
	switch x.operator.token {
	case tkGreater:
		return leftNum > rightNum, nil
	case tkGreaterEqual:
		return leftNum >= rightNum, nil
	case tkLess:
		return leftNum < rightNum, nil
	case tkLessEqual:
		return leftNum <= rightNum, nil
	case tkMinus:
		return leftNum - rightNum, nil
	case tkSlash:
		return leftNum / rightNum, nil
	case tkStar:
		return leftNum * rightNum, nil
	}
	panic(fmt.Sprintf("unexpected binary operator %s", x.operator.token))
}

func getNums(operator *Token, left, right interface{}) (float64, float64, error) {
	leftNum, ok := left.(float64)
	if !ok {
		return 0, 0, runtimeErr(operator, errOperandsNumbers)
	}
	rightNum, ok := right.(float64)
	if !ok {
		return 0, 0, runtimeErr(operator, errOperandsNumbers)
	}
	return leftNum, rightNum, nil
}

// evaluateLogical yields whichever operand decided the result, uncoerced
func (e *exec) evaluateLogical(x *logicalExpr) (interface{}, error) {
	left, err := e.evaluate(x.left)
	if err != nil {
		return nil, err
	}
	if x.operator.token == tkOr {
		if truthy(left) {
			return left, nil
		}
	} else if !truthy(left) {
		return left, nil
	}
	return e.evaluate(x.right)
}

func (e *exec) evaluateCall(x *callExpr) (interface{}, error) {
	callee, err := e.evaluate(x.callee)
	if err != nil {
		return nil, err
	}
	arguments := make([]interface{}, len(x.arguments))
	for i := range x.arguments {
		if arguments[i], err = e.evaluate(x.arguments[i]); err != nil {
			return nil, err
		}
	}

	fn, isFn := callee.(callable)
	if !isFn {
		return nil, runtimeErr(x.paren, errOnlyFunction)
	}

	if len(arguments) != fn.arity() {
		return nil, newRuntimeError(
			x.paren,
			errInvalidNumberArguments,
			"Expected %d arguments but got %d.",
			fn.arity(),
			len(arguments),
		)
	}

	if e.log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		e.log.WithFields(logrus.Fields{
			"fn":    calleeName(fn),
			"arity": fn.arity(),
			"line":  x.paren.line,
		}).Debug("call")
	}

	if e.depth >= maxCallDepth {
		return nil, runtimeErr(x.paren, errStackOverflow)
	}
	e.depth++
	defer func() {
		e.depth--
	}()

	value, err := fn.call(e, arguments)
	if err != nil {
		var runErr *RuntimeError
		if !errors.As(err, &runErr) {
			// Natives return plain errors, pin them to the call site
			return nil, newRuntimeError(x.paren, err, "%s", err.Error())
		}
		return nil, err
	}
	return value, nil
}

func calleeName(fn callable) string {
	switch fn := fn.(type) {
	case *loxFunction:
		return fn.declaration.name.lexeme
	case *nativeFn:
		return fn.name
	case *loxClass:
		return fn.name
	}
	return "?"
}

func (e *exec) evaluateSet(x *setExpr) (interface{}, error) {
	object, err := e.evaluate(x.object)
	if err != nil {
		return nil, err
	}
	instance, ok := object.(*loxInstance)
	if !ok {
		return nil, runtimeErr(x.name, errOnlyInstanceFields)
	}
	value, err := e.evaluate(x.value)
	if err != nil {
		return nil, err
	}
	instance.set(x.name, value)
	return value, nil
}

// truthy: nil and false are falsy, everything else is truthy
func truthy(value interface{}) bool {
	if value == nil {
		return false
	}
	if valueBool, isBool := value.(bool); isBool {
		return valueBool
	}
	return true
}

func isEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if !reflect.TypeOf(a).Comparable() || !reflect.TypeOf(b).Comparable() {
		return false
	}
	return a == b
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "nil"
	case float64:
		return formatNumber(v)
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprintf("%v", value)
}

// formatNumber prints integral values without a fraction and switches to
// exponent form below 1e-4 and from 1e16 up, e.g. 1e+21 and 1e-05
func formatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	sci := strconv.FormatFloat(v, 'e', -1, 64)
	exp, err := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if err == nil && v != 0 && (exp < -4 || exp >= 16) {
		return sci
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

package internal

import (
	"errors"
	"fmt"
)

type parseError struct {
	err   error
	line  int
	where string
}

func (e parseError) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %s", e.line, e.where, e.err)
}

// interpreterState stores the state of a single source run
type interpreterState struct {
	source   string
	tokens   []Token
	stmts    []stmt
	errors   []parseError
	reporter Reporter
}

func newInterpreterState(source string, reporter Reporter) *interpreterState {
	return &interpreterState{
		source:   source,
		errors:   make([]parseError, 0),
		reporter: reporter,
	}
}

func (s *interpreterState) setError(err error, line int, where string) parseError {
	pe := parseError{
		err:   err,
		line:  line,
		where: where,
	}
	s.errors = append(s.errors, pe)
	if s.reporter != nil {
		s.reporter.Error(line, where, err.Error())
	}
	return pe
}

// tokenError reports err at tk and keeps going
func (s *interpreterState) tokenError(err error, tk *Token) parseError {
	return s.setError(err, tk.line, location(tk))
}

// fatalError reports err at tk and unwinds the parser to the enclosing declaration
func (s *interpreterState) fatalError(err error, tk *Token) {
	panic(s.tokenError(err, tk))
}

// Valid returns true if no scan or parse error was reported
func (s *interpreterState) Valid() bool {
	return len(s.errors) == 0
}

func location(tk *Token) string {
	if tk.token == tkEOF {
		return " at end"
	}
	return fmt.Sprintf(" at '%s'", tk.lexeme)
}

// ErrCompile is returned when the source could not be scanned or parsed
var ErrCompile = errors.New("compile error")

// Lexer errors
var errUnexpectedChar = errors.New("Unexpected character.")
var errUnterminatedString = errors.New("Unterminated string.")

// Parser errors
var errExpectExpr = errors.New("Expect expression.")
var errUnclosedParen = errors.New("Expect ')' after expression.")
var errUnclosedArguments = errors.New("Expect ')' after arguments.")
var errUnclosedParams = errors.New("Expect ')' after parameters.")
var errUnclosedBlock = errors.New("Expect '}' after block.")
var errUnclosedClass = errors.New("Expect '}' after class body.")
var errExpectClassName = errors.New("Expect class name.")
var errExpectClassBody = errors.New("Expect '{' before class body.")
var errExpectFunctionName = errors.New("Expect function name.")
var errExpectMethodName = errors.New("Expect method name.")
var errExpectParenAfterName = errors.New("Expect '(' after name.")
var errExpectParamName = errors.New("Expect parameter name.")
var errExpectBody = errors.New("Expect '{' before body.")
var errExpectVariableName = errors.New("Expect variable name.")
var errExpectProp = errors.New("Expect property name after '.'.")
var errExpectSemicolonValue = errors.New("Expect ';' after value.")
var errExpectSemicolonExpr = errors.New("Expect ';' after expression.")
var errExpectSemicolonVar = errors.New("Expect ';' after variable declaration.")
var errExpectSemicolonReturn = errors.New("Expect ';' after return value.")
var errExpectSemicolonCond = errors.New("Expect ';' after loop condition.")
var errExpectParenFor = errors.New("Expect '(' after 'for'.")
var errExpectParenForClauses = errors.New("Expect ')' after for clauses.")
var errExpectParenIf = errors.New("Expect '(' after 'if'.")
var errExpectParenIfCond = errors.New("Expect ')' after if condition.")
var errExpectParenWhile = errors.New("Expect '(' after 'while'.")
var errExpectParenWhileCond = errors.New("Expect ')' after condition.")
var errInvalidAssignment = errors.New("Invalid assignment target.")
var errMaxParameters = errors.New("Can't have more than 255 parameters.")
var errMaxArguments = errors.New("Can't have more than 255 arguments.")

// Runtime errors
var errUndefinedVar = errors.New("Undefined variable")
var errUndefinedProp = errors.New("Undefined property")
var errOperandNumber = errors.New("Operand must be a number.")
var errOperandsNumbers = errors.New("Operands must be numbers.")
var errOperandsPlus = errors.New("Operands must be two numbers or two strings.")
var errOnlyFunction = errors.New("Can only call functions and classes.")
var errInvalidNumberArguments = errors.New("Wrong number of arguments")
var errOnlyInstanceProps = errors.New("Only instances have properties.")
var errOnlyInstanceFields = errors.New("Only instances have fields.")
var errStackOverflow = errors.New("Stack overflow.")

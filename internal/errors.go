package internal

import "fmt"

// RuntimeError halts a running program. It points at the token that triggered it.
type RuntimeError struct {
	Token   *Token
	Message string

	err error
}

func newRuntimeError(tk *Token, err error, format string, a ...interface{}) *RuntimeError {
	msg := err.Error()
	if format != "" {
		msg = fmt.Sprintf(format, a...)
	}
	return &RuntimeError{
		Token:   tk,
		Message: msg,
		err:     err,
	}
}

func runtimeErr(tk *Token, err error) *RuntimeError {
	return newRuntimeError(tk, err, "")
}

func (e *RuntimeError) Error() string {
	return e.Message
}

func (e *RuntimeError) Unwrap() error {
	return e.err
}

// Line returns the source line of the offending token
func (e *RuntimeError) Line() int {
	if e.Token == nil {
		return 0
	}
	return e.Token.line
}

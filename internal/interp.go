package internal

import (
	"errors"
	"fmt"
	"io/ioutil"

	"github.com/sirupsen/logrus"
)

// IPrinter printer interface
type IPrinter interface {
	Println(a ...interface{}) (n int, err error)
}

// Reporter receives the diagnostics of a run. Error is called once per
// scan or parse error, RuntimeError once when execution halts.
type Reporter interface {
	Error(line int, where, message string)
	RuntimeError(err *RuntimeError)
}

type stdPrinter struct{}

func (stdPrinter) Println(a ...interface{}) (n int, err error) {
	return fmt.Println(a...)
}

// logReporter is used when the embedder does not supply a Reporter
type logReporter struct {
	log *logrus.Entry
}

func (r logReporter) Error(line int, where, message string) {
	r.log.WithFields(logrus.Fields{"line": line, "where": where}).Error(message)
}

func (r logReporter) RuntimeError(err *RuntimeError) {
	r.log.WithField("line", err.Line()).Error(err.Message)
}

// Interpreter runs programs against a global scope that lives as long as
// the Interpreter, so successive runs see each other's definitions.
type Interpreter struct {
	exec     *exec
	printer  IPrinter
	reporter Reporter
	log      *logrus.Entry
}

// Option configures an Interpreter
type Option func(*Interpreter)

// WithPrinter sets where print statements write
func WithPrinter(p IPrinter) Option {
	return func(i *Interpreter) {
		i.printer = p
	}
}

// WithReporter sets who receives errors
func WithReporter(r Reporter) Option {
	return func(i *Interpreter) {
		i.reporter = r
	}
}

// WithLogger sets the logger used for tracing
func WithLogger(l *logrus.Logger) Option {
	return func(i *Interpreter) {
		i.log = l.WithField("component", "interpreter")
	}
}

// NewInterpreter creates an interpreter with clock already defined
func NewInterpreter(opts ...Option) *Interpreter {
	i := &Interpreter{
		printer: stdPrinter{},
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.log == nil {
		logger := logrus.New()
		logger.SetOutput(ioutil.Discard)
		i.log = logger.WithField("component", "interpreter")
	}
	if i.reporter == nil {
		i.reporter = logReporter{log: i.log}
	}
	i.exec = newExec(i.printer, i.log)
	defineGlobals(i.exec.globals)
	return i
}

// DefineNative makes fn callable from programs under name
func (i *Interpreter) DefineNative(name string, arity int, fn NativeFunc) {
	i.exec.globals.define(name, &nativeFn{
		name:       name,
		arityValue: arity,
		callFn:     fn,
	})
}

// Run scans, parses and executes source. It returns ErrCompile when any
// scan or parse error was reported, or the *RuntimeError that halted execution.
func (i *Interpreter) Run(source string) error {
	state, ok := i.compile(source)
	if !ok {
		return ErrCompile
	}

	i.log.WithField("statements", len(state.stmts)).Debug("running program")

	err := i.exec.interpret(state.stmts)
	if err != nil {
		var runErr *RuntimeError
		if errors.As(err, &runErr) {
			i.log.WithField("line", runErr.Line()).Debug("runtime error")
			i.reporter.RuntimeError(runErr)
		}
	}
	return err
}

// Tokens scans source and returns every token including the final EOF
func (i *Interpreter) Tokens(source string) ([]Token, error) {
	state := newInterpreterState(source, i.reporter)
	newLexer(state).scan()
	if !state.Valid() {
		return state.tokens, ErrCompile
	}
	return state.tokens, nil
}

// ASTFormat selects how PrintAST renders statements
type ASTFormat int

const (
	// FormatTree renders every node in parenthesized prefix form
	FormatTree ASTFormat = iota
	// FormatRPN renders the expression of expression and print
	// statements in reverse Polish notation
	FormatRPN
)

// PrintAST parses source and renders every statement, one string per statement
func (i *Interpreter) PrintAST(source string, format ASTFormat) ([]string, error) {
	state, ok := i.compile(source)
	if !ok {
		return nil, ErrCompile
	}
	out := make([]string, len(state.stmts))
	for n, s := range state.stmts {
		out[n] = printStmtTree(s)
		if format != FormatRPN {
			continue
		}
		switch s := s.(type) {
		case *exprStmt:
			out[n] = printRPN(s.expression)
		case *printStmt:
			out[n] = printRPN(s.expression) + " print"
		}
	}
	return out, nil
}

func (i *Interpreter) compile(source string) (*interpreterState, bool) {
	state := newInterpreterState(source, i.reporter)
	newLexer(state).scan()
	newParser(state).parse()
	return state, state.Valid()
}

// RunSourceWithPrinter runs source code on a fresh interpreter instance
func RunSourceWithPrinter(source string, p IPrinter, r Reporter) bool {
	return NewInterpreter(WithPrinter(p), WithReporter(r)).Run(source) == nil
}

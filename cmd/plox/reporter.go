package main

import (
	"fmt"
	"io"

	"github.com/labstack/gommon/color"

	"plox/internal"
)

// consoleReporter writes diagnostics in the classic
// "[line N] Error at 'x': message" shape
type consoleReporter struct {
	color *color.Color
}

func newConsoleReporter(w io.Writer, useColor bool) *consoleReporter {
	c := color.New()
	c.SetOutput(w)
	if !useColor {
		c.Disable()
	}
	return &consoleReporter{color: c}
}

func (r *consoleReporter) Error(line int, where, message string) {
	r.color.Printf(
		"%s %s\n",
		r.color.Dim(fmt.Sprintf("[line %d]", line)),
		r.color.Red(fmt.Sprintf("Error%s: %s", where, message)),
	)
}

func (r *consoleReporter) RuntimeError(err *internal.RuntimeError) {
	r.color.Printf(
		"%s\n%s\n",
		r.color.Red(err.Message),
		r.color.Dim(fmt.Sprintf("[line %d]", err.Line())),
	)
}

type writerPrinter struct {
	w io.Writer
}

func (p writerPrinter) Println(a ...interface{}) (n int, err error) {
	return fmt.Fprintln(p.w, a...)
}

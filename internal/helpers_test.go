package internal

import (
	"fmt"
	"strings"
)

type testPrinter struct {
	printed string
}

func (t *testPrinter) Println(a ...interface{}) (n int, err error) {
	for i, e := range a {
		if i != 0 {
			t.printed += " "
		}
		t.printed += fmt.Sprintf("%v", e)
	}
	t.printed += "\n"
	return 0, nil
}

func (t *testPrinter) Equals(p string) bool {
	if t.printed == p+"\n" {
		t.Reset()
		return true
	}
	return false
}

func (t *testPrinter) Reset() {
	t.printed = ""
}

type testReporter struct {
	errors  []string
	runtime []*RuntimeError
}

func (r *testReporter) Error(line int, where, message string) {
	r.errors = append(r.errors, fmt.Sprintf("[line %d] Error%s: %s", line, where, message))
}

func (r *testReporter) RuntimeError(err *RuntimeError) {
	r.runtime = append(r.runtime, err)
}

func scanSource(source string) (*interpreterState, *testReporter) {
	r := &testReporter{}
	state := newInterpreterState(source, r)
	newLexer(state).scan()
	return state, r
}

func parseSource(source string) (*interpreterState, *testReporter) {
	state, r := scanSource(source)
	newParser(state).parse()
	return state, r
}

func lines(s ...string) string {
	return strings.Join(s, "\n")
}

package internal

import "time"

func defineGlobals(e *env) {
	defineClock(e)
}

// clock returns the wall clock in seconds
func defineClock(e *env) {
	e.define("clock", &nativeFn{
		name:       "clock",
		arityValue: 0,
		callFn: func(arguments []interface{}) (interface{}, error) {
			return float64(time.Now().UnixNano()) / float64(time.Second), nil
		},
	})
}

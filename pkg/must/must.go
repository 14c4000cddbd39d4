// Package must contains simple functions that panic on errors.
//
// It should only be used in tests and rare places where errors are provably
// impossible.
package must

import "os"

// OK panics if the error value is not nil.
func OK(err error) {
	if err != nil {
		panic(err)
	}
}

// OK1 panics if the error value is not nil, and returns v otherwise.
func OK1[T any](v T, err error) T {
	OK(err)
	return v
}

// Pipe wraps os.Pipe.
func Pipe() (*os.File, *os.File) {
	r, w, err := os.Pipe()
	OK(err)
	return r, w
}

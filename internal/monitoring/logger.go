// Package monitoring holds the diagnostic logger shared by the PLY codec and
// the plycloud CLI.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf.
// The CLI mutes it unless --verbose is given; tests capture or mute it.
var Logf func(format string, v ...any) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...any)) {
	if f == nil {
		Logf = func(string, ...any) {}
		return
	}
	Logf = f
}

// Swap installs f and returns a function that restores the previous logger.
func Swap(f func(format string, v ...any)) (restore func()) {
	prev := Logf
	SetLogger(f)
	return func() { Logf = prev }
}

// Package corelog provides leveled logging for the simulation core.
//
// The core runs as a single-threaded tick loop; logging must never block
// that loop for any meaningful duration, so this wraps the standard log
// package with level prefixes rather than pulling in a structured logging
// dependency the pack does not otherwise exercise.
package corelog

import (
	"log"
	"os"
)

var std = log.New(os.Stderr, "", log.LstdFlags)

// Info logs an informational message.
func Info(format string, args ...interface{}) {
	std.Printf("INFO  "+format, args...)
}

// Warn logs a warning-level message.
func Warn(format string, args ...interface{}) {
	std.Printf("WARN  "+format, args...)
}

// Error logs an error-level message.
func Error(format string, args ...interface{}) {
	std.Printf("ERROR "+format, args...)
}

// SetOutput redirects log output, used by tests to capture or silence logs.
func SetOutput(w *os.File) {
	std.SetOutput(w)
}

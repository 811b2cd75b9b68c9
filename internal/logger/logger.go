// Package logger writes salesboard's diagnostic trace.
//
// The trace follows a dataset through its life: Section marks a stage
// (Ingest, Summary, Table), Info and Debug report row counts and timings
// within it, and Warn flags recoverable trouble such as an API retry or a
// lost file watch. All of these are silent until --verbose turns them on.
// Error reports failures that end a command or a background reload and is
// never silenced.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose switches the trace on or off. The CLI calls it once from the
// persistent --verbose flag before any command runs.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose reports whether the trace is on.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects all log lines to w. It defaults to os.Stderr so table
// and JSON output on stdout stay clean.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// write prints one line. Lines with always unset are dropped unless the
// trace is on.
func write(always bool, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if always || verbose {
		fmt.Fprintf(output, format, args...)
	}
}

// Section starts a new stage of the trace, e.g. "Ingest".
func Section(name string) {
	write(false, "\n=== %s ===\n", name)
}

// Debug traces fine detail such as per-snapshot normalisation counts.
func Debug(format string, args ...any) {
	write(false, "[DEBUG] "+format+"\n", args...)
}

// Info traces the outcome of a stage, such as a stored snapshot ID.
func Info(format string, args ...any) {
	write(false, "[INFO] "+format+"\n", args...)
}

// Warn traces a problem salesboard recovered from.
func Warn(format string, args ...any) {
	write(false, "[WARN] "+format+"\n", args...)
}

// Error reports a failure whether or not the trace is on.
func Error(format string, args ...any) {
	write(true, "[ERROR] "+format+"\n", args...)
}

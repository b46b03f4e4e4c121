// Package logger provides verbose stderr logging for the Groundwork
// pipeline. Debug, Info and Section output is gated behind the --verbose
// flag; warnings are always printed.
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

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// emit writes a prefixed line, optionally gated on verbose mode.
func emit(gated bool, prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if gated && !verbose {
		return
	}
	fmt.Fprintf(output, prefix+format+"\n", args...)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	emit(true, "[DEBUG] ", format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	emit(true, "[INFO] ", format, args...)
}

// Warn prints a warning message. Warnings are not gated, skipped files
// and cleanup failures surface without --verbose.
func Warn(format string, args ...any) {
	emit(false, "[WARN] ", format, args...)
}

// Section prints a pipeline stage header if verbose mode is enabled.
func Section(name string) {
	emit(true, "", "\n=== %s ===", name)
}

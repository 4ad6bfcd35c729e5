// Package logger prints diagnostic output for the Zoe CLI. Nothing is
// written unless verbose mode is switched on with --verbose, so normal
// runs keep stderr quiet for the TUI.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
)

var (
	enabled atomic.Bool

	mu     sync.Mutex
	writer io.Writer = os.Stderr
)

// SetVerbose switches verbose logging on or off.
func SetVerbose(on bool) {
	enabled.Store(on)
}

// IsVerbose reports whether verbose logging is active.
func IsVerbose() bool {
	return enabled.Load()
}

// SetOutput redirects verbose logs away from stderr, mainly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	writer = w
}

func emit(level, format string, args ...any) {
	if !enabled.Load() {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(writer, "["+level+"] "+format+"\n", args...)
}

// Debug logs fine-grained pipeline detail.
func Debug(format string, args ...any) {
	emit("DEBUG", format, args...)
}

// Info logs notable but expected events.
func Info(format string, args ...any) {
	emit("INFO", format, args...)
}

// Warn logs recoverable problems.
func Warn(format string, args ...any) {
	emit("WARN", format, args...)
}

// Section prints a header separating phases of verbose output.
func Section(name string) {
	if !enabled.Load() {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(writer, "\n=== %s ===\n", name)
}

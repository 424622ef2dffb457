// Package buildlog provides a tiny component-tagged logging wrapper used
// throughout the pipeline. It is intentionally thin: no structured-logging
// framework, just a Verbose bool gating log.Printf.
package buildlog

import "log"

// Logger tags every message with a component name, e.g. "[parentbuild]".
type Logger struct {
	component string
	verbose   bool
}

// New returns a Logger for the named component. When verbose is false,
// Debugf is a no-op; Warnf and Errorf always print regardless of verbosity.
func New(component string, verbose bool) *Logger {
	return &Logger{component: component, verbose: verbose}
}

// Debugf prints only when the logger was constructed with verbose=true.
func (l *Logger) Debugf(format string, args ...any) {
	if l == nil || !l.verbose {
		return
	}
	log.Printf("["+l.component+"] "+format, args...)
}

// Warnf always prints, prefixed with WARNING.
func (l *Logger) Warnf(format string, args ...any) {
	if l == nil {
		return
	}
	log.Printf("WARNING ["+l.component+"] "+format, args...)
}

// Errorf always prints, prefixed with ERROR. It does not itself return an
// error; callers still propagate the error value separately.
func (l *Logger) Errorf(format string, args ...any) {
	if l == nil {
		return
	}
	log.Printf("ERROR ["+l.component+"] "+format, args...)
}

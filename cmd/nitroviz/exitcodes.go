package main

import "fmt"

// Exit codes for the nitroviz CLI. Every failure kind shares one code.
const (
	ExitOK      = 0 // All pages written.
	ExitFailure = 1 // Bad arguments, unreadable input, or a failed write.
)

// exitCodeError carries a non-zero exit code through cobra's error handling.
type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string { return e.msg }

// ExitCode returns the exit code for this error.
func (e *exitCodeError) ExitCode() int { return e.code }

// exitError creates an exitCodeError. An empty format yields a generic
// message for the code.
func exitError(code int, format string, args ...any) *exitCodeError {
	msg := fmt.Sprintf(format, args...)
	if msg == "" && code != ExitOK {
		msg = "nitroviz: generation failed"
	}
	return &exitCodeError{code: code, msg: msg}
}

package commands

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrParse marks an invocation that could not be split or whose
	// arguments do not match the command's schema.
	ErrParse = errors.New("invalid invocation")
	// ErrNotFound reports an unknown command name.
	ErrNotFound = errors.New("command not found")
	// ErrUnavailable reports a command that cannot run in the current state.
	ErrUnavailable = errors.New("command not available right now")
	// ErrCanceled reports that the user dismissed the command.
	ErrCanceled = errors.New("canceled")
	// ErrExecution marks a command that failed while running.
	ErrExecution = errors.New("command failed")
)

// UsageError describes arguments that do not match a command's schema.
type UsageError struct {
	Command string
	Msg     string
	Usage   string
}

func (e *UsageError) Error() string {
	if e.Usage == "" {
		return fmt.Sprintf("%s: %s", e.Command, e.Msg)
	}
	return fmt.Sprintf("%s: %s\n%s", e.Command, e.Msg, strings.TrimRight(e.Usage, "\n"))
}

// Is lets errors.Is(err, ErrParse) match any UsageError.
func (e *UsageError) Is(target error) bool {
	return target == ErrParse
}

// ExecutionError wraps the error a command returned or the value it
// panicked with. Stack is captured where the executor recorded the failure.
type ExecutionError struct {
	Invocation string
	Err        error
	Stack      []byte
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("problem running %s: %v", e.Invocation, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrExecution) match any ExecutionError.
func (e *ExecutionError) Is(target error) bool {
	return target == ErrExecution
}

// Unavailable returns an error wrapping ErrUnavailable with a reason.
func Unavailable(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrUnavailable)
}

// Canceled returns an error wrapping ErrCanceled with a reason.
func Canceled(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrCanceled)
}

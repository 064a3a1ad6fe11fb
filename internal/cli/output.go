package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/paramgrid/codec"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Query or merge failure (unknown label, validation, sparse array)
	ExitCommandError = 2 // Command error (bad flags, unreadable documents)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code     int
	Message  string
	Err      error
	// Reported marks errors already written by an OutputFormatter.
	Reported bool
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// ShouldPrint reports whether err still needs to be shown to the user.
func ShouldPrint(err error) bool {
	if err == nil {
		return false
	}
	var exitErr *ExitError
	return !errors.As(err, &exitErr) || !exitErr.Reported
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
}

// Response is the JSON envelope of CLI output.
type Response struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Success writes data as JSON, or calls text for the text format.
func (f *OutputFormatter) Success(data any, text func(w io.Writer)) error {
	if f.Format == "json" {
		return f.writeJSON(Response{Status: "ok", Data: data})
	}
	text(f.Writer)
	return nil
}

// Error writes err in the configured format.
func (f *OutputFormatter) Error(err error) error {
	if f.Format == "json" {
		return f.writeJSON(Response{Status: "error", Error: err.Error()})
	}
	_, werr := fmt.Fprintf(f.errWriter(), "Error: %v\n", err)
	return werr
}

// Fail reports err and returns it as an already reported ExitError.
func (f *OutputFormatter) Fail(code int, message string, err error) error {
	wrapped := WrapExitError(code, message, err)
	if werr := f.Error(wrapped); werr != nil {
		return wrapped
	}
	wrapped.Reported = true
	return wrapped
}

func (f *OutputFormatter) writeJSON(v any) error {
	b, err := codec.Default.Marshal(v)
	if err != nil {
		return err
	}
	_, err = f.Writer.Write(append(b, '\n'))
	return err
}

func (f *OutputFormatter) errWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

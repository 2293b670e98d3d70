package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // command succeeded
	ExitFailure      = 1 // scenarios failed or replay diverged
	ExitCommandError = 2 // bad flags, unreadable files, unopenable journal
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError without a cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError creates an ExitError around err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode maps an error to an exit code. Errors that carry no code,
// such as cobra's flag errors, are command errors.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

// Response is the envelope of every JSON result.
type Response struct {
	Status string         `json:"status"`
	Data   any            `json:"data,omitempty"`
	Error  *ResponseError `json:"error,omitempty"`
}

// ResponseError describes a failure in a JSON response.
type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Printer writes results as JSON envelopes or as text.
type Printer struct {
	Format string
	Out    io.Writer
}

// Print writes data. In text mode text renders it; a nil text prints data
// with %v.
func (p *Printer) Print(data any, text func(w io.Writer)) error {
	if p.Format == "json" {
		enc := json.NewEncoder(p.Out)
		enc.SetEscapeHTML(false)
		return enc.Encode(Response{Status: "ok", Data: data})
	}
	if text == nil {
		_, err := fmt.Fprintln(p.Out, data)
		return err
	}
	text(p.Out)
	return nil
}

// Fail writes a failure. Used for failures that still produce a result
// body, such as failing scenarios.
func (p *Printer) Fail(code, message string, data any, text func(w io.Writer)) error {
	if p.Format == "json" {
		enc := json.NewEncoder(p.Out)
		enc.SetEscapeHTML(false)
		return enc.Encode(Response{
			Status: "error",
			Data:   data,
			Error:  &ResponseError{Code: code, Message: message},
		})
	}
	if text != nil {
		text(p.Out)
	}
	_, err := fmt.Fprintf(p.Out, "Error [%s]: %s\n", code, message)
	return err
}

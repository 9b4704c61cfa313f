// Package errors provides the structured error type shared by the rs and
// sss packages. Every public operation returns either a value or a
// *FieldError carrying one of the categorical codes enumerated by its
// caller package (rs.Err* or sss.Err*), never a bare stdlib error, so
// callers can branch on Code without string matching messages.
package errors

import (
	"errors"
	"fmt"
	"sort"
)

// Exit codes for cmd/shardkit.
const (
	ExitSuccess = 0 // Successful execution
	ExitGeneral = 1 // General/unknown error
	ExitInput   = 2 // Invalid input (bad config, malformed shares/shards)
	ExitData    = 3 // Data cannot be reconstructed (insufficient/corrupted shares)
)

// FieldError is the structured error type returned by rs and sss.
type FieldError struct {
	Code       string            // Machine-readable error code
	Message    string            // Human-readable message
	Details    map[string]string // Additional context (e.g. shard indices)
	Suggestion string            // Actionable suggestion surfaced by cmd/shardkit
	Cause      error             // Underlying error, if any
	ExitCode   int               // Exit code cmd/shardkit should use; 0 means ExitGeneral
}

func (e *FieldError) Error() string {
	msg := e.Message

	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg = fmt.Sprintf("%s (%s: %s)", msg, k, e.Details[k])
		}
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *FieldError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is by comparing Code, so errors.Is(err, rs.ErrCorruptedShards)
// matches any *FieldError carrying that code, including ones wrapped with
// WithDetails or Wrap.
func (e *FieldError) Is(target error) bool {
	var t *FieldError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// New creates a FieldError with the given code and message.
func New(code, message string) *FieldError {
	return &FieldError{Code: code, Message: message}
}

// Wrap returns a copy of a sentinel FieldError whose Message is replaced
// by the formatted text and whose Cause is set to cause, preserving its
// Code, Details and ExitCode.
func Wrap(sentinel *FieldError, cause error, format string, args ...any) *FieldError {
	msg := fmt.Sprintf(format, args...)
	return &FieldError{
		Code:     sentinel.Code,
		Message:  msg,
		Details:  sentinel.Details,
		Cause:    cause,
		ExitCode: sentinel.ExitCode,
	}
}

// WithDetails returns a copy of sentinel carrying the given details map.
func WithDetails(sentinel *FieldError, details map[string]string) *FieldError {
	return &FieldError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		Details:    details,
		Suggestion: sentinel.Suggestion,
		Cause:      sentinel.Cause,
		ExitCode:   sentinel.ExitCode,
	}
}

// WithSuggestion returns a copy of sentinel carrying an actionable
// suggestion for the CLI to print alongside the error.
func WithSuggestion(sentinel *FieldError, suggestion string) *FieldError {
	return &FieldError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		Details:    sentinel.Details,
		Suggestion: suggestion,
		Cause:      sentinel.Cause,
		ExitCode:   sentinel.ExitCode,
	}
}

// Code returns the error code for err, or "" if err is not a *FieldError.
func Code(err error) string {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}

// ExitCode returns the process exit code for err: ExitSuccess if err is
// nil, the FieldError's own ExitCode if it carries one, ExitGeneral for
// any other non-nil error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var fe *FieldError
	if errors.As(err, &fe) && fe.ExitCode != 0 {
		return fe.ExitCode
	}
	return ExitGeneral
}

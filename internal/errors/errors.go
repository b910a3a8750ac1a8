// Package errors provides structured error types for forcelift.
// It implements error classification, wrapping, and redaction of
// credentials that must never reach logs.
package errors

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Kind represents the category of an error.
type Kind uint8

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown Kind = iota
	// KindOptions indicates an invalid or missing task option.
	KindOptions
	// KindConfig indicates a configuration error.
	KindConfig
	// KindQuery indicates a Tooling API query returned an unusable result.
	KindQuery
	// KindNetwork indicates a network error.
	KindNetwork
	// KindValidation indicates a validation error.
	KindValidation
	// KindNotFound indicates a resource was not found.
	KindNotFound
	// KindCanceled indicates the operation was canceled.
	KindCanceled
	// KindInternal indicates an internal error.
	KindInternal
)

// String returns a human-readable string for the error kind.
func (k Kind) String() string {
	switch k {
	case KindOptions:
		return "options"
	case KindConfig:
		return "configuration"
	case KindQuery:
		return "query"
	case KindNetwork:
		return "network"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindCanceled:
		return "canceled"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is the standard error type for forcelift.
type Error struct {
	// Kind is the category of the error.
	Kind Kind
	// Op is the operation being performed when the error occurred.
	Op string
	// Message is a human-readable error message.
	Message string
	// Err is the underlying error.
	Err error
	// Details contains additional context about the error.
	Details map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Op != "" {
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether the target error matches this error.
// For *Error types, it checks if both the Kind and Op match.
// For sentinel errors (errors without Op), only Kind is compared.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Op == "" {
		return e.Kind == t.Kind
	}
	return e.Kind == t.Kind && e.Op == t.Op
}

// WithDetail adds a single detail to the error and returns the modified error.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new Error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
	}
}

// Newf creates a new Error with the given kind and formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(err error, kind Kind, op string, message string) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(err error, kind Kind, op string, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// GetKind returns the Kind of an error.
// If the error is not an *Error, it returns KindUnknown.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind checks if an error is of a specific kind.
func IsKind(err error, kind Kind) bool {
	return GetKind(err) == kind
}

// Common error constructors for frequently used error types.

// Options creates a task options error.
func Options(op, message string) *Error {
	return &Error{
		Kind:    KindOptions,
		Op:      op,
		Message: message,
	}
}

// Optionsf creates a task options error with a formatted message.
func Optionsf(op, format string, args ...any) *Error {
	return &Error{
		Kind:    KindOptions,
		Op:      op,
		Message: fmt.Sprintf(format, args...),
	}
}

// OptionsWrap wraps an error as a task options error.
func OptionsWrap(err error, op, message string) *Error {
	return Wrap(err, KindOptions, op, message)
}

// Config creates a configuration error.
func Config(op, message string) *Error {
	return &Error{
		Kind:    KindConfig,
		Op:      op,
		Message: message,
	}
}

// ConfigWrap wraps an error as a configuration error.
func ConfigWrap(err error, op, message string) *Error {
	return Wrap(err, KindConfig, op, message)
}

// Query creates a query error.
func Query(op, message string) *Error {
	return &Error{
		Kind:    KindQuery,
		Op:      op,
		Message: message,
	}
}

// QueryWrap wraps an error as a query error.
func QueryWrap(err error, op, message string) *Error {
	return Wrap(err, KindQuery, op, message)
}

// Network creates a network error.
func Network(op, message string) *Error {
	return &Error{
		Kind:    KindNetwork,
		Op:      op,
		Message: message,
	}
}

// NetworkWrap wraps an error as a network error.
func NetworkWrap(err error, op, message string) *Error {
	return Wrap(err, KindNetwork, op, message)
}

// Validation creates a validation error.
func Validation(op, message string) *Error {
	return &Error{
		Kind:    KindValidation,
		Op:      op,
		Message: message,
	}
}

// NotFound creates a not found error.
func NotFound(op, message string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Op:      op,
		Message: message,
	}
}

// Internal creates an internal error.
func Internal(op, message string) *Error {
	return &Error{
		Kind:    KindInternal,
		Op:      op,
		Message: message,
	}
}

// InternalWrap wraps an error as an internal error.
func InternalWrap(err error, op, message string) *Error {
	return Wrap(err, KindInternal, op, message)
}

// Sensitive data redaction patterns.
// Salesforce session ids and bearer tokens must not leak through error
// chains that end up in logs or terminal output.
var sensitivePatterns = []*regexp.Regexp{
	// Salesforce session ids: 00D...!...
	regexp.MustCompile(`\b00D[a-zA-Z0-9]{12,15}![a-zA-Z0-9._]+\b`),
	// Generic bearer tokens
	regexp.MustCompile(`\bBearer\s+[a-zA-Z0-9._!-]{20,}\b`),
	// Basic auth with password in URL
	regexp.MustCompile(`://[^:/]+:[^@]+@`),
}

// RedactSensitive removes sensitive information from a string.
func RedactSensitive(s string) string {
	result := s
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, "[REDACTED]")
	}
	return result
}

// RedactError creates a new error with sensitive data redacted from its message.
// If the error is nil, returns nil.
func RedactError(err error) error {
	if err == nil {
		return nil
	}
	redacted := RedactSensitive(err.Error())
	if redacted == err.Error() {
		return err
	}
	return fmt.Errorf("%s", redacted)
}

// NetworkWrapSafe wraps an error as a network error with sensitive data
// redacted. Use this when the underlying error may carry the session token,
// e.g. failed requests echoing the Authorization header.
func NetworkWrapSafe(err error, op, message string) *Error {
	if err == nil {
		return Network(op, message)
	}
	return Wrap(RedactError(err), KindNetwork, op, message)
}

// IsSensitive checks if a string contains sensitive patterns.
func IsSensitive(s string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return strings.Contains(s, "access_token") ||
		strings.Contains(s, "secret") ||
		strings.Contains(s, "password")
}

package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Authentication errors (AUTH-001 to AUTH-099)
	ErrCodeAuthenticationFailed ErrorCode = "AUTH-001"
	ErrCodeTokenAcquisition     ErrorCode = "AUTH-002"
	ErrCodeFlowNotAllowed       ErrorCode = "AUTH-003"
	ErrCodeCredentialsMissing   ErrorCode = "AUTH-004"

	// Collection errors (COLLECT-001 to COLLECT-099)
	ErrCodePermissionDenied ErrorCode = "COLLECT-001"
	ErrCodeUnavailable      ErrorCode = "COLLECT-002"
	ErrCodeMalformedOutput  ErrorCode = "COLLECT-003"
	ErrCodeCollectorExec    ErrorCode = "COLLECT-004"
	ErrCodeSchemaVersion    ErrorCode = "COLLECT-005"

	// Service area errors (AREA-001 to AREA-099)
	ErrCodeAreaUnknown   ErrorCode = "AREA-001"
	ErrCodeAdapterExists ErrorCode = "AREA-002"
	ErrCodeNoAdapter     ErrorCode = "AREA-003"

	// Rule engine errors (RULE-001 to RULE-099)
	ErrCodeRuleInvalid   ErrorCode = "RULE-001"
	ErrCodeRuleDuplicate ErrorCode = "RULE-002"

	// Report errors (REPORT-001 to REPORT-099)
	ErrCodeReportWrite  ErrorCode = "REPORT-001"
	ErrCodeReportFormat ErrorCode = "REPORT-002"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigNotFound ErrorCode = "CONFIG-001"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG-002"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeFileUnmarshal   ErrorCode = "IO-004"
)

// ReadyError represents an enhanced error with code, suggestions, and documentation
type ReadyError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *ReadyError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *ReadyError) Unwrap() error {
	return e.Cause
}

// Is matches ReadyErrors by code so callers can test for an error class
// without holding the exact instance.
func (e *ReadyError) Is(target error) bool {
	t, ok := target.(*ReadyError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// HasCode reports whether err or anything it wraps is a ReadyError with
// the given code.
func HasCode(err error, code ErrorCode) bool {
	var re *ReadyError
	if !stderrors.As(err, &re) {
		return false
	}
	return re.Code == code
}

// New creates a new ReadyError
func New(code ErrorCode, message string) *ReadyError {
	return &ReadyError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new ReadyError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *ReadyError {
	return &ReadyError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *ReadyError) WithSuggestion(suggestion string) *ReadyError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *ReadyError) WithSuggestions(suggestions ...string) *ReadyError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *ReadyError) WithDocs(url string) *ReadyError {
	e.DocsURL = url
	return e
}

// Common error constructors for frequently used errors

// NewAuthenticationFailedError marks an interactive flow the admin declined
// or let time out. Fatal only for the affected service area.
func NewAuthenticationFailedError(area string, cause error) *ReadyError {
	return Wrap(ErrCodeAuthenticationFailed, fmt.Sprintf("sign-in for the %s area was declined or timed out", area), cause).
		WithSuggestion("Re-run the assessment and approve the sign-in prompt").
		WithSuggestion("Verify the signing-in account holds an admin role for this area").
		WithDocs("https://learn.microsoft.com/entra/identity-platform/v2-oauth2-device-code")
}

// NewTokenAcquisitionError marks a transient identity-provider failure.
// Retryable by the caller; the broker never retries on its own.
func NewTokenAcquisitionError(area string, cause error) *ReadyError {
	return Wrap(ErrCodeTokenAcquisition, fmt.Sprintf("token acquisition for the %s area failed", area), cause).
		WithSuggestion("Retry the run; the identity provider may be briefly unavailable").
		WithSuggestion("Check network connectivity to the login endpoint")
}

// NewCredentialsMissingError lists required environment variables that are
// unset before a run starts.
func NewCredentialsMissingError(missing []string) *ReadyError {
	return New(ErrCodeCredentialsMissing, fmt.Sprintf("missing required credentials: %s", strings.Join(missing, ", "))).
		WithSuggestion("Create a .env file with TENANT_ID, CLIENT_ID, and CLIENT_SECRET").
		WithSuggestion("Or export the variables in your shell before running").
		WithDocs("https://learn.microsoft.com/entra/identity-platform/howto-create-service-principal-portal")
}

// NewMalformedOutputError marks collector output that could not be parsed.
// Fatal only for that collector's sub-resources, never for the run.
func NewMalformedOutputError(area string, cause error) *ReadyError {
	return Wrap(ErrCodeMalformedOutput, fmt.Sprintf("collector output for the %s area could not be parsed", area), cause).
		WithSuggestion("Run the collector script manually and inspect its stdout").
		WithSuggestion("Ensure the collector emits a single JSON document on stdout")
}

// NewNoAdapterError marks a requested area with no registered collector.
func NewNoAdapterError(area string) *ReadyError {
	return New(ErrCodeNoAdapter, fmt.Sprintf("no collector adapter registered for the %s area", area)).
		WithSuggestion("Check the collectors section of your configuration file")
}

// NewConfigInvalidError creates a configuration validation error
func NewConfigInvalidError(details string) *ReadyError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", details)).
		WithSuggestion("Run 'tenantready areas' to see valid service area names").
		WithSuggestion("Check the configuration file syntax")
}

// NewReportWriteError creates a report serialization error
func NewReportWriteError(path string, cause error) *ReadyError {
	return Wrap(ErrCodeReportWrite, fmt.Sprintf("failed to write report: %s", path), cause).
		WithSuggestion("Check that the output directory exists and is writable")
}

// NewFileUnmarshalError creates an unmarshal error
func NewFileUnmarshalError(path string, format string, cause error) *ReadyError {
	return Wrap(ErrCodeFileUnmarshal, fmt.Sprintf("failed to parse %s file: %s", format, path), cause).
		WithSuggestion("Check the file syntax and format").
		WithSuggestion(fmt.Sprintf("Ensure the file is valid %s", format))
}

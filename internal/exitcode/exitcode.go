package exitcode

import (
	stderrors "errors"
	"os"
	"strings"

	"github.com/felixgeelhaar/tenantready/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// AuthError indicates an authentication failure
	AuthError = 3

	// ConfigError indicates invalid or missing configuration
	ConfigError = 4

	// CollectError indicates a collector execution failure
	CollectError = 5

	// ReportError indicates the report could not be written
	ReportError = 6

	// Interrupted indicates the run was cancelled by the user
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}

	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit code.
// Coded errors map directly; anything else falls back to message matching.
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	var readyErr *errors.ReadyError
	if stderrors.As(err, &readyErr) {
		switch readyErr.Code {
		case errors.ErrCodeAuthenticationFailed,
			errors.ErrCodeTokenAcquisition,
			errors.ErrCodeFlowNotAllowed,
			errors.ErrCodeCredentialsMissing:
			return AuthError
		case errors.ErrCodeConfigNotFound,
			errors.ErrCodeConfigInvalid,
			errors.ErrCodeAreaUnknown:
			return ConfigError
		case errors.ErrCodeMalformedOutput,
			errors.ErrCodeCollectorExec,
			errors.ErrCodeSchemaVersion,
			errors.ErrCodeNoAdapter:
			return CollectError
		case errors.ErrCodeReportWrite,
			errors.ErrCodeReportFormat,
			errors.ErrCodeFileWriteFailed:
			return ReportError
		default:
			return GeneralError
		}
	}

	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "authentication") || strings.Contains(errMsg, "unauthorized") {
		return AuthError
	}
	if strings.Contains(errMsg, "invalid flag") || strings.Contains(errMsg, "unknown command") ||
		strings.Contains(errMsg, "required flag") || strings.Contains(errMsg, "unknown flag") {
		return UsageError
	}

	return GeneralError
}

// Description returns a human-readable description of an exit code
func Description(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case AuthError:
		return "Authentication error"
	case ConfigError:
		return "Configuration error"
	case CollectError:
		return "Collector execution error"
	case ReportError:
		return "Report serialization error"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}

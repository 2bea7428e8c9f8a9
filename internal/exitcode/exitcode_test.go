package exitcode

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/felixgeelhaar/tenantready/internal/errors"
)

func TestDetermineExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, Success},
		{"auth failed", errors.NewAuthenticationFailedError("compliance", nil), AuthError},
		{"token acquisition", errors.NewTokenAcquisitionError("security", fmt.Errorf("503")), AuthError},
		{"credentials missing", errors.NewCredentialsMissingError([]string{"TENANT_ID"}), AuthError},
		{"config invalid", errors.NewConfigInvalidError("bad area"), ConfigError},
		{"malformed collector output", errors.NewMalformedOutputError("governance", nil), CollectError},
		{"no adapter", errors.NewNoAdapterError("agents"), CollectError},
		{"report write", errors.NewReportWriteError("/tmp/x.csv", nil), ReportError},
		{"wrapped ready error", fmt.Errorf("assess: %w", errors.NewConfigInvalidError("x")), ConfigError},
		{"plain auth string", fmt.Errorf("authentication rejected"), AuthError},
		{"plain usage string", fmt.Errorf("unknown flag: --fast"), UsageError},
		{"anything else", fmt.Errorf("boom"), GeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineExitCode(tt.err))
		})
	}
}

func TestDescription(t *testing.T) {
	codes := []int{Success, GeneralError, UsageError, AuthError, ConfigError, CollectError, ReportError, Interrupted}
	for _, code := range codes {
		assert.NotEqual(t, "Unknown error", Description(code), "code %d should be described", code)
	}
	assert.Equal(t, "Unknown error", Description(99))
}

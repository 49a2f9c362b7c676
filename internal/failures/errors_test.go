package failures_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/failures"
)

func TestFailureClassification(testInstance *testing.T) {
	testCases := []struct {
		name                  string
		failure               error
		expectNetwork         bool
		expectSession         bool
		expectConfiguration   bool
		expectDeadlineUnwraps bool
	}{
		{
			name:                  "network_wrapped_deadline",
			failure:               fmt.Errorf("performance: %w", failures.NetworkError{Operation: "fetch", Target: "http://slow.test", Cause: context.DeadlineExceeded}),
			expectNetwork:         true,
			expectDeadlineUnwraps: true,
		},
		{
			name:          "session",
			failure:       failures.SessionError{Operation: "allocate browser", Cause: errors.New("chrome missing")},
			expectSession: true,
		},
		{
			name:                "configuration",
			failure:             failures.ConfigurationError{Setting: "textgen.api_key", Message: "not set"},
			expectConfiguration: true,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectNetwork, failures.IsNetwork(testCase.failure))
			require.Equal(testInstance, testCase.expectSession, failures.IsSession(testCase.failure))
			require.Equal(testInstance, testCase.expectConfiguration, failures.IsConfiguration(testCase.failure))
			require.Equal(testInstance, testCase.expectDeadlineUnwraps, errors.Is(testCase.failure, context.DeadlineExceeded))
		})
	}
}

func TestConfigurationErrorMessage(testInstance *testing.T) {
	configurationError := failures.ConfigurationError{Setting: "outreach.smtp_user", Message: "SMTP credentials not configured"}
	require.Equal(testInstance, "configuration outreach.smtp_user: SMTP credentials not configured", configurationError.Error())
}

package analysis_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/analysis"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/failures"
)

type stubMobileRenderer struct {
	viewport    analysis.Viewport
	err         error
	renderedURL string
}

func (renderer *stubMobileRenderer) Render(_ context.Context, targetURL string) (analysis.Viewport, error) {
	renderer.renderedURL = targetURL
	return renderer.viewport, renderer.err
}

func TestMobileAnalyzer(testInstance *testing.T) {
	testCases := []struct {
		name           string
		renderer       *stubMobileRenderer
		expectedScore  int
		expectedIssues []string
		expectError    bool
	}{
		{
			name:           "fits_viewport",
			renderer:       &stubMobileRenderer{viewport: analysis.Viewport{ScrollWidth: 390, ViewportWidth: 390}},
			expectedScore:  100,
			expectedIssues: []string{},
		},
		{
			name:           "horizontal_overflow",
			renderer:       &stubMobileRenderer{viewport: analysis.Viewport{ScrollWidth: 1024, ViewportWidth: 390}},
			expectedScore:  70,
			expectedIssues: []string{"Horizontal scroll detected (content overflows screen)"},
		},
		{
			name:           "load_failure_scores_zero",
			renderer:       &stubMobileRenderer{err: errors.New("net::ERR_NAME_NOT_RESOLVED")},
			expectedScore:  0,
			expectedIssues: []string{"Failed to load on mobile emulator"},
		},
		{
			name:        "session_failure_is_returned",
			renderer:    &stubMobileRenderer{err: failures.SessionError{Operation: "launch", Cause: errors.New("chrome missing")}},
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			analyzer := analysis.NewMobileAnalyzer(testCase.renderer)
			outcome, analyzeError := analyzer.Analyze(context.Background(), analysis.Target{URL: "shop.test"})
			require.Equal(testInstance, "http://shop.test", testCase.renderer.renderedURL)
			if testCase.expectError {
				require.Error(testInstance, analyzeError)
				require.True(testInstance, failures.IsSession(analyzeError))
				return
			}
			require.NoError(testInstance, analyzeError)
			require.Equal(testInstance, testCase.expectedScore, outcome.Score)
			require.Equal(testInstance, testCase.expectedIssues, outcome.Issues)
		})
	}
}

func TestMobileAnalyzerReturnsCancellation(testInstance *testing.T) {
	executionContext, cancel := context.WithCancel(context.Background())
	cancel()

	renderer := &stubMobileRenderer{err: context.Canceled}
	analyzer := analysis.NewMobileAnalyzer(renderer)

	outcome, analyzeError := analyzer.Analyze(executionContext, analysis.Target{URL: "https://shop.test"})
	require.ErrorIs(testInstance, analyzeError, context.Canceled)
	require.False(testInstance, failures.IsSession(analyzeError))
	require.Equal(testInstance, analysis.Outcome{}, outcome)
}

package analysis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/analysis"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/webclient"
)

func TestPerformanceScore(testInstance *testing.T) {
	testCases := []struct {
		name                string
		responseTimeSeconds float64
		pageSizeKB          float64
		expectedScore       int
	}{
		{name: "fast_and_small", responseTimeSeconds: 0.4, pageSizeKB: 120, expectedScore: 100},
		{name: "slow_response", responseTimeSeconds: 2.5, pageSizeKB: 120, expectedScore: 70},
		{name: "heavy_page", responseTimeSeconds: 0.2, pageSizeKB: 3050, expectedScore: 89},
		{name: "slow_and_heavy_truncates", responseTimeSeconds: 1.33, pageSizeKB: 2150, expectedScore: 91},
		{name: "pathological_clamps_to_zero", responseTimeSeconds: 100, pageSizeKB: 1_000_000, expectedScore: 0},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedScore, analysis.PerformanceScore(testCase.responseTimeSeconds, testCase.pageSizeKB))
		})
	}
}

func TestPerformanceAnalyzerUsesPrefetchedPage(testInstance *testing.T) {
	page := &webclient.Page{StatusCode: 200, RawLength: 5 * 1024, Elapsed: 1500 * time.Millisecond}
	analyzer := analysis.NewPerformanceAnalyzer(nil, time.Second)

	outcome, analyzeError := analyzer.Analyze(context.Background(), analysis.Target{URL: "https://shop.test", Page: page})
	require.NoError(testInstance, analyzeError)
	require.Equal(testInstance, 90, outcome.Score)
	require.Empty(testInstance, outcome.Issues)
	require.NotNil(testInstance, outcome.TimingMetrics)
	require.InDelta(testInstance, 1.5, outcome.ResponseTimeSeconds, 0.001)
	require.InDelta(testInstance, 5.0, outcome.PageSizeKB, 0.001)
}

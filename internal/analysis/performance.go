package analysis

import (
	"context"
	"math"
	"time"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/webclient"
)

const (
	responseTimeThresholdSeconds = 1.0
	responseTimePenaltyPerSecond = 20.0
	pageSizeThresholdKB          = 2000.0
	pageSizePenaltyDivisor       = 100.0
	bytesPerKilobyte             = 1024.0
)

// PerformanceAnalyzer scores wall-clock latency and transfer size of the landing page.
type PerformanceAnalyzer struct {
	fetcher PageFetcher
	timeout time.Duration
}

// NewPerformanceAnalyzer constructs a PerformanceAnalyzer.
func NewPerformanceAnalyzer(fetcher PageFetcher, timeout time.Duration) *PerformanceAnalyzer {
	return &PerformanceAnalyzer{fetcher: fetcher, timeout: timeout}
}

// Analyze measures the prefetched page when present, otherwise fetches it.
func (analyzer *PerformanceAnalyzer) Analyze(executionContext context.Context, target Target) (Outcome, error) {
	page, fetchError := landingPage(executionContext, analyzer.fetcher, target, analyzer.timeout)
	if fetchError != nil {
		return Outcome{}, fetchError
	}
	return MeasurePerformance(page), nil
}

// MeasurePerformance converts a fetched page into a performance outcome.
func MeasurePerformance(page webclient.Page) Outcome {
	responseTimeSeconds := page.Elapsed.Seconds()
	pageSizeKB := float64(page.RawLength) / bytesPerKilobyte

	outcome := newOutcome(PerformanceScore(responseTimeSeconds, pageSizeKB), nil)
	outcome.TimingMetrics = &TimingMetrics{
		ResponseTimeSeconds: roundToHundredths(responseTimeSeconds),
		PageSizeKB:          roundToHundredths(pageSizeKB),
	}
	return outcome
}

// PerformanceScore applies the latency and size penalties and truncates the result into [0,100].
func PerformanceScore(responseTimeSeconds float64, pageSizeKB float64) int {
	score := float64(MaximumScore)
	if responseTimeSeconds > responseTimeThresholdSeconds {
		score -= (responseTimeSeconds - responseTimeThresholdSeconds) * responseTimePenaltyPerSecond
	}
	if pageSizeKB > pageSizeThresholdKB {
		score -= (pageSizeKB - pageSizeThresholdKB) / pageSizePenaltyDivisor
	}
	if math.IsNaN(score) || score <= MinimumScore {
		return MinimumScore
	}
	return ClampScore(int(score))
}

func roundToHundredths(value float64) float64 {
	return math.Round(value*100) / 100
}

package audit

import (
	"fmt"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/analysis"
)

const (
	slowPerformanceThreshold = 60
	slowWebsiteIssue         = "Website is too slow"
	brokenLinksIssueTemplate = "Fix %d broken links"
	weightDenominator        = 100
)

// Weights are percentages and sum to weightDenominator.
var dimensionWeights = map[Dimension]int{
	DimensionPerformance: 25,
	DimensionSEO:         25,
	DimensionUX:          20,
	DimensionMobile:      20,
	DimensionLinks:       10,
}

// Aggregate returns the weighted overall score and the priority list.
func Aggregate(outcomes Outcomes) (int, []PriorityItem) {
	return OverallScore(outcomes), Priorities(outcomes)
}

// OverallScore is floor(0.25p + 0.25s + 0.20u + 0.20m + 0.10l) over clamped scores.
func OverallScore(outcomes Outcomes) int {
	weightedSum := 0
	for _, dimension := range Dimensions() {
		weightedSum += dimensionWeights[dimension] * analysis.ClampScore(outcomes.Get(dimension).Score)
	}
	return weightedSum / weightDenominator
}

// Priorities lists issues in dimension order, preserving each analyzer's issue order.
func Priorities(outcomes Outcomes) []PriorityItem {
	priorities := make([]PriorityItem, 0)

	if outcomes.Performance.Score < slowPerformanceThreshold {
		priorities = append(priorities, PriorityItem{Category: DimensionPerformance.Label(), Priority: PriorityHigh, Issue: slowWebsiteIssue})
	}
	priorities = appendIssues(priorities, DimensionSEO, PriorityMedium, outcomes.SEO.Issues)
	priorities = appendIssues(priorities, DimensionUX, PriorityMedium, outcomes.UX.Issues)
	priorities = appendIssues(priorities, DimensionMobile, PriorityHigh, outcomes.Mobile.Issues)
	if brokenCount := brokenLinkCount(outcomes.Links); brokenCount > 0 {
		priorities = append(priorities, PriorityItem{Category: DimensionLinks.Label(), Priority: PriorityLow, Issue: fmt.Sprintf(brokenLinksIssueTemplate, brokenCount)})
	}

	return priorities
}

func appendIssues(priorities []PriorityItem, dimension Dimension, priority Priority, issues []string) []PriorityItem {
	for _, issue := range issues {
		priorities = append(priorities, PriorityItem{Category: dimension.Label(), Priority: priority, Issue: issue})
	}
	return priorities
}

func brokenLinkCount(outcome analysis.Outcome) int {
	if outcome.LinkMetrics == nil {
		return 0
	}
	return outcome.LinkMetrics.Count
}

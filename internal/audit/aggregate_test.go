package audit_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/analysis"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/audit"
)

func scoredOutcomes(performance int, seo int, ux int, mobile int, links int) audit.Outcomes {
	return audit.Outcomes{
		Performance: analysis.Outcome{Score: performance, Issues: []string{}},
		SEO:         analysis.Outcome{Score: seo, Issues: []string{}},
		UX:          analysis.Outcome{Score: ux, Issues: []string{}},
		Mobile:      analysis.Outcome{Score: mobile, Issues: []string{}},
		Links:       analysis.Outcome{Score: links, Issues: []string{}},
	}
}

func TestOverallScore(testInstance *testing.T) {
	testCases := []struct {
		name          string
		outcomes      audit.Outcomes
		expectedScore int
	}{
		{name: "weighted_example", outcomes: scoredOutcomes(80, 80, 80, 80, 100), expectedScore: 82},
		{name: "perfect", outcomes: scoredOutcomes(100, 100, 100, 100, 100), expectedScore: 100},
		{name: "floors_fraction", outcomes: scoredOutcomes(99, 0, 0, 0, 0), expectedScore: 24},
		{name: "links_weight", outcomes: scoredOutcomes(0, 0, 0, 0, 100), expectedScore: 10},
		{name: "clamps_high_inputs", outcomes: scoredOutcomes(500, 500, 500, 500, 500), expectedScore: 100},
		{name: "clamps_negative_inputs", outcomes: scoredOutcomes(-40, -40, -40, -40, -40), expectedScore: 0},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedScore, audit.OverallScore(testCase.outcomes))
		})
	}
}

func TestPrioritiesFollowDimensionOrder(testInstance *testing.T) {
	outcomes := audit.Outcomes{
		Performance: analysis.Outcome{Score: 45, Issues: []string{}},
		SEO:         analysis.Outcome{Score: 60, Issues: []string{"Missing <title> tag", "Missing meta description"}},
		UX:          analysis.Outcome{Score: 70, Issues: []string{"Missing viewport meta tag (not mobile friendly)"}},
		Mobile:      analysis.Outcome{Score: 70, Issues: []string{"Horizontal scroll detected (content overflows screen)"}},
		Links: analysis.Outcome{
			Score:       85,
			Issues:      []string{},
			LinkMetrics: &analysis.LinkMetrics{BrokenLinks: []string{"https://a.test/x", "https://a.test/y", "https://a.test/z"}, Checked: 10, Count: 3},
		},
	}

	overallScore, priorities := audit.Aggregate(outcomes)
	require.Equal(testInstance, 62, overallScore)
	require.Equal(testInstance, []audit.PriorityItem{
		{Category: "Performance", Priority: audit.PriorityHigh, Issue: "Website is too slow"},
		{Category: "SEO", Priority: audit.PriorityMedium, Issue: "Missing <title> tag"},
		{Category: "SEO", Priority: audit.PriorityMedium, Issue: "Missing meta description"},
		{Category: "UX", Priority: audit.PriorityMedium, Issue: "Missing viewport meta tag (not mobile friendly)"},
		{Category: "Mobile", Priority: audit.PriorityHigh, Issue: "Horizontal scroll detected (content overflows screen)"},
		{Category: "Links", Priority: audit.PriorityLow, Issue: "Fix 3 broken links"},
	}, priorities)
}

func TestPrioritiesOmitHealthyDimensions(testInstance *testing.T) {
	outcomes := scoredOutcomes(60, 100, 100, 100, 100)
	outcomes.Links.LinkMetrics = &analysis.LinkMetrics{BrokenLinks: []string{}, Checked: 20, Count: 0}

	require.Empty(testInstance, audit.Priorities(outcomes))
}

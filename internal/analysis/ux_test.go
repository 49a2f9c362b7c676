package analysis_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/analysis"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/webclient"
)

func TestEvaluateUX(testInstance *testing.T) {
	testCases := []struct {
		name           string
		markup         string
		expectedScore  int
		expectedIssues []string
	}{
		{
			name:           "responsive_page",
			markup:         `<html><head><meta name="viewport" content="width=device-width"></head><body><p>Plenty of descriptive paragraph text here.</p></body></html>`,
			expectedScore:  100,
			expectedIssues: []string{},
		},
		{
			name:          "every_penalty",
			markup:        `<html><body>` + strings.Repeat(`<a href="/x">x</a>`, 101) + strings.Repeat(`<p>Short</p>`, 6) + `</body></html>`,
			expectedScore: 55,
			expectedIssues: []string{
				"Missing viewport meta tag (not mobile friendly)",
				"Too many links on page (potential clutter)",
				"Many short paragraphs detected (content might be thin)",
			},
		},
		{
			name:           "paragraph_padding_counts_toward_length",
			markup:         `<html><head><meta name="viewport" content="width=device-width"></head><body>` + strings.Repeat(`<p>          Short          </p>`, 6) + `</body></html>`,
			expectedScore:  100,
			expectedIssues: []string{},
		},
		{
			name:           "thresholds_are_exclusive",
			markup:         `<html><head><meta name="viewport" content="width=device-width"></head><body>` + strings.Repeat(`<a href="/x">x</a>`, 100) + strings.Repeat(`<p>Short</p>`, 5) + `</body></html>`,
			expectedScore:  100,
			expectedIssues: []string{},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			outcome := analysis.EvaluateUX(parseMarkup(testInstance, testCase.markup))
			require.Equal(testInstance, testCase.expectedScore, outcome.Score)
			require.Equal(testInstance, testCase.expectedIssues, outcome.Issues)
		})
	}
}

func TestUXAnalyzerUsesPrefetchedBody(testInstance *testing.T) {
	page := &webclient.Page{StatusCode: 200, Body: []byte(`<html><head><meta name="VIEWPORT" content="width=device-width"></head></html>`)}
	analyzer := analysis.NewUXAnalyzer(nil, time.Second)

	outcome, analyzeError := analyzer.Analyze(context.Background(), analysis.Target{URL: "https://shop.test", Page: page})
	require.NoError(testInstance, analyzeError)
	require.Equal(testInstance, 100, outcome.Score)
}

package analysis

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const (
	missingViewportIssue    = "Missing viewport meta tag (not mobile friendly)"
	linkClutterIssue        = "Too many links on page (potential clutter)"
	thinParagraphsIssue     = "Many short paragraphs detected (content might be thin)"
	missingViewportPenalty  = 30
	linkClutterPenalty      = 10
	thinParagraphsPenalty   = 5
	linkClutterThreshold    = 100
	shortParagraphLength    = 20
	shortParagraphThreshold = 5
	viewportMetaName        = "viewport"
	anchorSelector          = "a"
	paragraphSelector       = "p"
)

// UXAnalyzer applies static-markup usability heuristics.
type UXAnalyzer struct {
	fetcher PageFetcher
	timeout time.Duration
}

// NewUXAnalyzer constructs a UXAnalyzer.
func NewUXAnalyzer(fetcher PageFetcher, timeout time.Duration) *UXAnalyzer {
	return &UXAnalyzer{fetcher: fetcher, timeout: timeout}
}

// Analyze scores the landing page markup.
func (analyzer *UXAnalyzer) Analyze(executionContext context.Context, target Target) (Outcome, error) {
	page, fetchError := landingPage(executionContext, analyzer.fetcher, target, analyzer.timeout)
	if fetchError != nil {
		return Outcome{}, fetchError
	}
	return EvaluateUX(parseDocument(page.Body)), nil
}

// EvaluateUX scores a parsed document.
func EvaluateUX(document *goquery.Document) Outcome {
	score := MaximumScore
	issues := make([]string, 0)

	if findMetaByName(document, viewportMetaName).Length() == 0 {
		score -= missingViewportPenalty
		issues = append(issues, missingViewportIssue)
	}

	if document.Find(anchorSelector).Length() > linkClutterThreshold {
		score -= linkClutterPenalty
		issues = append(issues, linkClutterIssue)
	}

	shortParagraphs := document.Find(paragraphSelector).FilterFunction(func(_ int, paragraph *goquery.Selection) bool {
		return utf8.RuneCountInString(paragraph.Text()) < shortParagraphLength
	}).Length()
	if shortParagraphs > shortParagraphThreshold {
		score -= thinParagraphsPenalty
		issues = append(issues, thinParagraphsIssue)
	}

	return newOutcome(score, issues)
}

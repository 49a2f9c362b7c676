package analysis

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const (
	missingTitleIssue         = "Missing <title> tag"
	titleLengthIssue          = "Title length should be between 10-60 characters"
	missingDescriptionIssue   = "Missing meta description"
	missingHeadingIssue       = "Missing <h1> tag"
	multipleHeadingsIssue     = "Multiple <h1> tags found (should be one)"
	missingAltTemplate        = "%d images missing alt text"
	missingTitlePenalty       = 20
	titleLengthPenalty        = 5
	missingDescriptionPenalty = 20
	missingHeadingPenalty     = 20
	multipleHeadingsPenalty   = 5
	missingAltPenaltyPerImage = 2
	missingAltPenaltyCap      = 20
	minimumTitleLength        = 10
	maximumTitleLength        = 60
	titleSelector             = "title"
	descriptionMetaName       = "description"
	headingSelector           = "h1"
	imageSelector             = "img"
	contentAttribute          = "content"
	altAttribute              = "alt"
)

// SEOAnalyzer applies static on-page SEO checks. Every penalty applies independently.
type SEOAnalyzer struct {
	fetcher PageFetcher
	timeout time.Duration
}

// NewSEOAnalyzer constructs an SEOAnalyzer.
func NewSEOAnalyzer(fetcher PageFetcher, timeout time.Duration) *SEOAnalyzer {
	return &SEOAnalyzer{fetcher: fetcher, timeout: timeout}
}

// Analyze scores the landing page markup.
func (analyzer *SEOAnalyzer) Analyze(executionContext context.Context, target Target) (Outcome, error) {
	page, fetchError := landingPage(executionContext, analyzer.fetcher, target, analyzer.timeout)
	if fetchError != nil {
		return Outcome{}, fetchError
	}
	return EvaluateSEO(parseDocument(page.Body)), nil
}

// EvaluateSEO scores a parsed document.
func EvaluateSEO(document *goquery.Document) Outcome {
	score := MaximumScore
	issues := make([]string, 0)

	title := document.Find(titleSelector).First().Text()
	titleLength := utf8.RuneCountInString(title)
	switch {
	case titleLength == 0:
		score -= missingTitlePenalty
		issues = append(issues, missingTitleIssue)
	case titleLength < minimumTitleLength || titleLength > maximumTitleLength:
		score -= titleLengthPenalty
		issues = append(issues, titleLengthIssue)
	}

	description, _ := findMetaByName(document, descriptionMetaName).First().Attr(contentAttribute)
	if len(description) == 0 {
		score -= missingDescriptionPenalty
		issues = append(issues, missingDescriptionIssue)
	}

	headingCount := document.Find(headingSelector).Length()
	switch {
	case headingCount == 0:
		score -= missingHeadingPenalty
		issues = append(issues, missingHeadingIssue)
	case headingCount > 1:
		score -= multipleHeadingsPenalty
		issues = append(issues, multipleHeadingsIssue)
	}

	missingAltCount := 0
	document.Find(imageSelector).Each(func(_ int, image *goquery.Selection) {
		altText, _ := image.Attr(altAttribute)
		if len(altText) == 0 {
			missingAltCount++
		}
	})
	if missingAltCount > 0 {
		score -= min(missingAltPenaltyCap, missingAltCount*missingAltPenaltyPerImage)
		issues = append(issues, fmt.Sprintf(missingAltTemplate, missingAltCount))
	}

	return newOutcome(score, issues)
}

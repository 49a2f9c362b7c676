package analysis

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/webclient"
)

const (
	// MaximumScore is the best possible dimension score.
	MaximumScore = 100
	// MinimumScore is the worst possible dimension score.
	MinimumScore = 0

	metaWithNameSelector = "meta[name]"
	nameAttribute        = "name"
)

// Target is the website under analysis with an optional prefetched landing page.
type Target struct {
	URL  string
	Page *webclient.Page
}

// TimingMetrics carries the raw performance measurements.
type TimingMetrics struct {
	ResponseTimeSeconds float64 `json:"response_time_seconds"`
	PageSizeKB          float64 `json:"page_size_kb"`
}

// LinkMetrics carries the link integrity measurements.
type LinkMetrics struct {
	BrokenLinks []string `json:"broken_links"`
	Checked     int      `json:"checked"`
	Count       int      `json:"count"`
}

// Outcome is the result of one analyzer run.
type Outcome struct {
	Score  int      `json:"score"`
	Issues []string `json:"issues"`
	*TimingMetrics
	*LinkMetrics
}

// Analyzer scores one quality dimension of a website.
type Analyzer interface {
	Analyze(executionContext context.Context, target Target) (Outcome, error)
}

// PageFetcher retrieves a landing page.
type PageFetcher interface {
	Fetch(executionContext context.Context, targetURL string, timeout time.Duration) (webclient.Page, error)
}

// LinkProber checks whether a URL exists.
type LinkProber interface {
	Probe(executionContext context.Context, targetURL string, timeout time.Duration) (int, error)
}

// ClampScore bounds a score to [0,100].
func ClampScore(score int) int {
	if score < MinimumScore {
		return MinimumScore
	}
	if score > MaximumScore {
		return MaximumScore
	}
	return score
}

func newOutcome(score int, issues []string) Outcome {
	if issues == nil {
		issues = []string{}
	}
	return Outcome{Score: ClampScore(score), Issues: issues}
}

// landingPage returns the prefetched page or fetches the target once.
func landingPage(executionContext context.Context, fetcher PageFetcher, target Target, timeout time.Duration) (webclient.Page, error) {
	if target.Page != nil {
		return *target.Page, nil
	}
	return fetcher.Fetch(executionContext, target.URL, timeout)
}

// parseDocument treats unparseable markup as an empty document so that every
// structural check reports absence.
func parseDocument(body []byte) *goquery.Document {
	document, parseError := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if parseError != nil {
		return goquery.NewDocumentFromNode(&html.Node{Type: html.DocumentNode})
	}
	return document
}

// findMetaByName matches meta tags by name without regard to case.
func findMetaByName(document *goquery.Document, metaName string) *goquery.Selection {
	return document.Find(metaWithNameSelector).FilterFunction(func(_ int, meta *goquery.Selection) bool {
		nameValue, _ := meta.Attr(nameAttribute)
		return strings.EqualFold(strings.TrimSpace(nameValue), metaName)
	})
}

package analysis

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/webclient"
)

const (
	brokenLinkPenaltyPerLink = 5
	brokenLinkPenaltyCap     = 40
	anchorWithHrefSelector   = "a[href]"
	hrefAttribute            = "href"
	httpScheme               = "http"
	httpsScheme              = "https"
)

// LinkIntegrityChecker probes same-domain links found on the landing page.
type LinkIntegrityChecker struct {
	fetcher      PageFetcher
	prober       LinkProber
	pageTimeout  time.Duration
	probeTimeout time.Duration
	limit        int
}

// NewLinkIntegrityChecker constructs a LinkIntegrityChecker. The limit never exceeds LinkProbeLimit.
func NewLinkIntegrityChecker(fetcher PageFetcher, prober LinkProber, pageTimeout time.Duration, probeTimeout time.Duration, limit int) *LinkIntegrityChecker {
	if limit <= 0 || limit > LinkProbeLimit {
		limit = LinkProbeLimit
	}
	return &LinkIntegrityChecker{fetcher: fetcher, prober: prober, pageTimeout: pageTimeout, probeTimeout: probeTimeout, limit: limit}
}

// Analyze probes up to the configured number of distinct same-domain links.
// A link is broken when the probe fails or answers with status 400 or above.
func (checker *LinkIntegrityChecker) Analyze(executionContext context.Context, target Target) (Outcome, error) {
	page, fetchError := landingPage(executionContext, checker.fetcher, target, checker.pageTimeout)
	if fetchError != nil {
		return Outcome{}, fetchError
	}

	baseURL, baseError := url.Parse(pageBaseURL(page, target.URL))
	if baseError != nil {
		return Outcome{}, baseError
	}

	links := SameDomainLinks(parseDocument(page.Body), baseURL, checker.limit)
	brokenLinks := make([]string, 0)
	for _, link := range links {
		statusCode, probeError := checker.prober.Probe(executionContext, link, checker.probeTimeout)
		if probeError != nil || statusCode >= http.StatusBadRequest {
			brokenLinks = append(brokenLinks, link)
		}
	}

	return LinkOutcome(brokenLinks, len(links)), nil
}

// LinkOutcome scores a set of broken links.
func LinkOutcome(brokenLinks []string, checked int) Outcome {
	if brokenLinks == nil {
		brokenLinks = []string{}
	}
	outcome := newOutcome(MaximumScore-min(brokenLinkPenaltyCap, brokenLinkPenaltyPerLink*len(brokenLinks)), nil)
	outcome.LinkMetrics = &LinkMetrics{BrokenLinks: brokenLinks, Checked: checked, Count: len(brokenLinks)}
	return outcome
}

// SameDomainLinks resolves anchors against baseURL and returns the first limit
// distinct absolute URLs on the same host, fragments removed.
func SameDomainLinks(document *goquery.Document, baseURL *url.URL, limit int) []string {
	links := make([]string, 0, limit)
	seen := make(map[string]struct{})

	document.Find(anchorWithHrefSelector).EachWithBreak(func(_ int, anchor *goquery.Selection) bool {
		href, _ := anchor.Attr(hrefAttribute)
		resolved, resolveError := baseURL.Parse(strings.TrimSpace(href))
		if resolveError != nil {
			return true
		}
		if resolved.Scheme != httpScheme && resolved.Scheme != httpsScheme {
			return true
		}
		if !strings.EqualFold(resolved.Host, baseURL.Host) {
			return true
		}

		resolved.Fragment = ""
		resolved.RawFragment = ""
		absolute := resolved.String()
		if _, exists := seen[absolute]; exists {
			return true
		}
		seen[absolute] = struct{}{}
		links = append(links, absolute)
		return len(links) < limit
	})

	return links
}

func pageBaseURL(page webclient.Page, fallback string) string {
	if len(page.FinalURL) > 0 {
		return page.FinalURL
	}
	if len(page.RequestedURL) > 0 {
		return page.RequestedURL
	}
	return webclient.NormalizeURL(fallback)
}

package acquisition

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/leads"
)

const (
	emailPatternConstant           = `[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`
	mailtoSelectorConstant         = `a[href^="mailto:"], a[href^="MAILTO:"]`
	mailtoPrefixConstant           = "mailto:"
	mailtoQuerySeparatorConstant   = "?"
	hiddenTextSelectorConstant     = "script, style, noscript, template"
	hrefAttributeConstant          = "href"
	defaultResolverTimeoutConstant = 10 * time.Second
	resolverFetchFailedLogMessage  = "Contact page fetch failed"
	resolverStatusLogMessage       = "Contact page returned non-success status"
	resolverParseFailedLogMessage  = "Contact page could not be parsed"
	resolverWebsiteFieldConstant   = "website"
	resolverStatusFieldConstant    = "status"
	resolverErrorFieldConstant     = "error"
	resolverMaximumMatchesConstant = -1
)

var (
	emailPattern         = regexp.MustCompile(emailPatternConstant)
	anchoredEmailPattern = regexp.MustCompile(`^` + emailPatternConstant + `$`)

	// rejectedEmailSuffixes filter asset names and placeholder addresses that look like emails.
	rejectedEmailSuffixes = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg", "example.com"}
)

// EmailResolver finds a plausible contact address on a website's landing page.
type EmailResolver struct {
	fetcher PageFetcher
	timeout time.Duration
	logger  *zap.Logger
}

// NewEmailResolver builds an EmailResolver. A non-positive timeout uses ten seconds.
func NewEmailResolver(fetcher PageFetcher, timeout time.Duration, logger *zap.Logger) *EmailResolver {
	if timeout <= 0 {
		timeout = defaultResolverTimeoutConstant
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailResolver{fetcher: fetcher, timeout: timeout, logger: logger}
}

// Resolve fetches websiteURL once and returns the first acceptable address.
// Visible text wins over mailto links. Any failure yields no address.
func (resolver *EmailResolver) Resolve(executionContext context.Context, websiteURL string) (string, bool) {
	if resolver == nil || resolver.fetcher == nil || !leads.HasValue(websiteURL) {
		return "", false
	}

	page, fetchError := resolver.fetcher.Fetch(executionContext, websiteURL, resolver.timeout)
	if fetchError != nil {
		resolver.logger.Debug(resolverFetchFailedLogMessage, zap.String(resolverWebsiteFieldConstant, websiteURL), zap.Error(fetchError))
		return "", false
	}
	if !page.OK() {
		resolver.logger.Debug(resolverStatusLogMessage, zap.String(resolverWebsiteFieldConstant, websiteURL), zap.Int(resolverStatusFieldConstant, page.StatusCode))
		return "", false
	}

	document, parseError := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if parseError != nil {
		resolver.logger.Debug(resolverParseFailedLogMessage, zap.String(resolverWebsiteFieldConstant, websiteURL), zap.String(resolverErrorFieldConstant, parseError.Error()))
		return "", false
	}

	return ExtractEmail(document)
}

// ExtractEmail applies the text-then-mailto search to a parsed document.
func ExtractEmail(document *goquery.Document) (string, bool) {
	if document == nil {
		return "", false
	}

	visible := document.Clone()
	visible.Find(hiddenTextSelectorConstant).Remove()
	for _, candidate := range emailPattern.FindAllString(visible.Text(), resolverMaximumMatchesConstant) {
		if AcceptableEmail(candidate) {
			return candidate, true
		}
	}

	var resolved string
	document.Find(mailtoSelectorConstant).EachWithBreak(func(_ int, anchor *goquery.Selection) bool {
		href, exists := anchor.Attr(hrefAttributeConstant)
		if !exists {
			return true
		}
		address := strings.TrimSpace(href[len(mailtoPrefixConstant):])
		if separatorIndex := strings.Index(address, mailtoQuerySeparatorConstant); separatorIndex >= 0 {
			address = address[:separatorIndex]
		}
		if anchoredEmailPattern.MatchString(address) && AcceptableEmail(address) {
			resolved = address
			return false
		}
		return true
	})

	return resolved, len(resolved) > 0
}

// AcceptableEmail rejects asset file names and placeholder domains.
func AcceptableEmail(candidate string) bool {
	lowered := strings.ToLower(strings.TrimSpace(candidate))
	if len(lowered) == 0 {
		return false
	}
	for _, suffix := range rejectedEmailSuffixes {
		if strings.HasSuffix(lowered, suffix) {
			return false
		}
	}
	return true
}

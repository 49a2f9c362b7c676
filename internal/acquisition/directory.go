package acquisition

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/failures"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/leads"
)

const (
	// DefaultDirectoryBaseURLConstant is the listing site queried by DirectoryAcquirer.
	DefaultDirectoryBaseURLConstant = "https://www.justdial.com"

	directoryCardSelectorConstant     = ".resultbox"
	directoryNameSelectorConstant     = ".resultbox_title_anchor"
	directoryPhoneSelectorConstant    = ".contact-info"
	directoryAddressSelectorConstant  = ".address-info"
	directoryWebsiteSelectorConstant  = ".website_icon"
	directoryPathSeparatorConstant    = "/"
	directoryOperationConstant        = "directory listing"
	directoryDiscardedLogMessage      = "Discarded directory card without website"
	directoryAcceptedLogMessage       = "Accepted directory candidate"
	directoryStatusLogMessage         = "Directory page returned non-success status"
	directoryNameFieldConstant        = "name"
	directoryWebsiteFieldConstant     = "website"
	directoryStatusFieldConstant      = "status"
	directoryURLFieldConstant         = "url"
	directoryURLCompositionTemplate   = "%s/%s/%s"
	directoryEmptyQueryMessage        = "keyword and location are required"
	directoryQueryValidationOperation = "directory query"
)

// DirectoryConfiguration controls the static directory acquirer.
type DirectoryConfiguration struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// DefaultDirectoryConfiguration returns the baseline directory settings.
func DefaultDirectoryConfiguration() DirectoryConfiguration {
	return DirectoryConfiguration{
		BaseURL:        DefaultDirectoryBaseURLConstant,
		RequestTimeout: defaultResolverTimeoutConstant,
	}
}

func (configuration DirectoryConfiguration) sanitize() DirectoryConfiguration {
	defaults := DefaultDirectoryConfiguration()
	sanitized := configuration
	sanitized.BaseURL = strings.TrimRight(strings.TrimSpace(configuration.BaseURL), directoryPathSeparatorConstant)
	if len(sanitized.BaseURL) == 0 {
		sanitized.BaseURL = defaults.BaseURL
	}
	if sanitized.RequestTimeout <= 0 {
		sanitized.RequestTimeout = defaults.RequestTimeout
	}
	return sanitized
}

// DirectoryAcquirer reads candidates from a static listing page with a single request.
type DirectoryAcquirer struct {
	fetcher       PageFetcher
	configuration DirectoryConfiguration
	logger        *zap.Logger
}

// NewDirectoryAcquirer constructs a DirectoryAcquirer.
func NewDirectoryAcquirer(fetcher PageFetcher, configuration DirectoryConfiguration, logger *zap.Logger) *DirectoryAcquirer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryAcquirer{fetcher: fetcher, configuration: configuration.sanitize(), logger: logger}
}

// ListingURL composes the directory page address for a query.
func (acquirer *DirectoryAcquirer) ListingURL(query Query) string {
	return fmt.Sprintf(
		directoryURLCompositionTemplate,
		acquirer.configuration.BaseURL,
		url.PathEscape(strings.TrimSpace(query.Location)),
		url.PathEscape(strings.TrimSpace(query.Keyword)),
	)
}

// Acquire fetches the listing page once and returns up to TargetCount candidates that carry a website.
func (acquirer *DirectoryAcquirer) Acquire(executionContext context.Context, query Query) ([]leads.Candidate, error) {
	if len(strings.TrimSpace(query.Keyword)) == 0 || len(strings.TrimSpace(query.Location)) == 0 {
		return nil, failures.ConfigurationError{Setting: directoryQueryValidationOperation, Message: directoryEmptyQueryMessage}
	}
	if query.TargetCount <= 0 {
		return nil, nil
	}

	listingURL := acquirer.ListingURL(query)
	page, fetchError := acquirer.fetcher.Fetch(executionContext, listingURL, acquirer.configuration.RequestTimeout)
	if fetchError != nil {
		return nil, fetchError
	}
	if !page.OK() {
		acquirer.logger.Warn(directoryStatusLogMessage, zap.String(directoryURLFieldConstant, listingURL), zap.Int(directoryStatusFieldConstant, page.StatusCode))
		return nil, failures.NetworkError{Operation: directoryOperationConstant, Target: listingURL, Cause: failures.UnexpectedStatusError{StatusCode: page.StatusCode}}
	}

	return acquirer.ParseListing(page.Body, query.TargetCount)
}

// ParseListing extracts candidates from directory markup in document order.
// Cards without a website are discarded and do not count toward targetCount.
func (acquirer *DirectoryAcquirer) ParseListing(body []byte, targetCount int) ([]leads.Candidate, error) {
	document, parseError := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if parseError != nil {
		return nil, failures.ParseError{Operation: directoryOperationConstant, Target: acquirer.configuration.BaseURL, Cause: parseError}
	}

	candidates := make([]leads.Candidate, 0, targetCount)
	document.Find(directoryCardSelectorConstant).EachWithBreak(func(_ int, card *goquery.Selection) bool {
		if len(candidates) >= targetCount {
			return false
		}

		candidate, accepted := acquirer.parseCard(card)
		if !accepted {
			acquirer.logger.Debug(directoryDiscardedLogMessage, zap.String(directoryNameFieldConstant, candidate.BusinessName))
			return true
		}

		acquirer.logger.Debug(directoryAcceptedLogMessage, zap.String(directoryNameFieldConstant, candidate.BusinessName), zap.String(directoryWebsiteFieldConstant, candidate.Website))
		candidates = append(candidates, candidate)
		return len(candidates) < targetCount
	})

	return candidates, nil
}

func (acquirer *DirectoryAcquirer) parseCard(card *goquery.Selection) (leads.Candidate, bool) {
	name := strings.TrimSpace(card.Find(directoryNameSelectorConstant).First().Text())
	if len(name) == 0 {
		name = leads.UnknownNameValue
	}

	candidate := leads.Candidate{
		BusinessName: name,
		Category:     leads.NotAvailableValue,
		Address:      leads.ValueOrPlaceholder(card.Find(directoryAddressSelectorConstant).First().Text()),
		Phone:        leads.ValueOrPlaceholder(card.Find(directoryPhoneSelectorConstant).First().Text()),
		Email:        leads.NotAvailableValue,
		Website:      leads.NotAvailableValue,
		Source:       leads.SourceJustDial,
	}

	website, exists := card.Find(directoryWebsiteSelectorConstant).First().Attr(hrefAttributeConstant)
	if !exists || !leads.HasValue(website) {
		return candidate, false
	}
	candidate.Website = strings.TrimSpace(website)
	return candidate, true
}

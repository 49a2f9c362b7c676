package acquisition

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/failures"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/leads"
)

const (
	// WebsiteSelectorConstant locates the business website link in the detail pane.
	WebsiteSelectorConstant = `a[data-item-id="authority"]`
	// PhoneSelectorConstant locates the phone action in the detail pane.
	PhoneSelectorConstant   = `button[data-item-id^="phone"]`
	// AddressSelectorConstant locates the address action in the detail pane.
	AddressSelectorConstant = `button[data-item-id="address"]`

	ariaLabelAttributeConstant = "aria-label"
	phoneLabelPrefixConstant   = "Phone: "
	addressLabelPrefixConstant = "Address: "
	searchQueryTemplate        = "%s in %s"

	defaultScrollIterationsConstant = 3
	defaultScrollPauseConstant      = 2 * time.Second
	defaultSettleDelayConstant      = 2 * time.Second
	defaultStagnationLimitConstant  = 2

	listingOpenOperationConstant    = "open session"
	listingSearchOperationConstant  = "submit search"
	listingCountOperationConstant   = "enumerate candidates"
	listingEmptyQueryMessage        = "keyword and location are required"
	listingQueryValidationOperation = "listing query"
	listingMissingNameMessage       = "candidate has no accessible name"
	listingMissingWebsiteTemplate   = "candidate %q has no website"
	listingPanicTemplate            = "candidate %d: %v"

	listingFeedMissingLogMessage    = "Results feed did not appear; continuing with inline results"
	listingScrollFailedLogMessage   = "Results scroll failed"
	listingScrollStagnantLogMessage = "Scrolling stopped after consecutive scrolls added no candidates"
	listingCandidatesLogMessage     = "Enumerated listing candidates"
	listingSkippedLogMessage        = "Skipped listing candidate"
	listingAcceptedLogMessage       = "Extracted listing candidate"
	listingCloseFailedLogMessage    = "Browser session close failed"
	listingQueryFieldConstant       = "query"
	listingIndexFieldConstant       = "index"
	listingCountFieldConstant       = "count"
	listingTargetFieldConstant      = "target"
	listingNameFieldConstant        = "name"
	listingWebsiteFieldConstant     = "website"
	listingReasonFieldConstant      = "reason"
)

var (
	errMissingCandidateName = errors.New(listingMissingNameMessage)
)

// ListingSession is the browser surface a ListingAcquirer drives.
// Implementations own exactly one page and are not safe for concurrent use.
type ListingSession interface {
	Search(executionContext context.Context, query string) error
	AwaitResults(executionContext context.Context) bool
	ScrollResults(executionContext context.Context) error
	CountCandidates(executionContext context.Context) (int, error)
	CandidateName(executionContext context.Context, index int) (string, error)
	OpenCandidate(executionContext context.Context, index int) error
	DetailAttribute(executionContext context.Context, selector string, attribute string) (string, error)
	Close() error
}

// SessionFactory opens a fresh ListingSession for each acquisition run.
type SessionFactory interface {
	OpenSession(executionContext context.Context) (ListingSession, error)
}

// ListingConfiguration tunes the scroll and settle behavior of ListingAcquirer.
type ListingConfiguration struct {
	ScrollIterations int           `mapstructure:"scroll_iterations"`
	ScrollPause      time.Duration `mapstructure:"scroll_pause"`
	SettleDelay      time.Duration `mapstructure:"settle_delay"`
	StagnationLimit  int           `mapstructure:"stagnation_limit"`
}

// DefaultListingConfiguration returns the baseline listing settings.
func DefaultListingConfiguration() ListingConfiguration {
	return ListingConfiguration{
		ScrollIterations: defaultScrollIterationsConstant,
		ScrollPause:      defaultScrollPauseConstant,
		SettleDelay:      defaultSettleDelayConstant,
		StagnationLimit:  defaultStagnationLimitConstant,
	}
}

// ListingAcquirer extracts candidates from a dynamic, scroll-paginated search surface.
type ListingAcquirer struct {
	sessions      SessionFactory
	resolver      ContactResolver
	configuration ListingConfiguration
	logger        *zap.Logger
}

// NewListingAcquirer constructs a ListingAcquirer. Zero durations disable the corresponding pause.
func NewListingAcquirer(sessions SessionFactory, resolver ContactResolver, configuration ListingConfiguration, logger *zap.Logger) *ListingAcquirer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if configuration.ScrollIterations < 0 {
		configuration.ScrollIterations = 0
	}
	if configuration.StagnationLimit <= 0 {
		configuration.StagnationLimit = defaultStagnationLimitConstant
	}
	return &ListingAcquirer{sessions: sessions, resolver: resolver, configuration: configuration, logger: logger}
}

// Acquire runs one browser session for the query and returns at most TargetCount candidates,
// each carrying a website. A session that cannot be opened or searched aborts the run.
func (acquirer *ListingAcquirer) Acquire(executionContext context.Context, query Query) (candidates []leads.Candidate, acquireError error) {
	if len(strings.TrimSpace(query.Keyword)) == 0 || len(strings.TrimSpace(query.Location)) == 0 {
		return nil, failures.ConfigurationError{Setting: listingQueryValidationOperation, Message: listingEmptyQueryMessage}
	}
	if query.TargetCount <= 0 {
		return nil, nil
	}

	session, openError := acquirer.sessions.OpenSession(executionContext)
	if openError != nil {
		return nil, asSessionError(listingOpenOperationConstant, openError)
	}
	defer func() {
		if closeError := session.Close(); closeError != nil {
			acquirer.logger.Warn(listingCloseFailedLogMessage, zap.Error(closeError))
		}
	}()

	searchQuery := fmt.Sprintf(searchQueryTemplate, strings.TrimSpace(query.Keyword), strings.TrimSpace(query.Location))
	if searchError := session.Search(executionContext, searchQuery); searchError != nil {
		return nil, asSessionError(listingSearchOperationConstant, searchError)
	}

	if !session.AwaitResults(executionContext) {
		acquirer.logger.Info(listingFeedMissingLogMessage, zap.String(listingQueryFieldConstant, searchQuery))
	}

	acquirer.scroll(executionContext, session)

	total, countError := session.CountCandidates(executionContext)
	if countError != nil {
		return nil, asSessionError(listingCountOperationConstant, countError)
	}
	acquirer.logger.Info(listingCandidatesLogMessage, zap.Int(listingCountFieldConstant, total), zap.Int(listingTargetFieldConstant, query.TargetCount))

	candidates = make([]leads.Candidate, 0, query.TargetCount)
	for index := 0; index < total && len(candidates) < query.TargetCount; index++ {
		if contextError := executionContext.Err(); contextError != nil {
			return candidates, contextError
		}

		candidate, extractError := acquirer.extractCandidate(executionContext, session, index, query)
		if extractError != nil {
			acquirer.logger.Info(listingSkippedLogMessage, zap.Int(listingIndexFieldConstant, index), zap.String(listingReasonFieldConstant, extractError.Error()))
			continue
		}

		acquirer.logger.Info(listingAcceptedLogMessage, zap.String(listingNameFieldConstant, candidate.BusinessName), zap.String(listingWebsiteFieldConstant, candidate.Website))
		candidates = append(candidates, candidate)
	}

	return candidates, nil
}

func (acquirer *ListingAcquirer) scroll(executionContext context.Context, session ListingSession) {
	previousCount, _ := session.CountCandidates(executionContext)
	stagnantScrolls := 0

	for iteration := 0; iteration < acquirer.configuration.ScrollIterations; iteration++ {
		if scrollError := session.ScrollResults(executionContext); scrollError != nil {
			acquirer.logger.Debug(listingScrollFailedLogMessage, zap.Error(scrollError))
		}
		if waitFor(executionContext, acquirer.configuration.ScrollPause) != nil {
			return
		}

		currentCount, countError := session.CountCandidates(executionContext)
		if countError != nil || currentCount <= previousCount {
			stagnantScrolls++
			if stagnantScrolls >= acquirer.configuration.StagnationLimit {
				acquirer.logger.Debug(listingScrollStagnantLogMessage, zap.Int(listingCountFieldConstant, previousCount))
				return
			}
			continue
		}

		stagnantScrolls = 0
		previousCount = currentCount
	}
}

// extractCandidate reads the name before interacting; opening the detail pane may
// re-render the list.
func (acquirer *ListingAcquirer) extractCandidate(executionContext context.Context, session ListingSession, index int, query Query) (candidate leads.Candidate, extractError error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			extractError = fmt.Errorf(listingPanicTemplate, index, recovered)
		}
	}()

	name, nameError := session.CandidateName(executionContext, index)
	if nameError != nil {
		return leads.Candidate{}, nameError
	}
	name = strings.TrimSpace(name)
	if len(name) == 0 {
		return leads.Candidate{}, errMissingCandidateName
	}

	if openError := session.OpenCandidate(executionContext, index); openError != nil {
		return leads.Candidate{}, openError
	}
	if waitError := waitFor(executionContext, acquirer.configuration.SettleDelay); waitError != nil {
		return leads.Candidate{}, waitError
	}

	website, websiteError := session.DetailAttribute(executionContext, WebsiteSelectorConstant, hrefAttributeConstant)
	if websiteError != nil {
		return leads.Candidate{}, websiteError
	}
	if !leads.HasValue(website) {
		return leads.Candidate{}, fmt.Errorf(listingMissingWebsiteTemplate, name)
	}

	phone, _ := session.DetailAttribute(executionContext, PhoneSelectorConstant, ariaLabelAttributeConstant)
	address, _ := session.DetailAttribute(executionContext, AddressSelectorConstant, ariaLabelAttributeConstant)

	email := leads.NotAvailableValue
	if acquirer.resolver != nil {
		if resolvedEmail, found := acquirer.resolver.Resolve(executionContext, website); found {
			email = resolvedEmail
		}
	}

	return leads.Candidate{
		BusinessName: name,
		Category:     strings.TrimSpace(query.Keyword),
		Address:      leads.ValueOrPlaceholder(strings.Replace(address, addressLabelPrefixConstant, "", 1)),
		Phone:        leads.ValueOrPlaceholder(strings.Replace(phone, phoneLabelPrefixConstant, "", 1)),
		Email:        email,
		Website:      strings.TrimSpace(website),
		Source:       leads.SourceGoogleMaps,
	}, nil
}

func asSessionError(operation string, cause error) error {
	var sessionError failures.SessionError
	if errors.As(cause, &sessionError) {
		return cause
	}
	return failures.SessionError{Operation: operation, Cause: cause}
}

package acquisition

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/browser"
)

const (
	// DefaultSearchSurfaceURLConstant is the dynamic search page driven by the browser session.
	DefaultSearchSurfaceURLConstant = "https://www.google.com/maps"

	searchInputSelectorConstant = `input#searchboxinput`
	resultsFeedSelectorConstant = `div[role="feed"]`

	defaultNavigationTimeoutConstant = 60 * time.Second
	defaultResultsTimeoutConstant    = 10 * time.Second
	defaultActionTimeoutConstant     = 15 * time.Second

	candidateMissingTemplate = "candidate %d is no longer present"

	consentScript = `(function () {
  const selectors = [
    'button[aria-label="Accept all"]',
    'button[aria-label="I agree"]',
    'button[aria-label="Alles akzeptieren"]'
  ];
  for (const sel of selectors) {
    const btn = document.querySelector(sel);
    if (btn) {
      btn.click();
      return true;
    }
  }
  return false;
})();`

	scrollScript = `(function () {
  const feed = document.querySelector('div[role="feed"]');
  if (feed) {
    feed.scrollBy(0, 5000);
    return true;
  }
  window.scrollBy(0, 5000);
  return false;
})();`

	countScript = `document.querySelectorAll('div[role="article"]').length`

	candidateNameTemplate = `(function () {
  const item = document.querySelectorAll('div[role="article"]')[%d];
  return item ? (item.getAttribute('aria-label') || '') : '';
})();`

	candidateClickTemplate = `(function () {
  const item = document.querySelectorAll('div[role="article"]')[%d];
  if (!item) {
    return false;
  }
  item.scrollIntoView({block: 'center'});
  item.click();
  return true;
})();`

	detailAttributeTemplate = `(function () {
  const element = document.querySelector(%q);
  return element ? (element.getAttribute(%q) || '') : '';
})();`
)

// SessionConfiguration controls navigation and waits of the listing browser session.
type SessionConfiguration struct {
	SearchURL         string        `mapstructure:"search_url"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout"`
	ResultsTimeout    time.Duration `mapstructure:"results_timeout"`
	ActionTimeout     time.Duration `mapstructure:"action_timeout"`
}

// DefaultSessionConfiguration returns the baseline session settings.
func DefaultSessionConfiguration() SessionConfiguration {
	return SessionConfiguration{
		SearchURL:         DefaultSearchSurfaceURLConstant,
		NavigationTimeout: defaultNavigationTimeoutConstant,
		ResultsTimeout:    defaultResultsTimeoutConstant,
		ActionTimeout:     defaultActionTimeoutConstant,
	}
}

func (configuration SessionConfiguration) sanitize() SessionConfiguration {
	defaults := DefaultSessionConfiguration()
	sanitized := configuration
	sanitized.SearchURL = strings.TrimSpace(configuration.SearchURL)
	if len(sanitized.SearchURL) == 0 {
		sanitized.SearchURL = defaults.SearchURL
	}
	if sanitized.NavigationTimeout <= 0 {
		sanitized.NavigationTimeout = defaults.NavigationTimeout
	}
	if sanitized.ResultsTimeout <= 0 {
		sanitized.ResultsTimeout = defaults.ResultsTimeout
	}
	if sanitized.ActionTimeout <= 0 {
		sanitized.ActionTimeout = defaults.ActionTimeout
	}
	return sanitized
}

// ChromeSessionFactory launches a dedicated Chrome process per session.
type ChromeSessionFactory struct {
	browserConfiguration browser.Configuration
	configuration        SessionConfiguration
}

// NewChromeSessionFactory constructs a ChromeSessionFactory.
func NewChromeSessionFactory(browserConfiguration browser.Configuration, configuration SessionConfiguration) *ChromeSessionFactory {
	return &ChromeSessionFactory{browserConfiguration: browserConfiguration.Sanitize(), configuration: configuration.sanitize()}
}

// OpenSession starts a browser and returns a session bound to its first tab.
func (factory *ChromeSessionFactory) OpenSession(executionContext context.Context) (ListingSession, error) {
	allocatorContext, allocatorCancel := chromedp.NewExecAllocator(executionContext, factory.browserConfiguration.AllocatorOptions()...)
	browserContext, browserCancel := chromedp.NewContext(allocatorContext)

	if startError := chromedp.Run(browserContext); startError != nil {
		browserCancel()
		allocatorCancel()
		return nil, startError
	}

	return &chromeListingSession{
		browserContext:  browserContext,
		browserCancel:   browserCancel,
		allocatorCancel: allocatorCancel,
		configuration:   factory.configuration,
	}, nil
}

type chromeListingSession struct {
	browserContext  context.Context
	browserCancel   context.CancelFunc
	allocatorCancel context.CancelFunc
	configuration   SessionConfiguration
}

func (session *chromeListingSession) run(timeout time.Duration, actions ...chromedp.Action) error {
	operationContext, cancel := context.WithTimeout(session.browserContext, timeout)
	defer cancel()
	return chromedp.Run(operationContext, actions...)
}

func (session *chromeListingSession) Search(_ context.Context, query string) error {
	return session.run(session.configuration.NavigationTimeout,
		chromedp.Navigate(session.configuration.SearchURL),
		chromedp.ActionFunc(func(actionContext context.Context) error {
			return chromedp.Evaluate(consentScript, nil).Do(actionContext)
		}),
		chromedp.WaitVisible(searchInputSelectorConstant, chromedp.ByQuery),
		chromedp.SetValue(searchInputSelectorConstant, "", chromedp.ByQuery),
		chromedp.SendKeys(searchInputSelectorConstant, query+kb.Enter, chromedp.ByQuery),
	)
}

func (session *chromeListingSession) AwaitResults(_ context.Context) bool {
	return session.run(session.configuration.ResultsTimeout, chromedp.WaitVisible(resultsFeedSelectorConstant, chromedp.ByQuery)) == nil
}

func (session *chromeListingSession) ScrollResults(_ context.Context) error {
	var scrolledFeed bool
	return session.run(session.configuration.ActionTimeout, chromedp.Evaluate(scrollScript, &scrolledFeed))
}

func (session *chromeListingSession) CountCandidates(_ context.Context) (int, error) {
	var count int
	if countError := session.run(session.configuration.ActionTimeout, chromedp.Evaluate(countScript, &count)); countError != nil {
		return 0, countError
	}
	return count, nil
}

func (session *chromeListingSession) CandidateName(_ context.Context, index int) (string, error) {
	var name string
	nameError := session.run(session.configuration.ActionTimeout, chromedp.Evaluate(fmt.Sprintf(candidateNameTemplate, index), &name))
	return name, nameError
}

func (session *chromeListingSession) OpenCandidate(_ context.Context, index int) error {
	var clicked bool
	if clickError := session.run(session.configuration.ActionTimeout, chromedp.Evaluate(fmt.Sprintf(candidateClickTemplate, index), &clicked)); clickError != nil {
		return clickError
	}
	if !clicked {
		return fmt.Errorf(candidateMissingTemplate, index)
	}
	return nil
}

func (session *chromeListingSession) DetailAttribute(_ context.Context, selector string, attribute string) (string, error) {
	var value string
	attributeError := session.run(session.configuration.ActionTimeout, chromedp.Evaluate(fmt.Sprintf(detailAttributeTemplate, selector, attribute), &value))
	return strings.TrimSpace(value), attributeError
}

func (session *chromeListingSession) Close() error {
	closeError := chromedp.Cancel(session.browserContext)
	session.browserCancel()
	session.allocatorCancel()
	if errors.Is(closeError, context.Canceled) {
		return nil
	}
	return closeError
}

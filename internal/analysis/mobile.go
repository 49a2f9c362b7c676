package analysis

import (
	"context"
	"errors"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/device"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/failures"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/webclient"
)

const (
	horizontalOverflowIssue   = "Horizontal scroll detected (content overflows screen)"
	mobileLoadFailureIssue    = "Failed to load on mobile emulator"
	horizontalOverflowPenalty = 30
	mobileLaunchOperation     = "launch mobile emulator"
	scrollWidthScript         = `(document.body || document.documentElement).scrollWidth`
	viewportWidthScript       = `window.innerWidth`
)

// Viewport is the rendered geometry of a page on the emulated device.
type Viewport struct {
	ScrollWidth   int
	ViewportWidth int
}

// MobileRenderer loads a page on an emulated phone. It returns a SessionError
// when the rendering session itself cannot start, and any other error when the
// page fails to load.
type MobileRenderer interface {
	Render(executionContext context.Context, targetURL string) (Viewport, error)
}

// MobileAnalyzer scores horizontal overflow on a phone-sized viewport.
type MobileAnalyzer struct {
	renderer MobileRenderer
}

// NewMobileAnalyzer constructs a MobileAnalyzer.
func NewMobileAnalyzer(renderer MobileRenderer) *MobileAnalyzer {
	return &MobileAnalyzer{renderer: renderer}
}

// Analyze renders the target. A page that fails to load scores zero; a session
// that cannot be started, or a cancelled caller, is returned as an error.
func (analyzer *MobileAnalyzer) Analyze(executionContext context.Context, target Target) (Outcome, error) {
	viewport, renderError := analyzer.renderer.Render(executionContext, webclient.NormalizeURL(target.URL))
	if renderError != nil {
		if failures.IsSession(renderError) {
			return Outcome{}, renderError
		}
		if contextError := executionContext.Err(); contextError != nil {
			return Outcome{}, contextError
		}
		return newOutcome(MinimumScore, []string{mobileLoadFailureIssue}), nil
	}
	return EvaluateViewport(viewport), nil
}

// EvaluateViewport scores rendered geometry.
func EvaluateViewport(viewport Viewport) Outcome {
	score := MaximumScore
	issues := make([]string, 0)
	if viewport.ScrollWidth > viewport.ViewportWidth {
		score -= horizontalOverflowPenalty
		issues = append(issues, horizontalOverflowIssue)
	}
	return newOutcome(score, issues)
}

// ChromeMobileRenderer renders each page in its own headless Chrome process
// emulating an iPhone 12.
type ChromeMobileRenderer struct {
	allocatorOptions []chromedp.ExecAllocatorOption
	timeout          time.Duration
}

// NewChromeMobileRenderer constructs a ChromeMobileRenderer.
func NewChromeMobileRenderer(allocatorOptions []chromedp.ExecAllocatorOption, timeout time.Duration) *ChromeMobileRenderer {
	if len(allocatorOptions) == 0 {
		allocatorOptions = chromedp.DefaultExecAllocatorOptions[:]
	}
	return &ChromeMobileRenderer{allocatorOptions: allocatorOptions, timeout: timeout}
}

// Render launches a browser, navigates with the configured timeout, and measures widths.
func (renderer *ChromeMobileRenderer) Render(executionContext context.Context, targetURL string) (Viewport, error) {
	allocatorContext, allocatorCancel := chromedp.NewExecAllocator(executionContext, renderer.allocatorOptions...)
	defer allocatorCancel()

	browserContext, browserCancel := chromedp.NewContext(allocatorContext)
	defer browserCancel()

	if startError := chromedp.Run(browserContext); startError != nil {
		return Viewport{}, failures.SessionError{Operation: mobileLaunchOperation, Cause: startError}
	}

	navigationContext, navigationCancel := context.WithTimeout(browserContext, renderer.timeout)
	defer navigationCancel()

	var viewport Viewport
	renderError := chromedp.Run(navigationContext,
		chromedp.Emulate(device.IPhone12),
		chromedp.Navigate(targetURL),
		chromedp.Evaluate(scrollWidthScript, &viewport.ScrollWidth),
		chromedp.Evaluate(viewportWidthScript, &viewport.ViewportWidth),
	)
	if renderError != nil {
		if errors.Is(renderError, context.Canceled) && executionContext.Err() != nil {
			return Viewport{}, executionContext.Err()
		}
		return Viewport{}, renderError
	}
	return viewport, nil
}

package acquisition

import (
	"context"
	"strings"
	"time"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/leads"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/webclient"
)

// SourceKind selects an acquirer.
type SourceKind string

// Supported acquisition sources.
const (
	SourceKindMaps     SourceKind = SourceKind("maps")
	SourceKindJustDial SourceKind = SourceKind("justdial")
)

// SupportedSourceKinds lists the accepted --source values in display order.
func SupportedSourceKinds() []string {
	return []string{string(SourceKindMaps), string(SourceKindJustDial)}
}

// ParseSourceKind normalizes user input into a SourceKind.
func ParseSourceKind(rawValue string) (SourceKind, bool) {
	switch SourceKind(strings.ToLower(strings.TrimSpace(rawValue))) {
	case SourceKindMaps:
		return SourceKindMaps, true
	case SourceKindJustDial:
		return SourceKindJustDial, true
	default:
		return "", false
	}
}

// Query describes what to search for and how many candidates to keep.
type Query struct {
	Keyword     string
	Location    string
	TargetCount int
}

// Acquirer produces at most Query.TargetCount auditable candidates.
type Acquirer interface {
	Acquire(executionContext context.Context, query Query) ([]leads.Candidate, error)
}

// PageFetcher retrieves a page with a bounded timeout.
type PageFetcher interface {
	Fetch(executionContext context.Context, targetURL string, timeout time.Duration) (webclient.Page, error)
}

// ContactResolver finds a contact email for a website.
type ContactResolver interface {
	Resolve(executionContext context.Context, websiteURL string) (string, bool)
}

func waitFor(executionContext context.Context, duration time.Duration) error {
	if duration <= 0 {
		return executionContext.Err()
	}
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-executionContext.Done():
		return executionContext.Err()
	case <-timer.C:
		return nil
	}
}

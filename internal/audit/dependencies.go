package audit

import (
	"context"
	"time"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/leads"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/textgen"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/webclient"
)

// PageFetcher retrieves landing pages and is shared read-only by the analyzers.
type PageFetcher interface {
	Fetch(executionContext context.Context, targetURL string, timeout time.Duration) (webclient.Page, error)
}

// LinkProber checks link reachability.
type LinkProber interface {
	Probe(executionContext context.Context, targetURL string, timeout time.Duration) (int, error)
}

// Reviewer produces the optional qualitative review.
type Reviewer interface {
	Review(executionContext context.Context, websiteURL string) (textgen.Review, error)
}

// Auditor audits a single lead.
type Auditor interface {
	Audit(executionContext context.Context, lead leads.Lead) (Result, error)
}

// AuditStore loads leads and persists audit results.
type AuditStore interface {
	GetLead(executionContext context.Context, leadID int64) (leads.Lead, error)
	SaveAudit(executionContext context.Context, result Result) (Result, error)
}

// AuditStoreProvider opens the store used by the analyze command.
type AuditStoreProvider func(executionContext context.Context) (AuditStore, error)

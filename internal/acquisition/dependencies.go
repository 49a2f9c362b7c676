package acquisition

import (
	"context"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/leads"
)

// LeadStore persists acquired candidates.
type LeadStore interface {
	InsertLead(executionContext context.Context, candidate leads.Candidate) (leads.Lead, error)
}

// LeadStoreProvider opens the store used by the scrape command.
type LeadStoreProvider func(executionContext context.Context) (LeadStore, error)

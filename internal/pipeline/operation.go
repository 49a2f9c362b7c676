package pipeline

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/acquisition"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/audit"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/leads"
)

// Operation runs one pipeline step against the shared state.
type Operation interface {
	Name() string
	Execute(executionContext context.Context, environment *Environment, state *State) error
}

// Store persists leads and audits for every step.
type Store interface {
	acquisition.LeadStore
	audit.AuditStore
}

// AuditorFactory builds an auditor with its own HTTP and browser state.
type AuditorFactory func(reviewEnabled bool) (audit.Auditor, error)

// Environment exposes shared collaborators to operations.
type Environment struct {
	Acquirers      map[acquisition.SourceKind]acquisition.Acquirer
	AuditorFactory AuditorFactory
	Store          Store
	Output         io.Writer
	Logger         *zap.Logger
}

// State accumulates what earlier steps produced.
type State struct {
	Acquired []leads.Lead
	Audited  []AuditedLead
}

// AuditedLead pairs a lead with its persisted audit.
type AuditedLead struct {
	Lead   leads.Lead
	Result audit.Result
}

func (state *State) pendingAudits() []leads.Lead {
	audited := make(map[int64]struct{}, len(state.Audited))
	for _, entry := range state.Audited {
		audited[entry.Lead.ID] = struct{}{}
	}
	pending := make([]leads.Lead, 0, len(state.Acquired))
	for _, lead := range state.Acquired {
		if _, done := audited[lead.ID]; !done {
			pending = append(pending, lead)
		}
	}
	return pending
}

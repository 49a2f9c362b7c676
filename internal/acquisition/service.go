package acquisition

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/leads"
)

const (
	foundLeadsTemplate         = "Found %d leads (requested %d).\n"
	savedLeadTemplate          = "Saved lead: %s (ID: %d)\n"
	unsupportedSourceTemplate  = "unsupported source %q"
	missingStoreMessage        = "lead store is not configured"
	persistFailedLogMessage    = "Failed to persist lead"
	acquisitionLogMessage      = "Starting acquisition"
	acquisitionShortLogMessage = "Acquisition returned fewer candidates than requested"
	sourceFieldConstant        = "source"
	keywordFieldConstant       = "keyword"
	locationFieldConstant      = "location"
	requestedFieldConstant     = "requested"
	returnedFieldConstant      = "returned"
	businessFieldConstant      = "business"
)

// CommandOptions describes a single scrape run.
type CommandOptions struct {
	Source SourceKind
	Query  Query
}

// Summary reports what an acquisition run produced.
type Summary struct {
	Requested int
	Returned  int
	Saved     []leads.Lead
}

// Service runs an acquirer and persists every candidate it returns.
type Service struct {
	acquirers    map[SourceKind]Acquirer
	store        LeadStore
	outputWriter io.Writer
	logger       *zap.Logger
}

// NewService constructs a Service using the provided dependencies.
func NewService(acquirers map[SourceKind]Acquirer, store LeadStore, outputWriter io.Writer, logger *zap.Logger) *Service {
	if outputWriter == nil {
		outputWriter = io.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{acquirers: acquirers, store: store, outputWriter: outputWriter, logger: logger}
}

// Run acquires candidates and saves them. Candidates extracted before an
// acquisition error are still persisted; the error is returned afterwards.
func (service *Service) Run(executionContext context.Context, options CommandOptions) (Summary, error) {
	acquirer, exists := service.acquirers[options.Source]
	if !exists || acquirer == nil {
		return Summary{}, fmt.Errorf(unsupportedSourceTemplate, options.Source)
	}
	if service.store == nil {
		return Summary{}, errors.New(missingStoreMessage)
	}

	service.logger.Info(
		acquisitionLogMessage,
		zap.String(sourceFieldConstant, string(options.Source)),
		zap.String(keywordFieldConstant, options.Query.Keyword),
		zap.String(locationFieldConstant, options.Query.Location),
		zap.Int(requestedFieldConstant, options.Query.TargetCount),
	)

	candidates, acquireError := acquirer.Acquire(executionContext, options.Query)
	summary := Summary{Requested: options.Query.TargetCount, Returned: len(candidates)}

	fmt.Fprintf(service.outputWriter, foundLeadsTemplate, summary.Returned, summary.Requested)
	if summary.Returned < summary.Requested {
		service.logger.Info(acquisitionShortLogMessage, zap.Int(requestedFieldConstant, summary.Requested), zap.Int(returnedFieldConstant, summary.Returned))
	}

	for _, candidate := range candidates {
		if !candidate.Auditable() {
			continue
		}
		lead, insertError := service.store.InsertLead(executionContext, candidate)
		if insertError != nil {
			service.logger.Error(persistFailedLogMessage, zap.String(businessFieldConstant, candidate.BusinessName), zap.Error(insertError))
			continue
		}
		summary.Saved = append(summary.Saved, lead)
		fmt.Fprintf(service.outputWriter, savedLeadTemplate, lead.BusinessName, lead.ID)
	}

	return summary, acquireError
}

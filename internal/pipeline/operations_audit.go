package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/audit"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/leads"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/utils"
)

const (
	optionConcurrencyKey           = "concurrency"
	optionReviewKey                = "review"
	defaultAuditConcurrency        = 1
	auditInvalidConcurrencyMessage = "audit step requires concurrency of at least 1"
	missingAuditorFactoryMessage   = "audit step requires an auditor factory"
	auditFailedTemplate            = "Audit failed for lead %d: %v\n"
	allAuditsFailedTemplate        = "all %d audits failed: %w"
	nothingToAuditMessage          = "No leads to audit.\n"
	auditFailedLogMessage          = "Lead audit failed"
	workerFieldConstant            = "worker"
	leadIDFieldConstant            = "lead_id"
)

// AuditOperation audits every acquired lead that has not been audited yet.
type AuditOperation struct {
	Concurrency int
	Review      bool
}

// Name identifies the operation.
func (operation *AuditOperation) Name() string {
	return string(OperationTypeAudit)
}

// Execute fans the pending leads out to Concurrency workers. Each worker builds its own auditor.
// Individual failures are reported and skipped; the step fails only when every audit fails.
func (operation *AuditOperation) Execute(executionContext context.Context, environment *Environment, state *State) error {
	if environment.AuditorFactory == nil {
		return errors.New(missingAuditorFactoryMessage)
	}
	pending := state.pendingAudits()
	if len(pending) == 0 {
		fmt.Fprint(environment.Output, nothingToAuditMessage)
		return nil
	}

	workerCount := operation.Concurrency
	if workerCount < 1 {
		workerCount = defaultAuditConcurrency
	}
	if workerCount > len(pending) {
		workerCount = len(pending)
	}

	auditors := make([]audit.Auditor, workerCount)
	for workerIndex := range auditors {
		auditor, auditorError := environment.AuditorFactory(operation.Review)
		if auditorError != nil {
			return auditorError
		}
		auditors[workerIndex] = auditor
	}

	output := utils.NewFlushingWriter(environment.Output)
	results := make([]*audit.Result, len(pending))
	failures := make([]error, len(pending))
	work := make(chan int)

	group, groupContext := errgroup.WithContext(executionContext)
	group.Go(func() error {
		defer close(work)
		for leadIndex := range pending {
			select {
			case work <- leadIndex:
			case <-groupContext.Done():
				return groupContext.Err()
			}
		}
		return nil
	})
	for workerIndex, auditor := range auditors {
		workerLogger := environment.Logger.With(zap.Int(workerFieldConstant, workerIndex+1))
		service := audit.NewService(environment.Store, auditor, output, workerLogger)
		group.Go(func() error {
			for leadIndex := range work {
				result, runError := service.Run(groupContext, audit.CommandOptions{LeadID: pending[leadIndex].ID})
				if runError != nil {
					failures[leadIndex] = runError
					workerLogger.Warn(auditFailedLogMessage, zap.Int64(leadIDFieldConstant, pending[leadIndex].ID), zap.Error(runError))
					fmt.Fprintf(output, auditFailedTemplate, pending[leadIndex].ID, runError)
					continue
				}
				results[leadIndex] = &result
			}
			return nil
		})
	}
	if waitError := group.Wait(); waitError != nil {
		return waitError
	}

	collectAudits(state, pending, results)
	return summarizeFailures(pending, results, failures)
}

func collectAudits(state *State, pending []leads.Lead, results []*audit.Result) {
	for leadIndex, result := range results {
		if result != nil {
			state.Audited = append(state.Audited, AuditedLead{Lead: pending[leadIndex], Result: *result})
		}
	}
}

func summarizeFailures(pending []leads.Lead, results []*audit.Result, failures []error) error {
	for _, result := range results {
		if result != nil {
			return nil
		}
	}
	return fmt.Errorf(allAuditsFailedTemplate, len(pending), errors.Join(failures...))
}

func buildAuditOperation(options map[string]any) (Operation, error) {
	reader := newOptionReader(options)

	concurrency, concurrencyExists, concurrencyError := reader.intValue(optionConcurrencyKey)
	if concurrencyError != nil {
		return nil, concurrencyError
	}
	if !concurrencyExists {
		concurrency = defaultAuditConcurrency
	}
	if concurrency < 1 {
		return nil, errors.New(auditInvalidConcurrencyMessage)
	}

	review, _, reviewError := reader.boolValue(optionReviewKey)
	if reviewError != nil {
		return nil, reviewError
	}

	return &AuditOperation{Concurrency: concurrency, Review: review}, nil
}

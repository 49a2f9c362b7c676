package audit

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

const (
	analyzingTemplate      = "Analyzing %s...\n"
	completedTemplate      = "Audit completed. Overall Score: %d\n"
	loadLeadErrorTemplate  = "load lead %d: %w"
	auditLeadErrorTemplate = "audit lead %d: %w"
	saveAuditErrorTemplate = "save audit for lead %d: %w"
	missingStoreMessage    = "audit store is not configured"
	missingAuditorMessage  = "auditor is not configured"
	auditSavedLogMessage   = "Audit saved"
	auditIDFieldConstant   = "audit_id"
)

var (
	errMissingStore   = errors.New(missingStoreMessage)
	errMissingAuditor = errors.New(missingAuditorMessage)
)

// CommandOptions describes a single analyze run.
type CommandOptions struct {
	LeadID int64
}

// Service loads a lead, audits it, and persists the result in one write.
type Service struct {
	store        AuditStore
	auditor      Auditor
	outputWriter io.Writer
	logger       *zap.Logger
}

// NewService constructs a Service using the provided dependencies.
func NewService(store AuditStore, auditor Auditor, outputWriter io.Writer, logger *zap.Logger) *Service {
	if outputWriter == nil {
		outputWriter = io.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, auditor: auditor, outputWriter: outputWriter, logger: logger}
}

// Run audits the requested lead and returns the persisted result.
func (service *Service) Run(executionContext context.Context, options CommandOptions) (Result, error) {
	if service.store == nil {
		return Result{}, errMissingStore
	}
	if service.auditor == nil {
		return Result{}, errMissingAuditor
	}

	lead, loadError := service.store.GetLead(executionContext, options.LeadID)
	if loadError != nil {
		return Result{}, fmt.Errorf(loadLeadErrorTemplate, options.LeadID, loadError)
	}

	fmt.Fprintf(service.outputWriter, analyzingTemplate, lead.Website)
	result, auditError := service.auditor.Audit(executionContext, lead)
	if auditError != nil {
		return Result{}, fmt.Errorf(auditLeadErrorTemplate, options.LeadID, auditError)
	}

	saved, saveError := service.store.SaveAudit(executionContext, result)
	if saveError != nil {
		return Result{}, fmt.Errorf(saveAuditErrorTemplate, options.LeadID, saveError)
	}

	service.logger.Info(auditSavedLogMessage, zap.Int64(leadIDFieldConstant, saved.LeadID), zap.Int64(auditIDFieldConstant, saved.ID))
	fmt.Fprintf(service.outputWriter, completedTemplate, saved.OverallScore)
	return saved, nil
}

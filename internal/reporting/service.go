package reporting

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/audit"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/leads"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/textgen"
)

const (
	reportFileTemplate          = "report_%d.md"
	reportGeneratedTemplate     = "Report generated: %s\n"
	reportUploadedTemplate      = "Report uploaded: %s\n"
	reportHeaderTemplate        = "Audit report for %s (%s)\n\n"
	loadLeadErrorTemplate       = "load lead %d: %w"
	loadAuditErrorTemplate      = "no audit found for lead %d; run analyze first: %w"
	renderErrorTemplate         = "render report: %w"
	writeErrorTemplate          = "write report %s: %w"
	missingStoreMessage         = "report store is not configured"
	missingObjectStoreMessage   = "object store is not configured"
	directoryPermissions        = 0o755
	filePermissions             = 0o644
	suggestionsFailedLogMessage = "Suggestions unavailable"
	reportWrittenLogMessage     = "Report written"
	leadIDFieldConstant         = "lead_id"
	pathFieldConstant           = "path"
)

var (
	errMissingStore       = errors.New(missingStoreMessage)
	errMissingObjectStore = errors.New(missingObjectStoreMessage)
)

// ReportStore reads the lead and its latest audit.
type ReportStore interface {
	GetLead(executionContext context.Context, leadID int64) (leads.Lead, error)
	LatestAudit(executionContext context.Context, leadID int64) (audit.Result, error)
}

// SuggestionWriter produces free-text recommendations.
type SuggestionWriter interface {
	Suggestions(executionContext context.Context, subject textgen.Subject) (string, error)
}

// CommandOptions describes a single report run.
type CommandOptions struct {
	LeadID          int64
	OutputDirectory string
	Upload          bool
}

// Report locates the rendered document.
type Report struct {
	Path string
	URL  string
}

// Service renders reports for persisted audits.
type Service struct {
	store        ReportStore
	suggestions  SuggestionWriter
	objectStore  ObjectStore
	outputWriter io.Writer
	logger       *zap.Logger
}

// NewService constructs a Service. The suggestion writer and object store are optional.
func NewService(store ReportStore, suggestions SuggestionWriter, objectStore ObjectStore, outputWriter io.Writer, logger *zap.Logger) *Service {
	if outputWriter == nil {
		outputWriter = io.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, suggestions: suggestions, objectStore: objectStore, outputWriter: outputWriter, logger: logger}
}

// Run loads the latest audit, prints the summary, and writes the markdown report.
func (service *Service) Run(executionContext context.Context, options CommandOptions) (Report, error) {
	if service.store == nil {
		return Report{}, errMissingStore
	}
	if options.Upload && service.objectStore == nil {
		return Report{}, errMissingObjectStore
	}

	document, documentError := service.BuildDocument(executionContext, options.LeadID)
	if documentError != nil {
		return Report{}, documentError
	}

	fmt.Fprintf(service.outputWriter, reportHeaderTemplate, document.Lead.BusinessName, document.Lead.Website)
	WriteConsoleSummary(service.outputWriter, document)

	reportPath, writeError := WriteMarkdownFile(options.OutputDirectory, document)
	if writeError != nil {
		return Report{}, writeError
	}
	service.logger.Info(reportWrittenLogMessage, zap.Int64(leadIDFieldConstant, options.LeadID), zap.String(pathFieldConstant, reportPath))
	fmt.Fprintf(service.outputWriter, reportGeneratedTemplate, reportPath)

	report := Report{Path: reportPath}
	if options.Upload {
		objectURL, uploadError := service.objectStore.Upload(executionContext, reportPath, options.LeadID)
		if uploadError != nil {
			return report, uploadError
		}
		report.URL = objectURL
		fmt.Fprintf(service.outputWriter, reportUploadedTemplate, objectURL)
	}
	return report, nil
}

// BuildDocument gathers the lead, its latest audit, and optional suggestions.
// Suggestion failures leave the recommendations empty.
func (service *Service) BuildDocument(executionContext context.Context, leadID int64) (Document, error) {
	lead, leadError := service.store.GetLead(executionContext, leadID)
	if leadError != nil {
		return Document{}, fmt.Errorf(loadLeadErrorTemplate, leadID, leadError)
	}
	result, auditError := service.store.LatestAudit(executionContext, leadID)
	if auditError != nil {
		return Document{}, fmt.Errorf(loadAuditErrorTemplate, leadID, auditError)
	}

	document := Document{Lead: lead, Audit: result}
	if service.suggestions != nil {
		suggestions, suggestionError := service.suggestions.Suggestions(executionContext, result.Subject(lead))
		if suggestionError != nil {
			service.logger.Warn(suggestionsFailedLogMessage, zap.Int64(leadIDFieldConstant, leadID), zap.Error(suggestionError))
		} else {
			document.Suggestions = suggestions
		}
	}
	return document, nil
}

// WriteMarkdownFile renders the document to {directory}/report_{lead id}.md.
func WriteMarkdownFile(directory string, document Document) (string, error) {
	var rendered bytes.Buffer
	if renderError := RenderMarkdown(&rendered, document); renderError != nil {
		return "", fmt.Errorf(renderErrorTemplate, renderError)
	}

	reportPath := filepath.Join(directory, fmt.Sprintf(reportFileTemplate, document.Lead.ID))
	if mkdirError := os.MkdirAll(directory, directoryPermissions); mkdirError != nil {
		return "", fmt.Errorf(writeErrorTemplate, reportPath, mkdirError)
	}
	if writeError := os.WriteFile(reportPath, rendered.Bytes(), filePermissions); writeError != nil {
		return "", fmt.Errorf(writeErrorTemplate, reportPath, writeError)
	}
	return reportPath, nil
}

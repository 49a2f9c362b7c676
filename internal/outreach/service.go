package outreach

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/audit"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/leads"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/textgen"
)

const (
	loadLeadErrorTemplate     = "load lead %d: %w"
	loadAuditErrorTemplate    = "no audit found for lead %d; run analyze first: %w"
	draftErrorTemplate        = "draft email for lead %d: %w"
	statusErrorTemplate       = "record outreach status for lead %d: %w"
	readTemplateErrorTemplate = "read email template %s: %w"
	missingEmailTemplate      = "lead %d has no email address"
	missingStoreMessage       = "outreach store is not configured"
	missingDrafterMessage     = "email drafter is not configured"
	missingMailerMessage      = "mailer is not configured"
	emptyTemplateMessage      = "email template is empty"
	draftHeaderTemplate       = "Draft email for %s <%s>\n\n"
	draftFooterTemplate       = "\n\nSaved as %s.\n"
	sentTemplate              = "\n\nEmail sent to %s.\n"
	draftedLogMessage         = "Outreach email drafted"
	sentLogMessage            = "Outreach email sent"
	statusRecordedLogMessage  = "Outreach status recorded"
	sendFailedLogMessage      = "Outreach email failed"
	leadIDFieldConstant       = "lead_id"
	recipientFieldConstant    = "recipient"
	statusFieldConstant       = "status"
)

var (
	errMissingStore   = errors.New(missingStoreMessage)
	errMissingDrafter = errors.New(missingDrafterMessage)
	errMissingMailer  = errors.New(missingMailerMessage)
	errEmptyTemplate  = errors.New(emptyTemplateMessage)
)

//go:embed templates/default_email.txt
var defaultTemplate string

// DefaultTemplate returns the bundled email template.
func DefaultTemplate() string {
	return defaultTemplate
}

// LoadTemplate reads the template at templatePath, or returns the bundled template when the path is empty.
func LoadTemplate(templatePath string) (string, error) {
	trimmedPath := strings.TrimSpace(templatePath)
	if len(trimmedPath) == 0 {
		return defaultTemplate, nil
	}
	contents, readError := os.ReadFile(trimmedPath)
	if readError != nil {
		return "", fmt.Errorf(readTemplateErrorTemplate, trimmedPath, readError)
	}
	if len(strings.TrimSpace(string(contents))) == 0 {
		return "", errEmptyTemplate
	}
	return string(contents), nil
}

// OutreachStore reads leads and audits and records the outreach status.
type OutreachStore interface {
	GetLead(executionContext context.Context, leadID int64) (leads.Lead, error)
	LatestAudit(executionContext context.Context, leadID int64) (audit.Result, error)
	UpdateOutreachStatus(executionContext context.Context, leadID int64, status leads.OutreachStatus, attemptedAt time.Time) error
}

// EmailDrafter writes a personalized email from a template.
type EmailDrafter interface {
	DraftOutreachEmail(executionContext context.Context, subject textgen.Subject, template string) (string, error)
}

// CommandOptions describes one outreach attempt.
type CommandOptions struct {
	LeadID   int64
	Template string
	Send     bool
}

// Draft is the outcome of an outreach attempt.
type Draft struct {
	Recipient string
	Subject   string
	Body      string
	Status    leads.OutreachStatus
}

// Service drafts and optionally sends outreach email.
type Service struct {
	store           OutreachStore
	drafter         EmailDrafter
	mailer          Mailer
	sender          string
	subjectTemplate string
	clock           audit.Clock
	outputWriter    io.Writer
	logger          *zap.Logger
}

// ServiceDependencies groups the collaborators of a Service. Mailer is only required for sending.
type ServiceDependencies struct {
	Store        OutreachStore
	Drafter      EmailDrafter
	Mailer       Mailer
	Clock        audit.Clock
	OutputWriter io.Writer
	Logger       *zap.Logger
}

// NewService constructs a Service.
func NewService(dependencies ServiceDependencies, configuration CommandConfiguration) *Service {
	sanitized := configuration.Sanitize()
	service := &Service{
		store:           dependencies.Store,
		drafter:         dependencies.Drafter,
		mailer:          dependencies.Mailer,
		sender:          sanitized.SMTP.Sender(),
		subjectTemplate: sanitized.SubjectTemplate,
		clock:           dependencies.Clock,
		outputWriter:    dependencies.OutputWriter,
		logger:          dependencies.Logger,
	}
	if service.clock == nil {
		service.clock = audit.SystemClock{}
	}
	if service.outputWriter == nil {
		service.outputWriter = io.Discard
	}
	if service.logger == nil {
		service.logger = zap.NewNop()
	}
	return service
}

// Run drafts the email for the lead. Without Send the lead is marked Draft; with Send the email
// is dispatched and the lead is marked Sent, or Failed when delivery fails.
func (service *Service) Run(executionContext context.Context, options CommandOptions) (Draft, error) {
	if service.store == nil {
		return Draft{}, errMissingStore
	}
	if service.drafter == nil {
		return Draft{}, errMissingDrafter
	}
	if options.Send && service.mailer == nil {
		return Draft{}, errMissingMailer
	}

	lead, leadError := service.store.GetLead(executionContext, options.LeadID)
	if leadError != nil {
		return Draft{}, fmt.Errorf(loadLeadErrorTemplate, options.LeadID, leadError)
	}
	if options.Send && !lead.HasEmail() {
		return Draft{}, fmt.Errorf(missingEmailTemplate, lead.ID)
	}
	result, auditError := service.store.LatestAudit(executionContext, options.LeadID)
	if auditError != nil {
		return Draft{}, fmt.Errorf(loadAuditErrorTemplate, options.LeadID, auditError)
	}

	template := options.Template
	if len(strings.TrimSpace(template)) == 0 {
		template = defaultTemplate
	}
	body, draftError := service.drafter.DraftOutreachEmail(executionContext, result.Subject(lead), template)
	if draftError != nil {
		return Draft{}, fmt.Errorf(draftErrorTemplate, lead.ID, draftError)
	}

	draft := Draft{
		Recipient: strings.TrimSpace(lead.Email),
		Subject:   fmt.Sprintf(service.subjectTemplate, lead.BusinessName),
		Body:      strings.TrimSpace(body),
		Status:    leads.OutreachStatusDraft,
	}
	service.logger.Info(draftedLogMessage, zap.Int64(leadIDFieldConstant, lead.ID))
	fmt.Fprintf(service.outputWriter, draftHeaderTemplate, lead.BusinessName, leads.ValueOrPlaceholder(lead.Email))
	fmt.Fprint(service.outputWriter, draft.Body)

	if !options.Send {
		if statusError := service.recordStatus(executionContext, lead.ID, draft.Status); statusError != nil {
			return draft, statusError
		}
		fmt.Fprintf(service.outputWriter, draftFooterTemplate, draft.Status)
		return draft, nil
	}

	message := Message{From: service.sender, To: draft.Recipient, Subject: draft.Subject, Body: draft.Body}
	if sendError := service.mailer.Send(executionContext, message); sendError != nil {
		draft.Status = leads.OutreachStatusFailed
		service.logger.Warn(sendFailedLogMessage, zap.Int64(leadIDFieldConstant, lead.ID), zap.String(recipientFieldConstant, draft.Recipient), zap.Error(sendError))
		if statusError := service.recordStatus(executionContext, lead.ID, draft.Status); statusError != nil {
			return draft, errors.Join(sendError, statusError)
		}
		return draft, sendError
	}

	draft.Status = leads.OutreachStatusSent
	service.logger.Info(sentLogMessage, zap.Int64(leadIDFieldConstant, lead.ID), zap.String(recipientFieldConstant, draft.Recipient))
	if statusError := service.recordStatus(executionContext, lead.ID, draft.Status); statusError != nil {
		return draft, statusError
	}
	fmt.Fprintf(service.outputWriter, sentTemplate, draft.Recipient)
	return draft, nil
}

func (service *Service) recordStatus(executionContext context.Context, leadID int64, status leads.OutreachStatus) error {
	if updateError := service.store.UpdateOutreachStatus(executionContext, leadID, status, service.clock.Now()); updateError != nil {
		return fmt.Errorf(statusErrorTemplate, leadID, updateError)
	}
	service.logger.Debug(statusRecordedLogMessage, zap.Int64(leadIDFieldConstant, leadID), zap.String(statusFieldConstant, string(status)))
	return nil
}

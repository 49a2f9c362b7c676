package outreach

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/audit"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/textgen"
)

const (
	commandUseConstant                    = "outreach"
	commandShortDescriptionConstant       = "Draft or send a personalized outreach email"
	commandLongDescriptionConstant        = "outreach drafts a cold email for a lead from its latest audit and a template. With --send the email is delivered over SMTP and the lead's outreach status is updated."
	commandExecutionErrorTemplateConstant = "outreach failed: %w"
	unexpectedArgumentsMessageConstant    = "outreach does not accept positional arguments"
	missingLeadIDMessageConstant          = "--lead_id is required"
	missingStoreProviderMessageConstant   = "outreach requires an outreach store"
	flagLeadIDNameConstant                = "lead_id"
	flagLeadIDDescriptionConstant         = "Identifier of the lead to contact"
	flagTemplateNameConstant              = "template"
	flagTemplateDescriptionConstant       = "Path to the email template (defaults to the bundled template)"
	flagSendNameConstant                  = "send"
	flagSendDescriptionConstant           = "Send the drafted email over SMTP"
)

var (
	errUnexpectedArguments  = errors.New(unexpectedArgumentsMessageConstant)
	errMissingLeadID        = errors.New(missingLeadIDMessageConstant)
	errMissingStoreProvider = errors.New(missingStoreProviderMessageConstant)
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// OutreachStoreProvider opens the store used by the outreach command.
type OutreachStoreProvider func(executionContext context.Context) (OutreachStore, error)

// CommandBuilder assembles the outreach command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        func() CommandConfiguration
	TextGenConfigurationProvider func() textgen.Configuration
	StoreProvider                OutreachStoreProvider
	Drafter                      EmailDrafter
	Mailer                       Mailer
	Clock                        audit.Clock
}

// Build constructs the outreach command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	configuration := builder.resolveConfiguration()

	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().Int64(flagLeadIDNameConstant, 0, flagLeadIDDescriptionConstant)
	command.Flags().String(flagTemplateNameConstant, configuration.TemplatePath, flagTemplateDescriptionConstant)
	command.Flags().Bool(flagSendNameConstant, false, flagSendDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	leadID, _ := command.Flags().GetInt64(flagLeadIDNameConstant)
	if leadID <= 0 {
		return errMissingLeadID
	}
	templatePath, _ := command.Flags().GetString(flagTemplateNameConstant)
	sendEnabled, _ := command.Flags().GetBool(flagSendNameConstant)

	if builder.StoreProvider == nil {
		return errMissingStoreProvider
	}

	logger := builder.resolveLogger()
	configuration := builder.resolveConfiguration()

	template, templateError := LoadTemplate(templatePath)
	if templateError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, templateError)
	}

	drafter, drafterError := builder.resolveDrafter(logger)
	if drafterError != nil {
		return drafterError
	}

	var mailer Mailer
	if sendEnabled {
		resolvedMailer, mailerError := builder.resolveMailer(configuration.SMTP)
		if mailerError != nil {
			return mailerError
		}
		mailer = resolvedMailer
	}

	store, storeError := builder.StoreProvider(command.Context())
	if storeError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, storeError)
	}

	service := NewService(ServiceDependencies{
		Store:        store,
		Drafter:      drafter,
		Mailer:       mailer,
		Clock:        builder.Clock,
		OutputWriter: command.OutOrStdout(),
		Logger:       logger,
	}, configuration)
	options := CommandOptions{LeadID: leadID, Template: template, Send: sendEnabled}
	if _, runError := service.Run(command.Context(), options); runError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, runError)
	}
	return nil
}

func (builder *CommandBuilder) resolveDrafter(logger *zap.Logger) (EmailDrafter, error) {
	if builder.Drafter != nil {
		return builder.Drafter, nil
	}
	configuration := textgen.DefaultConfiguration()
	if builder.TextGenConfigurationProvider != nil {
		configuration = builder.TextGenConfigurationProvider()
	}
	client, clientError := textgen.NewClient(configuration, nil, logger)
	if clientError != nil {
		return nil, clientError
	}
	return client, nil
}

func (builder *CommandBuilder) resolveMailer(configuration SMTPConfiguration) (Mailer, error) {
	if validationError := configuration.Validate(); validationError != nil {
		return nil, validationError
	}
	if builder.Mailer != nil {
		return builder.Mailer, nil
	}
	mailer, mailerError := NewSMTPMailer(configuration)
	if mailerError != nil {
		return nil, mailerError
	}
	return mailer, nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

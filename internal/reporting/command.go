package reporting

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/textgen"
)

const (
	commandUseConstant                    = "report"
	commandShortDescriptionConstant       = "Render the latest audit of a lead"
	commandLongDescriptionConstant        = "report prints the latest audit scores and priorities of a lead and writes a markdown report, optionally with recommendations and an object-store upload."
	commandExecutionErrorTemplateConstant = "report failed: %w"
	unexpectedArgumentsMessageConstant    = "report does not accept positional arguments"
	missingLeadIDMessageConstant          = "--lead_id is required"
	missingStoreProviderMessageConstant   = "report requires a report store"
	flagLeadIDNameConstant                = "lead_id"
	flagLeadIDDescriptionConstant         = "Identifier of the lead to report on"
	flagOutputNameConstant                = "output"
	flagOutputDescriptionConstant         = "Directory that receives the markdown report"
	flagUploadNameConstant                = "upload"
	flagUploadDescriptionConstant         = "Upload the report to the configured object store"
	flagSuggestionsNameConstant           = "suggestions"
	flagSuggestionsDescriptionConstant    = "Include recommendations from the text-generation service"
)

var (
	errUnexpectedArguments  = errors.New(unexpectedArgumentsMessageConstant)
	errMissingLeadID        = errors.New(missingLeadIDMessageConstant)
	errMissingStoreProvider = errors.New(missingStoreProviderMessageConstant)
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ReportStoreProvider opens the store used by the report command.
type ReportStoreProvider func(executionContext context.Context) (ReportStore, error)

// ObjectStoreProvider connects the upload target.
type ObjectStoreProvider func(executionContext context.Context, configuration ObjectStoreConfiguration) (ObjectStore, error)

// CommandBuilder assembles the report command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        func() CommandConfiguration
	TextGenConfigurationProvider func() textgen.Configuration
	StoreProvider                ReportStoreProvider
	ObjectStoreProvider          ObjectStoreProvider
	SuggestionWriter             SuggestionWriter
}

// Build constructs the report command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	configuration := builder.resolveConfiguration()

	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().Int64(flagLeadIDNameConstant, 0, flagLeadIDDescriptionConstant)
	command.Flags().String(flagOutputNameConstant, configuration.OutputDirectory, flagOutputDescriptionConstant)
	command.Flags().Bool(flagUploadNameConstant, configuration.Upload, flagUploadDescriptionConstant)
	command.Flags().Bool(flagSuggestionsNameConstant, configuration.Suggestions, flagSuggestionsDescriptionConstant)

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
	outputDirectory, _ := command.Flags().GetString(flagOutputNameConstant)
	uploadEnabled, _ := command.Flags().GetBool(flagUploadNameConstant)
	suggestionsEnabled, _ := command.Flags().GetBool(flagSuggestionsNameConstant)

	if builder.StoreProvider == nil {
		return errMissingStoreProvider
	}

	logger := builder.resolveLogger()
	configuration := builder.resolveConfiguration()

	suggestionWriter, suggestionError := builder.resolveSuggestionWriter(suggestionsEnabled, logger)
	if suggestionError != nil {
		return suggestionError
	}

	var objectStore ObjectStore
	if uploadEnabled {
		if validationError := configuration.ObjectStore.Validate(); validationError != nil {
			return validationError
		}
		connectedStore, objectStoreError := builder.resolveObjectStore(command.Context(), configuration.ObjectStore)
		if objectStoreError != nil {
			return fmt.Errorf(commandExecutionErrorTemplateConstant, objectStoreError)
		}
		objectStore = connectedStore
	}

	store, storeError := builder.StoreProvider(command.Context())
	if storeError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, storeError)
	}

	service := NewService(store, suggestionWriter, objectStore, command.OutOrStdout(), logger)
	options := CommandOptions{LeadID: leadID, OutputDirectory: outputDirectory, Upload: uploadEnabled}
	if _, runError := service.Run(command.Context(), options); runError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, runError)
	}
	return nil
}

func (builder *CommandBuilder) resolveSuggestionWriter(enabled bool, logger *zap.Logger) (SuggestionWriter, error) {
	if !enabled {
		return nil, nil
	}
	if builder.SuggestionWriter != nil {
		return builder.SuggestionWriter, nil
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

func (builder *CommandBuilder) resolveObjectStore(executionContext context.Context, configuration ObjectStoreConfiguration) (ObjectStore, error) {
	if builder.ObjectStoreProvider != nil {
		return builder.ObjectStoreProvider(executionContext, configuration)
	}
	store, storeError := NewMinioObjectStore(executionContext, configuration)
	if storeError != nil {
		return nil, storeError
	}
	return store, nil
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

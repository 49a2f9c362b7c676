package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/acquisition"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/audit"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/utils"
)

const (
	commandUseConstant                    = "pipeline [definition]"
	commandShortDescriptionConstant       = "Run an acquire, audit, and report pipeline from a YAML file"
	commandLongDescriptionConstant        = "pipeline executes the steps declared in a YAML definition in order. acquire discovers and saves leads, audit scores the leads acquired so far with a bounded number of workers, and report writes markdown for every audited lead."
	commandExecutionErrorTemplateConstant = "pipeline failed: %w"
	loadDefinitionErrorTemplateConstant   = "unable to load pipeline definition: %w"
	buildOperationsErrorTemplateConstant  = "unable to build pipeline operations: %w"
	definitionRequiredMessageConstant     = "pipeline definition path required; provide a positional argument or --workflow"
	tooManyArgumentsMessageConstant       = "pipeline accepts at most one definition path"
	missingStoreProviderMessageConstant   = "pipeline requires a store"
	missingBuildersMessageConstant        = "pipeline requires acquisition and audit builders"
	flagWorkflowNameConstant              = "workflow"
	flagWorkflowDescriptionConstant       = "Path to the pipeline YAML definition"
)

var (
	errDefinitionRequired   = errors.New(definitionRequiredMessageConstant)
	errTooManyArguments     = errors.New(tooManyArgumentsMessageConstant)
	errMissingStoreProvider = errors.New(missingStoreProviderMessageConstant)
	errMissingBuilders      = errors.New(missingBuildersMessageConstant)
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// StoreProvider opens the store shared by every step.
type StoreProvider func(executionContext context.Context) (Store, error)

// CommandBuilder assembles the pipeline command from the acquisition and audit wiring.
type CommandBuilder struct {
	LoggerProvider     LoggerProvider
	AcquisitionBuilder *acquisition.CommandBuilder
	AuditBuilder       *audit.CommandBuilder
	StoreProvider      StoreProvider
}

// Build constructs the pipeline command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(flagWorkflowNameConstant, "", flagWorkflowDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 1 {
		return errTooManyArguments
	}
	definitionPath, _ := command.Flags().GetString(flagWorkflowNameConstant)
	if len(arguments) == 1 {
		definitionPath = arguments[0]
	}
	definitionPath = strings.TrimSpace(definitionPath)
	if len(definitionPath) == 0 {
		return errDefinitionRequired
	}

	definition, definitionError := LoadDefinition(definitionPath)
	if definitionError != nil {
		return fmt.Errorf(loadDefinitionErrorTemplateConstant, definitionError)
	}
	operations, operationsError := BuildOperations(definition)
	if operationsError != nil {
		return fmt.Errorf(buildOperationsErrorTemplateConstant, operationsError)
	}

	if builder.StoreProvider == nil {
		return errMissingStoreProvider
	}
	if builder.AcquisitionBuilder == nil || builder.AuditBuilder == nil {
		return errMissingBuilders
	}

	logger := builder.resolveLogger()
	acquirers, acquirersError := builder.AcquisitionBuilder.BuildAcquirers(logger)
	if acquirersError != nil {
		return acquirersError
	}
	auditorFactory := builder.auditorFactory(logger)
	if RequiresReview(operations) {
		if _, reviewError := auditorFactory(true); reviewError != nil {
			return reviewError
		}
	}

	store, storeError := builder.StoreProvider(command.Context())
	if storeError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, storeError)
	}

	executor := NewExecutor(operations, Environment{
		Acquirers:      acquirers,
		AuditorFactory: auditorFactory,
		Store:          store,
		Output:         utils.NewFlushingWriter(command.OutOrStdout()),
		Logger:         logger,
	})
	if _, executeError := executor.Execute(command.Context()); executeError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, executeError)
	}
	return nil
}

func (builder *CommandBuilder) auditorFactory(logger *zap.Logger) AuditorFactory {
	return func(reviewEnabled bool) (audit.Auditor, error) {
		orchestrator, orchestratorError := builder.AuditBuilder.BuildOrchestrator(logger, reviewEnabled)
		if orchestratorError != nil {
			return nil, orchestratorError
		}
		return orchestrator, nil
	}
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

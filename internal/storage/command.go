package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	initUseConstant                = "init"
	initShortDescriptionConstant   = "Create or migrate the database schema"
	initExecutionErrorTemplate     = "init failed: %w"
	initCompletedTemplate          = "Database initialized (%d migrations applied).\n"
	deleteUseConstant              = "delete"
	deleteShortDescriptionConstant = "Delete a lead and its audit history"
	deleteExecutionErrorTemplate   = "delete failed: %w"
	deleteCompletedTemplate        = "Deleted lead %d and its audits.\n"
	unexpectedArgumentsTemplate    = "%s does not accept positional arguments"
	missingLeadIDMessageConstant   = "--lead_id is required"
	missingProviderTemplate        = "%s requires a database"
	flagLeadIDNameConstant         = "lead_id"
	flagLeadIDDescriptionConstant  = "Identifier of the lead to delete"
	migrationsAppliedLogMessage    = "Migrations applied"
	leadDeletedLogMessage          = "Lead deleted"
	appliedFieldConstant           = "applied"
	leadIDFieldConstant            = "lead_id"
)

var errMissingLeadID = errors.New(missingLeadIDMessageConstant)

// SchemaMigrator applies pending schema migrations.
type SchemaMigrator interface {
	Migrate(executionContext context.Context) (int, error)
}

// LeadRemover deletes a lead with its audits.
type LeadRemover interface {
	DeleteLead(executionContext context.Context, leadID int64) error
}

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// InitCommandBuilder assembles the init command.
type InitCommandBuilder struct {
	LoggerProvider   LoggerProvider
	MigratorProvider func(executionContext context.Context) (SchemaMigrator, error)
}

// Build constructs the init command.
func (builder *InitCommandBuilder) Build() (*cobra.Command, error) {
	return &cobra.Command{
		Use:   initUseConstant,
		Short: initShortDescriptionConstant,
		RunE:  builder.run,
	}, nil
}

func (builder *InitCommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return fmt.Errorf(unexpectedArgumentsTemplate, initUseConstant)
	}
	if builder.MigratorProvider == nil {
		return fmt.Errorf(missingProviderTemplate, initUseConstant)
	}

	migrator, providerError := builder.MigratorProvider(command.Context())
	if providerError != nil {
		return fmt.Errorf(initExecutionErrorTemplate, providerError)
	}

	applied, migrateError := migrator.Migrate(command.Context())
	if migrateError != nil {
		return fmt.Errorf(initExecutionErrorTemplate, migrateError)
	}

	resolveLogger(builder.LoggerProvider).Info(migrationsAppliedLogMessage, zap.Int(appliedFieldConstant, applied))
	fmt.Fprintf(command.OutOrStdout(), initCompletedTemplate, applied)
	return nil
}

// DeleteCommandBuilder assembles the delete command.
type DeleteCommandBuilder struct {
	LoggerProvider  LoggerProvider
	RemoverProvider func(executionContext context.Context) (LeadRemover, error)
}

// Build constructs the delete command.
func (builder *DeleteCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   deleteUseConstant,
		Short: deleteShortDescriptionConstant,
		RunE:  builder.run,
	}
	command.Flags().Int64(flagLeadIDNameConstant, 0, flagLeadIDDescriptionConstant)
	return command, nil
}

func (builder *DeleteCommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return fmt.Errorf(unexpectedArgumentsTemplate, deleteUseConstant)
	}
	leadID, _ := command.Flags().GetInt64(flagLeadIDNameConstant)
	if leadID <= 0 {
		return errMissingLeadID
	}
	if builder.RemoverProvider == nil {
		return fmt.Errorf(missingProviderTemplate, deleteUseConstant)
	}

	remover, providerError := builder.RemoverProvider(command.Context())
	if providerError != nil {
		return fmt.Errorf(deleteExecutionErrorTemplate, providerError)
	}
	if deleteError := remover.DeleteLead(command.Context(), leadID); deleteError != nil {
		return fmt.Errorf(deleteExecutionErrorTemplate, deleteError)
	}

	resolveLogger(builder.LoggerProvider).Info(leadDeletedLogMessage, zap.Int64(leadIDFieldConstant, leadID))
	fmt.Fprintf(command.OutOrStdout(), deleteCompletedTemplate, leadID)
	return nil
}

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

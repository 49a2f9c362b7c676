package httpapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	commandUseConstant                    = "serve"
	commandShortDescriptionConstant       = "Serve stored leads and audits over HTTP"
	commandLongDescriptionConstant        = "serve exposes leads, their latest audits, deletion, and a CSV export as a JSON API for the dashboard. It runs until interrupted."
	commandExecutionErrorTemplateConstant = "serve failed: %w"
	unexpectedArgumentsMessageConstant    = "serve does not accept positional arguments"
	missingStoreProviderMessageConstant   = "serve requires a lead store"
	flagAddressNameConstant               = "address"
	flagAddressDescriptionConstant        = "Listen address"
)

var (
	errUnexpectedArguments  = errors.New(unexpectedArgumentsMessageConstant)
	errMissingStoreProvider = errors.New(missingStoreProviderMessageConstant)
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// LeadStoreProvider opens the store served by the API.
type LeadStoreProvider func(executionContext context.Context) (LeadStore, error)

// CommandBuilder assembles the serve command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() Configuration
	StoreProvider         LeadStoreProvider
}

// Build constructs the serve command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	configuration := builder.resolveConfiguration()

	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(flagAddressNameConstant, configuration.Address, flagAddressDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}
	if builder.StoreProvider == nil {
		return errMissingStoreProvider
	}

	logger := builder.resolveLogger()
	configuration := builder.resolveConfiguration()
	configuration.Address, _ = command.Flags().GetString(flagAddressNameConstant)

	store, storeError := builder.StoreProvider(command.Context())
	if storeError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, storeError)
	}

	handler := NewRouter(store, configuration.AllowedOrigins, logger)
	if serveError := Serve(command.Context(), configuration, handler, logger, nil); serveError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, serveError)
	}
	return nil
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	if builder.ConfigurationProvider == nil {
		return DefaultConfiguration()
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

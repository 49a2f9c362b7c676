package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/leads"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/utils/flags"
)

const (
	commandUseConstant                    = "export"
	commandShortDescriptionConstant       = "Export all leads as CSV or XLSX"
	commandLongDescriptionConstant        = "export writes every stored lead, newest first, in the leads table column order. CSV goes to standard output unless --output is set."
	commandExecutionErrorTemplateConstant = "export failed: %w"
	unexpectedArgumentsMessageConstant    = "export does not accept positional arguments"
	missingListerProviderMessageConstant  = "export requires a lead store"
	binaryToTerminalMessageConstant       = "xlsx export requires --output"
	listErrorTemplateConstant             = "list leads: %w"
	createFileErrorTemplateConstant       = "create %s: %w"
	exportedTemplateConstant              = "Exported %d leads to %s\n"
	exportedLogMessageConstant            = "Leads exported"
	flagFormatNameConstant                = "format"
	flagFormatDescriptionConstant         = "Export format"
	flagOutputNameConstant                = "output"
	flagOutputDescriptionConstant         = "Destination file (CSV defaults to standard output)"
	outputFilePermissionsConstant         = 0o644
	countFieldConstant                    = "count"
	pathFieldConstant                     = "path"
)

var (
	errUnexpectedArguments   = errors.New(unexpectedArgumentsMessageConstant)
	errMissingListerProvider = errors.New(missingListerProviderMessageConstant)
	errBinaryToTerminal      = errors.New(binaryToTerminalMessageConstant)
)

// LeadLister returns every stored lead.
type LeadLister interface {
	ListLeads(executionContext context.Context) ([]leads.Lead, error)
}

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// LeadListerProvider opens the store used by the export command.
type LeadListerProvider func(executionContext context.Context) (LeadLister, error)

// CommandBuilder assembles the export command.
type CommandBuilder struct {
	LoggerProvider LoggerProvider
	ListerProvider LeadListerProvider
}

// Build constructs the export command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(flagFormatNameConstant, string(FormatCSV), flags.FormatChoiceUsage(string(FormatCSV), SupportedFormats(), flagFormatDescriptionConstant))
	command.Flags().String(flagOutputNameConstant, "", flagOutputDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	formatValue, _ := command.Flags().GetString(flagFormatNameConstant)
	format, formatError := ParseFormat(formatValue)
	if formatError != nil {
		return formatError
	}
	outputPath, _ := command.Flags().GetString(flagOutputNameConstant)
	outputPath = strings.TrimSpace(outputPath)
	if format == FormatXLSX && len(outputPath) == 0 {
		return errBinaryToTerminal
	}

	if builder.ListerProvider == nil {
		return errMissingListerProvider
	}
	logger := builder.resolveLogger()

	lister, listerError := builder.ListerProvider(command.Context())
	if listerError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, listerError)
	}
	records, listError := lister.ListLeads(command.Context())
	if listError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, fmt.Errorf(listErrorTemplateConstant, listError))
	}

	if len(outputPath) == 0 {
		if writeError := Write(command.OutOrStdout(), format, records); writeError != nil {
			return fmt.Errorf(commandExecutionErrorTemplateConstant, writeError)
		}
		return nil
	}

	if writeError := writeFile(outputPath, format, records); writeError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, writeError)
	}
	logger.Info(exportedLogMessageConstant, zap.Int(countFieldConstant, len(records)), zap.String(pathFieldConstant, outputPath))
	fmt.Fprintf(command.OutOrStdout(), exportedTemplateConstant, len(records), outputPath)
	return nil
}

func writeFile(outputPath string, format Format, records []leads.Lead) (resultError error) {
	file, createError := os.OpenFile(outputPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, outputFilePermissionsConstant)
	if createError != nil {
		return fmt.Errorf(createFileErrorTemplateConstant, outputPath, createError)
	}
	defer func() {
		if closeError := file.Close(); closeError != nil && resultError == nil {
			resultError = closeError
		}
	}()
	return Write(file, format, records)
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

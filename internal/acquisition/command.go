package acquisition

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/browser"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/utils/flags"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/webclient"
)

const (
	commandUseConstant                    = "scrape"
	commandShortDescriptionConstant       = "Discover businesses and save them as leads"
	commandLongDescriptionConstant        = "scrape searches a listing source for businesses with a website and saves every auditable candidate as a lead."
	commandExecutionErrorTemplateConstant = "scrape failed: %w"
	unexpectedArgumentsMessageConstant    = "scrape does not accept positional arguments"
	missingKeywordMessageConstant         = "--keyword is required"
	missingLocationMessageConstant        = "--location is required"
	invalidSourceTemplateConstant         = "--source must be one of %s"
	invalidTotalMessageConstant           = "--total must be greater than zero"
	missingStoreProviderMessageConstant   = "scrape requires a lead store"
	flagSourceNameConstant                = "source"
	flagSourceDescriptionConstant         = "Listing source to search"
	flagKeywordNameConstant               = "keyword"
	flagKeywordDescriptionConstant        = "Business category to search for"
	flagLocationNameConstant              = "location"
	flagLocationDescriptionConstant       = "Location to search in"
	flagTotalNameConstant                 = "total"
	flagTotalDescriptionConstant          = "Maximum number of leads to save"
	sourceListSeparatorConstant           = ", "
)

var (
	errUnexpectedArguments  = errors.New(unexpectedArgumentsMessageConstant)
	errMissingKeyword       = errors.New(missingKeywordMessageConstant)
	errMissingLocation      = errors.New(missingLocationMessageConstant)
	errInvalidTotal         = errors.New(invalidTotalMessageConstant)
	errMissingStoreProvider = errors.New(missingStoreProviderMessageConstant)
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the scrape command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        func() CommandConfiguration
	HTTPConfigurationProvider    func() webclient.Configuration
	BrowserConfigurationProvider func() browser.Configuration
	StoreProvider                LeadStoreProvider
	Fetcher                      PageFetcher
	Sessions                     SessionFactory
}

// Build constructs the scrape command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	configuration := builder.resolveConfiguration()

	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(flagSourceNameConstant, configuration.Source, flags.FormatChoiceUsage(configuration.Source, SupportedSourceKinds(), flagSourceDescriptionConstant))
	command.Flags().String(flagKeywordNameConstant, "", flagKeywordDescriptionConstant)
	command.Flags().String(flagLocationNameConstant, "", flagLocationDescriptionConstant)
	command.Flags().Int(flagTotalNameConstant, configuration.Total, flagTotalDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	options, optionsError := builder.parseOptions(command)
	if optionsError != nil {
		return optionsError
	}

	if builder.StoreProvider == nil {
		return errMissingStoreProvider
	}

	logger := builder.resolveLogger()
	acquirers, acquirersError := builder.BuildAcquirers(logger)
	if acquirersError != nil {
		return acquirersError
	}

	store, storeError := builder.StoreProvider(command.Context())
	if storeError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, storeError)
	}

	service := NewService(acquirers, store, command.OutOrStdout(), logger)
	if _, runError := service.Run(command.Context(), options); runError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, runError)
	}

	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) (CommandOptions, error) {
	sourceValue, _ := command.Flags().GetString(flagSourceNameConstant)
	source, supported := ParseSourceKind(sourceValue)
	if !supported {
		return CommandOptions{}, fmt.Errorf(invalidSourceTemplateConstant, strings.Join(SupportedSourceKinds(), sourceListSeparatorConstant))
	}

	keywordValue, _ := command.Flags().GetString(flagKeywordNameConstant)
	keyword := strings.TrimSpace(keywordValue)
	if len(keyword) == 0 {
		return CommandOptions{}, errMissingKeyword
	}

	locationValue, _ := command.Flags().GetString(flagLocationNameConstant)
	location := strings.TrimSpace(locationValue)
	if len(location) == 0 {
		return CommandOptions{}, errMissingLocation
	}

	totalValue, _ := command.Flags().GetInt(flagTotalNameConstant)
	if totalValue <= 0 {
		return CommandOptions{}, errInvalidTotal
	}

	return CommandOptions{
		Source: source,
		Query:  Query{Keyword: keyword, Location: location, TargetCount: totalValue},
	}, nil
}

// BuildAcquirers wires both acquirers from the resolved configuration.
func (builder *CommandBuilder) BuildAcquirers(logger *zap.Logger) (map[SourceKind]Acquirer, error) {
	configuration := builder.resolveConfiguration()

	fetcher, fetcherError := builder.resolveFetcher()
	if fetcherError != nil {
		return nil, fetcherError
	}

	sessions := builder.Sessions
	if sessions == nil {
		browserConfiguration := builder.resolveBrowserConfiguration().WithUserAgent(builder.resolveHTTPConfiguration().UserAgent)
		sessions = NewChromeSessionFactory(browserConfiguration, configuration.Session)
	}

	resolver := NewEmailResolver(fetcher, configuration.EmailTimeout, logger)
	return map[SourceKind]Acquirer{
		SourceKindMaps:     NewListingAcquirer(sessions, resolver, configuration.Listing, logger),
		SourceKindJustDial: NewDirectoryAcquirer(fetcher, configuration.Directory, logger),
	}, nil
}

func (builder *CommandBuilder) resolveFetcher() (PageFetcher, error) {
	if builder.Fetcher != nil {
		return builder.Fetcher, nil
	}
	return webclient.NewClient(builder.resolveHTTPConfiguration())
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().sanitize()
}

func (builder *CommandBuilder) resolveHTTPConfiguration() webclient.Configuration {
	if builder.HTTPConfigurationProvider == nil {
		return webclient.DefaultConfiguration()
	}
	return builder.HTTPConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveBrowserConfiguration() browser.Configuration {
	if builder.BrowserConfigurationProvider == nil {
		return browser.DefaultConfiguration()
	}
	return builder.BrowserConfigurationProvider().Sanitize()
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

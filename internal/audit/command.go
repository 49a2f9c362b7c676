package audit

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/analysis"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/browser"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/textgen"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/webclient"
)

const (
	commandUseConstant                    = "analyze"
	commandShortDescriptionConstant       = "Audit the website of a saved lead"
	commandLongDescriptionConstant        = "analyze runs the performance, SEO, UX, mobile, and link checks against a lead's website and saves the weighted result."
	commandExecutionErrorTemplateConstant = "analyze failed: %w"
	unexpectedArgumentsMessageConstant    = "analyze does not accept positional arguments"
	missingLeadIDMessageConstant          = "--lead_id is required"
	missingStoreProviderMessageConstant   = "analyze requires an audit store"
	flagLeadIDNameConstant                = "lead_id"
	flagLeadIDDescriptionConstant         = "Identifier of the lead to audit"
	flagReviewNameConstant                = "review"
	flagReviewDescriptionConstant         = "Add a qualitative review from the text-generation service"
)

var (
	errUnexpectedArguments  = errors.New(unexpectedArgumentsMessageConstant)
	errMissingLeadID        = errors.New(missingLeadIDMessageConstant)
	errMissingStoreProvider = errors.New(missingStoreProviderMessageConstant)
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the analyze command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        func() CommandConfiguration
	HTTPConfigurationProvider    func() webclient.Configuration
	BrowserConfigurationProvider func() browser.Configuration
	TextGenConfigurationProvider func() textgen.Configuration
	StoreProvider                AuditStoreProvider
	Fetcher                      PageFetcher
	Prober                       LinkProber
	Renderer                     analysis.MobileRenderer
	Reviewer                     Reviewer
	Clock                        Clock
}

// Build constructs the analyze command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	configuration := builder.resolveConfiguration()

	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().Int64(flagLeadIDNameConstant, 0, flagLeadIDDescriptionConstant)
	command.Flags().Bool(flagReviewNameConstant, configuration.Review, flagReviewDescriptionConstant)

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
	reviewEnabled, _ := command.Flags().GetBool(flagReviewNameConstant)

	if builder.StoreProvider == nil {
		return errMissingStoreProvider
	}

	logger := builder.resolveLogger()
	orchestrator, orchestratorError := builder.BuildOrchestrator(logger, reviewEnabled)
	if orchestratorError != nil {
		return orchestratorError
	}

	store, storeError := builder.StoreProvider(command.Context())
	if storeError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, storeError)
	}

	service := NewService(store, orchestrator, command.OutOrStdout(), logger)
	if _, runError := service.Run(command.Context(), CommandOptions{LeadID: leadID}); runError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, runError)
	}

	return nil
}

// BuildOrchestrator wires the analyzers from the resolved configuration. Each
// call produces independent collaborators so concurrent audits share no state.
// A missing text-generation key is reported before any work when review is enabled.
func (builder *CommandBuilder) BuildOrchestrator(logger *zap.Logger, reviewEnabled bool) (*Orchestrator, error) {
	configuration := builder.resolveConfiguration()

	fetcher, prober, clientError := builder.resolveHTTP()
	if clientError != nil {
		return nil, clientError
	}

	reviewer, reviewerError := builder.resolveReviewer(reviewEnabled, fetcher, logger)
	if reviewerError != nil {
		return nil, reviewerError
	}

	analyzers := NewAnalyzers(configuration.Analysis, fetcher, prober, builder.resolveRenderer(configuration.Analysis))
	settings := ExecutionSettings{
		Prefetch:    configuration.Prefetch,
		Parallel:    configuration.Parallel,
		PageTimeout: configuration.Analysis.PageTimeout,
	}
	return NewOrchestrator(analyzers, fetcher, reviewer, settings, builder.Clock, logger), nil
}

// NewAnalyzers builds the five analyzers around shared read-only collaborators.
func NewAnalyzers(configuration analysis.Configuration, fetcher PageFetcher, prober LinkProber, renderer analysis.MobileRenderer) Analyzers {
	sanitized := configuration.Sanitize()
	return Analyzers{
		Performance: analysis.NewPerformanceAnalyzer(fetcher, sanitized.PerformanceTimeout),
		SEO:         analysis.NewSEOAnalyzer(fetcher, sanitized.PageTimeout),
		UX:          analysis.NewUXAnalyzer(fetcher, sanitized.PageTimeout),
		Mobile:      analysis.NewMobileAnalyzer(renderer),
		Links:       analysis.NewLinkIntegrityChecker(fetcher, prober, sanitized.PageTimeout, sanitized.ProbeTimeout, sanitized.LinkLimit),
	}
}

func (builder *CommandBuilder) resolveHTTP() (PageFetcher, LinkProber, error) {
	if builder.Fetcher != nil && builder.Prober != nil {
		return builder.Fetcher, builder.Prober, nil
	}

	client, clientError := webclient.NewClient(builder.resolveHTTPConfiguration())
	if clientError != nil {
		return nil, nil, clientError
	}

	var fetcher PageFetcher = client
	var prober LinkProber = client
	if builder.Fetcher != nil {
		fetcher = builder.Fetcher
	}
	if builder.Prober != nil {
		prober = builder.Prober
	}
	return fetcher, prober, nil
}

func (builder *CommandBuilder) resolveReviewer(reviewEnabled bool, fetcher PageFetcher, logger *zap.Logger) (Reviewer, error) {
	if !reviewEnabled {
		return nil, nil
	}
	if builder.Reviewer != nil {
		return builder.Reviewer, nil
	}
	client, clientError := textgen.NewClient(builder.resolveTextGenConfiguration(), fetcher, logger)
	if clientError != nil {
		return nil, clientError
	}
	return client, nil
}

func (builder *CommandBuilder) resolveRenderer(configuration analysis.Configuration) analysis.MobileRenderer {
	if builder.Renderer != nil {
		return builder.Renderer
	}
	browserConfiguration := builder.resolveBrowserConfiguration().WithUserAgent(builder.resolveHTTPConfiguration().UserAgent)
	return analysis.NewChromeMobileRenderer(browserConfiguration.AllocatorOptions(), configuration.MobileTimeout)
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

func (builder *CommandBuilder) resolveTextGenConfiguration() textgen.Configuration {
	if builder.TextGenConfigurationProvider == nil {
		return textgen.DefaultConfiguration()
	}
	return builder.TextGenConfigurationProvider()
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

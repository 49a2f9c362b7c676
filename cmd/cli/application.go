package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/acquisition"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/audit"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/browser"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/export"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/httpapi"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/outreach"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/pipeline"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/reporting"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/storage"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/textgen"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/utils"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/webclient"
)

const (
	applicationNameConstant                 = "site-auditor"
	applicationShortDescriptionConstant     = "Discover local business leads and audit their websites"
	applicationLongDescriptionConstant      = "site-auditor collects business listings, audits each website for speed, SEO, mobile rendering, broken links, and content, stores the results in PostgreSQL, and drafts outreach from the findings."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	environmentFileFlagNameConstant         = "env-file"
	environmentFileFlagUsageConstant        = "Optional .env file loaded before configuration."
	defaultEnvironmentFileConstant          = ".env"
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format (structured or console)."
	commonLogLevelConfigKeyConstant         = "common.log_level"
	commonLogFormatConfigKeyConstant        = "common.log_format"
	environmentPrefixConstant               = "SITEAUDITOR"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	userConfigurationDirectoryConstant      = "site-auditor"
	defaultConfigurationSearchPathConstant  = "."
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	commandSkippedMessageConstant           = "command unavailable"
	commandFieldConstant                    = "command"
	environmentLoadErrorTemplateConstant    = "unable to load environment: %w"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
)

// environmentAliases maps configuration keys to conventional variable names honored alongside SITEAUDITOR_*.
var environmentAliases = map[string][]string{
	"textgen.api_key":                   {"OPENAI_API_KEY"},
	"textgen.base_url":                  {"OPENAI_BASE_URL"},
	"database.url":                      {"DATABASE_URL"},
	"outreach.smtp.username":            {"SMTP_USERNAME", "SMTP_USER"},
	"outreach.smtp.password":            {"SMTP_PASSWORD"},
	"reporting.object_store.access_key": {"AWS_ACCESS_KEY_ID"},
	"reporting.object_store.secret_key": {"AWS_SECRET_ACCESS_KEY"},
}

// ApplicationConfiguration describes the persisted configuration for every command.
type ApplicationConfiguration struct {
	Common      ApplicationCommonConfiguration   `mapstructure:"common"`
	HTTP        webclient.Configuration          `mapstructure:"http"`
	Browser     browser.Configuration            `mapstructure:"browser"`
	Database    storage.Configuration            `mapstructure:"database"`
	Acquisition acquisition.CommandConfiguration `mapstructure:"acquisition"`
	Audit       audit.CommandConfiguration       `mapstructure:"audit"`
	TextGen     textgen.Configuration            `mapstructure:"textgen"`
	Reporting   reporting.CommandConfiguration   `mapstructure:"reporting"`
	Outreach    outreach.CommandConfiguration    `mapstructure:"outreach"`
	Server      httpapi.Configuration            `mapstructure:"server"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// Application wires the Cobra root command, configuration loader, logger, and lead store.
type Application struct {
	rootCommand           *cobra.Command
	configurationLoader   *utils.ConfigurationLoader
	loggerFactory         *utils.LoggerFactory
	logger                *zap.Logger
	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	configurationFilePath string
	environmentFilePath   string
	logLevelFlagValue     string
	logFormatFlagValue    string
	store                 *storeConnector
}

// NewApplication assembles the CLI. A nil opener connects to PostgreSQL with storage.Open.
func NewApplication(opener StoreOpener) *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		configurationSearchPaths(),
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())
	for configurationKey, aliases := range environmentAliases {
		configurationLoader.BindEnvironmentAliases(configurationKey, aliases...)
	}

	application := &Application{
		configurationLoader: configurationLoader,
		loggerFactory:       utils.NewLoggerFactory(),
		logger:              zap.NewNop(),
	}
	application.store = newStoreConnector(func() storage.Configuration {
		return application.configuration.Database
	}, opener)

	rootCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}
	rootCommand.SetContext(context.Background())
	rootCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	rootCommand.PersistentFlags().StringVar(&application.environmentFilePath, environmentFileFlagNameConstant, defaultEnvironmentFileConstant, environmentFileFlagUsageConstant)
	rootCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	rootCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)

	for _, builder := range application.commandBuilders() {
		command, buildError := builder.Build()
		if buildError != nil {
			application.logger.Warn(commandSkippedMessageConstant, zap.Error(buildError))
			continue
		}
		rootCommand.AddCommand(command)
	}

	application.rootCommand = rootCommand
	return application
}

type commandBuilder interface {
	Build() (*cobra.Command, error)
}

func (application *Application) commandBuilders() []commandBuilder {
	loggerProvider := func() *zap.Logger { return application.logger }
	httpConfiguration := func() webclient.Configuration { return application.configuration.HTTP }
	browserConfiguration := func() browser.Configuration { return application.configuration.Browser }
	textGenConfiguration := func() textgen.Configuration { return application.configuration.TextGen }

	acquisitionBuilder := &acquisition.CommandBuilder{
		LoggerProvider: loggerProvider,
		ConfigurationProvider: func() acquisition.CommandConfiguration {
			return application.configuration.Acquisition
		},
		HTTPConfigurationProvider:    httpConfiguration,
		BrowserConfigurationProvider: browserConfiguration,
		StoreProvider:                application.store.leadStore,
	}
	auditBuilder := &audit.CommandBuilder{
		LoggerProvider: loggerProvider,
		ConfigurationProvider: func() audit.CommandConfiguration {
			return application.configuration.Audit
		},
		HTTPConfigurationProvider:    httpConfiguration,
		BrowserConfigurationProvider: browserConfiguration,
		TextGenConfigurationProvider: textGenConfiguration,
		StoreProvider:                application.store.auditStore,
	}

	return []commandBuilder{
		acquisitionBuilder,
		auditBuilder,
		&reporting.CommandBuilder{
			LoggerProvider: loggerProvider,
			ConfigurationProvider: func() reporting.CommandConfiguration {
				return application.configuration.Reporting
			},
			TextGenConfigurationProvider: textGenConfiguration,
			StoreProvider:                application.store.reportStore,
		},
		&outreach.CommandBuilder{
			LoggerProvider: loggerProvider,
			ConfigurationProvider: func() outreach.CommandConfiguration {
				return application.configuration.Outreach
			},
			TextGenConfigurationProvider: textGenConfiguration,
			StoreProvider:                application.store.outreachStore,
		},
		&export.CommandBuilder{
			LoggerProvider: loggerProvider,
			ListerProvider: application.store.leadLister,
		},
		&httpapi.CommandBuilder{
			LoggerProvider: loggerProvider,
			ConfigurationProvider: func() httpapi.Configuration {
				return application.configuration.Server
			},
			StoreProvider: application.store.apiStore,
		},
		&pipeline.CommandBuilder{
			LoggerProvider:     loggerProvider,
			AcquisitionBuilder: acquisitionBuilder,
			AuditBuilder:       auditBuilder,
			StoreProvider:      application.store.pipelineStore,
		},
		&storage.InitCommandBuilder{
			LoggerProvider:   loggerProvider,
			MigratorProvider: application.store.migrator,
		},
		&storage.DeleteCommandBuilder{
			LoggerProvider:  loggerProvider,
			RemoverProvider: application.store.remover,
		},
	}
}

// RootCommand exposes the assembled command tree.
func (application *Application) RootCommand() *cobra.Command {
	return application.rootCommand
}

// Configuration returns the configuration resolved by the last command invocation.
func (application *Application) Configuration() ApplicationConfiguration {
	return application.configuration
}

// ExecuteContext runs the command tree, then closes the store and flushes the logger.
func (application *Application) ExecuteContext(executionContext context.Context) error {
	executionError := application.rootCommand.ExecuteContext(executionContext)
	application.store.close()
	if syncError := application.flushLogger(); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds the application and runs it until completion or an interrupt.
func Execute() error {
	signalContext, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewApplication(nil).ExecuteContext(signalContext)
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	if environmentError := utils.LoadEnvironmentFiles(application.environmentFilePath); environmentError != nil {
		return fmt.Errorf(environmentLoadErrorTemplateConstant, environmentError)
	}

	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatStructured),
	}
	application.configuration = ApplicationConfiguration{}
	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}
	application.configurationMetadata = loadedConfiguration

	if persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}
	if persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}
	application.logger = logger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
		zap.String(commandFieldConstant, command.Name()),
	)
	return nil
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}
	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP), errors.Is(syncError, syscall.EINVAL), errors.Is(syncError, syscall.ENOTTY):
		return nil
	default:
		return syncError
	}
}

func persistentFlagChanged(command *cobra.Command, flagName string) bool {
	flagSets := []*pflag.FlagSet{command.Flags(), command.InheritedFlags()}
	if rootCommand := command.Root(); rootCommand != nil {
		flagSets = append(flagSets, rootCommand.PersistentFlags())
	}
	for _, flagSet := range flagSets {
		if flagSet != nil && flagSet.Changed(flagName) {
			return true
		}
	}
	return false
}

func configurationSearchPaths() []string {
	searchPaths := []string{defaultConfigurationSearchPathConstant}
	if userConfigurationRoot, rootError := os.UserConfigDir(); rootError == nil {
		searchPaths = append(searchPaths, filepath.Join(userConfigurationRoot, userConfigurationDirectoryConstant))
	}
	return searchPaths
}

package audit

import (
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/analysis"
)

// CommandConfiguration captures persistent settings for the analyze command.
type CommandConfiguration struct {
	Analysis analysis.Configuration `mapstructure:",squash"`
	Prefetch bool                   `mapstructure:"prefetch"`
	Parallel bool                   `mapstructure:"parallel"`
	Review   bool                   `mapstructure:"review"`
}

// DefaultCommandConfiguration returns baseline configuration values for the analyze command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Analysis: analysis.DefaultConfiguration(),
		Prefetch: true,
		Parallel: false,
		Review:   false,
	}
}

// sanitize applies defaults to unset analyzer limits.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Analysis = configuration.Analysis.Sanitize()
	return sanitized
}

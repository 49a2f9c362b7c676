package acquisition

import (
	"strings"
	"time"
)

const (
	defaultSourceConstant       = string(SourceKindMaps)
	defaultTotalConstant        = 5
	defaultEmailTimeoutConstant = 10 * time.Second
)

// CommandConfiguration captures persistent settings for the scrape command.
type CommandConfiguration struct {
	Source       string                 `mapstructure:"source"`
	Total        int                    `mapstructure:"total"`
	EmailTimeout time.Duration          `mapstructure:"email_timeout"`
	Session      SessionConfiguration   `mapstructure:"session"`
	Listing      ListingConfiguration   `mapstructure:"listing"`
	Directory    DirectoryConfiguration `mapstructure:"directory"`
}

// DefaultCommandConfiguration returns baseline configuration values for the scrape command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Source:       defaultSourceConstant,
		Total:        defaultTotalConstant,
		EmailTimeout: defaultEmailTimeoutConstant,
		Session:      DefaultSessionConfiguration(),
		Listing:      DefaultListingConfiguration(),
		Directory:    DefaultDirectoryConfiguration(),
	}
}

// sanitize trims whitespace and applies defaults to unset configuration values.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration

	sanitized.Source = strings.ToLower(strings.TrimSpace(configuration.Source))
	if _, supported := ParseSourceKind(sanitized.Source); !supported {
		sanitized.Source = defaults.Source
	}
	if sanitized.Total <= 0 {
		sanitized.Total = defaults.Total
	}
	if sanitized.EmailTimeout <= 0 {
		sanitized.EmailTimeout = defaults.EmailTimeout
	}
	sanitized.Session = configuration.Session.sanitize()
	sanitized.Directory = configuration.Directory.sanitize()

	return sanitized
}

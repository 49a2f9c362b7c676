package storage

import (
	"strings"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/failures"
)

const (
	defaultMaxConnectionsConstant = 10
	databaseURLSettingConstant    = "database.url"
	missingDatabaseURLMessage     = "database URL not configured; set SITEAUDITOR_DATABASE_URL or DATABASE_URL"
)

// Configuration describes the PostgreSQL connection.
type Configuration struct {
	URL            string `mapstructure:"url"`
	MaxConnections int32  `mapstructure:"max_connections"`
}

// DefaultConfiguration returns the baseline connection settings.
func DefaultConfiguration() Configuration {
	return Configuration{MaxConnections: defaultMaxConnectionsConstant}
}

// Sanitize trims the URL and applies defaults to unset values.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.URL = strings.TrimSpace(configuration.URL)
	if sanitized.MaxConnections <= 0 {
		sanitized.MaxConnections = defaultMaxConnectionsConstant
	}
	return sanitized
}

// Validate reports a ConfigurationError when no connection URL is set.
func (configuration Configuration) Validate() error {
	if len(strings.TrimSpace(configuration.URL)) == 0 {
		return failures.ConfigurationError{Setting: databaseURLSettingConstant, Message: missingDatabaseURLMessage}
	}
	return nil
}

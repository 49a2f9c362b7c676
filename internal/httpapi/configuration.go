package httpapi

import (
	"strings"
	"time"
)

const (
	defaultAddressConstant         = ":8080"
	defaultReadTimeoutConstant     = 15 * time.Second
	defaultWriteTimeoutConstant    = 30 * time.Second
	defaultShutdownTimeoutConstant = 10 * time.Second
)

// Configuration describes the dashboard data server.
type Configuration struct {
	Address         string        `mapstructure:"address"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DefaultConfiguration returns the baseline server settings.
func DefaultConfiguration() Configuration {
	return Configuration{
		Address:         defaultAddressConstant,
		ReadTimeout:     defaultReadTimeoutConstant,
		WriteTimeout:    defaultWriteTimeoutConstant,
		ShutdownTimeout: defaultShutdownTimeoutConstant,
	}
}

// Sanitize trims values and restores defaults for unset durations.
func (configuration Configuration) Sanitize() Configuration {
	defaults := DefaultConfiguration()
	sanitized := configuration
	sanitized.Address = strings.TrimSpace(configuration.Address)
	if len(sanitized.Address) == 0 {
		sanitized.Address = defaults.Address
	}
	sanitized.AllowedOrigins = nil
	for _, origin := range configuration.AllowedOrigins {
		trimmedOrigin := strings.TrimSpace(origin)
		if len(trimmedOrigin) > 0 {
			sanitized.AllowedOrigins = append(sanitized.AllowedOrigins, trimmedOrigin)
		}
	}
	if sanitized.ReadTimeout <= 0 {
		sanitized.ReadTimeout = defaults.ReadTimeout
	}
	if sanitized.WriteTimeout <= 0 {
		sanitized.WriteTimeout = defaults.WriteTimeout
	}
	if sanitized.ShutdownTimeout <= 0 {
		sanitized.ShutdownTimeout = defaults.ShutdownTimeout
	}
	return sanitized
}

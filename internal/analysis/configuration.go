package analysis

import "time"

const (
	// LinkProbeLimit is the hard ceiling on reachability probes per audit.
	LinkProbeLimit = 20

	defaultPerformanceTimeoutConstant = 15 * time.Second
	defaultPageTimeoutConstant        = 10 * time.Second
	defaultMobileTimeoutConstant      = 30 * time.Second
	defaultProbeTimeoutConstant       = 5 * time.Second
)

// Configuration holds per-analyzer timeouts and limits.
type Configuration struct {
	PerformanceTimeout time.Duration `mapstructure:"performance_timeout"`
	PageTimeout        time.Duration `mapstructure:"page_timeout"`
	MobileTimeout      time.Duration `mapstructure:"mobile_timeout"`
	ProbeTimeout       time.Duration `mapstructure:"probe_timeout"`
	LinkLimit          int           `mapstructure:"link_limit"`
}

// DefaultConfiguration returns the baseline analyzer settings.
func DefaultConfiguration() Configuration {
	return Configuration{
		PerformanceTimeout: defaultPerformanceTimeoutConstant,
		PageTimeout:        defaultPageTimeoutConstant,
		MobileTimeout:      defaultMobileTimeoutConstant,
		ProbeTimeout:       defaultProbeTimeoutConstant,
		LinkLimit:          LinkProbeLimit,
	}
}

// Sanitize applies defaults to unset values and caps the link limit.
func (configuration Configuration) Sanitize() Configuration {
	defaults := DefaultConfiguration()
	sanitized := configuration
	if sanitized.PerformanceTimeout <= 0 {
		sanitized.PerformanceTimeout = defaults.PerformanceTimeout
	}
	if sanitized.PageTimeout <= 0 {
		sanitized.PageTimeout = defaults.PageTimeout
	}
	if sanitized.MobileTimeout <= 0 {
		sanitized.MobileTimeout = defaults.MobileTimeout
	}
	if sanitized.ProbeTimeout <= 0 {
		sanitized.ProbeTimeout = defaults.ProbeTimeout
	}
	if sanitized.LinkLimit <= 0 || sanitized.LinkLimit > LinkProbeLimit {
		sanitized.LinkLimit = LinkProbeLimit
	}
	return sanitized
}

// Package browser holds the headless Chrome launch settings shared by the
// listing session and the mobile renderer.
package browser

import (
	"strings"

	"github.com/chromedp/chromedp"
)

// Configuration controls how Chrome processes are launched.
type Configuration struct {
	Headless  bool   `mapstructure:"headless"`
	ExecPath  string `mapstructure:"exec_path"`
	UserAgent string `mapstructure:"user_agent"`
}

// DefaultConfiguration returns headless Chrome found on PATH.
func DefaultConfiguration() Configuration {
	return Configuration{Headless: true}
}

// Sanitize trims string settings.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.ExecPath = strings.TrimSpace(configuration.ExecPath)
	sanitized.UserAgent = strings.TrimSpace(configuration.UserAgent)
	return sanitized
}

// WithUserAgent returns a copy that uses userAgent when none is configured.
func (configuration Configuration) WithUserAgent(userAgent string) Configuration {
	if len(strings.TrimSpace(configuration.UserAgent)) > 0 {
		return configuration
	}
	configuration.UserAgent = strings.TrimSpace(userAgent)
	return configuration
}

// AllocatorOptions returns the exec allocator flags for a new Chrome process.
func (configuration Configuration) AllocatorOptions() []chromedp.ExecAllocatorOption {
	options := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", configuration.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if len(configuration.UserAgent) > 0 {
		options = append(options, chromedp.UserAgent(configuration.UserAgent))
	}
	if len(configuration.ExecPath) > 0 {
		options = append(options, chromedp.ExecPath(configuration.ExecPath))
	}
	return options
}

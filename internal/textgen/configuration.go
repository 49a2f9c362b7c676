package textgen

import (
	"strings"
	"time"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/failures"
)

const (
	defaultModelConstant               = "gpt-4o-mini"
	defaultTemperatureConstant         = 0.7
	defaultReviewMaxTokensConstant     = 1000
	defaultSuggestionMaxTokensConstant = 500
	defaultEmailMaxTokensConstant      = 800
	defaultRequestTimeoutConstant      = 30 * time.Second
	defaultPageTimeoutConstant         = 10 * time.Second
	defaultRequestsPerMinuteConstant   = 60
	defaultBurstConstant               = 1
	defaultMaxRetriesConstant          = 3
	defaultRetryBaseDelayConstant      = 2 * time.Second
	defaultTextLimitConstant           = 10000

	apiKeySettingConstant = "textgen.api_key"
	missingAPIKeyMessage  = "API key not configured; set SITEAUDITOR_TEXTGEN_API_KEY or OPENAI_API_KEY"
)

// Configuration describes the chat-completion provider and call limits.
type Configuration struct {
	APIKey              string        `mapstructure:"api_key"`
	BaseURL             string        `mapstructure:"base_url"`
	Model               string        `mapstructure:"model"`
	Temperature         float32       `mapstructure:"temperature"`
	ReviewMaxTokens     int           `mapstructure:"review_max_tokens"`
	SuggestionMaxTokens int           `mapstructure:"suggestion_max_tokens"`
	EmailMaxTokens      int           `mapstructure:"email_max_tokens"`
	RequestTimeout      time.Duration `mapstructure:"request_timeout"`
	PageTimeout         time.Duration `mapstructure:"page_timeout"`
	RequestsPerMinute   float64       `mapstructure:"requests_per_minute"`
	Burst               int           `mapstructure:"burst"`
	MaxRetries          int           `mapstructure:"max_retries"`
	RetryBaseDelay      time.Duration `mapstructure:"retry_base_delay"`
	TextLimit           int           `mapstructure:"text_limit"`
}

// DefaultConfiguration returns the baseline provider settings without credentials.
func DefaultConfiguration() Configuration {
	return Configuration{
		Model:               defaultModelConstant,
		Temperature:         defaultTemperatureConstant,
		ReviewMaxTokens:     defaultReviewMaxTokensConstant,
		SuggestionMaxTokens: defaultSuggestionMaxTokensConstant,
		EmailMaxTokens:      defaultEmailMaxTokensConstant,
		RequestTimeout:      defaultRequestTimeoutConstant,
		PageTimeout:         defaultPageTimeoutConstant,
		RequestsPerMinute:   defaultRequestsPerMinuteConstant,
		Burst:               defaultBurstConstant,
		MaxRetries:          defaultMaxRetriesConstant,
		RetryBaseDelay:      defaultRetryBaseDelayConstant,
		TextLimit:           defaultTextLimitConstant,
	}
}

// Sanitize trims credentials and applies defaults to unset values.
func (configuration Configuration) Sanitize() Configuration {
	defaults := DefaultConfiguration()
	sanitized := configuration
	sanitized.APIKey = strings.TrimSpace(configuration.APIKey)
	sanitized.BaseURL = strings.TrimSpace(configuration.BaseURL)
	sanitized.Model = strings.TrimSpace(configuration.Model)
	if len(sanitized.Model) == 0 {
		sanitized.Model = defaults.Model
	}
	if sanitized.Temperature < 0 {
		sanitized.Temperature = defaults.Temperature
	}
	if sanitized.ReviewMaxTokens <= 0 {
		sanitized.ReviewMaxTokens = defaults.ReviewMaxTokens
	}
	if sanitized.SuggestionMaxTokens <= 0 {
		sanitized.SuggestionMaxTokens = defaults.SuggestionMaxTokens
	}
	if sanitized.EmailMaxTokens <= 0 {
		sanitized.EmailMaxTokens = defaults.EmailMaxTokens
	}
	if sanitized.RequestTimeout <= 0 {
		sanitized.RequestTimeout = defaults.RequestTimeout
	}
	if sanitized.PageTimeout <= 0 {
		sanitized.PageTimeout = defaults.PageTimeout
	}
	if sanitized.RequestsPerMinute <= 0 {
		sanitized.RequestsPerMinute = defaults.RequestsPerMinute
	}
	if sanitized.Burst <= 0 {
		sanitized.Burst = defaults.Burst
	}
	if sanitized.MaxRetries < 0 {
		sanitized.MaxRetries = 0
	}
	if sanitized.RetryBaseDelay <= 0 {
		sanitized.RetryBaseDelay = defaults.RetryBaseDelay
	}
	if sanitized.TextLimit <= 0 {
		sanitized.TextLimit = defaults.TextLimit
	}
	return sanitized
}

// Validate reports a ConfigurationError when credentials are missing.
func (configuration Configuration) Validate() error {
	if len(strings.TrimSpace(configuration.APIKey)) == 0 {
		return failures.ConfigurationError{Setting: apiKeySettingConstant, Message: missingAPIKeyMessage}
	}
	return nil
}

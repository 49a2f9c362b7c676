package outreach

import (
	"strings"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/failures"
)

const (
	defaultSMTPHostConstant        = "smtp.gmail.com"
	defaultSMTPPortConstant        = 587
	defaultSubjectTemplateConstant = "Question about %s"
	smtpCredentialsSetting         = "outreach.smtp.username"
	missingCredentialsMessage      = "SMTP credentials not configured."
)

// SMTPConfiguration describes the outgoing mail server.
type SMTPConfiguration struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// Validate reports a ConfigurationError when credentials are missing.
func (configuration SMTPConfiguration) Validate() error {
	if len(strings.TrimSpace(configuration.Username)) == 0 || len(configuration.Password) == 0 {
		return failures.ConfigurationError{Setting: smtpCredentialsSetting, Message: missingCredentialsMessage}
	}
	return nil
}

// Sender returns the From address, defaulting to the login.
func (configuration SMTPConfiguration) Sender() string {
	if len(strings.TrimSpace(configuration.From)) > 0 {
		return strings.TrimSpace(configuration.From)
	}
	return strings.TrimSpace(configuration.Username)
}

// CommandConfiguration captures persistent settings for the outreach command.
type CommandConfiguration struct {
	SMTP            SMTPConfiguration `mapstructure:"smtp"`
	SubjectTemplate string            `mapstructure:"subject_template"`
	TemplatePath    string            `mapstructure:"template_path"`
}

// DefaultCommandConfiguration returns baseline configuration values for the outreach command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		SMTP:            SMTPConfiguration{Host: defaultSMTPHostConstant, Port: defaultSMTPPortConstant},
		SubjectTemplate: defaultSubjectTemplateConstant,
	}
}

// Sanitize trims whitespace and applies defaults to unset configuration values.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration
	sanitized.SMTP.Host = strings.TrimSpace(configuration.SMTP.Host)
	if len(sanitized.SMTP.Host) == 0 {
		sanitized.SMTP.Host = defaults.SMTP.Host
	}
	if sanitized.SMTP.Port <= 0 {
		sanitized.SMTP.Port = defaults.SMTP.Port
	}
	sanitized.SMTP.Username = strings.TrimSpace(configuration.SMTP.Username)
	if !strings.Contains(configuration.SubjectTemplate, "%s") {
		sanitized.SubjectTemplate = defaults.SubjectTemplate
	}
	sanitized.TemplatePath = strings.TrimSpace(configuration.TemplatePath)
	return sanitized
}

package failures

import (
	"errors"
	"fmt"
)

const (
	networkErrorTemplateConstant       = "%s %s: network failure: %v"
	parseErrorTemplateConstant         = "%s %s: parse failure: %v"
	sessionErrorTemplateConstant       = "%s: browser session failure: %v"
	configurationErrorTemplateConstant = "configuration %s: %s"
	unexpectedStatusTemplateConstant   = "unexpected status %d"
)

// NetworkError reports a fetch, connect, timeout, or status failure.
type NetworkError struct {
	Operation string
	Target    string
	Cause     error
}

// Error describes the network failure.
func (networkError NetworkError) Error() string {
	return fmt.Sprintf(networkErrorTemplateConstant, networkError.Operation, networkError.Target, networkError.Cause)
}

// Unwrap exposes the underlying cause.
func (networkError NetworkError) Unwrap() error {
	return networkError.Cause
}

// ParseError reports markup that could not be processed at all.
type ParseError struct {
	Operation string
	Target    string
	Cause     error
}

// Error describes the parse failure.
func (parseError ParseError) Error() string {
	return fmt.Sprintf(parseErrorTemplateConstant, parseError.Operation, parseError.Target, parseError.Cause)
}

// Unwrap exposes the underlying cause.
func (parseError ParseError) Unwrap() error {
	return parseError.Cause
}

// SessionError reports a browser session that could not be opened or controlled.
type SessionError struct {
	Operation string
	Cause     error
}

// Error describes the session failure.
func (sessionError SessionError) Error() string {
	return fmt.Sprintf(sessionErrorTemplateConstant, sessionError.Operation, sessionError.Cause)
}

// Unwrap exposes the underlying cause.
func (sessionError SessionError) Unwrap() error {
	return sessionError.Cause
}

// ConfigurationError reports a missing or invalid required setting.
type ConfigurationError struct {
	Setting string
	Message string
}

// Error describes the configuration failure.
func (configurationError ConfigurationError) Error() string {
	return fmt.Sprintf(configurationErrorTemplateConstant, configurationError.Setting, configurationError.Message)
}

// UnexpectedStatusError wraps a non-success HTTP status as a cause.
type UnexpectedStatusError struct {
	StatusCode int
}

// Error describes the status.
func (statusError UnexpectedStatusError) Error() string {
	return fmt.Sprintf(unexpectedStatusTemplateConstant, statusError.StatusCode)
}

// IsConfiguration reports whether err carries a ConfigurationError.
func IsConfiguration(err error) bool {
	var configurationError ConfigurationError
	return errors.As(err, &configurationError)
}

// IsSession reports whether err carries a SessionError.
func IsSession(err error) bool {
	var sessionError SessionError
	return errors.As(err, &sessionError)
}

// IsNetwork reports whether err carries a NetworkError.
func IsNetwork(err error) bool {
	var networkError NetworkError
	return errors.As(err, &networkError)
}

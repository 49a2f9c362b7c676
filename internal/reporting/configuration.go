package reporting

import (
	"strings"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/failures"
)

const (
	defaultOutputDirectoryConstant = "reports"
	defaultObjectPrefixConstant    = "reports"
	objectStoreEndpointSetting     = "reporting.object_store.endpoint"
	objectStoreBucketSetting       = "reporting.object_store.bucket"
	missingEndpointMessage         = "object store endpoint not configured"
	missingBucketMessage           = "object store bucket not configured"
)

// ObjectStoreConfiguration describes an S3-compatible upload target.
type ObjectStoreConfiguration struct {
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Prefix    string `mapstructure:"prefix"`
}

// Validate reports a ConfigurationError when the upload target is incomplete.
func (configuration ObjectStoreConfiguration) Validate() error {
	if len(strings.TrimSpace(configuration.Endpoint)) == 0 {
		return failures.ConfigurationError{Setting: objectStoreEndpointSetting, Message: missingEndpointMessage}
	}
	if len(strings.TrimSpace(configuration.Bucket)) == 0 {
		return failures.ConfigurationError{Setting: objectStoreBucketSetting, Message: missingBucketMessage}
	}
	return nil
}

// CommandConfiguration captures persistent settings for the report command.
type CommandConfiguration struct {
	OutputDirectory string                   `mapstructure:"output_directory"`
	Suggestions     bool                     `mapstructure:"suggestions"`
	Upload          bool                     `mapstructure:"upload"`
	ObjectStore     ObjectStoreConfiguration `mapstructure:"object_store"`
}

// DefaultCommandConfiguration returns baseline configuration values for the report command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		OutputDirectory: defaultOutputDirectoryConstant,
		ObjectStore:     ObjectStoreConfiguration{Prefix: defaultObjectPrefixConstant},
	}
}

// Sanitize trims whitespace and applies defaults to unset configuration values.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.OutputDirectory = strings.TrimSpace(configuration.OutputDirectory)
	if len(sanitized.OutputDirectory) == 0 {
		sanitized.OutputDirectory = defaultOutputDirectoryConstant
	}
	sanitized.ObjectStore.Endpoint = strings.TrimSpace(configuration.ObjectStore.Endpoint)
	sanitized.ObjectStore.Bucket = strings.TrimSpace(configuration.ObjectStore.Bucket)
	sanitized.ObjectStore.Prefix = strings.Trim(strings.TrimSpace(configuration.ObjectStore.Prefix), "/")
	if len(sanitized.ObjectStore.Prefix) == 0 {
		sanitized.ObjectStore.Prefix = defaultObjectPrefixConstant
	}
	return sanitized
}

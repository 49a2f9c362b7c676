// Package utils holds the CLI plumbing shared by every command: layered configuration
// loading with environment overrides, .env file support, zap logger construction, and a
// writer that is safe for concurrent progress output.
package utils

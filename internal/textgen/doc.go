// Package textgen wraps a chat-completion API for the qualitative parts of
// an audit: the four-area content review, improvement suggestions, and
// personalized outreach drafts.
//
// Calls are rate limited and retried with exponential backoff when the
// provider answers 429. A missing API key is reported as a
// failures.ConfigurationError when the client is constructed.
package textgen

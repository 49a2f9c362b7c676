// Package webclient provides the HTTP client shared read-only by the email
// resolver, the directory acquirer, and the static analyzers.
//
// A Client is built once from an immutable Configuration carrying the user
// agent, redirect cap, and body cap. Every call receives its own timeout so a
// slow site only fails the operation that waited on it.
package webclient

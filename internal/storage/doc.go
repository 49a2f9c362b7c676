// Package storage persists leads and audit results in PostgreSQL.
//
// The schema is managed by goose migrations embedded in the binary; the init
// command applies them and the delete command removes a lead with its audits.
package storage

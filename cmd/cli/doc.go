// Package cli assembles the site-auditor command tree. It loads .env files and
// layered configuration, builds the zap logger, and hands every feature command
// a shared lazily opened lead store.
package cli

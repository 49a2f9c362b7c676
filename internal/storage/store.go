package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	healthCheckPeriod     = 30 * time.Second
	parseURLErrorTemplate = "parse database URL: %w"
	connectErrorTemplate  = "connect to database: %w"
	pingErrorTemplate     = "ping database: %w"
)

// ErrNotFound reports a missing lead or audit.
var ErrNotFound = errors.New("not found")

// Store is the PostgreSQL-backed lead and audit repository.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects a pool and verifies it with a ping.
func Open(executionContext context.Context, configuration Configuration) (*Store, error) {
	sanitized := configuration.Sanitize()
	if validationError := sanitized.Validate(); validationError != nil {
		return nil, validationError
	}

	poolConfiguration, parseError := pgxpool.ParseConfig(sanitized.URL)
	if parseError != nil {
		return nil, fmt.Errorf(parseURLErrorTemplate, parseError)
	}
	poolConfiguration.MaxConns = sanitized.MaxConnections
	poolConfiguration.HealthCheckPeriod = healthCheckPeriod

	pool, connectError := pgxpool.NewWithConfig(executionContext, poolConfiguration)
	if connectError != nil {
		return nil, fmt.Errorf(connectErrorTemplate, connectError)
	}
	if pingError := pool.Ping(executionContext); pingError != nil {
		pool.Close()
		return nil, fmt.Errorf(pingErrorTemplate, pingError)
	}
	return &Store{pool: pool}, nil
}

// Close releases every pooled connection.
func (store *Store) Close() {
	store.pool.Close()
}

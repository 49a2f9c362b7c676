package storage

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

const (
	migrationsDirectory            = "migrations"
	migrationProviderErrorTemplate = "prepare migrations: %w"
	migrationErrorTemplate         = "apply migrations: %w"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Migrate applies every pending embedded migration and returns how many ran.
func (store *Store) Migrate(executionContext context.Context) (int, error) {
	migrations, subError := fs.Sub(embeddedMigrations, migrationsDirectory)
	if subError != nil {
		return 0, fmt.Errorf(migrationProviderErrorTemplate, subError)
	}

	database := stdlib.OpenDBFromPool(store.pool)
	defer database.Close()

	provider, providerError := goose.NewProvider(goose.DialectPostgres, database, migrations)
	if providerError != nil {
		return 0, fmt.Errorf(migrationProviderErrorTemplate, providerError)
	}

	results, upError := provider.Up(executionContext)
	if upError != nil {
		return 0, fmt.Errorf(migrationErrorTemplate, upError)
	}
	return len(results), nil
}

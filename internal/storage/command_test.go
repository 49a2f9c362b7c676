package storage_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/storage"
)

type stubMigrator struct {
	applied int
	err     error
}

func (migrator stubMigrator) Migrate(context.Context) (int, error) {
	return migrator.applied, migrator.err
}

type recordingRemover struct {
	deleted []int64
	err     error
}

func (remover *recordingRemover) DeleteLead(_ context.Context, leadID int64) error {
	if remover.err != nil {
		return remover.err
	}
	remover.deleted = append(remover.deleted, leadID)
	return nil
}

func TestInitCommand(testInstance *testing.T) {
	testCases := []struct {
		name           string
		migrator       stubMigrator
		expectedOutput string
		expectError    bool
	}{
		{name: "applies_migrations", migrator: stubMigrator{applied: 1}, expectedOutput: "Database initialized (1 migrations applied).\n"},
		{name: "migration_failure", migrator: stubMigrator{err: errors.New("permission denied")}, expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			builder := storage.InitCommandBuilder{
				MigratorProvider: func(context.Context) (storage.SchemaMigrator, error) { return testCase.migrator, nil },
			}
			command, buildError := builder.Build()
			require.NoError(testInstance, buildError)

			output := &bytes.Buffer{}
			command.SetContext(context.Background())
			command.SetArgs([]string{})
			command.SetOut(output)
			command.SetErr(&bytes.Buffer{})

			executionError := command.Execute()
			if testCase.expectError {
				require.Error(testInstance, executionError)
				require.Contains(testInstance, executionError.Error(), "init failed")
				return
			}
			require.NoError(testInstance, executionError)
			require.Equal(testInstance, testCase.expectedOutput, output.String())
		})
	}
}

func TestDeleteCommand(testInstance *testing.T) {
	testCases := []struct {
		name            string
		arguments       []string
		removerError    error
		expectedError   string
		expectedDeleted []int64
	}{
		{name: "deletes_lead", arguments: []string{"--lead_id", "4"}, expectedDeleted: []int64{4}},
		{name: "requires_lead_id", arguments: []string{}, expectedError: "--lead_id is required"},
		{name: "missing_lead", arguments: []string{"--lead_id", "9"}, removerError: storage.ErrNotFound, expectedError: "delete failed: not found"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			remover := &recordingRemover{err: testCase.removerError}
			builder := storage.DeleteCommandBuilder{
				RemoverProvider: func(context.Context) (storage.LeadRemover, error) { return remover, nil },
			}
			command, buildError := builder.Build()
			require.NoError(testInstance, buildError)

			command.SetContext(context.Background())
			command.SetArgs(testCase.arguments)
			command.SetOut(&bytes.Buffer{})
			command.SetErr(&bytes.Buffer{})

			executionError := command.Execute()
			if len(testCase.expectedError) > 0 {
				require.EqualError(testInstance, executionError, testCase.expectedError)
				return
			}
			require.NoError(testInstance, executionError)
			require.Equal(testInstance, testCase.expectedDeleted, remover.deleted)
		})
	}
}

func TestOpenRequiresURL(testInstance *testing.T) {
	store, openError := storage.Open(context.Background(), storage.DefaultConfiguration())
	require.Nil(testInstance, store)
	require.Error(testInstance, openError)
}

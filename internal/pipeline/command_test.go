package pipeline_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/acquisition"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/audit"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/failures"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/pipeline"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/textgen"
)

func executePipeline(testInstance *testing.T, builder pipeline.CommandBuilder, arguments ...string) error {
	testInstance.Helper()
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetContext(context.Background())
	command.SetArgs(arguments)
	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})
	return command.Execute()
}

func TestCommandRequiresDefinition(testInstance *testing.T) {
	executionError := executePipeline(testInstance, pipeline.CommandBuilder{})
	require.EqualError(testInstance, executionError, "pipeline definition path required; provide a positional argument or --workflow")
}

func TestCommandReportsMissingReviewKeyBeforeOpeningStore(testInstance *testing.T) {
	definitionPath := filepath.Join(testInstance.TempDir(), "pipeline.yaml")
	require.NoError(testInstance, os.WriteFile(definitionPath, []byte(fullDefinition), 0o600))

	storeOpened := false
	builder := pipeline.CommandBuilder{
		AcquisitionBuilder: &acquisition.CommandBuilder{},
		AuditBuilder: &audit.CommandBuilder{
			TextGenConfigurationProvider: func() textgen.Configuration { return textgen.Configuration{} },
		},
		StoreProvider: func(context.Context) (pipeline.Store, error) {
			storeOpened = true
			return newMemoryStore(), nil
		},
	}

	executionError := executePipeline(testInstance, builder, "--workflow", definitionPath)
	require.Error(testInstance, executionError)
	require.True(testInstance, failures.IsConfiguration(executionError))
	require.False(testInstance, storeOpened)
}

package reporting_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/failures"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/reporting"
)

func TestCommandBuilderSurfacesConfigurationErrors(testInstance *testing.T) {
	testCases := []struct {
		name      string
		arguments []string
	}{
		{name: "suggestions_without_api_key", arguments: []string{"--lead_id", "12", "--suggestions"}},
		{name: "upload_without_object_store", arguments: []string{"--lead_id", "12", "--upload"}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			storeOpened := false
			builder := reporting.CommandBuilder{
				StoreProvider: func(context.Context) (reporting.ReportStore, error) {
					storeOpened = true
					return storeWithAudit(), nil
				},
			}
			command, buildError := builder.Build()
			require.NoError(testInstance, buildError)

			command.SetContext(context.Background())
			command.SetArgs(testCase.arguments)
			command.SetOut(&bytes.Buffer{})
			command.SetErr(&bytes.Buffer{})

			executionError := command.Execute()
			require.Error(testInstance, executionError)
			require.True(testInstance, failures.IsConfiguration(executionError))
			require.False(testInstance, storeOpened)
		})
	}
}

func TestCommandBuilderWritesReport(testInstance *testing.T) {
	outputDirectory := testInstance.TempDir()
	builder := reporting.CommandBuilder{
		StoreProvider: func(context.Context) (reporting.ReportStore, error) { return storeWithAudit(), nil },
	}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	output := &bytes.Buffer{}
	command.SetContext(context.Background())
	command.SetArgs([]string{"--lead_id", "12", "--output", outputDirectory})
	command.SetOut(output)
	command.SetErr(output)

	require.NoError(testInstance, command.Execute())
	require.Contains(testInstance, output.String(), "Audit report for Crumb | Co (https://crumb.test)")
	require.FileExists(testInstance, outputDirectory+"/report_12.md")
}

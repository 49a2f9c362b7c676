package pipeline_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/acquisition"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/pipeline"
)

const fullDefinition = `
steps:
  - operation: Acquire
    with:
      source: justdial
      keyword: dentist
      location: Austin
      total: 5
  - operation: audit
    with:
      concurrency: 3
      review: "true"
  - operation: report
`

func TestParseDefinitionBuildsOperations(testInstance *testing.T) {
	definition, parseError := pipeline.ParseDefinition([]byte(fullDefinition))
	require.NoError(testInstance, parseError)

	operations, buildError := pipeline.BuildOperations(definition)
	require.NoError(testInstance, buildError)
	require.Equal(testInstance, []pipeline.Operation{
		&pipeline.AcquireOperation{
			Source: acquisition.SourceKindJustDial,
			Query:  acquisition.Query{Keyword: "dentist", Location: "Austin", TargetCount: 5},
		},
		&pipeline.AuditOperation{Concurrency: 3, Review: true},
		&pipeline.ReportOperation{OutputDirectory: "reports"},
	}, operations)
	require.True(testInstance, pipeline.RequiresReview(operations))
}

func TestParseDefinitionAcceptsNestedSteps(testInstance *testing.T) {
	definition, parseError := pipeline.ParseDefinition([]byte("pipeline:\n  steps:\n    - operation: report\n      with: {output: out}\n"))
	require.NoError(testInstance, parseError)
	require.Len(testInstance, definition.Steps, 1)
	require.Equal(testInstance, pipeline.OperationTypeReport, definition.Steps[0].Operation)
}

func TestDefinitionErrors(testInstance *testing.T) {
	testCases := []struct {
		name     string
		document string
	}{
		{name: "no_steps", document: "steps: []\n"},
		{name: "missing_operation", document: "steps:\n  - with: {output: out}\n"},
		{name: "unknown_operation", document: "steps:\n  - operation: deploy\n"},
		{name: "acquire_bad_source", document: "steps:\n  - operation: acquire\n    with: {source: yelp, keyword: a, location: b}\n"},
		{name: "acquire_missing_keyword", document: "steps:\n  - operation: acquire\n    with: {source: maps, location: b}\n"},
		{name: "acquire_zero_total", document: "steps:\n  - operation: acquire\n    with: {source: maps, keyword: a, location: b, total: 0}\n"},
		{name: "audit_zero_concurrency", document: "steps:\n  - operation: audit\n    with: {concurrency: 0}\n"},
		{name: "audit_fractional_concurrency", document: "steps:\n  - operation: audit\n    with: {concurrency: 1.5}\n"},
		{name: "malformed_yaml", document: "steps: [\n"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			definition, parseError := pipeline.ParseDefinition([]byte(testCase.document))
			if parseError != nil {
				return
			}
			_, buildError := pipeline.BuildOperations(definition)
			require.Error(testInstance, buildError)
		})
	}
}

func TestLoadDefinitionReadsFile(testInstance *testing.T) {
	definitionPath := filepath.Join(testInstance.TempDir(), "pipeline.yaml")
	require.NoError(testInstance, os.WriteFile(definitionPath, []byte(fullDefinition), 0o600))

	definition, loadError := pipeline.LoadDefinition(definitionPath)
	require.NoError(testInstance, loadError)
	require.Len(testInstance, definition.Steps, 3)

	_, missingError := pipeline.LoadDefinition(filepath.Join(testInstance.TempDir(), "absent.yaml"))
	require.Error(testInstance, missingError)
}

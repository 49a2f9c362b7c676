package docs_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/cmd/cli"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/pipeline"
)

const (
	readmeFileNameConstant     = "README.md"
	yamlFenceStartConstant     = "```yaml"
	yamlFenceEndConstant       = "```"
	configHeaderMarkerConstant = "# config.yaml"
	pipelineHeaderMarker       = "# pipeline.yaml"
)

func readReadme(testInstance *testing.T) string {
	testInstance.Helper()
	contentBytes, readError := os.ReadFile(filepath.Join("..", readmeFileNameConstant))
	require.NoError(testInstance, readError)
	return string(contentBytes)
}

func extractSnippet(testInstance *testing.T, content string, headerMarker string) string {
	testInstance.Helper()
	headerIndex := strings.Index(content, headerMarker)
	require.NotEqualf(testInstance, -1, headerIndex, "README is missing %s", headerMarker)

	fenceStartIndex := strings.LastIndex(content[:headerIndex], yamlFenceStartConstant)
	require.NotEqual(testInstance, -1, fenceStartIndex)
	fenceEndRelativeIndex := strings.Index(content[headerIndex:], yamlFenceEndConstant)
	require.NotEqual(testInstance, -1, fenceEndRelativeIndex)

	return strings.TrimSpace(content[fenceStartIndex+len(yamlFenceStartConstant) : headerIndex+fenceEndRelativeIndex])
}

func TestReadmeConfigurationDecodes(testInstance *testing.T) {
	snippet := extractSnippet(testInstance, readReadme(testInstance), configHeaderMarkerConstant)

	var raw map[string]any
	require.NoError(testInstance, yaml.Unmarshal([]byte(snippet), &raw))

	var configuration cli.ApplicationConfiguration
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused: true,
		Result:      &configuration,
	})
	require.NoError(testInstance, decoderError)
	require.NoError(testInstance, decoder.Decode(raw))

	require.Equal(testInstance, "console", configuration.Common.LogFormat)
	require.Equal(testInstance, "justdial", configuration.Acquisition.Source)
	require.True(testInstance, configuration.Audit.Review)
	require.Equal(testInstance, "audits", configuration.Reporting.ObjectStore.Bucket)
	require.Equal(testInstance, []string{"http://localhost:3000"}, configuration.Server.AllowedOrigins)
}

func TestReadmePipelineBuilds(testInstance *testing.T) {
	snippet := extractSnippet(testInstance, readReadme(testInstance), pipelineHeaderMarker)

	definition, parseError := pipeline.ParseDefinition([]byte(snippet))
	require.NoError(testInstance, parseError)
	operations, buildError := pipeline.BuildOperations(definition)
	require.NoError(testInstance, buildError)

	operationNames := make([]string, 0, len(operations))
	for _, operation := range operations {
		operationNames = append(operationNames, operation.Name())
	}
	require.Equal(testInstance, []string{"acquire", "audit", "report"}, operationNames)
	require.False(testInstance, pipeline.RequiresReview(operations))
}

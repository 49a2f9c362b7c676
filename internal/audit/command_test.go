package audit_test

import (
	"bytes"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/analysis"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/audit"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/failures"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/leads"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/textgen"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/webclient"
)

const wellFormedLandingPage = `<html><head><title>Fresh Bakery in Town</title>
<meta name="description" content="Bread and cakes">
<meta name="viewport" content="width=device-width, initial-scale=1">
</head><body><h1>Bakery</h1><a href="/menu">Menu</a></body></html>`

type statusProber struct {
	statusCode int
}

func (prober statusProber) Probe(context.Context, string, time.Duration) (int, error) {
	return prober.statusCode, nil
}

type fittingRenderer struct{}

func (fittingRenderer) Render(context.Context, string) (analysis.Viewport, error) {
	return analysis.Viewport{ScrollWidth: 390, ViewportWidth: 390}, nil
}

func TestCommandBuilderValidatesInput(testInstance *testing.T) {
	testCases := []struct {
		name          string
		arguments     []string
		expectedError string
	}{
		{name: "missing_lead_id", arguments: []string{}, expectedError: "--lead_id is required"},
		{name: "positional_arguments", arguments: []string{"7"}, expectedError: "analyze does not accept positional arguments"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			builder := audit.CommandBuilder{
				StoreProvider: func(context.Context) (audit.AuditStore, error) { return &memoryAuditStore{}, nil },
			}
			command, buildError := builder.Build()
			require.NoError(testInstance, buildError)

			command.SetContext(context.Background())
			command.SetArgs(testCase.arguments)
			command.SetOut(&bytes.Buffer{})
			command.SetErr(&bytes.Buffer{})

			executionError := command.Execute()
			require.Error(testInstance, executionError)
			require.Equal(testInstance, testCase.expectedError, executionError.Error())
		})
	}
}

func TestCommandBuilderRequiresTextGenerationKeyBeforeWork(testInstance *testing.T) {
	storeOpened := false
	builder := audit.CommandBuilder{
		TextGenConfigurationProvider: func() textgen.Configuration { return textgen.DefaultConfiguration() },
		StoreProvider: func(context.Context) (audit.AuditStore, error) {
			storeOpened = true
			return &memoryAuditStore{}, nil
		},
		Fetcher:  &countingFetcher{},
		Prober:   statusProber{statusCode: http.StatusOK},
		Renderer: fittingRenderer{},
	}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetContext(context.Background())
	command.SetArgs([]string{"--lead_id", "7", "--review"})
	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})

	executionError := command.Execute()
	require.Error(testInstance, executionError)
	require.True(testInstance, failures.IsConfiguration(executionError))
	require.False(testInstance, storeOpened)
}

func TestCommandBuilderAuditsLead(testInstance *testing.T) {
	store := &memoryAuditStore{
		leads: map[int64]leads.Lead{7: {ID: 7, Candidate: leads.Candidate{BusinessName: "Bakery", Website: "https://bakery.test"}}},
	}
	fetcher := &countingFetcher{page: webclient.Page{StatusCode: http.StatusOK, Body: []byte(wellFormedLandingPage), RawLength: len(wellFormedLandingPage)}}
	builder := audit.CommandBuilder{
		StoreProvider: func(context.Context) (audit.AuditStore, error) { return store, nil },
		Fetcher:       fetcher,
		Prober:        statusProber{statusCode: http.StatusOK},
		Renderer:      fittingRenderer{},
	}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	output := &bytes.Buffer{}
	command.SetContext(context.Background())
	command.SetArgs([]string{"--lead_id", "7"})
	command.SetOut(output)
	command.SetErr(output)

	require.NoError(testInstance, command.Execute())
	require.Equal(testInstance, 1, fetcher.calls)
	require.Len(testInstance, store.saved, 1)

	saved := store.saved[0]
	require.Equal(testInstance, int64(7), saved.LeadID)
	require.Equal(testInstance, 100, saved.PerformanceScore)
	require.Equal(testInstance, 100, saved.SEOScore)
	require.Equal(testInstance, 100, saved.UXScore)
	require.Equal(testInstance, 100, saved.MobileScore)
	require.Equal(testInstance, 100, saved.OverallScore)
	require.Contains(testInstance, output.String(), "Analyzing https://bakery.test...")
	require.Contains(testInstance, output.String(), "Audit completed. Overall Score: 100")
}

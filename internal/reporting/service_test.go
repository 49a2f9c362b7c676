package reporting_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/audit"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/leads"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/reporting"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/textgen"
)

type memoryReportStore struct {
	lead   leads.Lead
	result *audit.Result
}

func (store memoryReportStore) GetLead(_ context.Context, leadID int64) (leads.Lead, error) {
	if leadID != store.lead.ID {
		return leads.Lead{}, errors.New("not found")
	}
	return store.lead, nil
}

func (store memoryReportStore) LatestAudit(context.Context, int64) (audit.Result, error) {
	if store.result == nil {
		return audit.Result{}, errors.New("not found")
	}
	return *store.result, nil
}

type stubSuggestionWriter struct {
	text    string
	err     error
	subject textgen.Subject
}

func (writer *stubSuggestionWriter) Suggestions(_ context.Context, subject textgen.Subject) (string, error) {
	writer.subject = subject
	return writer.text, writer.err
}

type recordingObjectStore struct {
	uploadedPath string
}

func (store *recordingObjectStore) Upload(_ context.Context, localPath string, leadID int64) (string, error) {
	store.uploadedPath = localPath
	return "http://objects.test/reports/" + filepath.Base(localPath), nil
}

func storeWithAudit() memoryReportStore {
	document := sampleDocument()
	return memoryReportStore{lead: document.Lead, result: &document.Audit}
}

func TestServiceWritesMarkdownReport(testInstance *testing.T) {
	testCases := []struct {
		name                string
		suggestions         *stubSuggestionWriter
		expectedSuggestions string
	}{
		{name: "without_suggestions", expectedSuggestions: "No AI suggestions available."},
		{name: "with_suggestions", suggestions: &stubSuggestionWriter{text: "1. Performance: Compress images"}, expectedSuggestions: "1. Performance: Compress images"},
		{name: "suggestion_failure_is_soft", suggestions: &stubSuggestionWriter{err: errors.New("timeout")}, expectedSuggestions: "No AI suggestions available."},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			outputDirectory := filepath.Join(testInstance.TempDir(), "reports")
			var writer reporting.SuggestionWriter
			if testCase.suggestions != nil {
				writer = testCase.suggestions
			}
			output := &bytes.Buffer{}
			service := reporting.NewService(storeWithAudit(), writer, nil, output, nil)

			report, runError := service.Run(context.Background(), reporting.CommandOptions{LeadID: 12, OutputDirectory: outputDirectory})
			require.NoError(testInstance, runError)
			require.Equal(testInstance, filepath.Join(outputDirectory, "report_12.md"), report.Path)
			require.Empty(testInstance, report.URL)

			contents, readError := os.ReadFile(report.Path)
			require.NoError(testInstance, readError)
			require.Contains(testInstance, string(contents), testCase.expectedSuggestions)
			require.Contains(testInstance, output.String(), "Report generated: "+report.Path)

			if testCase.suggestions != nil {
				require.Equal(testInstance, 45, testCase.suggestions.subject.PerformanceScore)
				require.Equal(testInstance, "Crumb | Co", testCase.suggestions.subject.BusinessName)
			}
		})
	}
}

func TestServiceUploadsReport(testInstance *testing.T) {
	objectStore := &recordingObjectStore{}
	output := &bytes.Buffer{}
	service := reporting.NewService(storeWithAudit(), nil, objectStore, output, nil)

	report, runError := service.Run(context.Background(), reporting.CommandOptions{LeadID: 12, OutputDirectory: testInstance.TempDir(), Upload: true})
	require.NoError(testInstance, runError)
	require.Equal(testInstance, report.Path, objectStore.uploadedPath)
	require.Equal(testInstance, "http://objects.test/reports/report_12.md", report.URL)
	require.Contains(testInstance, output.String(), "Report uploaded: http://objects.test/reports/report_12.md")
}

func TestServiceRequiresAudit(testInstance *testing.T) {
	store := storeWithAudit()
	store.result = nil
	service := reporting.NewService(store, nil, nil, nil, nil)

	_, runError := service.Run(context.Background(), reporting.CommandOptions{LeadID: 12, OutputDirectory: testInstance.TempDir()})
	require.Error(testInstance, runError)
	require.Contains(testInstance, runError.Error(), "run analyze first")

	_, missingLeadError := service.Run(context.Background(), reporting.CommandOptions{LeadID: 99, OutputDirectory: testInstance.TempDir()})
	require.Error(testInstance, missingLeadError)
}

func TestObjectName(testInstance *testing.T) {
	require.Equal(testInstance, "reports/report_12_abc.md", reporting.ObjectName("reports", 12, "abc"))
}

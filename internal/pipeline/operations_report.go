package pipeline

import (
	"context"
	"fmt"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/reporting"
)

const (
	optionOutputKey         = "output"
	defaultReportDirectory  = "reports"
	reportGeneratedTemplate = "Report generated: %s\n"
	nothingToReportMessage  = "No audited leads to report.\n"
)

// ReportOperation writes a markdown report for every lead audited so far.
type ReportOperation struct {
	OutputDirectory string
}

// Name identifies the operation.
func (operation *ReportOperation) Name() string {
	return string(OperationTypeReport)
}

// Execute renders each audited lead from the in-memory state.
func (operation *ReportOperation) Execute(executionContext context.Context, environment *Environment, state *State) error {
	if len(state.Audited) == 0 {
		fmt.Fprint(environment.Output, nothingToReportMessage)
		return nil
	}
	for _, entry := range state.Audited {
		if contextError := executionContext.Err(); contextError != nil {
			return contextError
		}
		reportPath, writeError := reporting.WriteMarkdownFile(operation.OutputDirectory, reporting.Document{Lead: entry.Lead, Audit: entry.Result})
		if writeError != nil {
			return writeError
		}
		fmt.Fprintf(environment.Output, reportGeneratedTemplate, reportPath)
	}
	return nil
}

func buildReportOperation(options map[string]any) (Operation, error) {
	reader := newOptionReader(options)
	outputDirectory, _, outputError := reader.stringValue(optionOutputKey)
	if outputError != nil {
		return nil, outputError
	}
	if len(outputDirectory) == 0 {
		outputDirectory = defaultReportDirectory
	}
	return &ReportOperation{OutputDirectory: outputDirectory}, nil
}

package reporting

import (
	_ "embed"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/rodaine/table"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/audit"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/leads"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/textgen"
)

const (
	reportTemplateName     = "report"
	scoreSuffixTemplate    = "%d/100"
	cellPipeReplacement    = "\\|"
	cellNewlineReplacement = " "
	metricHeader           = "Metric"
	scoreHeader            = "Score"
	priorityHeader         = "Priority"
	categoryHeader         = "Category"
	issueHeader            = "Issue"
	overallScoreLabel      = "Overall Score"
	noIssuesMessage        = "No major issues found."
)

//go:embed templates/report.md.tmpl
var reportTemplateText string

var reportTemplate = template.Must(template.New(reportTemplateName).Funcs(template.FuncMap{"cell": tableCell}).Parse(reportTemplateText))

// Document is everything a rendered report shows.
type Document struct {
	Lead        leads.Lead
	Audit       audit.Result
	Suggestions string
}

// Review returns the qualitative review when one completed successfully.
func (document Document) Review() *textgen.Review {
	review := document.Audit.Details.Review
	if review == nil || len(review.Error) > 0 {
		return nil
	}
	return review
}

// RenderMarkdown writes the document as markdown.
func RenderMarkdown(writer io.Writer, document Document) error {
	return reportTemplate.Execute(writer, document)
}

// WriteConsoleSummary prints score and priority tables.
func WriteConsoleSummary(writer io.Writer, document Document) {
	scores := table.New(metricHeader, scoreHeader).WithWriter(writer)
	for _, row := range []struct {
		label string
		score int
	}{
		{label: audit.DimensionPerformance.Label(), score: document.Audit.PerformanceScore},
		{label: audit.DimensionSEO.Label(), score: document.Audit.SEOScore},
		{label: audit.DimensionUX.Label(), score: document.Audit.UXScore},
		{label: audit.DimensionMobile.Label(), score: document.Audit.MobileScore},
		{label: overallScoreLabel, score: document.Audit.OverallScore},
	} {
		scores.AddRow(row.label, fmt.Sprintf(scoreSuffixTemplate, row.score))
	}
	scores.Print()

	priorities := document.Audit.Details.Priorities
	if len(priorities) == 0 {
		fmt.Fprintln(writer, noIssuesMessage)
		return
	}
	fmt.Fprintln(writer)
	issues := table.New(priorityHeader, categoryHeader, issueHeader).WithWriter(writer)
	for _, item := range priorities {
		issues.AddRow(item.Priority, item.Category, item.Issue)
	}
	issues.Print()
}

// tableCell keeps a value on one markdown table row.
func tableCell(value string) string {
	escaped := strings.ReplaceAll(value, "|", cellPipeReplacement)
	escaped = strings.ReplaceAll(escaped, "\r\n", cellNewlineReplacement)
	return strings.ReplaceAll(escaped, "\n", cellNewlineReplacement)
}

package textgen

import (
	"context"
	"fmt"
	"strings"
)

const (
	suggestionSystemPrompt   = "You are a professional web development consultant."
	suggestionPromptTemplate = `Analyze this website audit and provide 3 specific, actionable recommendations.

Business: %s
Website: %s

Audit Scores:
- Performance: %d/100
- SEO: %d/100
- UX: %d/100
- Mobile: %d/100
- Overall: %d/100

Provide exactly 3 specific, actionable recommendations to improve this website. Focus on the lowest-scoring areas. Format your response as:

1. [Area]: [Specific recommendation]
2. [Area]: [Specific recommendation]
3. [Area]: [Specific recommendation]

Keep each recommendation concise and actionable.`

	emailSystemPrompt   = "You are an expert sales copywriter. Your goal is to write a personalized cold email using the provided template."
	emailPromptTemplate = `You must strictly follow the template structure but fill in the placeholders with specific details from the audit data to make it personal.

Business Details:
- Name: %s
- Website: %s

Audit Results:
- Overall Score: %d/100
- Performance: %d/100
- SEO: %d/100
- UX: %d/100
- Mobile: %d/100

Key Issues Found:
- %s

User Template:
%s

Instructions:
1. Replace any placeholders in the template (like {Name}, {Score}, etc.) with actual data.
2. If the template asks for "specific issues" or "observations", use the Audit Results and Key Issues to write a sentence or two about what is wrong with their site.
3. Keep the tone professional but persuasive.
4. Output ONLY the email body. Do not include subject line unless the template has a specific place for it.`

	defaultSuggestionBusinessName = "Unknown Business"
	defaultSuggestionWebsite      = "N/A"
	defaultEmailBusinessName      = "the business"
	defaultEmailWebsite           = "their website"
	generalIssuesPhrase           = "General optimization opportunities"
	issueSeparator                = "\n- "
	issuesPerCategory             = 2
)

// Subject carries the lead and audit facts quoted in generated text.
type Subject struct {
	BusinessName      string
	Website           string
	PerformanceScore  int
	SEOScore          int
	UXScore           int
	MobileScore       int
	OverallScore      int
	PerformanceIssues []string
	SEOIssues         []string
}

// KeyIssues returns at most two performance issues followed by at most two SEO issues.
func (subject Subject) KeyIssues() []string {
	issues := make([]string, 0, 2*issuesPerCategory)
	issues = append(issues, firstN(subject.PerformanceIssues, issuesPerCategory)...)
	issues = append(issues, firstN(subject.SEOIssues, issuesPerCategory)...)
	return issues
}

// Suggestions asks for three numbered recommendations targeting the weakest areas.
func (client *Client) Suggestions(executionContext context.Context, subject Subject) (string, error) {
	prompt := fmt.Sprintf(
		suggestionPromptTemplate,
		fallback(subject.BusinessName, defaultSuggestionBusinessName),
		fallback(subject.Website, defaultSuggestionWebsite),
		subject.PerformanceScore,
		subject.SEOScore,
		subject.UXScore,
		subject.MobileScore,
		subject.OverallScore,
	)
	return client.complete(executionContext, completionRequest{
		systemPrompt: suggestionSystemPrompt,
		userPrompt:   prompt,
		maxTokens:    client.configuration.SuggestionMaxTokens,
	})
}

// DraftOutreachEmail fills template with audit details for subject.
func (client *Client) DraftOutreachEmail(executionContext context.Context, subject Subject, template string) (string, error) {
	issuesText := generalIssuesPhrase
	if keyIssues := subject.KeyIssues(); len(keyIssues) > 0 {
		issuesText = strings.Join(keyIssues, issueSeparator)
	}
	prompt := fmt.Sprintf(
		emailPromptTemplate,
		fallback(subject.BusinessName, defaultEmailBusinessName),
		fallback(subject.Website, defaultEmailWebsite),
		subject.OverallScore,
		subject.PerformanceScore,
		subject.SEOScore,
		subject.UXScore,
		subject.MobileScore,
		issuesText,
		template,
	)
	return client.complete(executionContext, completionRequest{
		systemPrompt: emailSystemPrompt,
		userPrompt:   prompt,
		maxTokens:    client.configuration.EmailMaxTokens,
	})
}

func fallback(value string, defaultValue string) string {
	if len(strings.TrimSpace(value)) == 0 {
		return defaultValue
	}
	return value
}

func firstN(values []string, count int) []string {
	if len(values) <= count {
		return values
	}
	return values[:count]
}

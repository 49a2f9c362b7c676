package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

const (
	reviewSystemPrompt   = "You are a world-class Conversion Rate Optimization (CRO) expert and Web Design Consultant. Respond with JSON only."
	reviewPromptTemplate = `Analyze the following website text content and provide a professional, qualitative review.

Website URL: %s

Website Content (Text Extract):
%s

Please analyze the following 4 areas and provide a score (0-10) and a brief, actionable observation for each:

1. Value Proposition: Is it clear what they do and why it matters?
2. Copywriting: Is the language persuasive, clear, and professional?
3. Trust Factors: Do they have testimonials, clear contact info, or social proof?
4. Call to Action (CTA): Are next steps clear and compelling?

Format your response as a valid JSON object with this structure:
{
  "value_proposition": { "score": 0, "observation": "..." },
  "copywriting": { "score": 0, "observation": "..." },
  "trust_factors": { "score": 0, "observation": "..." },
  "cta": { "score": 0, "observation": "..." },
  "summary": "A 2-sentence overall summary of the website's effectiveness."
}`

	fetchStatusTemplate  = "failed to fetch website: status %d"
	decodeReviewTemplate = "decode review: %w"
	boilerplateSelector  = "script, style, nav, footer, noscript"
	jsonFencePrefix      = "```json"
	plainFencePrefix     = "```"
	phraseSeparator      = "  "
	minimumReviewScore   = 0
	maximumReviewScore   = 10
)

// AreaReview scores one qualitative area on a 0-10 scale.
type AreaReview struct {
	Score       int    `json:"score"`
	Observation string `json:"observation"`
}

// Review is the qualitative assessment stored alongside an audit. When the
// review could not be produced only Error is set.
type Review struct {
	ValueProposition *AreaReview `json:"value_proposition,omitempty"`
	Copywriting      *AreaReview `json:"copywriting,omitempty"`
	TrustFactors     *AreaReview `json:"trust_factors,omitempty"`
	CallToAction     *AreaReview `json:"cta,omitempty"`
	Summary          string      `json:"summary,omitempty"`
	Error            string      `json:"error,omitempty"`
}

// FailedReview records a review failure without raising it.
func FailedReview(err error) Review {
	return Review{Error: err.Error()}
}

// Areas returns the reviewed areas in display order with their labels.
func (review Review) Areas() []LabeledArea {
	candidates := []LabeledArea{
		{Label: "Value Proposition", Area: review.ValueProposition},
		{Label: "Copywriting", Area: review.Copywriting},
		{Label: "Trust Factors", Area: review.TrustFactors},
		{Label: "Call to Action", Area: review.CallToAction},
	}
	areas := make([]LabeledArea, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Area != nil {
			areas = append(areas, candidate)
		}
	}
	return areas
}

// LabeledArea pairs an area review with its display label.
type LabeledArea struct {
	Label string
	Area  *AreaReview
}

// Review fetches websiteURL, extracts its readable text, and asks for a four-area assessment.
func (client *Client) Review(executionContext context.Context, websiteURL string) (Review, error) {
	page, fetchError := client.fetcher.Fetch(executionContext, websiteURL, client.configuration.PageTimeout)
	if fetchError != nil {
		return Review{}, fetchError
	}
	if !page.OK() {
		return Review{}, fmt.Errorf(fetchStatusTemplate, page.StatusCode)
	}

	text := ExtractText(page.Body, page.FinalURL, client.configuration.TextLimit)
	content, completionError := client.complete(executionContext, completionRequest{
		systemPrompt: reviewSystemPrompt,
		userPrompt:   fmt.Sprintf(reviewPromptTemplate, page.RequestedURL, text),
		maxTokens:    client.configuration.ReviewMaxTokens,
		jsonOutput:   true,
	})
	if completionError != nil {
		return Review{}, completionError
	}
	return DecodeReview(content)
}

// DecodeReview parses a model response, tolerating markdown code fences.
func DecodeReview(content string) (Review, error) {
	var review Review
	if decodeError := json.Unmarshal([]byte(StripCodeFences(content)), &review); decodeError != nil {
		return Review{}, fmt.Errorf(decodeReviewTemplate, decodeError)
	}
	for _, area := range review.Areas() {
		area.Area.Score = min(max(area.Area.Score, minimumReviewScore), maximumReviewScore)
	}
	return review, nil
}

// StripCodeFences removes a surrounding ```json or ``` fence.
func StripCodeFences(content string) string {
	cleaned := strings.TrimSpace(content)
	cleaned = strings.TrimPrefix(cleaned, jsonFencePrefix)
	cleaned = strings.TrimPrefix(cleaned, plainFencePrefix)
	cleaned = strings.TrimSuffix(cleaned, plainFencePrefix)
	return strings.TrimSpace(cleaned)
}

// ExtractText returns the readable text of a page limited to limit characters.
// Readability extraction is preferred; markup without an article falls back to
// the visible text with navigation and boilerplate removed.
func ExtractText(body []byte, pageURL string, limit int) string {
	text := readableText(body, pageURL)
	if len(text) == 0 {
		text = visibleText(body)
	}
	return truncateRunes(text, limit)
}

func readableText(body []byte, pageURL string) string {
	parsedURL, parseError := url.Parse(pageURL)
	if parseError != nil {
		parsedURL = &url.URL{}
	}
	article, extractError := readability.FromReader(bytes.NewReader(body), parsedURL)
	if extractError != nil {
		return ""
	}
	return collapseWhitespace(article.TextContent)
}

func visibleText(body []byte) string {
	document, parseError := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if parseError != nil {
		return ""
	}
	document.Find(boilerplateSelector).Remove()
	return collapseWhitespace(document.Text())
}

// collapseWhitespace keeps one phrase per line and drops blank lines.
func collapseWhitespace(text string) string {
	chunks := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		for _, phrase := range strings.Split(strings.TrimSpace(line), phraseSeparator) {
			trimmedPhrase := strings.TrimSpace(phrase)
			if len(trimmedPhrase) > 0 {
				chunks = append(chunks, trimmedPhrase)
			}
		}
	}
	return strings.Join(chunks, "\n")
}

func truncateRunes(text string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit])
}

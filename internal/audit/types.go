package audit

import (
	"time"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/analysis"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/leads"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/textgen"
)

// Dimension identifies one audited quality dimension.
type Dimension string

// Audited dimensions in priority order.
const (
	DimensionPerformance Dimension = "performance"
	DimensionSEO         Dimension = "seo"
	DimensionUX          Dimension = "ux"
	DimensionMobile      Dimension = "mobile"
	DimensionLinks       Dimension = "links"
)

var dimensionLabels = map[Dimension]string{
	DimensionPerformance: "Performance",
	DimensionSEO:         "SEO",
	DimensionUX:          "UX",
	DimensionMobile:      "Mobile",
	DimensionLinks:       "Links",
}

// Dimensions returns every dimension in priority order.
func Dimensions() []Dimension {
	return []Dimension{DimensionPerformance, DimensionSEO, DimensionUX, DimensionMobile, DimensionLinks}
}

// Label returns the display category of the dimension.
func (dimension Dimension) Label() string {
	if label, exists := dimensionLabels[dimension]; exists {
		return label
	}
	return string(dimension)
}

// Priority ranks how urgently an issue should be fixed.
type Priority string

// Supported priorities.
const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// PriorityItem is one ranked, human-readable issue.
type PriorityItem struct {
	Category string   `json:"category"`
	Priority Priority `json:"priority"`
	Issue    string   `json:"issue"`
}

// Outcomes holds the resolved outcome of every dimension.
type Outcomes struct {
	Performance analysis.Outcome
	SEO         analysis.Outcome
	UX          analysis.Outcome
	Mobile      analysis.Outcome
	Links       analysis.Outcome
}

// Get returns the outcome recorded for dimension.
func (outcomes Outcomes) Get(dimension Dimension) analysis.Outcome {
	switch dimension {
	case DimensionPerformance:
		return outcomes.Performance
	case DimensionSEO:
		return outcomes.SEO
	case DimensionUX:
		return outcomes.UX
	case DimensionMobile:
		return outcomes.Mobile
	default:
		return outcomes.Links
	}
}

func (outcomes *Outcomes) set(dimension Dimension, outcome analysis.Outcome) {
	switch dimension {
	case DimensionPerformance:
		outcomes.Performance = outcome
	case DimensionSEO:
		outcomes.SEO = outcome
	case DimensionUX:
		outcomes.UX = outcome
	case DimensionMobile:
		outcomes.Mobile = outcome
	default:
		outcomes.Links = outcome
	}
}

// Details is the structured blob persisted with every audit.
type Details struct {
	Performance analysis.Outcome `json:"performance"`
	SEO         analysis.Outcome `json:"seo"`
	UX          analysis.Outcome `json:"ux"`
	Mobile      analysis.Outcome `json:"mobile"`
	Links       analysis.Outcome `json:"links"`
	Priorities  []PriorityItem   `json:"priorities"`
	Review      *textgen.Review  `json:"ai_review,omitempty"`
	RunID       string           `json:"run_id"`
}

// Outcomes returns the dimension outcomes stored in the details.
func (details Details) Outcomes() Outcomes {
	return Outcomes{
		Performance: details.Performance,
		SEO:         details.SEO,
		UX:          details.UX,
		Mobile:      details.Mobile,
		Links:       details.Links,
	}
}

// Result is one audit of one lead. OverallScore is always derived from the
// dimension scores by OverallScore and never set independently.
type Result struct {
	ID               int64     `json:"id"`
	LeadID           int64     `json:"lead_id"`
	PerformanceScore int       `json:"performance_score"`
	SEOScore         int       `json:"seo_score"`
	UXScore          int       `json:"ux_score"`
	MobileScore      int       `json:"mobile_score"`
	OverallScore     int       `json:"overall_score"`
	Details          Details   `json:"audit_data"`
	CreatedAt        time.Time `json:"created_at"`
}

// Subject converts the lead and audit into the facts quoted by generated text.
func (result Result) Subject(lead leads.Lead) textgen.Subject {
	return textgen.Subject{
		BusinessName:      lead.BusinessName,
		Website:           lead.Website,
		PerformanceScore:  result.PerformanceScore,
		SEOScore:          result.SEOScore,
		UXScore:           result.UXScore,
		MobileScore:       result.MobileScore,
		OverallScore:      result.OverallScore,
		PerformanceIssues: result.Details.Performance.Issues,
		SEOIssues:         result.Details.SEO.Issues,
	}
}

// Clock abstracts time-dependent functionality for deterministic testing.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the standard library.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

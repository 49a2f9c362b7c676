package leads

import (
	"strings"
	"time"
)

const (
	// NotAvailableValue marks a field the source did not expose.
	NotAvailableValue = "N/A"
	// UnknownNameValue replaces a missing business name.
	UnknownNameValue = "Unknown"
)

// Source tags the origin of a candidate.
type Source string

// Supported acquisition sources.
const (
	SourceGoogleMaps Source = Source("Google Maps")
	SourceJustDial   Source = Source("JustDial")
)

// OutreachStatus tracks the external outreach process for a lead.
type OutreachStatus string

// Supported outreach statuses.
const (
	OutreachStatusPending OutreachStatus = OutreachStatus("Pending")
	OutreachStatusDraft   OutreachStatus = OutreachStatus("Draft")
	OutreachStatusSent    OutreachStatus = OutreachStatus("Sent")
	OutreachStatusFailed  OutreachStatus = OutreachStatus("Failed")
)

// Candidate is a lead draft produced by an acquirer before persistence.
type Candidate struct {
	BusinessName string `json:"business_name"`
	Category     string `json:"category"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Website      string `json:"website"`
	Source       Source `json:"source"`
}

// Auditable reports whether the candidate carries a website that can be audited.
func (candidate Candidate) Auditable() bool {
	return HasValue(candidate.Website)
}

// HasEmail reports whether the candidate carries a contact address.
func (candidate Candidate) HasEmail() bool {
	return HasValue(candidate.Email)
}

// Lead is a persisted candidate.
type Lead struct {
	ID int64 `json:"id"`
	Candidate
	OutreachStatus OutreachStatus `json:"outreach_status"`
	OutreachTime   *time.Time     `json:"outreach_time,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// HasValue reports whether a field holds something other than whitespace or the N/A placeholder.
func HasValue(fieldValue string) bool {
	trimmedValue := strings.TrimSpace(fieldValue)
	if len(trimmedValue) == 0 {
		return false
	}
	return !strings.EqualFold(trimmedValue, NotAvailableValue)
}

// ValueOrPlaceholder returns the trimmed value or N/A when it is empty.
func ValueOrPlaceholder(fieldValue string) string {
	trimmedValue := strings.TrimSpace(fieldValue)
	if len(trimmedValue) == 0 {
		return NotAvailableValue
	}
	return trimmedValue
}

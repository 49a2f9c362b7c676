// Package outreach drafts a personalized cold email from a lead's latest audit
// and optionally sends it over SMTP, recording the outreach status on the lead.
package outreach

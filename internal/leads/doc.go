// Package leads defines the business records produced by acquisition and
// consumed by auditing, reporting, and outreach.
package leads

// Package failures classifies the ways acquisition and auditing can fail.
//
// Network and parse failures degrade a single operation to its documented
// default, session failures abort the current acquisition run or the mobile
// check, and configuration failures are surfaced before any work starts.
package failures

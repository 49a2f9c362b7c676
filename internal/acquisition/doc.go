// Package acquisition discovers candidate businesses and turns them into
// auditable leads.
//
// ListingAcquirer drives a dynamic map search through a browser session,
// DirectoryAcquirer parses a static directory page, and EmailResolver
// enriches candidates with a best-effort contact address. CommandBuilder
// exposes the scrape command that persists what the acquirers return.
package acquisition

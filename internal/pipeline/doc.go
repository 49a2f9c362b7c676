// Package pipeline runs declarative acquire, audit, and report steps in sequence.
//
// A definition file lists steps under "steps" (or "pipeline.steps"). Each step names an
// operation and its options under "with":
//
//	steps:
//	  - operation: acquire
//	    with: {source: maps, keyword: dentist, location: Austin, total: 10}
//	  - operation: audit
//	    with: {concurrency: 3}
//	  - operation: report
//	    with: {output: reports}
//
// Audit workers each own an auditor, so HTTP clients and browser allocators are never shared.
package pipeline

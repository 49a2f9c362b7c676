// Package analysis implements the five independent website checks:
// performance, SEO, UX, mobile rendering, and link integrity.
//
// Every analyzer returns an Outcome whose score is clamped to [0,100].
// Analyzers report fetch failures as errors and leave default substitution
// to their caller.
package analysis

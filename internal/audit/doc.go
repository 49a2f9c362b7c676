// Package audit runs the five website analyzers against one lead and folds their
// outcomes into a weighted overall score with a prioritized issue list.
//
// Orchestrator isolates analyzer failures so that every audit yields a complete
// Result; Service and CommandBuilder expose the workflow as the analyze command.
package audit

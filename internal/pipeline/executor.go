package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	executionErrorTemplate     = "pipeline step %d (%s) failed: %w"
	missingDependenciesMessage = "pipeline requires a store and an output writer"
	stepStartedLogMessage      = "Pipeline step started"
	stepCompletedLogMessage    = "Pipeline step completed"
	stepIndexFieldConstant     = "step"
	stepOperationFieldConstant = "operation"
	pipelineRunIDFieldConstant = "pipeline_run_id"
	pipelineSummaryTemplate    = "Pipeline finished: %d leads acquired, %d audited.\n"
)

// Executor runs operations in order against one shared State.
type Executor struct {
	operations  []Operation
	environment Environment
}

// NewExecutor constructs an Executor.
func NewExecutor(operations []Operation, environment Environment) *Executor {
	return &Executor{operations: append([]Operation{}, operations...), environment: environment}
}

// Execute runs every operation and stops at the first failing step.
func (executor *Executor) Execute(executionContext context.Context) (*State, error) {
	if executor.environment.Store == nil {
		return nil, errors.New(missingDependenciesMessage)
	}
	environment := executor.environment
	if environment.Output == nil {
		environment.Output = io.Discard
	}
	if environment.Logger == nil {
		environment.Logger = zap.NewNop()
	}
	environment.Logger = environment.Logger.With(zap.String(pipelineRunIDFieldConstant, uuid.NewString()))

	state := &State{}
	for operationIndex, operation := range executor.operations {
		if operation == nil {
			continue
		}
		stepLogger := environment.Logger.With(zap.Int(stepIndexFieldConstant, operationIndex+1), zap.String(stepOperationFieldConstant, operation.Name()))
		stepLogger.Info(stepStartedLogMessage)
		if executeError := operation.Execute(executionContext, &environment, state); executeError != nil {
			return state, fmt.Errorf(executionErrorTemplate, operationIndex+1, operation.Name(), executeError)
		}
		stepLogger.Info(stepCompletedLogMessage)
	}

	fmt.Fprintf(environment.Output, pipelineSummaryTemplate, len(state.Acquired), len(state.Audited))
	return state, nil
}

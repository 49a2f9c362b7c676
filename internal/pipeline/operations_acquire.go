package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/acquisition"
)

const (
	optionSourceKey                 = "source"
	optionKeywordKey                = "keyword"
	optionLocationKey               = "location"
	optionTotalKey                  = "total"
	defaultAcquireTotal             = 10
	acquireInvalidSourceTemplate    = "acquire step requires source to be one of: %s"
	acquireMissingKeywordMessage    = "acquire step requires a keyword"
	acquireMissingLocationMessage   = "acquire step requires a location"
	acquireInvalidTotalMessage      = "acquire step requires a positive total"
	acquirePartialFailureLogMessage = "Acquisition stopped early; continuing with saved leads"
	savedFieldConstant              = "saved"
)

// AcquireOperation discovers and persists candidates for one query.
type AcquireOperation struct {
	Source acquisition.SourceKind
	Query  acquisition.Query
}

// Name identifies the operation.
func (operation *AcquireOperation) Name() string {
	return string(OperationTypeAcquire)
}

// Execute appends the saved leads to the state. An acquisition error is fatal only when nothing was saved.
func (operation *AcquireOperation) Execute(executionContext context.Context, environment *Environment, state *State) error {
	service := acquisition.NewService(environment.Acquirers, environment.Store, environment.Output, environment.Logger)
	summary, runError := service.Run(executionContext, acquisition.CommandOptions{Source: operation.Source, Query: operation.Query})
	state.Acquired = append(state.Acquired, summary.Saved...)
	if runError == nil {
		return nil
	}
	if len(summary.Saved) == 0 {
		return runError
	}
	environment.Logger.Warn(acquirePartialFailureLogMessage, zap.Int(savedFieldConstant, len(summary.Saved)), zap.Error(runError))
	return nil
}

func buildAcquireOperation(options map[string]any) (Operation, error) {
	reader := newOptionReader(options)

	sourceValue, _, sourceError := reader.stringValue(optionSourceKey)
	if sourceError != nil {
		return nil, sourceError
	}
	source, supported := acquisition.ParseSourceKind(sourceValue)
	if !supported {
		return nil, fmt.Errorf(acquireInvalidSourceTemplate, strings.Join(acquisition.SupportedSourceKinds(), ", "))
	}

	keyword, _, keywordError := reader.stringValue(optionKeywordKey)
	if keywordError != nil {
		return nil, keywordError
	}
	if len(keyword) == 0 {
		return nil, errors.New(acquireMissingKeywordMessage)
	}

	location, _, locationError := reader.stringValue(optionLocationKey)
	if locationError != nil {
		return nil, locationError
	}
	if len(location) == 0 {
		return nil, errors.New(acquireMissingLocationMessage)
	}

	total, totalExists, totalError := reader.intValue(optionTotalKey)
	if totalError != nil {
		return nil, totalError
	}
	if !totalExists {
		total = defaultAcquireTotal
	}
	if total <= 0 {
		return nil, errors.New(acquireInvalidTotalMessage)
	}

	return &AcquireOperation{
		Source: source,
		Query:  acquisition.Query{Keyword: keyword, Location: location, TargetCount: total},
	}, nil
}

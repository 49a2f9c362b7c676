package pipeline

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	configurationLoadErrorTemplateConstant       = "failed to load pipeline definition: %w"
	configurationParseErrorTemplateConstant      = "failed to parse pipeline definition: %w"
	configurationPathRequiredMessageConstant     = "pipeline definition path must be provided"
	configurationEmptyStepsMessageConstant       = "pipeline definition must declare at least one step"
	configurationOperationMissingMessageConstant = "pipeline step %d is missing an operation name"
)

// OperationType identifies a pipeline step.
type OperationType string

// Supported pipeline operations.
const (
	OperationTypeAcquire OperationType = OperationType("acquire")
	OperationTypeAudit   OperationType = OperationType("audit")
	OperationTypeReport  OperationType = OperationType("report")
)

// Definition is the ordered list of steps loaded from YAML.
type Definition struct {
	Steps []StepConfiguration `yaml:"steps"`
}

// StepConfiguration associates an operation with its declarative options.
type StepConfiguration struct {
	Operation OperationType  `yaml:"operation"`
	Options   map[string]any `yaml:"with"`
}

// LoadDefinition reads a pipeline file. Steps may sit at the top level or under a "pipeline" key.
func LoadDefinition(filePath string) (Definition, error) {
	trimmedPath := strings.TrimSpace(filePath)
	if len(trimmedPath) == 0 {
		return Definition{}, errors.New(configurationPathRequiredMessageConstant)
	}

	contentBytes, readError := os.ReadFile(trimmedPath)
	if readError != nil {
		return Definition{}, fmt.Errorf(configurationLoadErrorTemplateConstant, readError)
	}
	return ParseDefinition(contentBytes)
}

// ParseDefinition decodes and validates a pipeline document.
func ParseDefinition(contentBytes []byte) (Definition, error) {
	var document struct {
		Steps    []StepConfiguration `yaml:"steps"`
		Pipeline *Definition         `yaml:"pipeline"`
	}
	if unmarshalError := yaml.Unmarshal(contentBytes, &document); unmarshalError != nil {
		return Definition{}, fmt.Errorf(configurationParseErrorTemplateConstant, unmarshalError)
	}

	definition := Definition{Steps: document.Steps}
	if len(definition.Steps) == 0 && document.Pipeline != nil {
		definition = *document.Pipeline
	}
	if len(definition.Steps) == 0 {
		return Definition{}, errors.New(configurationEmptyStepsMessageConstant)
	}

	for stepIndex := range definition.Steps {
		trimmedOperation := strings.ToLower(strings.TrimSpace(string(definition.Steps[stepIndex].Operation)))
		if len(trimmedOperation) == 0 {
			return Definition{}, fmt.Errorf(configurationOperationMissingMessageConstant, stepIndex+1)
		}
		definition.Steps[stepIndex].Operation = OperationType(trimmedOperation)
	}
	return definition, nil
}

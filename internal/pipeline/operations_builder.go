package pipeline

import "fmt"

const unsupportedOperationTemplate = "unsupported pipeline operation: %s"

// BuildOperations converts the declarative definition into executable operations.
func BuildOperations(definition Definition) ([]Operation, error) {
	operations := make([]Operation, 0, len(definition.Steps))
	for stepIndex := range definition.Steps {
		operation, buildError := buildOperationFromStep(definition.Steps[stepIndex])
		if buildError != nil {
			return nil, buildError
		}
		operations = append(operations, operation)
	}
	return operations, nil
}

// RequiresReview reports whether any audit step asks for the qualitative review.
func RequiresReview(operations []Operation) bool {
	for _, operation := range operations {
		if auditOperation, isAudit := operation.(*AuditOperation); isAudit && auditOperation.Review {
			return true
		}
	}
	return false
}

func buildOperationFromStep(step StepConfiguration) (Operation, error) {
	switch step.Operation {
	case OperationTypeAcquire:
		return buildAcquireOperation(step.Options)
	case OperationTypeAudit:
		return buildAuditOperation(step.Options)
	case OperationTypeReport:
		return buildReportOperation(step.Options)
	default:
		return nil, fmt.Errorf(unsupportedOperationTemplate, step.Operation)
	}
}

package pipeline

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	optionTypeErrorTemplate = "option %q must be a %s"
	stringTypeName          = "string"
	integerTypeName         = "integer"
	booleanTypeName         = "boolean"
)

type optionReader struct {
	options map[string]any
}

func newOptionReader(options map[string]any) optionReader {
	normalized := make(map[string]any, len(options))
	for rawKey, value := range options {
		normalized[strings.ToLower(strings.TrimSpace(rawKey))] = value
	}
	return optionReader{options: normalized}
}

func (reader optionReader) stringValue(key string) (string, bool, error) {
	rawValue, exists := reader.options[key]
	if !exists || rawValue == nil {
		return "", false, nil
	}
	switch typedValue := rawValue.(type) {
	case string:
		return strings.TrimSpace(typedValue), true, nil
	case int, int64, float64:
		return fmt.Sprint(typedValue), true, nil
	default:
		return "", false, fmt.Errorf(optionTypeErrorTemplate, key, stringTypeName)
	}
}

func (reader optionReader) intValue(key string) (int, bool, error) {
	rawValue, exists := reader.options[key]
	if !exists || rawValue == nil {
		return 0, false, nil
	}
	switch typedValue := rawValue.(type) {
	case int:
		return typedValue, true, nil
	case int64:
		return int(typedValue), true, nil
	case float64:
		if typedValue != float64(int(typedValue)) {
			return 0, false, fmt.Errorf(optionTypeErrorTemplate, key, integerTypeName)
		}
		return int(typedValue), true, nil
	case string:
		parsedValue, parseError := strconv.Atoi(strings.TrimSpace(typedValue))
		if parseError != nil {
			return 0, false, fmt.Errorf(optionTypeErrorTemplate, key, integerTypeName)
		}
		return parsedValue, true, nil
	default:
		return 0, false, fmt.Errorf(optionTypeErrorTemplate, key, integerTypeName)
	}
}

func (reader optionReader) boolValue(key string) (bool, bool, error) {
	rawValue, exists := reader.options[key]
	if !exists || rawValue == nil {
		return false, false, nil
	}
	switch typedValue := rawValue.(type) {
	case bool:
		return typedValue, true, nil
	case string:
		parsedValue, parseError := strconv.ParseBool(strings.TrimSpace(typedValue))
		if parseError != nil {
			return false, false, fmt.Errorf(optionTypeErrorTemplate, key, booleanTypeName)
		}
		return parsedValue, true, nil
	default:
		return false, false, fmt.Errorf(optionTypeErrorTemplate, key, booleanTypeName)
	}
}

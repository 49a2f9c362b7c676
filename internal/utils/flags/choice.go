package flags

import (
	"fmt"
	"strings"
)

const (
	choiceListOpenConstant         = "<"
	choiceListCloseConstant        = ">"
	choiceListSeparatorConstant    = "|"
	choiceUsageBareTemplate        = "`%s`"
	choiceUsageDescribedTemplate   = "`%s` %s"
	unsupportedChoiceErrorTemplate = "unsupported %s %q (expected one of %s)"
)

// FormatChoiceUsage renders flag usage as "`<maps|JUSTDIAL>` description", upper-casing the default choice.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	choiceList := choiceListOpenConstant + strings.Join(displayChoices(defaultChoice, choices), choiceListSeparatorConstant) + choiceListCloseConstant
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choiceUsageBareTemplate, choiceList)
	}
	return fmt.Sprintf(choiceUsageDescribedTemplate, choiceList, description)
}

// MatchChoice returns the canonical spelling of value among choices, ignoring case and surrounding space.
func MatchChoice(settingName string, value string, choices []string) (string, error) {
	normalizedValue := strings.ToLower(strings.TrimSpace(value))
	for _, choice := range uniqueChoices(choices) {
		if strings.ToLower(choice) == normalizedValue {
			return choice, nil
		}
	}
	return "", fmt.Errorf(unsupportedChoiceErrorTemplate, settingName, value, strings.Join(uniqueChoices(choices), ", "))
}

func displayChoices(defaultChoice string, choices []string) []string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	unique := uniqueChoices(choices)
	for index, choice := range unique {
		if len(normalizedDefault) > 0 && strings.ToLower(choice) == normalizedDefault {
			unique[index] = strings.ToUpper(choice)
		}
	}
	return unique
}

func uniqueChoices(choices []string) []string {
	unique := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))
	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		normalizedChoice := strings.ToLower(trimmedChoice)
		if len(trimmedChoice) == 0 {
			continue
		}
		if _, duplicate := seen[normalizedChoice]; duplicate {
			continue
		}
		seen[normalizedChoice] = struct{}{}
		unique = append(unique, trimmedChoice)
	}
	return unique
}

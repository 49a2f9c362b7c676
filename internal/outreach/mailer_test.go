package outreach_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/failures"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/outreach"
)

func TestMessageBytesKeepsHeadersOnOneLine(testInstance *testing.T) {
	message := outreach.Message{
		From:    "sales@agency.test",
		To:      "owner@bloom.test\r\nBcc: victim@else.test",
		Subject: "Question about\nBloom",
		Body:    "Line one\nLine two",
	}

	encoded := string(message.Bytes())
	require.Contains(testInstance, encoded, "To: owner@bloom.test Bcc: victim@else.test\r\n")
	require.Contains(testInstance, encoded, "Subject: Question about Bloom\r\n")
	require.Contains(testInstance, encoded, "\r\n\r\nLine one\r\nLine two")
	require.NotContains(testInstance, encoded, "\r\nBcc:")
}

func TestSMTPConfigurationValidation(testInstance *testing.T) {
	testCases := []struct {
		name          string
		configuration outreach.SMTPConfiguration
		expectError   bool
		sender        string
	}{
		{name: "missing_password", configuration: outreach.SMTPConfiguration{Username: "sales@agency.test"}, expectError: true},
		{name: "missing_username", configuration: outreach.SMTPConfiguration{Password: "secret"}, expectError: true},
		{name: "defaults_sender_to_username", configuration: outreach.SMTPConfiguration{Username: "sales@agency.test", Password: "secret"}, sender: "sales@agency.test"},
		{name: "explicit_sender", configuration: outreach.SMTPConfiguration{Username: "login", Password: "secret", From: "Agency <hi@agency.test>"}, sender: "Agency <hi@agency.test>"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			validationError := testCase.configuration.Validate()
			_, mailerError := outreach.NewSMTPMailer(testCase.configuration)
			if testCase.expectError {
				require.True(testInstance, failures.IsConfiguration(validationError))
				require.True(testInstance, failures.IsConfiguration(mailerError))
				return
			}
			require.NoError(testInstance, validationError)
			require.NoError(testInstance, mailerError)
			require.Equal(testInstance, testCase.sender, testCase.configuration.Sender())
		})
	}
}

func TestCommandConfigurationSanitize(testInstance *testing.T) {
	sanitized := outreach.CommandConfiguration{SubjectTemplate: "no placeholder", TemplatePath: "  ./email.txt "}.Sanitize()
	require.Equal(testInstance, "smtp.gmail.com", sanitized.SMTP.Host)
	require.Equal(testInstance, 587, sanitized.SMTP.Port)
	require.Equal(testInstance, "Question about %s", sanitized.SubjectTemplate)
	require.Equal(testInstance, "./email.txt", sanitized.TemplatePath)
}

package utils_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/utils"
)

func TestLoggerFactoryCreateLogger(testInstance *testing.T) {
	testCases := []struct {
		name                 string
		level                utils.LogLevel
		format               utils.LogFormat
		expectedErrorMessage string
		debugEnabled         bool
		warnEnabled          bool
	}{
		{name: "debug_structured", level: utils.LogLevelDebug, format: utils.LogFormatStructured, debugEnabled: true, warnEnabled: true},
		{name: "info_console", level: utils.LogLevelInfo, format: utils.LogFormatConsole, warnEnabled: true},
		{name: "mixed_case_input", level: utils.LogLevel(" WARN "), format: utils.LogFormat("Console"), warnEnabled: true},
		{name: "error_level_filters_warn", level: utils.LogLevelError, format: utils.LogFormatStructured},
		{name: "unsupported_level", level: utils.LogLevel("verbose"), format: utils.LogFormatStructured, expectedErrorMessage: "unsupported log level: verbose"},
		{name: "unsupported_format", level: utils.LogLevelInfo, format: utils.LogFormat("xml"), expectedErrorMessage: "unsupported log format: xml"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			logger, creationError := utils.NewLoggerFactory().CreateLogger(testCase.level, testCase.format)
			if len(testCase.expectedErrorMessage) > 0 {
				require.EqualError(subtest, creationError, testCase.expectedErrorMessage)
				require.Nil(subtest, logger)
				return
			}

			require.NoError(subtest, creationError)
			require.NotNil(subtest, logger)
			require.Equal(subtest, testCase.debugEnabled, logger.Core().Enabled(zapcore.DebugLevel))
			require.Equal(subtest, testCase.warnEnabled, logger.Core().Enabled(zapcore.WarnLevel))
			require.True(subtest, logger.Core().Enabled(zapcore.ErrorLevel))
		})
	}
}

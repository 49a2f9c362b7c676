package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/utils"
)

func TestLoadEnvironmentFiles(testInstance *testing.T) {
	environmentDirectory := testInstance.TempDir()
	environmentPath := filepath.Join(environmentDirectory, ".env")
	require.NoError(testInstance, os.WriteFile(environmentPath, []byte("SITEAUDITOR_ENV_TEST_NEW=from-file\nSITEAUDITOR_ENV_TEST_SET=from-file\n"), 0o600))

	testInstance.Setenv("SITEAUDITOR_ENV_TEST_SET", "from-process")
	testInstance.Setenv("SITEAUDITOR_ENV_TEST_NEW", "")
	require.NoError(testInstance, os.Unsetenv("SITEAUDITOR_ENV_TEST_NEW"))

	require.NoError(testInstance, utils.LoadEnvironmentFiles("", filepath.Join(environmentDirectory, "missing.env"), environmentPath))
	require.Equal(testInstance, "from-file", os.Getenv("SITEAUDITOR_ENV_TEST_NEW"))
	require.Equal(testInstance, "from-process", os.Getenv("SITEAUDITOR_ENV_TEST_SET"))
}

func TestLoadEnvironmentFilesRejectsDirectory(testInstance *testing.T) {
	require.Error(testInstance, utils.LoadEnvironmentFiles(testInstance.TempDir()))
}

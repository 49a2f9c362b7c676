package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const environmentFileErrorTemplateConstant = "failed to load environment file %s: %w"

// LoadEnvironmentFiles loads KEY=VALUE files into the process environment. Missing files are skipped
// and variables that are already set keep their values.
func LoadEnvironmentFiles(filePaths ...string) error {
	for _, filePath := range filePaths {
		trimmedPath := strings.TrimSpace(filePath)
		if len(trimmedPath) == 0 {
			continue
		}
		if _, statError := os.Stat(trimmedPath); errors.Is(statError, fs.ErrNotExist) {
			continue
		}
		if loadError := godotenv.Load(trimmedPath); loadError != nil {
			return fmt.Errorf(environmentFileErrorTemplateConstant, trimmedPath, loadError)
		}
	}
	return nil
}

package main

import (
	"fmt"
	"os"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/cmd/cli"
)

const exitErrorTemplateConstant = "%v\n"

// main runs the site-auditor command tree.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(1)
	}
}

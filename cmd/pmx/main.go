// Package main is the entry point for the pmx CLI.
package main

import (
	"fmt"
	"os"

	"github.com/thoreinstein/pmx/cmd/pmx/commands"
	"github.com/thoreinstein/pmx/internal/errors"
	"github.com/thoreinstein/pmx/internal/extension"
)

func main() {
	err := commands.Execute()
	if err == nil {
		return
	}

	var status *extension.StatusError
	if errors.As(err, &status) {
		os.Exit(status.Code)
	}

	report(err)
	os.Exit(1)
}

func report(err error) {
	var exitErr *errors.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", exitErr.Err)
	if exitErr.Suggestion != "" {
		fmt.Fprintf(os.Stderr, "  %s\n", exitErr.Suggestion)
	}
}

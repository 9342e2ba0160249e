// Package cli provides output helpers shared by commands.
package cli

import (
	"encoding/json"
	"io"
	"os"

	"golang.org/x/term"
)

// IsJSONOutput reports whether machine-readable output was requested.
func IsJSONOutput() bool {
	return jsonOutput
}

// WriteOutput writes a value as indented JSON.
func WriteOutput(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

// IsNonInteractive reports whether prompts should be skipped.
func IsNonInteractive() bool {
	if nonInteractive {
		return true
	}
	if _, ok := os.LookupEnv("ATTUNE_NON_INTERACTIVE"); ok {
		return true
	}
	return !hasTTY()
}

func hasTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

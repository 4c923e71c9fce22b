package ui

import (
	"fmt"
	"io"
	"os"
)

// Colors for consistent UI
const (
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorReset  = "\033[0m"
)

// Out receives every status line. Quiet silences info and success lines;
// warnings and errors are always shown.
var (
	Out   io.Writer = os.Stdout
	Quiet bool
)

// PrintWarning displays a warning message with consistent formatting
func PrintWarning(message string) {
	fmt.Fprintf(Out, "%sWarning: %s%s\n", ColorYellow, message, ColorReset)
}

// PrintError displays an error message with consistent formatting
func PrintError(message string) {
	fmt.Fprintf(Out, "%sError: %s%s\n", ColorRed, message, ColorReset)
}

// PrintSuccess displays a success message with consistent formatting
func PrintSuccess(message string) {
	if Quiet {
		return
	}
	fmt.Fprintf(Out, "%s%s%s\n", ColorGreen, message, ColorReset)
}

func PrintInfo(message string) {
	if Quiet {
		return
	}
	fmt.Fprintf(Out, "%s%s%s\n", ColorBlue, message, ColorReset)
}

// PrintFileStatus reports the outcome of one input file of a batch.
func PrintFileStatus(path string, err error) {
	if err != nil {
		fmt.Fprintf(Out, "%s✗ %s: %v%s\n", ColorRed, path, err, ColorReset)
		return
	}
	PrintSuccess("✓ " + path)
}

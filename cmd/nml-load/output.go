package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/handiism/nmlgraph/internal/ingest"
)

// Colors by message level. They respect color.NoColor when called.
var (
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	green  = color.New(color.FgGreen)
	cyan   = color.New(color.FgCyan)
	bold   = color.New(color.Bold)
	dim    = color.New(color.Faint)
)

// printEvent renders a progress event. Verbose events are only shown with
// --verbose.
func printEvent(event ingest.ProgressEvent, verbose bool) {
	switch event.Level {
	case ingest.LevelError:
		_, _ = red.Fprintln(os.Stderr, "✗ "+event.Message)
	case ingest.LevelWarning:
		_, _ = yellow.Println("⚠ " + event.Message)
	case ingest.LevelSuccess:
		_, _ = green.Println("✓ " + event.Message)
	case ingest.LevelVerbose:
		if verbose {
			_, _ = dim.Println("  " + event.Message)
		}
	default:
		_, _ = cyan.Println("ℹ " + event.Message)
	}
}

func header(text string) {
	_, _ = bold.Println(text)
	fmt.Println(strings.Repeat("=", len(text)))
}

func fatalf(code int, format string, args ...any) {
	_, _ = red.Fprintf(os.Stderr, "Error "+format+"\n", args...)
	os.Exit(code)
}

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
)

const version = "0.1.0"

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdout, os.Stderr))
}

func realMain(args []string, stdout, stderr io.Writer) int {
	opts, code, err := parseArgs(args, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	if opts == nil {
		return code
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	failures, err := test(opts.testsFile, logger)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	if len(failures) == 0 {
		fmt.Fprintln(stdout, color.GreenString("All tests passed!"))
		return 0
	}

	fmt.Fprintf(stdout, "%s\n\n", color.RedString("Found %d failures", len(failures)))
	for i, failure := range failures {
		fmt.Fprintf(stdout, "%s %s\n", color.YellowString("%d)", i+1), failure)
	}

	return 1
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/sourcegraph/iso20022-validate/validation"
)

type documentReport struct {
	Path string `json:"path"`
	validation.Result
}

type runReport struct {
	RunID     string           `json:"run_id"`
	Success   bool             `json:"success"`
	Documents []documentReport `json:"documents"`
}

func writeText(w io.Writer, reports []documentReport) error {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	valid := 0
	for _, report := range reports {
		if report.Success {
			valid++
			line := green(report.Path + " is valid!")
			if details := summary(report.Result); details != "" {
				line += " " + details
			}

			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}

			continue
		}

		if _, err := fmt.Fprintf(w, "%s\n\n", red(fmt.Sprintf("Found %d errors in %s", len(report.Errors), report.Path))); err != nil {
			return err
		}

		for i, message := range report.Errors {
			if _, err := fmt.Fprintf(w, "%s %s\n", yellow(fmt.Sprintf("%d)", i+1)), message); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintf(w, "\n"); err != nil {
			return err
		}
	}

	if len(reports) > 1 {
		if _, err := fmt.Fprintf(w, "%d of %d documents valid\n", valid, len(reports)); err != nil {
			return err
		}
	}

	return nil
}

func summary(result validation.Result) string {
	var parts []string
	if len(result.Passed) > 0 {
		parts = append(parts, fmt.Sprintf("passed: %s", strings.Join(result.Passed, ", ")))
	}

	if len(result.Skipped) > 0 {
		parts = append(parts, fmt.Sprintf("not applicable: %s", strings.Join(result.Skipped, ", ")))
	}

	if len(parts) == 0 {
		return ""
	}

	return "(" + strings.Join(parts, "; ") + ")"
}

func writeJSON(w io.Writer, reports []documentReport) error {
	report := runReport{
		RunID:     uuid.NewString(),
		Success:   true,
		Documents: reports,
	}

	for i := range report.Documents {
		if report.Documents[i].Errors == nil {
			report.Documents[i].Errors = []string{}
		}

		if !report.Documents[i].Success {
			report.Success = false
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

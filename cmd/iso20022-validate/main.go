package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/efritz/pentimento"
	"github.com/fatih/color"
	"github.com/pkg/errors"

	"github.com/sourcegraph/iso20022-validate/internal/reader"
	"github.com/sourcegraph/iso20022-validate/rules"
	"github.com/sourcegraph/iso20022-validate/validation"
)

const version = "0.1.0"

const (
	exitOK      = 0
	exitError   = 1
	exitInvalid = 2
)

// defaultRuleSetName names the built-in rule set in reports.
const defaultRuleSetName = "default"

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// realMain returns the process exit status instead of exiting so that the only
// call to os.Exit stays in main.
func realMain(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, code, err := parseArgs(args, stdout, stderr)
	if err != nil {
		printError(stderr, err)
		return exitError
	}

	if opts == nil {
		return code
	}

	if opts.noColor {
		color.NoColor = true
	}

	logger := newLogger(stderr, opts.verbose)

	if opts.watch {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return watch(ctx, opts, stdout, stderr, logger)
	}

	code, err = run(opts, stdin, stdout, stderr, logger)
	if err != nil {
		printError(stderr, err)
		return exitError
	}

	return code
}

// printError writes err to w, listing schema violations one per line.
func printError(w io.Writer, err error) {
	schemaErr, ok := errors.Cause(err).(*rules.SchemaError)
	if !ok {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}

	source := strings.TrimSuffix(err.Error(), ": "+schemaErr.Error())
	fmt.Fprintf(w, "error: %s: rule set failed schema validation\n", source)
	for i, violation := range schemaErr.Violations {
		fmt.Fprintf(w, "  %d) %s\n", i+1, violation)
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func run(opts *options, stdin io.Reader, stdout, stderr io.Writer, logger *slog.Logger) (int, error) {
	ruleSets, err := loadRuleSets(opts)
	if err != nil {
		return exitError, errors.Wrap(err, "rules")
	}

	documents, err := reader.ReadPaths(opts.documents, stdin)
	if err != nil {
		return exitError, err
	}

	if len(documents) == 0 {
		return exitError, errors.New("no documents to validate")
	}

	logger.Debug("Validating documents",
		"documents", len(documents),
		"rule_sets", len(ruleSets),
	)

	reports, err := validateDocuments(documents, ruleSets, opts, stderr, logger)
	if err != nil {
		return exitError, err
	}

	switch opts.format {
	case "json":
		err = writeJSON(stdout, reports)
	default:
		err = writeText(stdout, reports)
	}
	if err != nil {
		return exitError, errors.Wrap(err, "write report")
	}

	for _, report := range reports {
		if !report.Success {
			return exitInvalid, nil
		}
	}

	return exitOK, nil
}

func loadRuleSets(opts *options) ([]*rules.RuleSet, error) {
	var ruleSets []*rules.RuleSet
	for _, path := range opts.ruleFiles {
		rs, err := rules.LoadFile(path)
		if err != nil {
			return nil, err
		}

		ruleSets = append(ruleSets, rs)
	}

	for _, dir := range opts.ruleDirs {
		dirRuleSets, err := rules.LoadDir(dir)
		if err != nil {
			return nil, err
		}

		ruleSets = append(ruleSets, dirRuleSets...)
	}

	if len(ruleSets) == 0 || opts.withDefault {
		rs := rules.Default()
		rs.Name = defaultRuleSetName
		ruleSets = append([]*rules.RuleSet{rs}, ruleSets...)
	}

	return ruleSets, nil
}

// validateDocuments validates each document in turn. With --progress and a
// text report, a progress line is drawn on stderr while it runs.
func validateDocuments(documents []reader.Document, ruleSets []*rules.RuleSet, opts *options, stderr io.Writer, logger *slog.Logger) ([]documentReport, error) {
	validateAll := func(onDocument func(i int, document reader.Document) error) ([]documentReport, error) {
		var reports []documentReport
		for i, document := range documents {
			if err := onDocument(i, document); err != nil {
				return nil, err
			}

			report := validateDocument(document, ruleSets, logger)
			reports = append(reports, report)

			if opts.stopOnError && !report.Success {
				break
			}
		}

		return reports, nil
	}

	if !opts.progress || opts.format != "text" {
		return validateAll(func(int, reader.Document) error { return nil })
	}

	var reports []documentReport
	err := pentimento.PrintProgress(func(p *pentimento.Printer) error {
		var err error
		reports, err = validateAll(func(i int, document reader.Document) error {
			return p.WriteString("Validating %s (%d/%d)...", document.Name(), i+1, len(documents))
		})
		if err != nil {
			return err
		}

		return p.Reset()
	}, pentimento.WithWriter(stderr))
	if err != nil {
		return nil, errors.Wrap(err, "progress")
	}

	return reports, nil
}

func validateDocument(document reader.Document, ruleSets []*rules.RuleSet, logger *slog.Logger) documentReport {
	aggregator := validation.NewAggregator(
		document.Text,
		validation.WithLogger(logger.With("document", document.Name())),
	)

	for _, rs := range ruleSets {
		aggregator.Add(rs, rs.Name)
	}

	aggregator.Validate()

	return documentReport{Path: document.Name(), Result: aggregator.Result().RequireWellFormed()}
}

package runner

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pkg/errors"

	"github.com/sourcegraph/iso20022-validate/validation"
)

type Runner struct {
	Context *RunnerContext
	Logger  *slog.Logger
}

// Failure is an expectation a test spec did not meet.
type Failure struct {
	Test    string
	Message string
}

func (f Failure) String() string {
	return fmt.Sprintf("%s: %s", f.Test, f.Message)
}

// Run checks every test spec read from testsFile and returns the unmet
// expectations. A test whose document or rules cannot be loaded is an error.
func (r *Runner) Run(testsFile io.Reader) ([]Failure, error) {
	testSpecs, err := ReadTestSpecs(testsFile)
	if err != nil {
		return nil, err
	}

	var failures []Failure
	for i, testSpec := range testSpecs {
		title := testSpec.Title(i)

		result, err := r.validate(testSpec)
		if err != nil {
			return nil, errors.Wrapf(err, "test %s", title)
		}

		testFailures := check(title, testSpec, result)
		r.logger().Debug("Ran test",
			"test", title,
			"success", result.Success,
			"failures", len(testFailures),
		)

		failures = append(failures, testFailures...)
	}

	return failures, nil
}

func (r *Runner) validate(testSpec TestSpec) (validation.Result, error) {
	document, err := r.Context.Document(testSpec.Document)
	if err != nil {
		return validation.Result{}, err
	}

	names := testSpec.Rules
	if len(names) == 0 {
		names = []string{DefaultRules}
	}

	aggregator := validation.NewAggregator(document.Text, validation.WithLogger(r.logger()))
	for _, name := range names {
		rs, err := r.Context.RuleSet(name)
		if err != nil {
			return validation.Result{}, err
		}

		aggregator.Add(rs, rs.Name)
	}

	aggregator.Validate()
	return aggregator.Result().RequireWellFormed(), nil
}

func check(title string, testSpec TestSpec, result validation.Result) []Failure {
	var failures []Failure
	if result.Success != testSpec.Success {
		message := "expected validation to fail, but it passed"
		if testSpec.Success {
			message = fmt.Sprintf("expected validation to pass, but it failed with %d errors", len(result.Errors))
		}

		failures = append(failures, Failure{Test: title, Message: message})
	}

	for _, expected := range testSpec.Errors {
		if !containsError(result.Errors, expected) {
			failures = append(failures, Failure{
				Test:    title,
				Message: fmt.Sprintf("no error mentions %q", expected),
			})
		}
	}

	return failures
}

func containsError(messages []string, expected string) bool {
	for _, message := range messages {
		if strings.Contains(message, expected) {
			return true
		}
	}

	return false
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return r.Logger
}

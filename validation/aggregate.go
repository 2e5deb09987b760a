package validation

import (
	"io"
	"log/slog"

	"github.com/sourcegraph/iso20022-validate/rules"
	"github.com/sourcegraph/iso20022-validate/xmltree"
)

// Result is the verdict of an Aggregator.
type Result struct {
	Success bool     `json:"success"`
	Errors  []string `json:"errors"`
	Passed  []string `json:"passed"`
	Failed  []string `json:"failed"`
	Skipped []string `json:"skipped"`

	// ParseErrors holds the document's parse violations whether or not any
	// validator applied to it.
	ParseErrors []string `json:"parse_errors,omitempty"`
}

// Applicable returns the number of validators that applied to the document.
func (r Result) Applicable() int {
	return len(r.Passed) + len(r.Failed)
}

// RequireWellFormed returns the result with a document that failed to parse
// counted as a failure, even when no validator applied to it.
func (r Result) RequireWellFormed() Result {
	if r.Success && len(r.ParseErrors) > 0 {
		r.Success = false
		r.Errors = r.ParseErrors
	}

	return r
}

// Aggregator validates one document against any number of rule sets and
// combines the outcomes into a single verdict. Violations are prefixed with the
// name of the validator that reported them. An Aggregator is not safe for
// concurrent use.
type Aggregator struct {
	parse      ParseFunc
	document   parsedDocument
	logger     *slog.Logger
	validators []*Validator
	result     Result
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithAggregatorParser replaces the XML parser used for the shared document.
func WithAggregatorParser(parse ParseFunc) AggregatorOption {
	return func(a *Aggregator) { a.parse = parse }
}

// WithLogger sets the logger that receives per-validator outcomes.
func WithLogger(logger *slog.Logger) AggregatorOption {
	return func(a *Aggregator) { a.logger = logger }
}

// NewAggregator parses text once; every validator added later shares the
// resulting read-only tree.
func NewAggregator(text string, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		parse:  xmltree.Parse,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(a)
	}

	a.document = parseDocument(text, a.parse)
	return a
}

// Add appends a validator for rs. No validation happens until Validate is
// called; validators run and report in the order they were added. An empty name
// falls back to the rule set's own name.
func (a *Aggregator) Add(rs *rules.RuleSet, name string) *Validator {
	if name == "" && rs != nil {
		name = rs.Name
	}

	validator := newValidator(a.document, rs, name)
	a.validators = append(a.validators, validator)
	return validator
}

// Len returns the number of validators added.
func (a *Aggregator) Len() int {
	return len(a.validators)
}

// Validate runs every applicable validator. Validators that do not apply to the
// document are skipped and do not count. The document conforms when every
// applicable validator passes, which includes the case where none apply.
func (a *Aggregator) Validate() bool {
	result := Result{ParseErrors: messages(a.document.errors)}

	for _, validator := range a.validators {
		if !validator.Applicable() {
			a.logger.Debug("Skipping rule set", "validator", validator.Name())
			result.Skipped = append(result.Skipped, validator.Name())
			continue
		}

		if validator.Validate() {
			a.logger.Debug("Rule set passed", "validator", validator.Name())
			result.Passed = append(result.Passed, validator.Name())
			continue
		}

		a.logger.Debug("Rule set failed",
			"validator", validator.Name(),
			"errors", len(validator.errors),
		)

		result.Failed = append(result.Failed, validator.Name())
		for _, message := range validator.Errors() {
			result.Errors = append(result.Errors, attribute(validator.Name(), message))
		}
	}

	result.Success = len(result.Failed) == 0
	a.result = result
	return result.Success
}

// Errors returns the attributed violations of the last Validate call.
func (a *Aggregator) Errors() []string {
	return a.result.Errors
}

// Result returns the verdict of the last Validate call.
func (a *Aggregator) Result() Result {
	return a.result
}

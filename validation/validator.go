package validation

import (
	"strings"

	"github.com/sourcegraph/iso20022-validate/rules"
	"github.com/sourcegraph/iso20022-validate/xmltree"
)

// DefaultName is the display name of a validator that was not given one.
const DefaultName = "Validator"

// ParseFunc parses document text into a tree and returns any non-fatal
// warnings produced along the way.
type ParseFunc func(text string) (*xmltree.Tree, []string, error)

// Validator checks one document against one rule set. A validator is meant to
// be validated once; calling Validate again re-runs every check from scratch.
type Validator struct {
	name        string
	ruleSet     *rules.RuleSet
	tree        *xmltree.Tree
	parseErrors []ValidationError
	errors      []ValidationError
}

type options struct {
	ruleSet *rules.RuleSet
	name    string
	parse   ParseFunc
}

// Option configures a Validator.
type Option func(*options)

// WithRuleSet sets the rule set to validate against. A nil rule set selects
// rules.Default.
func WithRuleSet(rs *rules.RuleSet) Option {
	return func(o *options) { o.ruleSet = rs }
}

// WithName sets the display name used when attributing violations.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithParser replaces the XML parser.
func WithParser(parse ParseFunc) Option {
	return func(o *options) { o.parse = parse }
}

// New parses text and binds it to a rule set. Parse faults and warnings are
// recorded as violations immediately and make every later Validate fail.
func New(text string, opts ...Option) *Validator {
	o := &options{parse: xmltree.Parse}
	for _, opt := range opts {
		opt(o)
	}

	return newValidator(parseDocument(text, o.parse), o.ruleSet, o.name)
}

type parsedDocument struct {
	tree   *xmltree.Tree
	errors []ValidationError
}

func parseDocument(text string, parse ParseFunc) parsedDocument {
	tree, warnings, err := parse(text)
	if err != nil {
		return parsedDocument{errors: []ValidationError{invalidXML(err)}}
	}

	document := parsedDocument{tree: tree}
	for _, warning := range warnings {
		document.errors = append(document.errors, parseWarning(warning))
	}

	return document
}

func newValidator(document parsedDocument, rs *rules.RuleSet, name string) *Validator {
	if rs == nil {
		rs = rules.Default()
	}

	if name == "" {
		name = DefaultName
	}

	return &Validator{
		name:        name,
		ruleSet:     rs,
		tree:        document.tree,
		parseErrors: document.errors,
		errors:      append([]ValidationError(nil), document.errors...),
	}
}

// Name returns the validator's display name.
func (v *Validator) Name() string {
	return v.name
}

// RuleSet returns the rule set the validator checks against.
func (v *Validator) RuleSet() *rules.RuleSet {
	return v.ruleSet
}

// Errors returns the violation messages recorded so far.
func (v *Validator) Errors() []string {
	return messages(v.errors)
}

// Violations returns a copy of the violations recorded so far.
func (v *Validator) Violations() []ValidationError {
	return append([]ValidationError(nil), v.errors...)
}

// Applicable reports whether the rule set concerns this document: it lists no
// required elements, or at least one of them exists. A document that failed to
// parse is only subject to universally applicable rule sets.
func (v *Validator) Applicable() bool {
	if v.ruleSet.UniversallyApplicable() {
		return true
	}

	if v.tree == nil {
		return false
	}

	for _, path := range v.ruleSet.RequiredElements {
		if v.tree.Exists(path) {
			return true
		}
	}

	return false
}

// Validate runs every check and reports whether the document conforms. A parse
// failure fails immediately; a rule set that is not applicable passes without
// running any check.
func (v *Validator) Validate() bool {
	v.errors = append([]ValidationError(nil), v.parseErrors...)
	if len(v.parseErrors) > 0 {
		return false
	}

	if !v.Applicable() {
		return true
	}

	v.validateStructure()
	v.validateContent()
	v.validateRoot()
	v.validateFormat()
	return len(v.errors) == 0
}

//
// Checks

func (v *Validator) validateStructure() {
	for _, path := range v.ruleSet.RequiredElements {
		if !v.tree.Exists(path) {
			v.addError(missingElement(path))
		}
	}
}

// validateContent skips missing elements; reporting absence is the job of
// validateStructure.
func (v *Validator) validateContent() {
	v.ruleSet.ForEachExpectedValue(func(path, expected string) {
		node := v.tree.Resolve(path)
		if node == nil {
			return
		}

		if actual := text(node); actual != expected {
			v.addError(invalidValue(path, expected, actual))
		}
	})
}

func (v *Validator) validateRoot() {
	root := v.tree.Root()

	if expected := v.ruleSet.RootElement; expected != "" {
		actual := absent
		if root != nil {
			actual = root.Name()
		}

		if actual != expected {
			v.addError(rootElementMismatch(actual, expected))
		}
	}

	if v.ruleSet.RootContent != nil {
		expected := *v.ruleSet.RootContent
		actual := absent
		if root != nil {
			actual = text(root)
		}

		if actual != expected {
			v.addError(rootContentMismatch(actual, expected))
		}
	}
}

func (v *Validator) validateFormat() {
	v.ruleSet.ForEachFormatValidation(func(path string, validation *rules.FormatValidation) {
		if !validation.HasPattern() {
			return
		}

		node := v.tree.Resolve(path)
		if node == nil {
			return
		}

		re, err := validation.Regexp()
		if err != nil {
			v.addError(invalidPattern(path, err))
			return
		}

		matched, err := re.MatchString(text(node))
		if err != nil {
			v.addError(formatError(path, err.Error()))
			return
		}

		if !matched {
			v.addError(formatError(path, validation.Description))
		}
	})
}

//
// Helpers

func (v *Validator) addError(err ValidationError) {
	v.errors = append(v.errors, err)
}

func text(node *xmltree.Node) string {
	return strings.TrimSpace(node.Text())
}

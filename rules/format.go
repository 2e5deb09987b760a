package rules

import (
	"time"

	"github.com/dlclark/regexp2"
	"github.com/pkg/errors"
)

// MatchTimeout bounds a single pattern match against element text.
const MatchTimeout = time.Second

// FormatValidation constrains the text of an element to a pattern.
type FormatValidation struct {
	Pattern     string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	re *regexp2.Regexp
}

// NewFormatValidation returns a compiled format constraint.
func NewFormatValidation(pattern, description string) (*FormatValidation, error) {
	validation := &FormatValidation{Pattern: pattern, Description: description}
	if err := validation.Compile(); err != nil {
		return nil, err
	}

	return validation, nil
}

// CompiledFormatValidation wraps an expression that is already compiled. The
// expression is used as-is.
func CompiledFormatValidation(re *regexp2.Regexp, description string) *FormatValidation {
	return &FormatValidation{Pattern: re.String(), Description: description, re: re}
}

// Compile compiles the pattern if it has not been compiled yet.
func (f *FormatValidation) Compile() error {
	if f.re != nil || f.Pattern == "" {
		return nil
	}

	re, err := compilePattern(f.Pattern)
	if err != nil {
		return err
	}

	f.re = re
	return nil
}

// HasPattern reports whether the constraint carries a pattern to test.
func (f *FormatValidation) HasPattern() bool {
	return f != nil && (f.re != nil || f.Pattern != "")
}

// Regexp returns the compiled pattern. Constraints that were never compiled are
// compiled on each call without being modified.
func (f *FormatValidation) Regexp() (*regexp2.Regexp, error) {
	if f.re != nil {
		return f.re, nil
	}

	return compilePattern(f.Pattern)
}

func compilePattern(pattern string) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid pattern %q", pattern)
	}

	re.MatchTimeout = MatchTimeout
	return re, nil
}

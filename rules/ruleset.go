package rules

import (
	"github.com/antchfx/xpath"
	"github.com/pkg/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/sourcegraph/iso20022-validate/xmltree"
)

// ValueMap maps element paths to their expected trimmed text, in source order.
type ValueMap = orderedmap.OrderedMap[string, string]

// FormatMap maps element paths to format constraints, in source order.
type FormatMap = orderedmap.OrderedMap[string, *FormatValidation]

// RuleSet describes what a document must contain and look like. Every field is
// optional. A rule set is not modified after Compile and may be shared by any
// number of validators.
type RuleSet struct {
	Name              string     `json:"name,omitempty" yaml:"name,omitempty"`
	Description       string     `json:"description,omitempty" yaml:"description,omitempty"`
	RequiredElements  []string   `json:"required_elements,omitempty" yaml:"required_elements,omitempty"`
	ExpectedValues    *ValueMap  `json:"expected_values,omitempty" yaml:"expected_values,omitempty"`
	RootElement       string     `json:"root_element,omitempty" yaml:"root_element,omitempty"`
	RootContent       *string    `json:"root_content,omitempty" yaml:"root_content,omitempty"`
	FormatValidations *FormatMap `json:"format_validations,omitempty" yaml:"format_validations,omitempty"`
}

// Default returns the rule set used when none is supplied: a service level with
// proprietary code NURG and a category purpose with code SUPP.
func Default() *RuleSet {
	expected := orderedmap.New[string, string]()
	expected.Set("SvcLvl/Prtry", "NURG")
	expected.Set("CtgyPurp/Cd", "SUPP")

	return &RuleSet{
		RequiredElements: []string{"SvcLvl", "SvcLvl/Prtry", "CtgyPurp", "CtgyPurp/Cd"},
		ExpectedValues:   expected,
	}
}

// UniversallyApplicable reports whether the rule set applies to every document,
// which is the case when it lists no required elements.
func (rs *RuleSet) UniversallyApplicable() bool {
	return len(rs.RequiredElements) == 0
}

// ForEachExpectedValue calls f for every expected value in source order.
func (rs *RuleSet) ForEachExpectedValue(f func(path, expected string)) {
	if rs.ExpectedValues == nil {
		return
	}

	for pair := rs.ExpectedValues.Oldest(); pair != nil; pair = pair.Next() {
		f(pair.Key, pair.Value)
	}
}

// ForEachFormatValidation calls f for every format constraint in source order.
func (rs *RuleSet) ForEachFormatValidation(f func(path string, validation *FormatValidation)) {
	if rs.FormatValidations == nil {
		return
	}

	for pair := rs.FormatValidations.Oldest(); pair != nil; pair = pair.Next() {
		f(pair.Key, pair.Value)
	}
}

// Compile checks the syntax of every element path and compiles every format
// pattern. It returns the first configuration fault found.
func (rs *RuleSet) Compile() error {
	for _, path := range rs.RequiredElements {
		if err := compilePath(path); err != nil {
			return errors.Wrap(err, "required_elements")
		}
	}

	var err error
	rs.ForEachExpectedValue(func(path, _ string) {
		if err == nil {
			err = errors.Wrap(compilePath(path), "expected_values")
		}
	})
	if err != nil {
		return err
	}

	rs.ForEachFormatValidation(func(path string, validation *FormatValidation) {
		if err != nil {
			return
		}

		if err = compilePath(path); err != nil {
			err = errors.Wrap(err, "format_validations")
			return
		}

		if validation != nil {
			err = errors.Wrapf(validation.Compile(), "format_validations: %s", path)
		}
	})

	return err
}

func compilePath(path string) error {
	if path == "" {
		return errors.New("empty element path")
	}

	if _, err := xpath.Compile(xmltree.Expression(path)); err != nil {
		return errors.Wrapf(err, "invalid element path %q", path)
	}

	return nil
}

package runner

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// TestSpec is one expectation: validating Document against Rules succeeds or
// fails, and every entry of Errors occurs in at least one reported violation.
type TestSpec struct {
	Name     string   `yaml:"name"`
	Document string   `yaml:"document"`
	Rules    []string `yaml:"rules"`
	Success  bool     `yaml:"success"`
	Errors   []string `yaml:"errors"`
}

// Title identifies the test in reports.
func (s TestSpec) Title(index int) string {
	if s.Name != "" {
		return s.Name
	}

	return fmt.Sprintf("#%d %s", index+1, s.Document)
}

func ReadTestSpecs(r io.Reader) ([]TestSpec, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read test specs")
	}

	var testSpecs []TestSpec
	if err := yaml.Unmarshal(content, &testSpecs); err != nil {
		return nil, errors.Wrap(err, "decode test specs")
	}

	for i, testSpec := range testSpecs {
		if testSpec.Document == "" {
			return nil, errors.Errorf("test %s: no document", testSpec.Title(i))
		}

		if testSpec.Success && len(testSpec.Errors) > 0 {
			return nil, errors.Errorf("test %s: a passing test cannot expect errors", testSpec.Title(i))
		}
	}

	return testSpecs, nil
}

package runner

import (
	"path/filepath"

	"github.com/sourcegraph/iso20022-validate/internal/reader"
	"github.com/sourcegraph/iso20022-validate/rules"
)

// DefaultRules names the built-in rule set in a test spec.
const DefaultRules = "default"

// RunnerContext resolves the documents and rule files named by test specs
// relative to a base directory. Each file is loaded at most once.
type RunnerContext struct {
	BaseDir   string
	documents map[string]reader.Document
	ruleSets  map[string]*rules.RuleSet
}

func NewRunnerContext(baseDir string) *RunnerContext {
	return &RunnerContext{
		BaseDir:   baseDir,
		documents: map[string]reader.Document{},
		ruleSets:  map[string]*rules.RuleSet{},
	}
}

func (c *RunnerContext) Document(path string) (reader.Document, error) {
	path = c.resolve(path)
	if document, ok := c.documents[path]; ok {
		return document, nil
	}

	document, err := reader.ReadFile(path)
	if err != nil {
		return reader.Document{}, err
	}

	c.documents[path] = document
	return document, nil
}

func (c *RunnerContext) RuleSet(path string) (*rules.RuleSet, error) {
	if path == DefaultRules {
		rs := rules.Default()
		rs.Name = DefaultRules
		return rs, nil
	}

	path = c.resolve(path)
	if rs, ok := c.ruleSets[path]; ok {
		return rs, nil
	}

	rs, err := rules.LoadFile(path)
	if err != nil {
		return nil, err
	}

	c.ruleSets[path] = rs
	return rs, nil
}

func (c *RunnerContext) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(c.BaseDir, path)
}

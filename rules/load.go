package rules

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Extensions lists the rule file extensions understood by LoadFile and LoadDir.
var Extensions = []string{".json", ".yaml", ".yml"}

// ParseJSON decodes and compiles a JSON rule set.
func ParseJSON(data []byte) (*RuleSet, error) {
	if err := validateSchema(gojsonschema.NewBytesLoader(data)); err != nil {
		return nil, err
	}

	rs := &RuleSet{}
	if err := json.Unmarshal(data, rs); err != nil {
		return nil, errors.Wrap(err, "decode")
	}

	if err := rs.Compile(); err != nil {
		return nil, err
	}

	return rs, nil
}

// ParseYAML decodes and compiles a YAML rule set.
func ParseYAML(data []byte) (*RuleSet, error) {
	var document interface{}
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, errors.Wrap(err, "decode")
	}

	if err := validateSchema(gojsonschema.NewGoLoader(document)); err != nil {
		return nil, err
	}

	rs := &RuleSet{}
	if err := yaml.Unmarshal(data, rs); err != nil {
		return nil, errors.Wrap(err, "decode")
	}

	if err := rs.Compile(); err != nil {
		return nil, err
	}

	return rs, nil
}

// LoadFile reads a rule set from a .json, .yaml or .yml file. The rule set is
// named after the file unless it names itself.
func LoadFile(path string) (*RuleSet, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read rule file")
	}

	var rs *RuleSet
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		rs, err = ParseJSON(content)
	case ".yaml", ".yml":
		rs, err = ParseYAML(content)
	default:
		return nil, errors.Errorf("%s: unsupported rule file extension %q", path, ext)
	}

	if err != nil {
		return nil, errors.Wrap(err, path)
	}

	if rs.Name == "" {
		rs.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return rs, nil
}

// LoadDir loads every rule file directly inside dir, ordered by file name.
// Subdirectories and hidden files are ignored.
func LoadDir(dir string) ([]*RuleSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "read rules directory")
	}

	var ruleSets []*RuleSet
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") || !IsRuleFile(entry.Name()) {
			continue
		}

		rs, err := LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}

		ruleSets = append(ruleSets, rs)
	}

	return ruleSets, nil
}

// IsRuleFile reports whether name has a rule file extension.
func IsRuleFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, candidate := range Extensions {
		if ext == candidate {
			return true
		}
	}

	return false
}

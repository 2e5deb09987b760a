package rules

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed assets/ruleset.schema.json
var schemaText string

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

// SchemaError lists every way a rule file deviates from the rule-set schema.
type SchemaError struct {
	Violations []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("rule set failed schema validation: %s", strings.Join(e.Violations, "; "))
}

func getSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaText))
	})

	return schema, schemaErr
}

func validateSchema(document gojsonschema.JSONLoader) error {
	schema, err := getSchema()
	if err != nil {
		return errors.Wrap(err, "schema")
	}

	result, err := schema.Validate(document)
	if err != nil {
		return errors.Wrap(err, "decode")
	}

	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}

	return &SchemaError{Violations: violations}
}

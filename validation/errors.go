package validation

import "fmt"

// Kind classifies a violation by the check that produced it.
type Kind string

const (
	KindParse     Kind = "parse"
	KindStructure Kind = "structure"
	KindContent   Kind = "content"
	KindRoot      Kind = "root"
	KindFormat    Kind = "format"
)

// ValidationError is a single violation recorded by a Validator.
type ValidationError struct {
	Kind    Kind   `json:"kind"`
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Message
}

// absent renders a value that does not exist in the document.
const absent = "<none>"

func invalidXML(err error) ValidationError {
	return ValidationError{Kind: KindParse, Message: fmt.Sprintf("Invalid XML: %s", err)}
}

func parseWarning(warning string) ValidationError {
	return ValidationError{Kind: KindParse, Message: fmt.Sprintf("XML parsing error: %s", warning)}
}

func missingElement(path string) ValidationError {
	return ValidationError{
		Kind:    KindStructure,
		Path:    path,
		Message: fmt.Sprintf("Required element missing: %s", path),
	}
}

func invalidValue(path, expected, actual string) ValidationError {
	return ValidationError{
		Kind:    KindContent,
		Path:    path,
		Message: fmt.Sprintf("Invalid value for %s. Expected: '%s', Found: '%s'", path, expected, actual),
	}
}

func rootElementMismatch(actual, expected string) ValidationError {
	return ValidationError{
		Kind:    KindRoot,
		Message: fmt.Sprintf("Root element is '%s' but expected '%s'", actual, expected),
	}
}

func rootContentMismatch(actual, expected string) ValidationError {
	return ValidationError{
		Kind:    KindRoot,
		Message: fmt.Sprintf("Root content is '%s' but expected '%s'", actual, expected),
	}
}

func formatError(path, description string) ValidationError {
	if description == "" {
		description = "Invalid format"
	}

	return ValidationError{
		Kind:    KindFormat,
		Path:    path,
		Message: fmt.Sprintf("Format error for %s: %s", path, description),
	}
}

func invalidPattern(path string, err error) ValidationError {
	return ValidationError{
		Kind:    KindFormat,
		Path:    path,
		Message: fmt.Sprintf("Invalid pattern for %s: %s", path, err),
	}
}

// attribute prefixes a message with the name of the validator that produced it.
func attribute(name, message string) string {
	return fmt.Sprintf("[%s] %s", name, message)
}

func messages(errs []ValidationError) []string {
	out := make([]string, 0, len(errs))
	for _, err := range errs {
		out = append(out, err.Message)
	}

	return out
}

package xmltree

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// SyntaxError is a well-formedness fault that prevents building a tree.
type SyntaxError struct {
	Message string
}

func (e *SyntaxError) Error() string {
	return e.Message
}

const maxSnippet = 32

// xmlURL is the namespace the reserved xml prefix is bound to.
const xmlURL = "http://www.w3.org/XML/1998/namespace"

// scanResult is what a strict token pass learns about a document.
type scanResult struct {
	warnings []string

	// undeclared is set when an element uses a namespace prefix that is never
	// declared; the tree parser rejects such documents as they are.
	undeclared bool
}

// scan tokenizes text once with a strict decoder. It returns the first
// well-formedness fault, or the warnings for content found outside of the root
// element and for undeclared namespace prefixes.
func scan(text string) (scanResult, error) {
	decoder := newDecoder(text)

	var (
		result     scanResult
		depth      int
		rootClosed bool
		scopes     [][]string
		reported   = map[string]struct{}{}
	)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return result, nil
		}
		if err != nil {
			return scanResult{}, &SyntaxError{Message: err.Error()}
		}

		switch tok := tok.(type) {
		case xml.StartElement:
			if depth == 0 && rootClosed {
				result.warnings = append(result.warnings, fmt.Sprintf("Extra content at the end of the document: <%s>", tok.Name.Local))
			}
			depth++

			scopes = append(scopes, declarations(tok))
			if prefix := tok.Name.Space; prefix != "" && !declared(scopes, prefix) {
				result.undeclared = true
				if _, ok := reported[prefix]; !ok {
					reported[prefix] = struct{}{}
					result.warnings = append(result.warnings, fmt.Sprintf("Namespace prefix %s on %s is not defined", prefix, tok.Name.Local))
				}
			}

		case xml.EndElement:
			depth--
			scopes = scopes[:len(scopes)-1]
			if depth == 0 {
				rootClosed = true
			}

		case xml.CharData:
			if depth == 0 {
				if trimmed := strings.TrimSpace(string(tok)); trimmed != "" {
					result.warnings = append(result.warnings, fmt.Sprintf("Text content outside the root element: %q", snippet(trimmed)))
				}
			}
		}
	}
}

// normalize re-encodes a document that scan accepted so that every element
// namespace is declared. Undeclared prefixes become namespaces of their own;
// local names, attributes and text are preserved.
func normalize(text string) (string, error) {
	decoder := newDecoder(text)

	var buf bytes.Buffer
	encoder := xml.NewEncoder(&buf)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.ProcInst:
			if t.Target == "xml" {
				// The output is UTF-8 whatever the input declared.
				continue
			}

		case xml.StartElement:
			attrs := t.Attr[:0:0]
			for _, attr := range t.Attr {
				if attr.Name.Space != "xmlns" && !(attr.Name.Space == "" && attr.Name.Local == "xmlns") {
					attrs = append(attrs, attr)
				}
			}
			t.Attr = attrs
			tok = t
		}

		if err := encoder.EncodeToken(tok); err != nil {
			return "", err
		}
	}

	if err := encoder.Flush(); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func newDecoder(text string) *xml.Decoder {
	decoder := xml.NewDecoder(strings.NewReader(text))
	decoder.CharsetReader = charset.NewReaderLabel
	return decoder
}

// declarations returns the namespace names an element declares. The decoder
// has already resolved declared prefixes on the element itself to these names.
func declarations(start xml.StartElement) []string {
	var names []string
	for _, attr := range start.Attr {
		if attr.Name.Space == "xmlns" || (attr.Name.Space == "" && attr.Name.Local == "xmlns") {
			names = append(names, attr.Value)
		}
	}

	return names
}

// declared reports whether space is a namespace name in scope. The decoder
// leaves an undeclared prefix in place of the namespace name.
func declared(scopes [][]string, space string) bool {
	if space == xmlURL {
		return true
	}

	for _, scope := range scopes {
		for _, name := range scope {
			if name == space {
				return true
			}
		}
	}

	return false
}

func snippet(s string) string {
	if len(s) <= maxSnippet {
		return s
	}

	return s[:maxSnippet] + "..."
}

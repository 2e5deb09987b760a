package xmltree

import (
	"strings"

	"github.com/antchfx/xmlquery"
)

// Tree is a parsed, read-only XML document.
type Tree struct {
	doc  *xmlquery.Node
	root *Node
}

// Node is an element (or attribute) of a parsed document.
type Node struct {
	node *xmlquery.Node
}

// Parse parses text into a tree using strict well-formedness rules. Faults are
// returned as a *SyntaxError. Non-fatal problems that do not prevent building a
// tree are returned as warnings; an element with an undeclared namespace prefix
// is one of them and still resolves by its local name.
func Parse(text string) (*Tree, []string, error) {
	scanned, err := scan(text)
	if err != nil {
		return nil, nil, err
	}

	if scanned.undeclared {
		if text, err = normalize(text); err != nil {
			return nil, nil, &SyntaxError{Message: err.Error()}
		}
	}

	doc, err := xmlquery.Parse(strings.NewReader(text))
	if err != nil {
		return nil, nil, treeError(err)
	}

	tree := &Tree{doc: doc}
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			tree.root = &Node{node: n}
			break
		}
	}

	if tree.root == nil {
		return nil, nil, &SyntaxError{Message: "document is empty"}
	}

	return tree, scanned.warnings, nil
}

// treeError reports a tree parser failure without the parser's own prefix.
func treeError(err error) *SyntaxError {
	return &SyntaxError{Message: strings.TrimPrefix(err.Error(), "xmlquery: ")}
}

// Root returns the document's top-level element, or nil if there is none.
func (t *Tree) Root() *Node {
	if t == nil {
		return nil
	}

	return t.root
}

// Resolve returns the first node matching path anywhere in the document. Paths
// are relative (e.g. "SvcLvl/Prtry") unless they start with a slash. Element
// names match on local name, so documents using a default namespace resolve the
// same as documents without one. A path that does not compile resolves to nil.
func (t *Tree) Resolve(path string) *Node {
	if t == nil || path == "" {
		return nil
	}

	n, err := xmlquery.Query(t.doc, Expression(path))
	if err != nil || n == nil {
		return nil
	}

	return &Node{node: n}
}

// Exists reports whether path resolves to at least one node.
func (t *Tree) Exists(path string) bool {
	return t.Resolve(path) != nil
}

// Name returns the node's local name.
func (n *Node) Name() string {
	return n.node.Data
}

// Text returns the concatenated text content of the node and its descendants.
func (n *Node) Text() string {
	return n.node.InnerText()
}

// Expression converts a rule path into the XPath expression used to resolve it.
func Expression(path string) string {
	if strings.HasPrefix(path, "/") {
		return path
	}

	return "//" + path
}

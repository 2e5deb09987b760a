package reader

// StdinPath is the path argument that selects standard input.
const StdinPath = "-"

// Document holds the text of one payment message and where it was read from.
type Document struct {
	Path string
	Text string
}

// Name returns a display name for the document.
func (d Document) Name() string {
	if d.Path == StdinPath {
		return "<stdin>"
	}

	return d.Path
}

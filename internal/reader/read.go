package reader

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Extension is the file extension of documents picked up from directories.
const Extension = ".xml"

// Read reads a whole document from r.
func Read(r io.Reader, path string) (Document, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return Document{}, errors.Wrapf(err, "read %s", path)
	}

	return Document{Path: path, Text: string(content)}, nil
}

// ReadFile reads a whole document from disk.
func ReadFile(path string) (Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return Document{}, errors.Wrap(err, "open document")
	}
	defer file.Close()

	return Read(file, path)
}

// Expand resolves directories to the documents directly inside them, sorted by
// name. Files and the stdin path are returned as given.
func Expand(paths []string) ([]string, error) {
	var expanded []string
	for _, path := range paths {
		if path == StdinPath {
			expanded = append(expanded, path)
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, errors.Wrap(err, "stat document")
		}

		if !info.IsDir() {
			expanded = append(expanded, path)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, errors.Wrap(err, "read document directory")
		}

		var names []string
		for _, entry := range entries {
			if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), Extension) {
				names = append(names, filepath.Join(path, entry.Name()))
			}
		}

		sort.Strings(names)
		expanded = append(expanded, names...)
	}

	return expanded, nil
}

// ReadPaths reads every document named by paths. Directories contribute their
// .xml files; the path "-" reads stdin once.
func ReadPaths(paths []string, stdin io.Reader) ([]Document, error) {
	expanded, err := Expand(paths)
	if err != nil {
		return nil, err
	}

	var (
		documents []Document
		readStdin bool
	)

	for _, path := range expanded {
		if path == StdinPath {
			if readStdin {
				continue
			}

			readStdin = true
			document, err := Read(stdin, path)
			if err != nil {
				return nil, err
			}

			documents = append(documents, document)
			continue
		}

		document, err := ReadFile(path)
		if err != nil {
			return nil, err
		}

		documents = append(documents, document)
	}

	return documents, nil
}

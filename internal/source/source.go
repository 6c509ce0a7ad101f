// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source loads documents from files or standard input and writes
// transformed text back out. It is the only place that touches encodings:
// input that is not valid UTF-8 is decoded as ISO-8859-1.
package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/pdiddy/textfile-editor/pkg/types"
)

// StdinPath is the path that selects standard input.
const StdinPath = "-"

// ErrNoInput is returned when neither a path nor a stdin reader is given.
var ErrNoInput = errors.New("no input: provide a file path or pipe text on stdin")

// Load reads a document from path. An empty path or "-" reads from stdin,
// which must then be non-nil.
func Load(path string, stdin io.Reader) (*types.Document, error) {
	if path == "" || path == StdinPath {
		if stdin == nil {
			return nil, ErrNoInput
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return newDocument(StdinPath, "stdin", data)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return newDocument(path, filepath.Base(path), data)
}

// LoadString wraps in-memory text as a document.
func LoadString(name, content string) *types.Document {
	return &types.Document{
		Path:    name,
		Name:    name,
		Content: content,
		Size:    int64(len(content)),
	}
}

func newDocument(path, name string, data []byte) (*types.Document, error) {
	doc := &types.Document{
		Path: path,
		Name: name,
		Size: int64(len(data)),
	}
	if utf8.Valid(data) {
		doc.Content = string(data)
		return doc, nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s as latin-1: %w", name, err)
	}
	doc.Content = string(decoded)
	doc.Latin1 = true
	return doc, nil
}

// Save writes content to path through a temporary file in the same
// directory, so readers never observe a partially written file.
func Save(path, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := io.WriteString(tmp, content); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("setting mode on %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

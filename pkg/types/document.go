// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Document holds loaded text and where it came from.
type Document struct {
	// Path is the file the content was read from, or "-" for stdin.
	Path string `json:"path" yaml:"path"`

	// Name is the base name shown to the user ("stdin" for piped input).
	Name string `json:"name" yaml:"name"`

	// Content is the full decoded text.
	Content string `json:"-" yaml:"-"`

	// Size is the length of the raw input in bytes.
	Size int64 `json:"size" yaml:"size"`

	// Latin1 is true when the input was not valid UTF-8 and was decoded
	// as ISO-8859-1.
	Latin1 bool `json:"latin1,omitempty" yaml:"latin1,omitempty"`
}

// HistoryEntry records one transform run over a document.
type HistoryEntry struct {
	// ID is a random UUID assigned when the entry is recorded.
	ID string `json:"id" yaml:"id"`

	// Source is the document path ("-" for stdin).
	Source string `json:"source" yaml:"source"`

	// Operation is the command that produced the entry (extract, pad, watch, view).
	Operation string `json:"operation" yaml:"operation"`

	// Mode is the extraction mode in effect.
	Mode ExtractionMode `json:"mode" yaml:"mode"`

	// Lines is the number of lines in the input.
	Lines int `json:"lines" yaml:"lines"`

	// Changed is the number of lines whose text differs after the transform.
	Changed int `json:"changed" yaml:"changed"`

	// Fallbacks is the number of lines returned verbatim after a failed extraction.
	Fallbacks int `json:"fallbacks" yaml:"fallbacks"`

	// BytesIn and BytesOut are the input and output sizes.
	BytesIn  int64 `json:"bytes_in" yaml:"bytes_in"`
	BytesOut int64 `json:"bytes_out" yaml:"bytes_out"`

	// ProcessedAt is when the transform ran.
	ProcessedAt time.Time `json:"processed_at" yaml:"processed_at"`
}

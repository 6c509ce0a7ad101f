// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package transform extracts JSON and message payloads from structured log
// lines. The transform is line-oriented: content is split on '\n', every line
// is rewritten independently, and the lines are joined back with '\n', so the
// output always has as many lines as the input.
//
// A line is rewritten only when it holds a brace pair (its first '{' before
// its last '}'). The text between the braces is then narrowed to the value of
// the trailing message field using literal labels rather than a JSON parser,
// which keeps the transform tolerant of malformed or nested payloads. Lines
// that cannot be narrowed are returned verbatim.
package transform

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/textfile-editor/pkg/types"
)

// ErrInvalidArgument is returned when no content is supplied.
var ErrInvalidArgument = errors.New("invalid argument: content is nil")

const lineSep = "\n"

// Extractor applies the per-line extraction rule. It holds no mutable state
// and is safe for concurrent use.
type Extractor struct {
	cfg types.ExtractionConfig
}

// New returns an Extractor for cfg. Empty labels in message mode and empty
// strip fragments are rejected.
func New(cfg types.ExtractionConfig) (*Extractor, error) {
	mode, err := types.ParseMode(string(cfg.Mode))
	if err != nil {
		return nil, err
	}
	cfg.Mode = mode
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("extraction config: %w", err)
	}
	fragments := make([]string, len(cfg.StripFragments))
	copy(fragments, cfg.StripFragments)
	cfg.StripFragments = fragments
	return &Extractor{cfg: cfg}, nil
}

// Default returns an Extractor using types.DefaultExtractionConfig.
func Default() *Extractor {
	return &Extractor{cfg: types.DefaultExtractionConfig()}
}

// Mode returns the extraction mode in effect.
func (e *Extractor) Mode() types.ExtractionMode {
	return e.cfg.Mode
}

// WithMode returns a copy of e that uses mode.
func (e *Extractor) WithMode(mode types.ExtractionMode) *Extractor {
	cfg := e.cfg
	cfg.Mode = mode
	return &Extractor{cfg: cfg}
}

// Result is the outcome of transforming a whole document.
type Result struct {
	// Text is the transformed content.
	Text string

	// Lines is the number of '\n'-separated segments in the input.
	Lines int

	// Changed counts lines whose text differs from the input.
	Changed int

	// Fallbacks counts lines that held a brace pair but could not be
	// narrowed and were returned verbatim.
	Fallbacks int
}

// Transform rewrites every line of content. A nil content is rejected with
// ErrInvalidArgument before any processing; an empty content is returned as
// is.
func (e *Extractor) Transform(content *string) (string, error) {
	res, err := e.TransformStats(content)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// TransformStats is Transform with per-document counters.
func (e *Extractor) TransformStats(content *string) (Result, error) {
	if content == nil {
		return Result{}, ErrInvalidArgument
	}
	if *content == "" {
		return Result{Text: "", Lines: 1}, nil
	}

	lines := strings.Split(*content, lineSep)
	res := Result{Lines: len(lines)}
	for i, line := range lines {
		r := e.extract(line)
		switch r.outcome {
		case outcomeFallback:
			res.Fallbacks++
		case outcomeExtracted:
			if r.text != line {
				res.Changed++
			}
		}
		lines[i] = r.text
	}
	res.Text = strings.Join(lines, lineSep)
	return res, nil
}

// ExtractLine applies the per-line rule to a single line. line must not
// contain '\n'.
func (e *Extractor) ExtractLine(line string) string {
	return e.extract(line).text
}

// Transform rewrites content with the default label-narrowing extractor.
func Transform(content *string) (string, error) {
	return Default().Transform(content)
}

// Pad inserts an empty line after every line break.
func Pad(content *string) (string, error) {
	if content == nil {
		return "", ErrInvalidArgument
	}
	if *content == "" {
		return "", nil
	}
	return strings.ReplaceAll(*content, lineSep, lineSep+lineSep), nil
}

// CountLines returns the number of '\n'-separated segments in s. The empty
// string is one (empty) line.
func CountLines(s string) int {
	return strings.Count(s, lineSep) + 1
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transform

import (
	"strings"

	"github.com/pdiddy/textfile-editor/pkg/types"
)

type lineOutcome int

const (
	// outcomeUnchanged: no brace pair, the line passes through.
	outcomeUnchanged lineOutcome = iota
	// outcomeExtracted: text holds the extracted payload.
	outcomeExtracted
	// outcomeFallback: a brace pair was found but narrowing failed;
	// text holds the original line.
	outcomeFallback
)

// lineResult is the per-line outcome. Failed narrowing is an expected
// result of heuristic slicing, so it is reported here instead of as an error.
type lineResult struct {
	text    string
	outcome lineOutcome
}

func unchanged(line string) lineResult { return lineResult{text: line, outcome: outcomeUnchanged} }
func extracted(text string) lineResult { return lineResult{text: text, outcome: outcomeExtracted} }
func fallback(line string) lineResult  { return lineResult{text: line, outcome: outcomeFallback} }

func (e *Extractor) extract(line string) lineResult {
	open := strings.IndexByte(line, '{')
	end := strings.LastIndexByte(line, '}')
	if open < 0 || end < 0 || open >= end {
		return unchanged(line)
	}
	body := line[open+1 : end]

	if e.cfg.Mode == types.ModeBraces {
		return extracted(body)
	}

	msg, ok := e.narrow(body)
	if !ok {
		return fallback(line)
	}
	return extracted(e.strip(msg))
}

// narrow slices body down to the message value. Without a message label the
// body is returned whole. ok is false when splitting on a label leaves no
// non-empty segment, i.e. the text consists of nothing but the label.
func (e *Extractor) narrow(body string) (msg string, ok bool) {
	label := e.cfg.MessageLabel
	i := strings.LastIndex(body, label)
	if i < 0 {
		return body, true
	}
	if onlyLabel(body, label) {
		return "", false
	}
	candidate := body[i+len(label):]

	if ts := e.cfg.TimestampLabel; ts != "" {
		if onlyLabel(candidate, ts) {
			return "", false
		}
		if before, _, found := strings.Cut(candidate, ts); found {
			// The timestamp label carries the closing quote of the value.
			return strings.TrimPrefix(before, `"`), true
		}
	}

	// A candidate that is exactly one quoted value loses both quotes.
	if len(candidate) >= 2 && candidate[0] == '"' && candidate[len(candidate)-1] == '"' &&
		strings.Count(candidate, `"`) == 2 {
		return candidate[1 : len(candidate)-1], true
	}
	return strings.TrimPrefix(candidate, `"`), true
}

func (e *Extractor) strip(s string) string {
	for _, f := range e.cfg.StripFragments {
		s = strings.ReplaceAll(s, f, "")
	}
	return s
}

// onlyLabel reports whether s is one or more repetitions of label.
func onlyLabel(s, label string) bool {
	return s != "" && strings.ReplaceAll(s, label, "") == ""
}

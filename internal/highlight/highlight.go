// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package highlight colours extracted payloads for terminal output.
package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlighter renders text with ANSI colours using a JSON lexer.
type Highlighter struct {
	lexer     chroma.Lexer
	style     *chroma.Style
	formatter chroma.Formatter
}

// New returns a Highlighter for the named chroma style. Unknown style names
// fall back to chroma's default style.
func New(style string) *Highlighter {
	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	s := styles.Get(style)
	if s == nil {
		s = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}
	return &Highlighter{lexer: chroma.Coalesce(lexer), style: s, formatter: formatter}
}

// Text highlights text. On a lexer or formatter error the input is returned
// unchanged so highlighting never hides content.
func (h *Highlighter) Text(text string) string {
	iterator, err := h.lexer.Tokenise(nil, text)
	if err != nil {
		return text
	}
	var buf strings.Builder
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		return text
	}
	return buf.String()
}

// Lines highlights each line on its own, so a malformed line cannot bleed
// lexer state into its neighbours. The line count is preserved.
func (h *Highlighter) Lines(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		// The lexer terminates its input with a newline; drop it.
		lines[i] = strings.ReplaceAll(h.Text(line), "\n", "")
	}
	return strings.Join(lines, "\n")
}

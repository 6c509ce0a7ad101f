// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// ExtractionMode selects the per-line extraction rule.
type ExtractionMode string

const (
	// ModeMessage slices the brace body, then narrows it to the value of the
	// trailing message field using literal labels.
	ModeMessage ExtractionMode = "message"

	// ModeBraces returns the brace body as is.
	ModeBraces ExtractionMode = "braces"
)

// Modes lists every supported extraction mode in cycling order.
var Modes = []ExtractionMode{ModeMessage, ModeBraces}

// ParseMode converts a flag or config value into an ExtractionMode.
// The empty string selects ModeMessage.
func ParseMode(s string) (ExtractionMode, error) {
	switch ExtractionMode(s) {
	case "", ModeMessage:
		return ModeMessage, nil
	case ModeBraces:
		return ModeBraces, nil
	default:
		return "", fmt.Errorf("unknown extraction mode %q: use message or braces", s)
	}
}

// Next returns the mode that follows m in Modes, wrapping around.
func (m ExtractionMode) Next() ExtractionMode {
	for i, mode := range Modes {
		if mode == m {
			return Modes[(i+1)%len(Modes)]
		}
	}
	return ModeMessage
}

const (
	// DefaultMessageLabel marks the start of the message value inside a body.
	DefaultMessageLabel = `message":`

	// DefaultTimestampLabel marks the end of the message value.
	DefaultTimestampLabel = `","utc_time_stamp":`
)

// DefaultStripFragments are deleted from every extracted message.
var DefaultStripFragments = []string{"requestId: |", "responseId: |", "eventId: |"}

// ExtractionConfig holds settings for the line extractor.
type ExtractionConfig struct {
	// Mode selects the per-line rule: message (default) or braces.
	Mode ExtractionMode `json:"mode" yaml:"mode" mapstructure:"mode"`

	// MessageLabel is the literal fragment whose last occurrence starts the
	// message value (default `message":`).
	MessageLabel string `json:"message_label" yaml:"message_label" mapstructure:"message_label"`

	// TimestampLabel is the literal fragment that ends the message value
	// (default `","utc_time_stamp":`).
	TimestampLabel string `json:"timestamp_label" yaml:"timestamp_label" mapstructure:"timestamp_label"`

	// StripFragments are removed from every extracted message.
	StripFragments []string `json:"strip_fragments" yaml:"strip_fragments" mapstructure:"strip_fragments"`
}

// DefaultExtractionConfig returns the label-narrowing configuration.
func DefaultExtractionConfig() ExtractionConfig {
	fragments := make([]string, len(DefaultStripFragments))
	copy(fragments, DefaultStripFragments)
	return ExtractionConfig{
		Mode:           ModeMessage,
		MessageLabel:   DefaultMessageLabel,
		TimestampLabel: DefaultTimestampLabel,
		StripFragments: fragments,
	}
}

// Validate reports configuration values the extractor cannot work with.
func (c ExtractionConfig) Validate() error {
	if _, err := ParseMode(string(c.Mode)); err != nil {
		return err
	}
	if c.Mode == ModeMessage && c.MessageLabel == "" {
		return fmt.Errorf("message_label must not be empty in message mode")
	}
	for i, f := range c.StripFragments {
		if f == "" {
			return fmt.Errorf("strip_fragments[%d] must not be empty", i)
		}
	}
	return nil
}

// ShareConfig holds settings for shareable URLs.
type ShareConfig struct {
	// BaseURL is the address of the browser editor (default http://localhost:5000).
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// WarnLength is the URL length above which a warning is printed (default 2048).
	WarnLength int `json:"warn_length" yaml:"warn_length" mapstructure:"warn_length"`
}

// HistoryConfig holds settings for the processing history database.
type HistoryConfig struct {
	// Enabled controls whether processed documents are recorded.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Path is the SQLite database file. Empty selects
	// ~/.local/share/textfile-editor/history.db.
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// Keep is the number of most recent entries retained (default 500, 0 keeps all).
	Keep int `json:"keep" yaml:"keep" mapstructure:"keep"`
}

// ViewerConfig holds settings for the terminal viewer.
type ViewerConfig struct {
	// Highlight enables JSON syntax highlighting of transformed lines.
	Highlight bool `json:"highlight" yaml:"highlight" mapstructure:"highlight"`

	// Style is the chroma style name (default "friendly").
	Style string `json:"style" yaml:"style" mapstructure:"style"`
}

// WatchConfig holds settings for the file watcher.
type WatchConfig struct {
	// Debounce is the quiet period after a write before re-running (default 250ms).
	Debounce time.Duration `json:"debounce" yaml:"debounce" mapstructure:"debounce"`
}

// EditorConfig groups every component configuration.
type EditorConfig struct {
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction" mapstructure:"extraction"`
	Share      ShareConfig      `json:"share" yaml:"share" mapstructure:"share"`
	History    HistoryConfig    `json:"history" yaml:"history" mapstructure:"history"`
	Viewer     ViewerConfig     `json:"viewer" yaml:"viewer" mapstructure:"viewer"`
	Watch      WatchConfig      `json:"watch" yaml:"watch" mapstructure:"watch"`
}

// DefaultEditorConfig returns the configuration used when no file or
// environment overrides are present.
func DefaultEditorConfig() EditorConfig {
	return EditorConfig{
		Extraction: DefaultExtractionConfig(),
		Share: ShareConfig{
			BaseURL:    "http://localhost:5000",
			WarnLength: 2048,
		},
		History: HistoryConfig{
			Enabled: true,
			Keep:    500,
		},
		Viewer: ViewerConfig{
			Highlight: true,
			Style:     "friendly",
		},
		Watch: WatchConfig{
			Debounce: 250 * time.Millisecond,
		},
	}
}

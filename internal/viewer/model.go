// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package viewer is the interactive terminal viewer: a scrollable document
// that toggles between the original text and its extracted form.
package viewer

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pdiddy/textfile-editor/internal/highlight"
	"github.com/pdiddy/textfile-editor/internal/transform"
	"github.com/pdiddy/textfile-editor/pkg/types"
)

// Mode identifies the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
)

// DocumentMsg replaces the displayed document, e.g. after the file changed
// on disk.
type DocumentMsg struct {
	Doc *types.Document
}

// ErrorMsg carries an error to show in the status bar.
type ErrorMsg struct {
	Err error
}

// Options configures a Model.
type Options struct {
	// Highlighter colours extracted text. Nil disables highlighting.
	Highlighter *highlight.Highlighter

	// Copy writes text to the system clipboard. Nil selects
	// clipboard.WriteAll.
	Copy func(string) error
}

// Model is the root Bubble Tea model.
type Model struct {
	doc       *types.Document
	extractor *transform.Extractor
	result    transform.Result

	showOriginal bool
	highlighter  *highlight.Highlighter
	copy         func(string) error

	viewport viewport.Model
	search   textinput.Model
	mode     Mode
	ready    bool
	width    int
	height   int

	query    string
	matches  []int
	matchIdx int

	statusMsg string
}

// New creates a viewer for doc.
func New(doc *types.Document, e *transform.Extractor, opts Options) Model {
	si := textinput.New()
	si.Placeholder = "search..."
	si.CharLimit = 128

	cp := opts.Copy
	if cp == nil {
		cp = clipboard.WriteAll
	}

	m := Model{
		doc:         doc,
		extractor:   e,
		highlighter: opts.Highlighter,
		copy:        cp,
		search:      si,
	}
	m.retransform()
	return m
}

// Init sets the window title.
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("textfile-editor: " + m.doc.Name)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h := max(msg.Height-chromeHeight, 1)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, h)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = h
		}
		m.refresh()
		return m, nil

	case DocumentMsg:
		prev := m.doc
		m.doc = msg.Doc
		if !m.retransform() {
			m.doc = prev
			return m, nil
		}
		m.refresh()
		m.statusMsg = "reloaded"
		return m, nil

	case ErrorMsg:
		m.statusMsg = "error: " + msg.Err.Error()
		return m, nil

	case tea.KeyMsg:
		if m.mode == ModeSearch {
			return m.handleSearchKey(msg)
		}
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "t":
		m.showOriginal = !m.showOriginal
		m.refresh()
		if m.showOriginal {
			m.statusMsg = "showing original"
		} else {
			m.statusMsg = "showing extracted"
		}
		return m, nil

	case "m":
		m.extractor = m.extractor.WithMode(m.extractor.Mode().Next())
		m.retransform()
		m.refresh()
		m.statusMsg = "mode: " + string(m.extractor.Mode())
		return m, nil

	case "/":
		m.mode = ModeSearch
		m.search.SetValue(m.query)
		cmd := m.search.Focus()
		return m, cmd

	case "n":
		m.jump(1)
		return m, nil

	case "N":
		m.jump(-1)
		return m, nil

	case "c":
		if err := m.copy(m.currentText()); err != nil {
			m.statusMsg = "copy failed: " + err.Error()
		} else {
			m.statusMsg = fmt.Sprintf("copied %d lines", transform.CountLines(m.currentText()))
		}
		return m, nil

	case "g", "home":
		m.viewport.GotoTop()
		return m, nil

	case "G", "end":
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		m.search.Blur()
		return m, nil

	case "enter":
		m.mode = ModeNormal
		m.search.Blur()
		m.query = m.search.Value()
		m.findMatches()
		m.matchIdx = -1
		m.jump(1)
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

// retransform recomputes the extracted text for the current document and
// mode. On failure the error is left in the status bar and false returned.
func (m *Model) retransform() bool {
	if m.doc == nil {
		m.statusMsg = "error: " + transform.ErrInvalidArgument.Error()
		return false
	}
	res, err := m.extractor.TransformStats(&m.doc.Content)
	if err != nil {
		m.statusMsg = "error: " + err.Error()
		return false
	}
	m.result = res
	m.findMatches()
	return true
}

// currentText is the plain text being displayed.
func (m Model) currentText() string {
	if m.showOriginal {
		return m.doc.Content
	}
	return m.result.Text
}

// refresh pushes the current text into the viewport.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	text := m.currentText()
	if !m.showOriginal && m.highlighter != nil {
		text = m.highlighter.Lines(text)
	}
	m.viewport.SetContent(text)
	m.findMatches()
}

// findMatches records the line numbers that contain the query.
func (m *Model) findMatches() {
	m.matches = nil
	if m.query == "" {
		return
	}
	q := strings.ToLower(m.query)
	for i, line := range strings.Split(m.currentText(), "\n") {
		if strings.Contains(strings.ToLower(line), q) {
			m.matches = append(m.matches, i)
		}
	}
	if m.matchIdx >= len(m.matches) {
		m.matchIdx = len(m.matches) - 1
	}
}

// jump moves to the next (dir > 0) or previous match, wrapping around.
func (m *Model) jump(dir int) {
	if m.query == "" {
		return
	}
	if len(m.matches) == 0 {
		m.statusMsg = fmt.Sprintf("no match for %q", m.query)
		return
	}
	m.matchIdx = (m.matchIdx + dir + len(m.matches)) % len(m.matches)
	m.viewport.SetYOffset(m.matches[m.matchIdx])
	m.statusMsg = fmt.Sprintf("match %d/%d", m.matchIdx+1, len(m.matches))
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package viewer

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/textfile-editor/internal/source"
	"github.com/pdiddy/textfile-editor/internal/transform"
	"github.com/pdiddy/textfile-editor/pkg/types"
)

const sample = `10:00 INFO {"message":"alpha","utc_time_stamp":1}
plain line
10:01 INFO {"message":"beta","utc_time_stamp":2}`

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, copied *string) Model {
	t.Helper()
	m := New(source.LoadString("app.log", sample), transform.Default(), Options{
		Copy: func(s string) error {
			if copied == nil {
				return errors.New("no clipboard")
			}
			*copied = s
			return nil
		},
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	return updated.(Model)
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		var ok bool
		m, ok = updated.(Model)
		require.True(t, ok)
	}
	return m
}

func TestNew_TransformsDocument(t *testing.T) {
	m := newTestModel(t, nil)
	assert.Equal(t, "alpha\nplain line\nbeta", m.currentText())
	assert.Equal(t, 3, m.result.Lines)
	assert.Equal(t, 2, m.result.Changed)
}

func TestToggleOriginal(t *testing.T) {
	m := newTestModel(t, nil)
	m = send(t, m, key("t"))
	assert.True(t, m.showOriginal)
	assert.Equal(t, sample, m.currentText())
	assert.Contains(t, m.View(), "original")

	m = send(t, m, key("t"))
	assert.False(t, m.showOriginal)
	assert.Contains(t, m.View(), "extracted")
}

func TestCycleMode(t *testing.T) {
	m := newTestModel(t, nil)
	m = send(t, m, key("m"))
	assert.Equal(t, types.ModeBraces, m.extractor.Mode())
	assert.True(t, strings.HasPrefix(m.currentText(), `"message":"alpha"`))

	m = send(t, m, key("m"))
	assert.Equal(t, types.ModeMessage, m.extractor.Mode())
}

func TestSearch(t *testing.T) {
	m := newTestModel(t, nil)
	m = send(t, m, key("/"))
	assert.Equal(t, ModeSearch, m.mode)

	m = send(t, m, key("b"), key("e"), key("t"), key("a"), key("enter"))
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, "beta", m.query)
	assert.Equal(t, []int{2}, m.matches)
	assert.Equal(t, "match 1/1", m.statusMsg)

	m = send(t, m, key("/"), key("esc"))
	assert.Equal(t, ModeNormal, m.mode)

	m = send(t, m, key("/"))
	m.search.SetValue("missing")
	m = send(t, m, key("enter"))
	assert.Contains(t, m.statusMsg, "no match")
}

func TestCopy(t *testing.T) {
	var copied string
	m := newTestModel(t, &copied)
	m = send(t, m, key("c"))
	assert.Equal(t, "alpha\nplain line\nbeta", copied)
	assert.Equal(t, "copied 3 lines", m.statusMsg)

	failing := newTestModel(t, nil)
	failing = send(t, failing, key("c"))
	assert.Contains(t, failing.statusMsg, "copy failed")
}

func TestDocumentAndErrorMessages(t *testing.T) {
	m := newTestModel(t, nil)
	m = send(t, m, DocumentMsg{Doc: source.LoadString("app.log", `{"message":"gamma"}`)})
	assert.Equal(t, "gamma", m.currentText())
	assert.Equal(t, "reloaded", m.statusMsg)

	m = send(t, m, ErrorMsg{Err: errors.New("gone")})
	assert.Equal(t, "error: gone", m.statusMsg)
}

func TestDocumentMsg_FailedReloadKeepsError(t *testing.T) {
	m := newTestModel(t, nil)
	m = send(t, m, DocumentMsg{Doc: nil})
	assert.Contains(t, m.statusMsg, "error:")
	assert.NotEqual(t, "reloaded", m.statusMsg)
	assert.Equal(t, "alpha\nplain line\nbeta", m.currentText())
	assert.Contains(t, m.View(), "app.log")
}

func TestViewBeforeResize(t *testing.T) {
	m := New(source.LoadString("x", ""), transform.Default(), Options{})
	assert.Equal(t, "loading...", m.View())
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, nil)
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package viewer

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// chromeHeight is the number of rows used by the title and status bars.
const chromeHeight = 2

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)

	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View renders the viewer.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitle(),
		m.viewport.View(),
		m.renderStatusBar(),
	)
}

func (m Model) renderTitle() string {
	view := "extracted"
	if m.showOriginal {
		view = "original"
	}
	title := titleStyle.Render(" "+m.doc.Name+" ") +
		dimStyle.Render(fmt.Sprintf(" %s · mode %s · %s", view, m.extractor.Mode(), humanize.Bytes(uint64(m.doc.Size))))
	if m.doc.Latin1 {
		title += dimStyle.Render(" · latin-1")
	}
	return title
}

func (m Model) renderStatusBar() string {
	if m.mode == ModeSearch {
		return "/" + m.search.View()
	}

	counts := fmt.Sprintf("%s lines · %s changed · %s fallbacks · %3.0f%%",
		humanize.Comma(int64(m.result.Lines)),
		humanize.Comma(int64(m.result.Changed)),
		humanize.Comma(int64(m.result.Fallbacks)),
		m.viewport.ScrollPercent()*100,
	)
	bar := statusStyle.Render(counts)
	if m.statusMsg != "" {
		bar += " " + m.statusMsg
	}
	return bar + "  " + helpStyle.Render("t:toggle m:mode /:search n/N:next c:copy q:quit")
}

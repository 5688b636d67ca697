package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// span is one styled run of text inside a bar segment.
type span struct {
	text  string
	style lipgloss.Style
}

// statusBar lays out header segments on a single background color. Every
// span and every gap is rendered with that background, otherwise the
// reset after each span leaves holes in the bar.
type statusBar struct {
	bg       lipgloss.Color
	segments []string
}

func newStatusBar(color string) *statusBar {
	return &statusBar{bg: lipgloss.Color(color)}
}

// add appends one segment made of spans separated by single spaces. Empty
// spans are skipped; a segment with no text is dropped.
func (b *statusBar) add(spans ...span) {
	rendered := make([]string, 0, len(spans))
	for _, s := range spans {
		if s.text == "" {
			continue
		}
		rendered = append(rendered, s.style.Background(b.bg).Render(s.text))
	}
	if len(rendered) == 0 {
		return
	}
	b.segments = append(b.segments, strings.Join(rendered, b.gap(1)))
}

// render joins the segments and pads the bar to width.
func (b *statusBar) render(width int, fg string) string {
	return lipgloss.NewStyle().
		Background(b.bg).
		Foreground(lipgloss.Color(fg)).
		Width(width).
		Render(strings.Join(b.segments, b.gap(2)))
}

func (b *statusBar) gap(n int) string {
	return lipgloss.NewStyle().Background(b.bg).Render(strings.Repeat(" ", n))
}

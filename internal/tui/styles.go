package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	accent = lipgloss.Color("#FFC230")
	muted  = lipgloss.Color("#7D7D7D")
	danger = lipgloss.Color("#E5484D")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	queryStyle  = lipgloss.NewStyle().Italic(true)
	boldStyle   = lipgloss.NewStyle().Bold(true)
	italicStyle = lipgloss.NewStyle().Italic(true).Foreground(muted)
	helpStyle   = lipgloss.NewStyle().Foreground(muted)
	errorStyle  = lipgloss.NewStyle().Foreground(danger)
	statusStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1)
)

// renderMarkup renders the **bold** and _italic_ spans used in view text.
func renderMarkup(s string) string {
	var b strings.Builder
	for _, line := range strings.Split(s, "\n") {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		if len(line) > 2 && strings.HasPrefix(line, "_") && strings.HasSuffix(line, "_") {
			b.WriteString(italicStyle.Render(line[1 : len(line)-1]))
			continue
		}
		for i, part := range strings.Split(line, "**") {
			if i%2 == 1 {
				b.WriteString(boldStyle.Render(part))
			} else {
				b.WriteString(part)
			}
		}
	}
	return b.String()
}

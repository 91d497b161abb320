package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"join/internal/model"
	"join/internal/view"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2A3647"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#A8A8A8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF3D00"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#1FD7C1"))
)

var priorityStyles = map[model.Priority]lipgloss.Style{
	model.PriorityUrgent: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF3D00")).Bold(true),
	model.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA800")),
	model.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("#7AE229")),
}

func badge(b view.Badge) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color(b.Color)).
		Padding(0, 1).
		Render(b.Initials)
}

func priority(p model.Priority) string {
	if st, ok := priorityStyles[p]; ok {
		return st.Render(string(p))
	}
	return mutedStyle.Render(string(p))
}

// table renders rows as left aligned columns padded to their widest cell.
func table(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	line := func(cells []string, style *lipgloss.Style) {
		for i, cell := range cells {
			if style != nil {
				cell = style.Render(cell)
			}
			b.WriteString(lipgloss.NewStyle().Width(widths[i] + 2).Render(cell))
		}
		b.WriteString("\n")
	}
	line(header, &headerStyle)
	for _, row := range rows {
		line(row, nil)
	}
	return b.String()
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"epsconv/internal/rasterize"
)

// ModelView renders the TUI model's view as a string.
func ModelView(m model) string {
	switch m.ActiveView {
	case ViewQuitting:
		return quittingView()
	case ViewConverting:
		return convertingView(m)
	case ViewResults:
		return resultsView(m)
	default:
		return formatListView(m)
	}
}

func quittingView() string {
	return "Goodbye!\n"
}

func convertingView(m model) string {
	return lipgloss.NewStyle().Padding(1).Render(
		fmt.Sprintf("%s Converting %s ...", m.spinner.View(), m.source),
	)
}

var outcomeColors = map[rasterize.Outcome]lipgloss.Color{
	rasterize.Succeeded:            lipgloss.Color("#00FF00"),
	rasterize.SucceededWithWarning: lipgloss.Color("#FFFF00"),
	rasterize.Failed:               lipgloss.Color("#FF0000"),
}

func resultsView(m model) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FFFF"))
	instructionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

	var b strings.Builder
	b.WriteString(headerStyle.Render("Results for "+m.source) + "\n\n")

	if m.Err != nil {
		errStyle := lipgloss.NewStyle().Bold(true).Foreground(outcomeColors[rasterize.Failed])
		b.WriteString(errStyle.Render(wrapText("Error: "+m.Err.Error(), m.width-4)) + "\n")
	}
	if m.Report != nil {
		b.WriteString("Header: " + m.Report.Rewrite.String() + "\n\n")
		b.WriteString(m.table.View() + "\n")
		for _, r := range m.Report.Results {
			if r.Diagnostic == "" {
				continue
			}
			style := lipgloss.NewStyle().Foreground(outcomeColors[r.Outcome])
			b.WriteString("\n" + style.Render(r.Format+":") + "\n")
			b.WriteString(wrapText(r.Diagnostic, m.width-4) + "\n")
		}
	}
	b.WriteString("\n" + instructionStyle.Render("Enter to convert again, q to quit."))

	return lipgloss.NewStyle().Padding(1).BorderStyle(lipgloss.RoundedBorder()).Render(b.String())
}

func formatListView(m model) string {
	help := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).
		Render("space: select  enter: convert  q: quit  orientation: " + m.orientation.String())
	formatList := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#555555")).
		Padding(1).
		Render(m.list.View())

	return lipgloss.JoinVertical(lipgloss.Left, formatList, help)
}

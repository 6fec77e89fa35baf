package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"epsconv/internal/rewrite"
	"epsconv/pkg/format"
)

// wrapText wraps input text to lines no longer than maxWidth display cells.
// It wraps on word boundaries to avoid breaking words when possible.
func wrapText(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return s
	}

	var lines []string
	for _, paragraph := range strings.Split(s, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		var line strings.Builder
		lineWidth := 0
		for _, word := range words {
			wordWidth := runewidth.StringWidth(word)
			if lineWidth > 0 && lineWidth+1+wordWidth > maxWidth {
				lines = append(lines, line.String())
				line.Reset()
				lineWidth = 0
			}
			if lineWidth > 0 {
				line.WriteByte(' ')
				lineWidth++
			}
			line.WriteString(word)
			lineWidth += wordWidth
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// Init initializes the TUI model and returns any initial commands to run.
func (m model) Init() tea.Cmd {
	return nil
}

// Run launches the format picker for source. Formats in preselected start
// out checked. Cancelling ctx, or quitting mid-run, stops the conversion.
func Run(ctx context.Context, source string, conv Converter, formats []format.Format, preselected []format.Format, mode rewrite.Mode) error {
	checked := make(map[string]bool, len(preselected))
	for _, f := range preselected {
		checked[f.Name] = true
	}
	items := make([]FormatItem, 0, len(formats))
	for _, f := range formats {
		items = append(items, FormatItem{Format: f, Selected: checked[f.Name]})
	}

	m := InitialModel(items, source, mode, 24, conv)
	m.ctx = ctx
	p := tea.NewProgram(&teaModelAdapter{m})

	_, err := p.Run()
	return err
}

// teaModelAdapter adapts our model to the tea.Model interface using Update and ModelView.
type teaModelAdapter struct {
	m model
}

func (a *teaModelAdapter) Init() tea.Cmd {
	return a.m.Init()
}

func (a *teaModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m2, cmd := Update(a.m, msg)
	a.m = m2
	return a, cmd
}

func (a *teaModelAdapter) View() string {
	return ModelView(a.m)
}

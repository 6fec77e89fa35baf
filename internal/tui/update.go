package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"epsconv/internal/convert"
	"epsconv/internal/report"
)

// Message types for Bubbletea update loop
type conversionDoneMsg struct {
	report *report.Report
	err    error
}

// convertCmd returns a Bubbletea command that runs the conversion for the
// selected formats and reports back with conversionDoneMsg.
func convertCmd(m model) tea.Cmd {
	req := convert.Request{
		Source:      m.source,
		Formats:     m.selectedFormats(),
		Orientation: m.orientation,
	}
	conv, ctx := m.converter, m.runCtx
	if ctx == nil {
		ctx = m.ctx
	}
	return func() tea.Msg {
		rep, err := conv.Convert(ctx, req)
		return conversionDoneMsg{report: rep, err: err}
	}
}

// Update handles all Bubbletea update logic for the TUI model.
func Update(m model, msg tea.Msg) (model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return HandleKeyMsg(m, msg)
	case conversionDoneMsg:
		return handleConversionDone(m, msg)
	case spinner.TickMsg:
		if m.ActiveView != ViewConverting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		return handleWindowResize(m, msg)
	default:
		if m.ActiveView == ViewFormatList {
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func HandleKeyMsg(m model, msg tea.KeyMsg) (model, tea.Cmd) {
	k := msg.String()

	switch m.ActiveView {
	case ViewQuitting:
		return m, nil

	case ViewConverting:
		if k == "ctrl+c" {
			m = m.stopConversion()
			m.ActiveView = ViewQuitting
			return m, tea.Quit
		}
		return m, nil

	case ViewResults:
		switch k {
		case "ctrl+c", "q":
			m.ActiveView = ViewQuitting
			return m, tea.Quit
		case "enter", "esc":
			m.ActiveView = ViewFormatList
			return m, nil
		}
		return m, nil

	case ViewFormatList:
		switch k {
		case "ctrl+c", "q":
			m.ActiveView = ViewQuitting
			return m, tea.Quit
		case " ":
			return toggleSelected(m)
		case "enter":
			if len(m.selectedFormats()) == 0 || m.converter == nil {
				return m, nil
			}
			m.ActiveView = ViewConverting
			m.Report, m.Err = nil, nil
			m.runCtx, m.cancel = context.WithCancel(m.ctx)
			return m, tea.Batch(m.spinner.Tick, convertCmd(m))
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func toggleSelected(m model) (model, tea.Cmd) {
	fi, ok := m.list.SelectedItem().(FormatItem)
	if !ok {
		return m, nil
	}
	fi.Selected = !fi.Selected
	cmd := m.list.SetItem(m.list.Index(), fi)
	return m, cmd
}

func handleConversionDone(m model, msg conversionDoneMsg) (model, tea.Cmd) {
	m = m.stopConversion()
	m.ActiveView = ViewResults
	m.Report = msg.report
	m.Err = msg.err

	var rows []table.Row
	if msg.report != nil {
		for _, r := range msg.report.Results {
			rows = append(rows, table.Row{r.Format, r.Outcome.String(), r.OutputPath})
		}
	}
	m.table.SetRows(rows)
	return m, nil
}

func handleWindowResize(m model, msg tea.WindowSizeMsg) (model, tea.Cmd) {
	m.height = msg.Height
	m.width = msg.Width
	m.list.SetSize(msg.Width-4, max(msg.Height-8, 5))

	cols := m.table.Columns()
	if len(cols) == 3 {
		cols[2].Width = max(msg.Width-25, 10)
		m.table.SetColumns(cols)
	}
	return m, nil
}

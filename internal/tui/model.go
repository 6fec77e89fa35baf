package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"

	"epsconv/internal/convert"
	"epsconv/internal/report"
	"epsconv/internal/rewrite"
	"epsconv/pkg/format"
)

// ViewState is the screen the TUI is showing.
type ViewState int

const (
	ViewFormatList ViewState = iota
	ViewConverting
	ViewResults
	ViewQuitting
)

// Converter runs a conversion; *convert.Service satisfies it.
type Converter interface {
	Convert(ctx context.Context, req convert.Request) (*report.Report, error)
}

// FormatItem is one selectable output format in the list.
type FormatItem struct {
	Format   format.Format
	Selected bool
}

func (f FormatItem) Title() string {
	mark := " "
	if f.Selected {
		mark = "x"
	}
	return fmt.Sprintf("[%s] %s", mark, f.Format.Name)
}
func (f FormatItem) Description() string { return f.Format.String() }
func (f FormatItem) FilterValue() string { return f.Format.Name }

// model is the Bubbletea model for the TUI.
type model struct {
	list       list.Model
	spinner    spinner.Model
	table      table.Model
	ActiveView ViewState

	source      string
	orientation rewrite.Mode
	converter   Converter

	// ctx parents every conversion; runCtx and cancel belong to the one in flight.
	ctx    context.Context
	runCtx context.Context
	cancel context.CancelFunc

	Report *report.Report
	Err    error

	height int
	width  int
}

// InitialModel creates the TUI model for converting source.
func InitialModel(items []FormatItem, source string, orientation rewrite.Mode, height int, conv Converter) model {
	listItems := make([]list.Item, len(items))
	for i, it := range items {
		listItems[i] = it
	}
	defaultWidth := 80
	l := list.New(listItems, list.NewDefaultDelegate(), defaultWidth, max(height-8, 5))
	l.Title = "Convert " + source
	l.SetFilteringEnabled(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	columns := []table.Column{
		{Title: "Format", Width: 8},
		{Title: "Outcome", Width: 9},
		{Title: "Output", Width: defaultWidth - 25},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows([]table.Row{}),
		table.WithFocused(false),
		table.WithHeight(6),
	)

	return model{
		list:        l,
		spinner:     sp,
		table:       t,
		ActiveView:  ViewFormatList,
		source:      source,
		orientation: orientation,
		converter:   conv,
		ctx:         context.Background(),
		height:      height,
		width:       defaultWidth,
	}
}

// stopConversion cancels the conversion in flight, if any.
func (m model) stopConversion() model {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	return m
}

// selectedFormats returns the checked formats, or the highlighted one when
// nothing is checked.
func (m model) selectedFormats() []format.Format {
	var out []format.Format
	for _, it := range m.list.Items() {
		if fi, ok := it.(FormatItem); ok && fi.Selected {
			out = append(out, fi.Format)
		}
	}
	if len(out) == 0 {
		if fi, ok := m.list.SelectedItem().(FormatItem); ok {
			out = append(out, fi.Format)
		}
	}
	return out
}

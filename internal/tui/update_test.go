package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"epsconv/internal/convert"
	"epsconv/internal/rasterize"
	"epsconv/internal/report"
	"epsconv/internal/rewrite"
	"epsconv/pkg/format"
)

// stubConverter records the request and returns a canned report.
type stubConverter struct {
	ctx context.Context
	req convert.Request
	rep *report.Report
	err error
}

func (s *stubConverter) Convert(ctx context.Context, req convert.Request) (*report.Report, error) {
	s.ctx = ctx
	s.req = req
	return s.rep, s.err
}

func testItems() []FormatItem {
	var items []FormatItem
	for _, f := range format.All() {
		items = append(items, FormatItem{Format: f})
	}
	return items
}

// simulateKeyMsg creates a tea.KeyMsg for a given string key
func simulateKeyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{
		Type:  tea.KeyRunes,
		Runes: []rune(key),
	}
}

func TestToggleSelection(t *testing.T) {
	m := InitialModel(testItems(), "figure.eps", rewrite.Flip, 24, &stubConverter{})

	m, _ = HandleKeyMsg(m, simulateKeyMsg(" "))
	first, ok := m.list.Items()[0].(FormatItem)
	if !ok || !first.Selected {
		t.Fatalf("first item not selected after space: %+v", m.list.Items()[0])
	}
	if !strings.HasPrefix(first.Title(), "[x]") {
		t.Errorf("Title() = %q", first.Title())
	}

	m, _ = HandleKeyMsg(m, simulateKeyMsg(" "))
	if m.list.Items()[0].(FormatItem).Selected {
		t.Error("second space should deselect")
	}
}

func TestSelectedFormats_FallsBackToHighlighted(t *testing.T) {
	m := InitialModel(testItems(), "figure.eps", rewrite.NoChange, 24, &stubConverter{})
	got := m.selectedFormats()
	if len(got) != 1 || got[0].Name != format.All()[0].Name {
		t.Errorf("selectedFormats() = %+v", got)
	}
}

func TestEnterRunsConversion(t *testing.T) {
	conv := &stubConverter{
		rep: &report.Report{
			Source:  "figure.eps",
			Rewrite: rewrite.Warn(rewrite.ReasonTagNotFound),
			Results: []rasterize.Result{
				{Format: "pdf", Outcome: rasterize.SucceededWithWarning, OutputPath: "figure.pdf", Diagnostic: "header: bounding-box tag not found"},
				{Format: "png", Outcome: rasterize.Failed, OutputPath: "figure.png", Diagnostic: "exit status 1"},
			},
		},
	}
	items := testItems()
	for i := range items {
		if items[i].Format.Name == "pdf" || items[i].Format.Name == "png" {
			items[i].Selected = true
		}
	}
	m := InitialModel(items, "figure.eps", rewrite.Remove, 24, conv)

	m, cmd := HandleKeyMsg(m, simulateKeyMsg("enter"))
	if m.ActiveView != ViewConverting || cmd == nil {
		t.Fatalf("enter: view = %v, cmd nil = %v", m.ActiveView, cmd == nil)
	}

	msg := convertCmd(m)()
	if conv.req.Orientation != rewrite.Remove || len(conv.req.Formats) != 2 {
		t.Errorf("request = %+v", conv.req)
	}

	m, _ = Update(m, msg)
	if m.ActiveView != ViewResults {
		t.Fatalf("view = %v, want results", m.ActiveView)
	}
	if rows := m.table.Rows(); len(rows) != 2 || rows[1][1] != "failed" {
		t.Errorf("table rows = %v", rows)
	}

	view := ModelView(m)
	for _, want := range []string{"warning: bounding-box tag not found", "exit status 1"} {
		if !strings.Contains(view, want) {
			t.Errorf("results view missing %q:\n%s", want, view)
		}
	}

	m, _ = HandleKeyMsg(m, simulateKeyMsg("enter"))
	if m.ActiveView != ViewFormatList {
		t.Errorf("enter on results should return to list, got %v", m.ActiveView)
	}
}

func TestConversionError(t *testing.T) {
	m := InitialModel(testItems(), "missing.eps", rewrite.NoChange, 24, &stubConverter{})
	m, _ = Update(m, conversionDoneMsg{
		report: &report.Report{Rewrite: rewrite.Fail(rewrite.ReasonSourceReadFailed)},
		err:    errors.New("source document could not be read"),
	})
	if m.Err == nil || !strings.Contains(ModelView(m), "Error: source document could not be read") {
		t.Errorf("error not shown:\n%s", ModelView(m))
	}
}

func TestQuit(t *testing.T) {
	m := InitialModel(testItems(), "figure.eps", rewrite.NoChange, 24, &stubConverter{})
	m, cmd := HandleKeyMsg(m, simulateKeyMsg("q"))
	if m.ActiveView != ViewQuitting || cmd == nil {
		t.Errorf("q: view = %v", m.ActiveView)
	}
	if ModelView(m) != "Goodbye!\n" {
		t.Errorf("quitting view = %q", ModelView(m))
	}
}

func TestCtrlCCancelsRunningConversion(t *testing.T) {
	conv := &stubConverter{rep: &report.Report{Source: "figure.eps"}}
	m := InitialModel(testItems(), "figure.eps", rewrite.NoChange, 24, conv)

	m, _ = HandleKeyMsg(m, simulateKeyMsg("enter"))
	convertCmd(m)()
	if conv.ctx == nil {
		t.Fatal("converter got no context")
	}
	if err := conv.ctx.Err(); err != nil {
		t.Fatalf("conversion context should be live while converting, err = %v", err)
	}

	m, cmd := HandleKeyMsg(m, simulateKeyMsg("ctrl+c"))
	if m.ActiveView != ViewQuitting || cmd == nil {
		t.Errorf("ctrl+c: view = %v", m.ActiveView)
	}
	if !errors.Is(conv.ctx.Err(), context.Canceled) {
		t.Errorf("conversion context err = %v, want context.Canceled", conv.ctx.Err())
	}
}

func TestConversionDoneReleasesContext(t *testing.T) {
	conv := &stubConverter{rep: &report.Report{Source: "figure.eps"}}
	m := InitialModel(testItems(), "figure.eps", rewrite.NoChange, 24, conv)

	m, _ = HandleKeyMsg(m, simulateKeyMsg("enter"))
	m, _ = Update(m, convertCmd(m)())
	if m.cancel != nil || conv.ctx.Err() == nil {
		t.Errorf("finished conversion should release its context, err = %v", conv.ctx.Err())
	}
}

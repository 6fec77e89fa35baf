package rasterize_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"epsconv/internal/rasterize"
	"epsconv/internal/rewrite"
	"epsconv/pkg/format"
)

// MockRunner for testing command execution. Output and errors are keyed by
// the -sDEVICE argument so concurrent calls stay deterministic.
type MockRunner struct {
	mu      sync.Mutex
	outputs map[string]string
	errs    map[string]error
	block   time.Duration
	calls   [][]string
}

func (m *MockRunner) CombinedOutput(ctx context.Context, name string, arg ...string) ([]byte, error) {
	m.mu.Lock()
	m.calls = append(m.calls, append([]string{name}, arg...))
	m.mu.Unlock()

	if m.block > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.block):
		}
	}

	device := ""
	for _, a := range arg {
		if strings.HasPrefix(a, "-sDEVICE=") {
			device = strings.TrimPrefix(a, "-sDEVICE=")
		}
	}
	return []byte(m.outputs[device]), m.errs[device]
}

func newInvoker(runner rasterize.CommandRunner) *rasterize.Invoker {
	inv := rasterize.NewInvoker("gs", slog.New(slog.NewTextHandler(io.Discard, nil)))
	inv.Runner = runner
	inv.Concurrency = 4
	return inv
}

func mustFormats(t *testing.T, names ...string) []format.Format {
	t.Helper()
	fs, err := format.Parse(names)
	if err != nil {
		t.Fatal(err)
	}
	return fs
}

func TestInvoker_Run(t *testing.T) {
	runner := &MockRunner{
		outputs: map[string]string{
			"jpeg":     "",
			"pdfwrite": "   **** Warning: font substituted\n",
			"png16m":   "Error: /undefined in foo",
		},
		errs: map[string]error{
			"png16m": errors.New("exit status 1"),
		},
	}
	inv := newInvoker(runner)
	job := rasterize.Job{
		Input:     "/tmp/in.eps",
		OutputDir: "/out",
		BaseName:  "figure",
		Formats:   mustFormats(t, "png", "jpeg", "pdf"),
	}

	results := inv.Run(context.Background(), job)

	tests := []struct {
		format  string
		outcome rasterize.Outcome
		path    string
		diag    string
	}{
		{"png", rasterize.Failed, "/out/figure.png", "exit status 1, output: Error: /undefined in foo"},
		{"jpeg", rasterize.Succeeded, "/out/figure.jpg", ""},
		{"pdf", rasterize.SucceededWithWarning, "/out/figure.pdf", "**** Warning: font substituted"},
	}
	if len(results) != len(tests) {
		t.Fatalf("got %d results, want %d", len(results), len(tests))
	}
	for i, tt := range tests {
		r := results[i]
		if r.Format != tt.format || r.Outcome != tt.outcome || r.OutputPath != tt.path || r.Diagnostic != tt.diag {
			t.Errorf("result %d = %+v, want %+v", i, r, tt)
		}
	}
	if len(runner.calls) != 3 {
		t.Errorf("runner called %d times, want 3", len(runner.calls))
	}
}

func TestInvoker_Args(t *testing.T) {
	inv := newInvoker(&MockRunner{})
	inv.ExtraArgs = []string{"-dEPSCrop"}
	f, _ := format.Lookup("tiff")
	got := inv.Args(f, "in.eps", "out.tif")
	want := []string{"-q", "-dSAFER", "-dBATCH", "-dNOPAUSE", "-sDEVICE=tiff24nc", "-r300", "-dEPSCrop", "-sOutputFile=out.tif", "in.eps"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("Args() = %v, want %v", got, want)
	}
}

func TestInvoker_Timeout(t *testing.T) {
	runner := &MockRunner{block: time.Second}
	inv := newInvoker(runner)
	inv.Timeout = 20 * time.Millisecond

	results := inv.Run(context.Background(), rasterize.Job{
		Input: "in.eps", OutputDir: ".", BaseName: "x",
		Formats: mustFormats(t, "png"),
	})
	if results[0].Outcome != rasterize.Failed {
		t.Fatalf("Outcome = %v, want failed", results[0].Outcome)
	}
	if !strings.HasPrefix(results[0].Diagnostic, "timed out") {
		t.Errorf("Diagnostic = %q, want timeout", results[0].Diagnostic)
	}
}

func TestAnnotate(t *testing.T) {
	in := []rasterize.Result{
		{Format: "png", Outcome: rasterize.Succeeded},
		{Format: "pdf", Outcome: rasterize.SucceededWithWarning, Diagnostic: "gs says hi"},
		{Format: "jpeg", Outcome: rasterize.Failed, Diagnostic: "boom"},
	}

	same := rasterize.Annotate(in, rewrite.Status{Kind: rewrite.OK})
	if same[0].Outcome != rasterize.Succeeded {
		t.Errorf("OK status changed outcome: %+v", same[0])
	}

	got := rasterize.Annotate(in, rewrite.Warn(rewrite.ReasonTagNotFound))
	if got[0].Outcome != rasterize.SucceededWithWarning || got[0].Diagnostic != "header: bounding-box tag not found" {
		t.Errorf("png = %+v", got[0])
	}
	if got[1].Diagnostic != "header: bounding-box tag not found; gs says hi" {
		t.Errorf("pdf = %+v", got[1])
	}
	if got[2].Outcome != rasterize.Failed || got[2].Diagnostic != "boom" {
		t.Errorf("jpeg = %+v", got[2])
	}
	if in[0].Outcome != rasterize.Succeeded {
		t.Error("Annotate modified its input")
	}
}

func TestOutcome_TextRoundTrip(t *testing.T) {
	for _, o := range []rasterize.Outcome{rasterize.Failed, rasterize.SucceededWithWarning, rasterize.Succeeded} {
		b, err := o.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back rasterize.Outcome
		if err := back.UnmarshalText(b); err != nil || back != o {
			t.Errorf("round trip %v -> %q -> %v (%v)", o, b, back, err)
		}
	}
}

// Package rasterize runs Ghostscript to turn a rewritten EPS file into the
// requested output formats.
package rasterize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"epsconv/internal/rewrite"
	"epsconv/pkg/format"
)

// CommandRunner is an interface for running external commands.
type CommandRunner interface {
	CombinedOutput(ctx context.Context, name string, arg ...string) ([]byte, error)
}

// DefaultRunner implements CommandRunner using os/exec.
type DefaultRunner struct{}

func (r DefaultRunner) CombinedOutput(ctx context.Context, name string, arg ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, arg...)
	return cmd.CombinedOutput()
}

// Outcome is the tri-state result of one format conversion.
type Outcome int

const (
	Failed Outcome = iota
	SucceededWithWarning
	Succeeded
)

func (o Outcome) String() string {
	switch o {
	case Failed:
		return "failed"
	case SucceededWithWarning:
		return "warning"
	case Succeeded:
		return "ok"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// MarshalText encodes the outcome by name in reports.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (o *Outcome) UnmarshalText(b []byte) error {
	switch string(b) {
	case "failed":
		*o = Failed
	case "warning":
		*o = SucceededWithWarning
	case "ok":
		*o = Succeeded
	default:
		return fmt.Errorf("unknown outcome %q", b)
	}
	return nil
}

// Result is the outcome of converting to one format.
type Result struct {
	Format     string        `json:"format"`
	Outcome    Outcome       `json:"outcome"`
	Diagnostic string        `json:"diagnostic,omitempty"`
	OutputPath string        `json:"output_path"`
	Elapsed    time.Duration `json:"elapsed"`
}

// Job is one conversion request for the Invoker.
type Job struct {
	Input     string // rewritten EPS file
	OutputDir string
	BaseName  string // output file name without extension
	Formats   []format.Format
}

// OutputPath is where f is written for this job.
func (j Job) OutputPath(f format.Format) string {
	return filepath.Join(j.OutputDir, j.BaseName+"."+f.Extension)
}

// Invoker runs Ghostscript once per requested format.
type Invoker struct {
	Binary      string
	ExtraArgs   []string
	Timeout     time.Duration // per format; 0 disables
	Concurrency int           // concurrent invocations; <= 0 means one at a time
	Runner      CommandRunner
	Logger      *slog.Logger
}

// NewInvoker returns an Invoker for binary using os/exec.
func NewInvoker(binary string, logger *slog.Logger) *Invoker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Invoker{
		Binary:      binary,
		Concurrency: 1,
		Runner:      DefaultRunner{},
		Logger:      logger.With(slog.String("component", "rasterize")),
	}
}

// Args builds the Ghostscript argument list converting input to f at out.
func (inv *Invoker) Args(f format.Format, input, out string) []string {
	args := []string{
		"-q", "-dSAFER", "-dBATCH", "-dNOPAUSE",
		"-sDEVICE=" + f.Device,
		"-r" + strconv.Itoa(f.Resolution),
	}
	args = append(args, inv.ExtraArgs...)
	return append(args, "-sOutputFile="+out, input)
}

// Run converts job.Input into every format of job. The returned slice has one
// entry per format, in the order requested. Formats are independent: a
// failure in one never stops the others.
func (inv *Invoker) Run(ctx context.Context, job Job) []Result {
	results := make([]Result, len(job.Formats))

	var g errgroup.Group
	limit := inv.Concurrency
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, f := range job.Formats {
		i, f := i, f
		g.Go(func() error {
			results[i] = inv.convert(ctx, f, job.Input, job.OutputPath(f))
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (inv *Invoker) convert(ctx context.Context, f format.Format, input, out string) Result {
	if inv.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, inv.Timeout)
		defer cancel()
	}

	runner := inv.Runner
	if runner == nil {
		runner = DefaultRunner{}
	}
	logger := inv.logger().With(slog.String("format", f.Name), slog.String("device", f.Device))

	start := time.Now()
	output, err := runner.CombinedOutput(ctx, inv.Binary, inv.Args(f, input, out)...)
	res := Result{
		Format:     f.Name,
		OutputPath: out,
		Elapsed:    time.Since(start),
		Diagnostic: strings.TrimSpace(string(output)),
	}

	switch {
	case err != nil:
		res.Outcome = Failed
		res.Diagnostic = failureDiagnostic(ctx, err, res.Diagnostic)
		logger.Error("ghostscript failed", slog.String("error", res.Diagnostic))
	case res.Diagnostic != "":
		res.Outcome = SucceededWithWarning
		logger.Warn("ghostscript reported diagnostics", slog.String("output", res.Diagnostic))
	default:
		res.Outcome = Succeeded
		logger.Debug("converted", slog.String("output_path", out), slog.Duration("elapsed", res.Elapsed))
	}
	return res
}

func failureDiagnostic(ctx context.Context, err error, output string) string {
	msg := err.Error()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		msg = "timed out: " + msg
	}
	if output == "" {
		return msg
	}
	return fmt.Sprintf("%s, output: %s", msg, output)
}

func (inv *Invoker) logger() *slog.Logger {
	if inv.Logger == nil {
		return slog.Default()
	}
	return inv.Logger
}

// Annotate threads a rewrite warning through to every result: otherwise
// successful results are downgraded to SucceededWithWarning and the reason
// is prepended to their diagnostic. Failed results are left as they are.
func Annotate(results []Result, status rewrite.Status) []Result {
	if status.Kind != rewrite.Warning {
		return results
	}
	out := make([]Result, len(results))
	for i, r := range results {
		if r.Outcome != Failed {
			r.Outcome = SucceededWithWarning
			note := "header: " + string(status.Reason)
			if r.Diagnostic == "" {
				r.Diagnostic = note
			} else {
				r.Diagnostic = note + "; " + r.Diagnostic
			}
		}
		out[i] = r
	}
	return out
}

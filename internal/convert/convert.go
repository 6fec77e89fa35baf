// Package convert ties the header rewrite to the rasterizer: it reads the
// source document, rewrites it, materialises the result as a temporary file,
// runs every requested format against it and records a report.
package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"epsconv/internal/clock"
	"epsconv/internal/config"
	"epsconv/internal/rasterize"
	"epsconv/internal/report"
	"epsconv/internal/rewrite"
	"epsconv/pkg/format"
)

var (
	// ErrSourceRead is returned when the source document cannot be read.
	ErrSourceRead = errors.New(string(rewrite.ReasonSourceReadFailed))
	// ErrTempWrite is returned when the rewritten document cannot be written
	// for the rasterizer.
	ErrTempWrite = errors.New(string(rewrite.ReasonTempWriteFailed))
	// ErrRewrite is returned when the header rewrite itself reports an error.
	ErrRewrite = errors.New("header rewrite failed")
)

// Request describes one conversion.
type Request struct {
	Source      string
	Formats     []format.Format
	Orientation rewrite.Mode
	SearchFrom  int
	OutputDir   string // defaults to the config output dir
	BaseName    string // defaults to the source name without extension
}

// Rasterizer is the part of rasterize.Invoker the service depends on.
type Rasterizer interface {
	Run(ctx context.Context, job rasterize.Job) []rasterize.Result
}

// Service runs conversions. The zero value is not usable; use NewService.
type Service struct {
	Rasterizer Rasterizer
	Store      report.Store // optional
	Clock      clock.Clock
	Logger     *slog.Logger
	OutputDir  string
	TempDir    string
}

// NewService builds a Service from cfg with a Ghostscript invoker and, when
// cfg.Report.File is set, a file-backed report history.
func NewService(cfg *config.Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	inv := rasterize.NewInvoker(cfg.Ghostscript.Binary, logger)
	inv.ExtraArgs = cfg.Ghostscript.ExtraArgs
	inv.Timeout = cfg.Ghostscript.Timeout
	inv.Concurrency = cfg.Convert.Concurrency

	s := &Service{
		Rasterizer: inv,
		Clock:      clock.RealClock{},
		Logger:     logger.With(slog.String("component", "convert")),
		OutputDir:  cfg.Convert.OutputDir,
		TempDir:    cfg.Convert.TempDir,
	}
	if cfg.Report.File != "" {
		s.Store = report.NewFileStore(cfg.Report.File)
	}
	return s
}

// RewriteFile reads path and runs the header rewrite over it.
func (s *Service) RewriteFile(path string, opts rewrite.Options) (rewrite.Result, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return rewrite.Result{Status: rewrite.Fail(rewrite.ReasonSourceReadFailed)},
			fmt.Errorf("%w: %v", ErrSourceRead, err)
	}
	res := rewrite.Rewrite(doc, opts)
	s.logRewrite(path, doc, res)
	return res, nil
}

// Convert runs req end to end. The returned report is never nil. The error
// is non-nil only for fatal conditions (unreadable source, temporary file not
// writable, rewrite error), in which case no format was attempted. Per-format
// failures are reported in the report, not as an error.
func (s *Service) Convert(ctx context.Context, req Request) (*report.Report, error) {
	rep := &report.Report{
		ID:          uuid.NewString(),
		Source:      req.Source,
		Orientation: req.Orientation.String(),
		StartedAt:   s.Clock.Now(),
	}
	logger := s.Logger.With(slog.String("run", rep.ID), slog.String("source", req.Source))

	res, err := s.RewriteFile(req.Source, rewrite.Options{Orientation: req.Orientation, SearchFrom: req.SearchFrom})
	rep.Rewrite = res.Status
	rep.BoundingBox = res.BoundingBox
	if err != nil {
		logger.Error("cannot read source", slog.String("error", err.Error()))
		return s.finish(rep), err
	}
	if res.Status.Kind == rewrite.Error {
		return s.finish(rep), fmt.Errorf("%w: %s", ErrRewrite, res.Status.Reason)
	}

	tmp, err := writeTemp(s.TempDir, rep.ID, res.Output)
	if err != nil {
		rep.Rewrite = rewrite.Fail(rewrite.ReasonTempWriteFailed)
		logger.Error("cannot write temporary file", slog.String("error", err.Error()))
		return s.finish(rep), fmt.Errorf("%w: %v", ErrTempWrite, err)
	}
	defer func() {
		if err := os.Remove(tmp); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("cannot remove temporary file", slog.String("path", tmp), slog.String("error", err.Error()))
		}
	}()

	job := rasterize.Job{
		Input:     tmp,
		OutputDir: s.outputDir(req),
		BaseName:  baseName(req),
		Formats:   req.Formats,
	}
	if err := os.MkdirAll(job.OutputDir, 0755); err != nil {
		logger.Warn("cannot create output directory", slog.String("dir", job.OutputDir), slog.String("error", err.Error()))
	}
	results := s.Rasterizer.Run(ctx, job)
	rep.Results = rasterize.Annotate(results, res.Status)

	for _, r := range rep.Results {
		logger.Info("format done",
			slog.String("format", r.Format),
			slog.String("outcome", r.Outcome.String()),
			slog.String("output", r.OutputPath))
	}
	return s.finish(rep), nil
}

func (s *Service) finish(rep *report.Report) *report.Report {
	rep.FinishedAt = s.Clock.Now()
	if s.Store != nil {
		if err := report.Append(s.Store, *rep); err != nil {
			s.Logger.Warn("cannot store report", slog.String("run", rep.ID), slog.String("error", err.Error()))
		}
	}
	return rep
}

func (s *Service) logRewrite(path string, doc []byte, res rewrite.Result) {
	logger := s.Logger.With(slog.String("source", path))
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		lines := rewrite.NewLineIndex(doc, res.Newline)
		for _, f := range []*rewrite.Field{res.BoundingBoxField, res.OrientationField} {
			if f == nil {
				continue
			}
			logger.Debug("header field",
				slog.String("tag", f.Tag),
				slog.Int("line", lines.Line(f.Offset())),
				slog.String("value", strings.TrimSpace(string(f.Value(doc)))))
		}
		logger.Debug("rewrite",
			slog.String("newline", res.Newline.String()),
			slog.Int("lines", lines.Lines()),
			slog.Int("edits", len(res.Edits)))
	}
	switch res.Status.Kind {
	case rewrite.Warning:
		logger.Warn("header not normalised", slog.String("reason", string(res.Status.Reason)))
	case rewrite.Error:
		logger.Error("header rewrite failed", slog.String("reason", string(res.Status.Reason)))
	}
}

func (s *Service) outputDir(req Request) string {
	switch {
	case req.OutputDir != "":
		return req.OutputDir
	case s.OutputDir != "":
		return s.OutputDir
	}
	return filepath.Dir(req.Source)
}

func baseName(req Request) string {
	if req.BaseName != "" {
		return req.BaseName
	}
	base := filepath.Base(req.Source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// writeTemp materialises doc as a uniquely named .eps file in dir.
func writeTemp(dir, id string, doc []byte) (string, error) {
	f, err := os.CreateTemp(dir, "epsconv-"+id+"-*.eps")
	if err != nil {
		return "", err
	}
	if _, err := f.Write(doc); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

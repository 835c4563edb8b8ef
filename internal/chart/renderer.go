package chart

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	apperrors "surveycharts/internal/errors"
	"surveycharts/internal/files"
	"surveycharts/internal/infrastructure"
	"surveycharts/internal/survey"
)

// Output is one written chart
type Output struct {
	Distribution survey.Distribution
	File         string
	Path         string
}

// Options tunes a Renderer. Zero values select sequential rendering, no
// telemetry and the default logger.
type Options struct {
	Workers   int
	Telemetry *infrastructure.Telemetry
	Logger    *slog.Logger
}

// Renderer writes distributions as chart files into one directory
type Renderer struct {
	manager   *files.Manager
	style     Style
	workers   int
	telemetry *infrastructure.Telemetry
	logger    *slog.Logger
}

// NewRenderer creates a renderer writing through manager
func NewRenderer(manager *files.Manager, style Style, opts Options) *Renderer {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	return &Renderer{
		manager:   manager,
		style:     style,
		workers:   workers,
		telemetry: opts.Telemetry,
		logger:    infrastructure.WithComponent(opts.Logger, "chart"),
	}
}

// Style returns the renderer's figure settings
func (r *Renderer) Style() Style {
	return r.style
}

// QuestionFileName names the chart of row index (0-based) of source
func QuestionFileName(source string, index int, ext string) string {
	return fmt.Sprintf("%s_%d%s", source, index+1, ext)
}

// CategoryFileName names the per-source chart
func CategoryFileName(source, ext string) string {
	return source + ext
}

// GlobalFileName names the all-sources chart. An extension already on
// name is replaced.
func GlobalFileName(name, ext string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ext
}

// Render draws d into the file name
func (r *Renderer) Render(ctx context.Context, d survey.Distribution, name string) (Output, error) {
	ctx, span := r.telemetry.StartSpan(ctx, "chart.render",
		attribute.String("scope", string(d.Scope)),
		attribute.String("file", name))
	defer span.End()

	path, err := r.manager.WriteFile(name, func(w io.Writer) error {
		if err := Pie(w, d, r.style); err != nil {
			return apperrors.NewRenderError("failed to render chart", err).WithContext("file", name)
		}
		return nil
	})
	if err != nil {
		infrastructure.RecordError(span, err)
		if apperrors.IsType(err, apperrors.ErrTypeRender) {
			return Output{}, err
		}
		return Output{}, apperrors.NewStorageError("failed to write chart", err).WithContext("file", name)
	}

	r.telemetry.RecordChart(ctx, string(d.Scope))
	r.logger.DebugContext(ctx, "Chart written",
		slog.String("scope", string(d.Scope)),
		slog.String("file", name),
		slog.Int("respondents", d.Respondents))

	return Output{Distribution: d, File: name, Path: path}, nil
}

// RenderQuestions writes one chart per row of every source, in dataset
// order. Up to Options.Workers charts are drawn at once; the first error
// stops the rest.
func (r *Renderer) RenderQuestions(ctx context.Context, ds *survey.Dataset) ([]Output, error) {
	type job struct {
		dist survey.Distribution
		name string
	}

	var jobs []job
	for _, table := range ds.Tables() {
		for _, d := range survey.QuestionDistributions(table) {
			jobs = append(jobs, job{dist: d, name: QuestionFileName(d.Source, d.Index, r.style.Ext())})
		}
	}

	outputs := make([]Output, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := r.Render(gctx, j.dist, j.name)
			if err != nil {
				return err
			}
			outputs[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.logger.InfoContext(ctx, "Question charts written",
		slog.Int("charts", len(outputs)),
		slog.Int("workers", r.workers))
	return outputs, nil
}

// RenderCategories writes one chart per source
func (r *Renderer) RenderCategories(ctx context.Context, ds *survey.Dataset, mode survey.CategoryMode) ([]Output, error) {
	outputs := make([]Output, 0, ds.Len())
	for _, table := range ds.Tables() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		d, err := survey.CategoryDistribution(table, mode)
		if err != nil {
			return nil, err
		}
		out, err := r.Render(ctx, d, CategoryFileName(table.Source, r.style.Ext()))
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, out)
	}

	r.logger.InfoContext(ctx, "Category charts written",
		slog.Int("charts", len(outputs)),
		slog.String("mode", string(mode)))
	return outputs, nil
}

// RenderGlobal writes the chart summing every source
func (r *Renderer) RenderGlobal(ctx context.Context, ds *survey.Dataset, mode survey.RespondentMode, name string) (Output, error) {
	d, err := survey.GlobalDistribution(ds, mode)
	if err != nil {
		return Output{}, err
	}

	out, err := r.Render(ctx, d, GlobalFileName(name, r.style.Ext()))
	if err != nil {
		return Output{}, err
	}

	r.logger.InfoContext(ctx, "Global chart written",
		slog.String("file", out.File),
		slog.Int("respondents", d.Respondents),
		slog.String("mode", string(mode)))
	return out, nil
}

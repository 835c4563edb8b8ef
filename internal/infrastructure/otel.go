package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"surveycharts/internal/config"
)

// MeterName is the instrumentation scope for tracer and meter
const MeterName = "surveycharts"

// Telemetry holds the OpenTelemetry providers for one run
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Metrics        *RunMetrics

	registry    *prometheus.Registry
	metricsFile string
	traceOut    io.Closer
	logger      *slog.Logger
}

// RunMetrics holds the batch metrics
type RunMetrics struct {
	ChartsRendered metric.Int64Counter
	StepDuration   metric.Float64Histogram
	RowsLoaded     metric.Int64Counter
	SourcesLoaded  metric.Int64Counter
}

// InitializeTelemetry sets up tracing (when enabled) and metrics.
// Metrics are gathered into a private Prometheus registry and written to
// cfg.MetricsFile on Shutdown.
func InitializeTelemetry(cfg config.TelemetryConfig, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	res, err := resource.New(context.Background(),
		resource.WithSchemaURL(semconv.SchemaURL),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(config.AppVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	t := &Telemetry{
		metricsFile: cfg.MetricsFile,
		logger:      logger,
	}

	if err := t.initializeTracing(cfg, res); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := t.initializeMetrics(res); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	logger.Info("Telemetry initialized",
		slog.Bool("tracing_enabled", cfg.Tracing),
		slog.String("trace_file", cfg.TraceFile),
		slog.String("metrics_file", cfg.MetricsFile))

	return t, nil
}

func (t *Telemetry) initializeTracing(cfg config.TelemetryConfig, res *resource.Resource) error {
	if !cfg.Tracing {
		t.Tracer = noop.NewTracerProvider().Tracer(MeterName)
		return nil
	}

	var w io.Writer = os.Stdout
	if cfg.TraceFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.TraceFile), 0755); err != nil {
			return fmt.Errorf("failed to create trace directory: %w", err)
		}
		f, err := os.Create(cfg.TraceFile)
		if err != nil {
			return fmt.Errorf("failed to create trace file: %w", err)
		}
		t.traceOut = f
		w = f
	}

	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	)

	t.TracerProvider = tp
	t.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(config.AppVersion))
	return nil
}

func (t *Telemetry) initializeMetrics(res *resource.Resource) error {
	t.registry = prometheus.NewRegistry()

	exporter, err := otelprom.New(
		otelprom.WithRegisterer(t.registry),
		otelprom.WithoutTargetInfo(),
		otelprom.WithoutScopeInfo(),
	)
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	t.MeterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	t.Meter = t.MeterProvider.Meter(MeterName, metric.WithInstrumentationVersion(config.AppVersion))

	t.Metrics, err = CreateRunMetrics(t.Meter)
	return err
}

// CreateRunMetrics creates the batch instruments on meter
func CreateRunMetrics(meter metric.Meter) (*RunMetrics, error) {
	chartsRendered, err := meter.Int64Counter(
		"survey_charts_rendered",
		metric.WithDescription("Number of chart images written"),
	)
	if err != nil {
		return nil, err
	}

	stepDuration, err := meter.Float64Histogram(
		"survey_step_duration",
		metric.WithDescription("Pipeline step duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	rowsLoaded, err := meter.Int64Counter(
		"survey_rows_loaded",
		metric.WithDescription("Number of question rows loaded"),
	)
	if err != nil {
		return nil, err
	}

	sourcesLoaded, err := meter.Int64Counter(
		"survey_sources_loaded",
		metric.WithDescription("Number of survey source files loaded"),
	)
	if err != nil {
		return nil, err
	}

	return &RunMetrics{
		ChartsRendered: chartsRendered,
		StepDuration:   stepDuration,
		RowsLoaded:     rowsLoaded,
		SourcesLoaded:  sourcesLoaded,
	}, nil
}

// StartSpan starts a span on the run's tracer. A nil Telemetry yields a
// no-op span so callers never need to check.
func (t *Telemetry) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	var tracer trace.Tracer = noop.NewTracerProvider().Tracer(MeterName)
	if t != nil && t.Tracer != nil {
		tracer = t.Tracer
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// RecordChart counts one written chart for scope
func (t *Telemetry) RecordChart(ctx context.Context, scope string) {
	if t == nil || t.Metrics == nil {
		return
	}
	t.Metrics.ChartsRendered.Add(ctx, 1, metric.WithAttributes(attribute.String("scope", scope)))
}

// RecordLoad counts the loaded sources and rows
func (t *Telemetry) RecordLoad(ctx context.Context, sources, rows int) {
	if t == nil || t.Metrics == nil {
		return
	}
	t.Metrics.SourcesLoaded.Add(ctx, int64(sources))
	t.Metrics.RowsLoaded.Add(ctx, int64(rows))
}

// RecordStep records a step duration with its outcome
func (t *Telemetry) RecordStep(ctx context.Context, step string, duration time.Duration, err error) {
	if t == nil || t.Metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	t.Metrics.StepDuration.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("step", step),
			attribute.String("status", status),
		))
}

// RecordError records an error on the span and marks it failed
func RecordError(span trace.Span, err error) {
	if err == nil || !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// Shutdown writes the metrics textfile, then flushes and stops the providers
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}
	var errs []error

	// Must gather before the meter provider shuts its reader down
	if t.metricsFile != "" && t.registry != nil {
		if err := os.MkdirAll(filepath.Dir(t.metricsFile), 0755); err != nil {
			errs = append(errs, fmt.Errorf("metrics directory: %w", err))
		} else if err := prometheus.WriteToTextfile(t.metricsFile, t.registry); err != nil {
			errs = append(errs, fmt.Errorf("metrics textfile: %w", err))
		}
	}

	if t.TracerProvider != nil {
		if err := t.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}
	if t.MeterProvider != nil {
		if err := t.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}
	if t.traceOut != nil {
		if err := t.traceOut.Close(); err != nil {
			errs = append(errs, fmt.Errorf("trace file close: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("telemetry shutdown errors: %v", errs)
	}

	t.logger.InfoContext(ctx, "Telemetry shutdown complete")
	return nil
}

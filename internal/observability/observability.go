package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/tipovacka-hokej/tipovacka/internal/observability/metrics"
)

// Config selects log format and verbosity.
type Config struct {
	ServiceName string
	Environment string
	LogLevel    string
	LogFormat   string // json|text
}

// Provider carries the process-wide logger.
type Provider struct {
	Logger *slog.Logger
}

// Registry carries the tracer and the metrics handed to modules.
type Registry struct {
	Tracer     trace.Tracer
	Prometheus *prometheus.Registry
	Metrics    metrics.ServiceMetrics
}

// Observability bundles everything a module needs to log, trace and count.
type Observability struct {
	Provider Provider
	Registry Registry
}

// Init builds the logger, tracer and Prometheus registry. The tracer comes from the
// global OpenTelemetry provider, so an exporter installed by the host process is picked up.
func Init(ctx context.Context, cfg Config) Observability {
	logger := NewLogger(os.Stdout, cfg)
	slog.SetDefault(logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	name := cfg.ServiceName
	if name == "" {
		name = "tipovacka"
	}

	logger.InfoContext(ctx, "Observability initialized",
		slog.String("service", name),
		slog.String("environment", cfg.Environment),
	)

	return Observability{
		Provider: Provider{Logger: logger},
		Registry: Registry{
			Tracer:     otel.Tracer(name),
			Prometheus: reg,
			Metrics:    metrics.NewPrometheus(reg, name),
		},
	}
}

// NewLogger builds a slog logger writing to w.
func NewLogger(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}
	var h slog.Handler
	if strings.EqualFold(cfg.LogFormat, "text") {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}
	logger := slog.New(h)
	if cfg.Environment != "" {
		logger = logger.With(slog.String("env", cfg.Environment))
	}
	return logger
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewTest returns a silent bundle for unit tests.
func NewTest() Observability {
	return Observability{
		Provider: Provider{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))},
		Registry: Registry{
			Tracer:     noop.NewTracerProvider().Tracer("test"),
			Prometheus: prometheus.NewRegistry(),
			Metrics:    metrics.NewNoop(),
		},
	}
}

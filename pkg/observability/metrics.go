package observability

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	ServiceName string
	// Registerer defaults to the Prometheus default registry.
	Registerer prometheus.Registerer
}

// InitMetrics initializes the Prometheus metrics exporter and installs the
// MeterProvider globally.
// Returns the MeterProvider and an HTTP handler for /metrics endpoint.
func InitMetrics(cfg MetricsConfig) (*sdkmetric.MeterProvider, http.Handler, error) {
	var opts []promexporter.Option
	handler := promhttp.Handler()
	if cfg.Registerer != nil {
		opts = append(opts, promexporter.WithRegisterer(cfg.Registerer))
		if g, ok := cfg.Registerer.(prometheus.Gatherer); ok {
			handler = promhttp.HandlerFor(g, promhttp.HandlerOpts{})
		}
	}

	exporter, err := promexporter.New(opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(provider)

	return provider, handler, nil
}

// ---------------------------------------------------------------------------
// HTTP
// ---------------------------------------------------------------------------

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// HTTPMetrics returns middleware recording request count and latency per
// route pattern, method and status code.
func HTTPMetrics(meter metric.Meter) (func(http.Handler) http.Handler, error) {
	requests, err := meter.Int64Counter("http_server_requests_total",
		metric.WithDescription("HTTP requests served"))
	if err != nil {
		return nil, err
	}
	latency, err := meter.Float64Histogram("http_server_request_duration_seconds",
		metric.WithDescription("HTTP request latency"), metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			attrs := metric.WithAttributes(
				attribute.String("route", route),
				attribute.String("method", r.Method),
				attribute.String("status", strconv.Itoa(rec.status)),
			)
			requests.Add(r.Context(), 1, attrs)
			latency.Record(r.Context(), time.Since(start).Seconds(), attrs)
		})
	}, nil
}

// ---------------------------------------------------------------------------
// gRPC
// ---------------------------------------------------------------------------

// GRPCMetrics returns a unary interceptor recording call count and latency
// per method and status code.
func GRPCMetrics(meter metric.Meter) (grpc.UnaryServerInterceptor, error) {
	calls, err := meter.Int64Counter("grpc_server_calls_total",
		metric.WithDescription("gRPC unary calls handled"))
	if err != nil {
		return nil, err
	}
	latency, err := meter.Float64Histogram("grpc_server_call_duration_seconds",
		metric.WithDescription("gRPC unary call latency"), metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		attrs := metric.WithAttributes(
			attribute.String("method", info.FullMethod),
			attribute.String("code", status.Code(err).String()),
		)
		calls.Add(ctx, 1, attrs)
		latency.Record(ctx, time.Since(start).Seconds(), attrs)
		return resp, err
	}, nil
}

// ---------------------------------------------------------------------------
// Domain
// ---------------------------------------------------------------------------

// EventMetrics counts published domain events by type.
type EventMetrics struct {
	published metric.Int64Counter
	failed    metric.Int64Counter
}

// NewEventMetrics registers the domain event instruments on meter.
func NewEventMetrics(meter metric.Meter) (*EventMetrics, error) {
	published, err := meter.Int64Counter("lending_events_published_total",
		metric.WithDescription("Domain events published"))
	if err != nil {
		return nil, err
	}
	failed, err := meter.Int64Counter("lending_events_failed_total",
		metric.WithDescription("Domain events that failed to publish"))
	if err != nil {
		return nil, err
	}
	return &EventMetrics{published: published, failed: failed}, nil
}

// Published records a successfully published event.
func (m *EventMetrics) Published(ctx context.Context, eventType string) {
	m.published.Add(ctx, 1, metric.WithAttributes(attribute.String("type", eventType)))
}

// Failed records an event that could not be published.
func (m *EventMetrics) Failed(ctx context.Context, eventType string) {
	m.failed.Add(ctx, 1, metric.WithAttributes(attribute.String("type", eventType)))
}

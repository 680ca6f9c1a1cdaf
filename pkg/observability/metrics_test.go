package observability

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/metric"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func newTestMetrics(t *testing.T) (metric.Meter, func() string) {
	t.Helper()

	reg := prometheus.NewRegistry()
	provider, handler, err := InitMetrics(MetricsConfig{ServiceName: "lendingd", Registerer: reg})
	if err != nil {
		t.Fatalf("InitMetrics: %v", err)
	}
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	scrape := func() string {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		body, _ := io.ReadAll(rec.Body)
		return string(body)
	}
	return provider.Meter("lendingd-test"), scrape
}

func TestHTTPMetricsRecordsRoutePattern(t *testing.T) {
	meter, scrape := newTestMetrics(t)

	mw, err := HTTPMetrics(meter)
	if err != nil {
		t.Fatalf("HTTPMetrics: %v", err)
	}

	r := chi.NewRouter()
	r.Use(mw)
	r.Get("/api/loans/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/loans/abc", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	body := scrape()
	if !strings.Contains(body, "http_server_requests_total") {
		t.Fatalf("expected request counter in scrape output:\n%s", body)
	}
	if !strings.Contains(body, `route="/api/loans/{id}"`) {
		t.Errorf("expected route pattern label in scrape output:\n%s", body)
	}
	if !strings.Contains(body, `status="404"`) {
		t.Errorf("expected status label in scrape output:\n%s", body)
	}
}

func TestGRPCMetricsRecordsCode(t *testing.T) {
	meter, scrape := newTestMetrics(t)

	interceptor, err := GRPCMetrics(meter)
	if err != nil {
		t.Fatalf("GRPCMetrics: %v", err)
	}

	info := &grpc.UnaryServerInfo{FullMethod: "/lending.v1.LendingService/GetLoan"}
	_, callErr := interceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return nil, status.Error(codes.NotFound, "loan not found")
	})
	if status.Code(callErr) != codes.NotFound {
		t.Fatalf("expected interceptor to pass the error through, got %v", callErr)
	}

	if body := scrape(); !strings.Contains(body, `code="NotFound"`) {
		t.Errorf("expected code label in scrape output:\n%s", body)
	}
}

func TestEventMetrics(t *testing.T) {
	meter, scrape := newTestMetrics(t)

	m, err := NewEventMetrics(meter)
	if err != nil {
		t.Fatalf("NewEventMetrics: %v", err)
	}
	m.Published(context.Background(), "lending.loan.approved")
	m.Failed(context.Background(), "lending.payment.recorded")

	body := scrape()
	if !strings.Contains(body, `type="lending.loan.approved"`) {
		t.Errorf("expected published event label:\n%s", body)
	}
	if !strings.Contains(body, "lending_events_failed_total") {
		t.Errorf("expected failure counter:\n%s", body)
	}
}

func TestInitTracerConnectsLazily(t *testing.T) {
	// otlptracegrpc connects lazily, so a bad endpoint only fails on export.
	shutdown, err := InitTracer(context.Background(), TracingConfig{
		ServiceName: "lendingd",
		Endpoint:    "127.0.0.1:1",
		Insecure:    true,
	})
	if err != nil {
		t.Fatalf("InitTracer: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := shutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
		t.Logf("shutdown returned %v", err)
	}
}

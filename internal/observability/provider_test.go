package observability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel"

	"gpay-config/internal/googlepay"
)

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	original := otel.GetMeterProvider()
	m, err := NewMetrics()
	if err != nil {
		t.Fatalf("NewMetrics() error: %v", err)
	}
	t.Cleanup(func() {
		m.Shutdown(context.Background())
		otel.SetMeterProvider(original)
	})
	return m
}

func TestMetricsSnapshot(t *testing.T) {
	m := newTestMetrics(t)
	ctx := context.Background()

	m.RecordParse(ctx, googlepay.ModeProduction, true)
	m.RecordRejectedNetwork(ctx, "AMEX")

	points, err := m.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("points = %+v, want 2", points)
	}
	// Sorted by name
	if points[0].Name != "gpayconfig.card_network.rejected" || points[0].Attributes["network"] != "AMEX" {
		t.Errorf("points[0] = %+v", points[0])
	}
	if points[1].Name != "gpayconfig.parse.requests" || points[1].Value != 1 ||
		points[1].Attributes["mode"] != "live" || points[1].Attributes["success"] != "true" {
		t.Errorf("points[1] = %+v", points[1])
	}
}

func TestMetricsInstallsGlobalProvider(t *testing.T) {
	m := newTestMetrics(t)

	// Instruments created through the global API land in the same reader
	counter, err := otel.Meter("global-check").Int64Counter("global.check")
	if err != nil {
		t.Fatalf("Int64Counter() error: %v", err)
	}
	counter.Add(context.Background(), 5)

	points, err := m.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	for _, p := range points {
		if p.Name == "global.check" && p.Value == 5 {
			return
		}
	}
	t.Errorf("global.check not collected: %+v", points)
}

func TestMetricsServeHTTP(t *testing.T) {
	m := newTestMetrics(t)
	m.RecordParse(context.Background(), googlepay.ModeTest, false)

	w := httptest.NewRecorder()
	m.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}
	var body struct {
		Metrics []Point `json:"metrics"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if len(body.Metrics) != 1 || body.Metrics[0].Attributes["success"] != "false" {
		t.Errorf("metrics = %+v", body.Metrics)
	}
}

func TestMetricsShutdownStopsRecording(t *testing.T) {
	m := newTestMetrics(t)
	if err := m.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error: %v", err)
	}
	// Must not panic
	m.RecordParse(context.Background(), googlepay.ModeTest, true)
}

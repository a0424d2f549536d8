package observability

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
)

// ServiceName is reported as the service.name resource attribute.
const ServiceName = "gpayconfig"

// Metrics owns the SDK meter provider behind the service's instruments. Values
// are pulled on demand through a manual reader and served by ServeHTTP.
//
// Usage:
//
//	m, err := observability.NewMetrics()
//	if err != nil {
//	    return err
//	}
//	defer m.Shutdown(context.Background())
//	mux.Handle("GET /metrics", m)
type Metrics struct {
	Recorder

	provider *sdkmetric.MeterProvider
	reader   *sdkmetric.ManualReader
}

// Point is one cumulative counter value.
type Point struct {
	Name       string            `json:"name"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Value      int64             `json:"value"`
}

// NewMetrics creates the meter provider, installs it as the global provider
// and builds a Recorder on it.
func NewMetrics() (*Metrics, error) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(resource.NewSchemaless(
			attribute.String("service.name", ServiceName),
		)),
	)

	rec, err := NewRecorder(provider)
	if err != nil {
		provider.Shutdown(context.Background())
		return nil, err
	}

	otel.SetMeterProvider(provider)
	return &Metrics{Recorder: rec, provider: provider, reader: reader}, nil
}

// Shutdown flushes and stops the provider. Recording after Shutdown is a no-op.
func (m *Metrics) Shutdown(ctx context.Context) error {
	return m.provider.Shutdown(ctx)
}

// Snapshot collects the current value of every integer counter, sorted by
// name.
func (m *Metrics) Snapshot(ctx context.Context) ([]Point, error) {
	var rm metricdata.ResourceMetrics
	if err := m.reader.Collect(ctx, &rm); err != nil {
		return nil, err
	}

	points := []Point{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			sum, ok := md.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				points = append(points, Point{
					Name:       md.Name,
					Attributes: attributeMap(dp.Attributes),
					Value:      dp.Value,
				})
			}
		}
	}

	sort.SliceStable(points, func(i, j int) bool { return points[i].Name < points[j].Name })
	return points, nil
}

// ServeHTTP writes the snapshot as {"metrics": [...]}.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	points, err := m.Snapshot(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"metrics": points})
}

func attributeMap(set attribute.Set) map[string]string {
	if set.Len() == 0 {
		return nil
	}
	out := make(map[string]string, set.Len())
	iter := set.Iter()
	for iter.Next() {
		kv := iter.Attribute()
		out[string(kv.Key)] = kv.Value.Emit()
	}
	return out
}

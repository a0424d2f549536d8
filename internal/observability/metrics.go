// Package observability records service metrics with OpenTelemetry.
package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"gpay-config/internal/googlepay"
)

// MeterName is the instrumentation scope for all instruments.
const MeterName = "gpay-config"

// OtherLabel replaces attribute values outside the known vocabulary so that
// caller input cannot create new series.
const OtherLabel = "other"

// Recorder records configuration-parsing metrics.
// Use NewRecorder for OTel metrics or Noop{} when disabled.
type Recorder interface {
	// RecordParse records one configuration parse attempt.
	RecordParse(ctx context.Context, mode googlepay.Mode, success bool)

	// RecordRejectedNetwork records a card network dropped by the allow-list.
	RecordRejectedNetwork(ctx context.Context, network string)
}

type otelRecorder struct {
	parses   metric.Int64Counter
	rejected metric.Int64Counter
	known    googlepay.NetworkSet
}

// NewRecorder creates a Recorder on provider. A nil provider uses the global
// OTel meter provider.
func NewRecorder(provider metric.MeterProvider) (Recorder, error) {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	meter := provider.Meter(MeterName)

	parses, err := meter.Int64Counter("gpayconfig.parse.requests",
		metric.WithDescription("Number of Google Pay configuration parses"),
	)
	if err != nil {
		return nil, err
	}

	rejected, err := meter.Int64Counter("gpayconfig.card_network.rejected",
		metric.WithDescription("Card network entries dropped by the allow-list"),
	)
	if err != nil {
		return nil, err
	}

	return &otelRecorder{
		parses:   parses,
		rejected: rejected,
		known:    googlepay.DefaultCardNetworks(),
	}, nil
}

func (r *otelRecorder) RecordParse(ctx context.Context, mode googlepay.Mode, success bool) {
	r.parses.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mode", modeLabel(mode)),
		attribute.Bool("success", success),
	))
}

// RecordRejectedNetwork labels the point with the network name only when it
// is a Google Pay network; anything else is counted under OtherLabel.
func (r *otelRecorder) RecordRejectedNetwork(ctx context.Context, network string) {
	if !r.known.Contains(network) {
		network = OtherLabel
	}
	r.rejected.Add(ctx, 1, metric.WithAttributes(attribute.String("network", network)))
}

func modeLabel(m googlepay.Mode) string {
	switch googlepay.ParseMode(string(m)) {
	case googlepay.ModeTest:
		return string(googlepay.ModeTest)
	case googlepay.ModeProduction:
		return string(googlepay.ModeProduction)
	}
	return OtherLabel
}

// Noop is a Recorder that discards everything.
type Noop struct{}

func (Noop) RecordParse(context.Context, googlepay.Mode, bool) {}

func (Noop) RecordRejectedNetwork(context.Context, string) {}

var (
	_ Recorder = (*otelRecorder)(nil)
	_ Recorder = Noop{}
)

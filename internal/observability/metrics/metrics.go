package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	gateDecisions    metric.Int64Counter
	modeTransitions  metric.Int64Counter
	advisorRequests  metric.Int64Counter
	advisorFallbacks metric.Int64Counter
	rateLimitAllowed metric.Int64Counter
	rateLimitDenied  metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "storefront"
	}
	meter := provider.Meter(name)

	gateDecisions, err := meter.Int64Counter("storefront_gate_decisions_total")
	if err != nil {
		return nil, err
	}
	modeTransitions, err := meter.Int64Counter("storefront_mode_transitions_total")
	if err != nil {
		return nil, err
	}
	advisorRequests, err := meter.Int64Counter("storefront_advisor_requests_total")
	if err != nil {
		return nil, err
	}
	advisorFallbacks, err := meter.Int64Counter("storefront_advisor_fallbacks_total")
	if err != nil {
		return nil, err
	}
	rateLimitAllowed, err := meter.Int64Counter("storefront_rate_limit_allowed_total")
	if err != nil {
		return nil, err
	}
	rateLimitDenied, err := meter.Int64Counter("storefront_rate_limit_denied_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		gateDecisions:    gateDecisions,
		modeTransitions:  modeTransitions,
		advisorRequests:  advisorRequests,
		advisorFallbacks: advisorFallbacks,
		rateLimitAllowed: rateLimitAllowed,
		rateLimitDenied:  rateLimitDenied,
	}, nil
}

// RecordGateDecision counts route gate outcomes.
func (m *Metrics) RecordGateDecision(ctx context.Context, outcome, reason string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("outcome", strings.TrimSpace(outcome)),
		attribute.String("reason", strings.TrimSpace(reason)),
	)
	m.gateDecisions.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordModeTransition counts committed business mode selections.
func (m *Metrics) RecordModeTransition(ctx context.Context, mode string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("mode", strings.TrimSpace(mode)))
	m.modeTransitions.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordAdvisorRequest counts advisor recommendations by source.
func (m *Metrics) RecordAdvisorRequest(ctx context.Context, source string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("source", strings.TrimSpace(source)))
	m.advisorRequests.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordAdvisorFallback counts orchestrator failures that fell back to the
// local heuristic.
func (m *Metrics) RecordAdvisorFallback(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("reason", strings.TrimSpace(reason)))
	m.advisorFallbacks.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRateLimitAllowed increments rate limit allow counts.
func (m *Metrics) RecordRateLimitAllowed(ctx context.Context, endpoint string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("endpoint", strings.TrimSpace(endpoint)))
	m.rateLimitAllowed.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRateLimitDenied increments rate limit deny counts.
func (m *Metrics) RecordRateLimitDenied(ctx context.Context, endpoint, reason string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("endpoint", strings.TrimSpace(endpoint)),
		attribute.String("reason", strings.TrimSpace(reason)),
	)
	m.rateLimitDenied.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"outcome":     {},
	"reason":      {},
	"mode":        {},
	"source":      {},
	"endpoint":    {},
	"status_code": {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}

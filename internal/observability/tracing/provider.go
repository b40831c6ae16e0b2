package tracing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the tracing provider.
type Config struct {
	Enabled          bool
	ServiceName      string
	ServiceVersion   string
	Environment      string
	ExporterEndpoint string
	ExporterProtocol string
	SamplingRatio    float64
}

// NewProvider configures and registers the tracer provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (*sdktrace.TracerProvider, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if !cfg.Enabled {
		provider := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.NeverSample()))
		otel.SetTracerProvider(provider)
		return provider, nil
	}

	exporter, err := newTraceExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "storefront"
	}
	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(strings.TrimSpace(cfg.ServiceVersion)),
		semconv.DeploymentEnvironment(strings.TrimSpace(cfg.Environment)),
	))
	if err != nil {
		return nil, err
	}

	ratio := cfg.SamplingRatio
	if ratio <= 0 {
		ratio = 0.1
	}
	if ratio > 1 {
		ratio = 1
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
	)
	otel.SetTracerProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down tracer provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("tracing initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
			zap.Float64("sampling_ratio", ratio),
		)
	}

	return provider, nil
}

func newTraceExporter(protocol, endpoint string) (*otlptrace.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlptracehttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpoint(endpoint))
		}
		return otlptracehttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlptracegrpc.Option{otlptracegrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlptracegrpc.WithEndpoint(endpoint))
		}
		return otlptracegrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

// ExtractContext reads inbound propagation headers into the context.
func ExtractContext(ctx context.Context, carrier propagation.TextMapCarrier) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, carrier)
}

var allowedSpanKeys = map[attribute.Key]struct{}{
	"http.method":             {},
	"http.route":              {},
	"http.status_code":        {},
	"http.server_duration_ms": {},
	"request_id":              {},
	"outcome":                 {},
	"reason":                  {},
	"mode":                    {},
	"source":                  {},
}

// SafeAttributes strips span attributes that could carry actor identifiers.
func SafeAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedSpanKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}

// SafeError reduces an error to its sentinel form before span recording so
// wrapped messages with request payloads never leak into trace storage.
func SafeError(err error) error {
	if err == nil {
		return nil
	}
	root := err
	for {
		unwrapped := errors.Unwrap(root)
		if unwrapped == nil {
			break
		}
		root = unwrapped
	}
	return root
}

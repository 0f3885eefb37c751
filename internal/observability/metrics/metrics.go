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
	purchases        metric.Int64Counter
	balanceDebits    metric.Int64Counter
	groupAssignments metric.Int64Counter
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
		name = "lernora"
	}
	meter := provider.Meter(name)

	purchases, err := meter.Int64Counter("lernora_course_purchases_total")
	if err != nil {
		return nil, err
	}
	balanceDebits, err := meter.Int64Counter("lernora_balance_debits_total")
	if err != nil {
		return nil, err
	}
	groupAssignments, err := meter.Int64Counter("lernora_group_assignments_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		purchases:        purchases,
		balanceDebits:    balanceDebits,
		groupAssignments: groupAssignments,
	}, nil
}

// RecordPurchase counts a purchase attempt by outcome
// (granted, regranted, insufficient_funds, not_found, error).
func (m *Metrics) RecordPurchase(ctx context.Context, outcome string) {
	if m == nil || m.purchases == nil {
		return
	}
	m.purchases.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordDebit counts a successful balance debit.
func (m *Metrics) RecordDebit(ctx context.Context, amount int64) {
	if m == nil || m.balanceDebits == nil {
		return
	}
	m.balanceDebits.Add(ctx, 1, metric.WithAttributes(attribute.Int64("amount", amount)))
}

// RecordGroupAssignment counts a group placement.
func (m *Metrics) RecordGroupAssignment(ctx context.Context) {
	if m == nil || m.groupAssignments == nil {
		return
	}
	m.groupAssignments.Add(ctx, 1)
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "", "grpc":
		return otlpmetricgrpc.New(context.Background(),
			otlpmetricgrpc.WithEndpoint(endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	case "http", "http/protobuf":
		return otlpmetrichttp.New(context.Background(),
			otlpmetrichttp.WithEndpoint(endpoint),
			otlpmetrichttp.WithInsecure(),
		)
	default:
		return nil, fmt.Errorf("unsupported metric exporter protocol %q", protocol)
	}
}

package metrics

import (
	"context"
	"fmt"
	"time"

	"shop-service/internal/config"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// AppMetrics holds the application's meters. A nil *AppMetrics is a valid
// no-op handle so code paths under test do not need a meter provider.
type AppMetrics struct {
	HTTPRequestDuration metric.Float64Histogram
	OrdersPlaced        metric.Int64Counter
	OrdersCancelled     metric.Int64Counter
	StockConflicts      metric.Int64Counter
}

// Init sets up an OTLP HTTP exporter and the application meters.
func Init(ctx context.Context, cfg *config.Config) (*AppMetrics, *sdkmetric.MeterProvider, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.OTELServiceName)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpoint(cfg.OTELExporterOTLPEndpoint),
		otlpmetrichttp.WithURLPath("/v1/metrics"),
		otlpmetrichttp.WithInsecure(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(15*time.Second))),
	)

	meter := provider.Meter(cfg.OTELServiceName)

	m := &AppMetrics{}
	if m.HTTPRequestDuration, err = meter.Float64Histogram("http.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s")); err != nil {
		return nil, nil, err
	}
	if m.OrdersPlaced, err = meter.Int64Counter("orders.placed",
		metric.WithDescription("Orders successfully placed")); err != nil {
		return nil, nil, err
	}
	if m.OrdersCancelled, err = meter.Int64Counter("orders.cancelled",
		metric.WithDescription("Orders cancelled")); err != nil {
		return nil, nil, err
	}
	if m.StockConflicts, err = meter.Int64Counter("orders.stock_conflicts",
		metric.WithDescription("Placements rejected for insufficient stock")); err != nil {
		return nil, nil, err
	}

	return m, provider, nil
}

func (m *AppMetrics) RecordHTTPRequest(ctx context.Context, method, route string, status int, start time.Time) {
	if m == nil {
		return
	}
	m.HTTPRequestDuration.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
		))
}

func (m *AppMetrics) RecordOrderPlaced(ctx context.Context, total float64) {
	if m == nil {
		return
	}
	m.OrdersPlaced.Add(ctx, 1, metric.WithAttributes(attribute.Float64("order.total", total)))
}

func (m *AppMetrics) RecordOrderCancelled(ctx context.Context) {
	if m == nil {
		return
	}
	m.OrdersCancelled.Add(ctx, 1)
}

func (m *AppMetrics) RecordStockConflict(ctx context.Context) {
	if m == nil {
		return
	}
	m.StockConflicts.Add(ctx, 1)
}

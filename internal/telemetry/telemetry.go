// Package telemetry wires OpenTelemetry metrics with a Prometheus exporter.
// Metrics are opt-in; when disabled, a no-op implementation stands in so the
// rest of the code never has to check whether telemetry is configured.
package telemetry

import (
	"context"
	"fmt"

	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Config controls telemetry initialization.
type Config struct {
	ServiceName string
	Enabled     bool
}

// Providers holds the initialized OpenTelemetry providers.
type Providers struct {
	serviceName string
	enabled     bool

	Meter         metric.Meter
	meterProvider *sdkmetric.MeterProvider
}

// Init sets up the meter provider backed by the Prometheus exporter.
// When cfg.Enabled is false it returns disabled providers and does nothing.
func Init(_ context.Context, cfg *Config) (*Providers, error) {
	p := &Providers{serviceName: cfg.ServiceName, enabled: cfg.Enabled}
	if !cfg.Enabled {
		return p, nil
	}

	exporter, err := otelprom.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	p.meterProvider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	p.Meter = p.meterProvider.Meter(cfg.ServiceName)

	return p, nil
}

// IsEnabled reports whether telemetry was initialized.
func (p *Providers) IsEnabled() bool { return p.enabled }

// ServiceName returns the configured service name.
func (p *Providers) ServiceName() string { return p.serviceName }

// Shutdown flushes and stops the meter provider.
func (p *Providers) Shutdown(ctx context.Context) error {
	if p.meterProvider == nil {
		return nil
	}
	return p.meterProvider.Shutdown(ctx)
}

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/crdb/pkg/buildinfo"
	"github.com/matzehuels/crdb/pkg/observability"
)

// startMetrics installs OTLP metric hooks when an endpoint is configured.
func (c *CLI) startMetrics(ctx context.Context) error {
	m := c.cfg.Metrics
	if m.OTLPEndpoint == "" {
		return nil
	}

	provider, err := observability.NewOTLPMeterProvider(ctx, observability.OTLPConfig{
		Endpoint:       m.OTLPEndpoint,
		Insecure:       m.Insecure,
		ServiceVersion: buildinfo.Version,
	})
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	hooks, err := observability.NewOTelHooks(provider.Meter(appName))
	if err != nil {
		_ = provider.Shutdown(ctx)
		return fmt.Errorf("metrics: %w", err)
	}
	hooks.Register()

	c.metrics = provider.Shutdown
	c.Logger.Debug("metrics enabled", "endpoint", m.OTLPEndpoint)
	return nil
}

// stopMetrics flushes pending metrics.
func (c *CLI) stopMetrics(ctx context.Context) error {
	if c.metrics == nil {
		return nil
	}
	shutdown := c.metrics
	c.metrics = nil
	observability.Reset()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		c.Logger.Warn("flush metrics", "error", err)
	}
	return nil
}

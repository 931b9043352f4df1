package telemetry

import (
	"context"

	"pricelist/internal/core/port"
)

// NoOpProbe discards every measurement. Used in tests and when metrics are off.
type NoOpProbe struct{}

func NewNoOpProbe() port.Telemetry {
	return &NoOpProbe{}
}

func (p *NoOpProbe) RecordCatalogMutation(ctx context.Context, entity string, operation string, err error) {}

func (p *NoOpProbe) RecordAccessDenied(ctx context.Context, reason string) {}

func (p *NoOpProbe) RecordLogin(ctx context.Context, success bool) {}

func (p *NoOpProbe) RecordCacheLookup(ctx context.Context, hit bool) {}

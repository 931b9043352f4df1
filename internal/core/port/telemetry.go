package port

import "context"

// Telemetry lets the core report business outcomes without knowing the
// metrics backend.
type Telemetry interface {
	RecordCatalogMutation(ctx context.Context, entity string, operation string, err error)
	RecordAccessDenied(ctx context.Context, reason string)
	RecordLogin(ctx context.Context, success bool)
	RecordCacheLookup(ctx context.Context, hit bool)
}

package port

import (
	"context"
	"time"

	"pricelist/internal/core/domain"
)

// CatalogRepository stores every catalog entity kind through one set of
// operations driven by domain.Entity descriptors.
type CatalogRepository interface {
	Insert(ctx context.Context, entity domain.Entity, changes domain.Changes) (int64, error)
	Update(ctx context.Context, entity domain.Entity, id int64, changes domain.Changes) error
	SoftDelete(ctx context.Context, entity domain.Entity, id int64, at time.Time) error
	// Find returns the live row with id, or domain.ErrNotFound.
	Find(ctx context.Context, entity domain.Entity, id int64) (domain.Record, error)
	// Taken reports whether another row holds value in column. Soft-deleted
	// rows count only when includeDeleted is set.
	Taken(ctx context.Context, entity domain.Entity, column, value string, excludeID int64, includeDeleted bool) (bool, error)
}

type CatalogService interface {
	Create(ctx context.Context, actor domain.Principal, kind domain.EntityKind, changes domain.Changes) (domain.Record, error)
	Update(ctx context.Context, actor domain.Principal, kind domain.EntityKind, id int64, changes domain.Changes) (domain.Record, error)
	Delete(ctx context.Context, actor domain.Principal, kind domain.EntityKind, id int64) error
}

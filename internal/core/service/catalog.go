package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"pricelist/internal/core/domain"
	"pricelist/internal/core/port"
	"pricelist/pkg/tracing"
)

// ListingCachePrefix namespaces every cached listing page. Catalog writes
// drop the whole namespace.
const ListingCachePrefix = "catalog:"

// ListingGenerationKey holds the current listing key generation. It lives
// outside ListingCachePrefix so invalidation does not drop it.
const ListingGenerationKey = "catalog-generation"

const listingGenerationTTL = 24 * time.Hour

const (
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

var eventNames = map[string]string{
	opCreate: "created",
	opUpdate: "updated",
	opDelete: "deleted",
}

// CatalogService is the single write path for brands, types, models, years
// and pricelists. Every rule is driven by the domain.Entity descriptor of the
// kind being written.
type CatalogService struct {
	repo      port.CatalogRepository
	cache     port.CacheRepository
	events    port.EventPublisher
	telemetry port.Telemetry
	logger    *otelzap.Logger
	now       func() time.Time
}

func NewCatalogService(
	repo port.CatalogRepository,
	cache port.CacheRepository,
	events port.EventPublisher,
	telemetry port.Telemetry,
	logger *otelzap.Logger,
) *CatalogService {
	return &CatalogService{
		repo:      repo,
		cache:     cache,
		events:    events,
		telemetry: telemetry,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *CatalogService) Create(ctx context.Context, actor domain.Principal, kind domain.EntityKind, changes domain.Changes) (domain.Record, error) {
	entity, err := lookup(kind)

	if err != nil {
		return domain.Record{}, err
	}

	ctx, span := tracing.CreateChildSpan(ctx, "CatalogService.Create", spanAttrs(entity, 0))
	defer span.End()

	record, err := s.create(ctx, entity, changes)

	if err != nil {
		tracing.AddSpanError(span, err)
	}

	s.after(ctx, actor, entity, opCreate, record.ID, err)

	return record, err
}

func (s *CatalogService) create(ctx context.Context, entity domain.Entity, changes domain.Changes) (domain.Record, error) {
	values, err := normalize(entity, changes, true)

	if err != nil {
		return domain.Record{}, err
	}

	if err := s.checkReferences(ctx, values, entity); err != nil {
		return domain.Record{}, err
	}

	if err := s.checkUnique(ctx, entity, values, 0); err != nil {
		return domain.Record{}, err
	}

	id, err := s.repo.Insert(ctx, entity, values)

	if err != nil {
		return domain.Record{}, translate(entity, "insert", err)
	}

	record, err := s.repo.Find(ctx, entity, id)

	if err != nil {
		return domain.Record{}, translate(entity, "reload", err)
	}

	return record, nil
}

func (s *CatalogService) Update(ctx context.Context, actor domain.Principal, kind domain.EntityKind, id int64, changes domain.Changes) (domain.Record, error) {
	entity, err := lookup(kind)

	if err != nil {
		return domain.Record{}, err
	}

	ctx, span := tracing.CreateChildSpan(ctx, "CatalogService.Update", spanAttrs(entity, id))
	defer span.End()

	record, err := s.update(ctx, entity, id, changes)

	if err != nil {
		tracing.AddSpanError(span, err)
	}

	s.after(ctx, actor, entity, opUpdate, id, err)

	return record, err
}

func (s *CatalogService) update(ctx context.Context, entity domain.Entity, id int64, changes domain.Changes) (domain.Record, error) {
	if len(changes) == 0 {
		return domain.Record{}, domain.NewValidationError("body", "No fields to update")
	}

	values, err := normalize(entity, changes, false)

	if err != nil {
		return domain.Record{}, err
	}

	current, err := s.repo.Find(ctx, entity, id)

	if err != nil {
		return domain.Record{}, translate(entity, "find", err)
	}

	if err := s.checkReferences(ctx, values, entity); err != nil {
		return domain.Record{}, err
	}

	if err := s.checkUnique(ctx, entity, values, id); err != nil {
		return domain.Record{}, err
	}

	if err := checkChanged(entity, current, values); err != nil {
		return domain.Record{}, err
	}

	if err := s.repo.Update(ctx, entity, id, values); err != nil {
		return domain.Record{}, translate(entity, "update", err)
	}

	record, err := s.repo.Find(ctx, entity, id)

	if err != nil {
		return domain.Record{}, translate(entity, "reload", err)
	}

	return record, nil
}

// Delete soft-deletes the live row and writes the entity tombstone. Deleting
// an already deleted row is NotFound.
func (s *CatalogService) Delete(ctx context.Context, actor domain.Principal, kind domain.EntityKind, id int64) error {
	entity, err := lookup(kind)

	if err != nil {
		return err
	}

	ctx, span := tracing.CreateChildSpan(ctx, "CatalogService.Delete", spanAttrs(entity, id))
	defer span.End()

	err = s.repo.SoftDelete(ctx, entity, id, s.now())

	if err != nil {
		err = translate(entity, "delete", err)
		tracing.AddSpanError(span, err)
	}

	s.after(ctx, actor, entity, opDelete, id, err)

	return err
}

func (s *CatalogService) checkReferences(ctx context.Context, values domain.Changes, entity domain.Entity) error {
	for _, field := range entity.Fields {
		if !field.IsReference() {
			continue
		}

		value, ok := values[field.Column]

		if !ok {
			continue
		}

		parent := domain.MustLookup(field.Ref)

		_, err := s.repo.Find(ctx, parent, value.(int64))

		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewReferenceError(fieldName(field), parent.InvalidRefMessage)
		}

		if err != nil {
			return domain.NewInternalError("check "+parent.Table+" reference", err)
		}
	}

	return nil
}

func (s *CatalogService) checkUnique(ctx context.Context, entity domain.Entity, values domain.Changes, excludeID int64) error {
	field, ok := entity.UniqueField()

	if !ok {
		return nil
	}

	value, supplied := values[field.Column]

	if !supplied {
		return nil
	}

	taken, err := s.repo.Taken(ctx, entity, field.Column, value.(string), excludeID, entity.UniqueAcrossDeleted)

	if err != nil {
		return domain.NewInternalError("check "+entity.Table+" uniqueness", err)
	}

	if taken {
		return domain.NewConflictError(fieldName(field), entity.ConflictMessage)
	}

	return nil
}

// invalidateListings moves readers to a new key generation, then drops the
// cached pages. A load that began before the write stores nothing readers of
// the new generation can see.
func (s *CatalogService) invalidateListings(ctx context.Context) error {
	bumpErr := s.cache.Set(ctx, ListingGenerationKey, []byte(uuid.NewString()), listingGenerationTTL)

	return errors.Join(bumpErr, s.cache.DeleteByPrefix(ctx, ListingCachePrefix))
}

// after runs the side effects of a write. Cache and broker failures are
// logged and never change the outcome.
func (s *CatalogService) after(ctx context.Context, actor domain.Principal, entity domain.Entity, operation string, id int64, err error) {
	s.telemetry.RecordCatalogMutation(ctx, string(entity.Kind), operation, err)

	if err != nil {
		return
	}

	if cacheErr := s.invalidateListings(ctx); cacheErr != nil {
		s.logger.Ctx(ctx).Warn("listing cache invalidation failed",
			zap.String("entity", string(entity.Kind)),
			zap.Error(cacheErr),
		)
	}

	event := port.CatalogEvent{
		Event:     eventNames[operation],
		Entity:    string(entity.Kind),
		ID:        id,
		ActorID:   actor.ID,
		Timestamp: s.now().UTC(),
	}

	if pubErr := s.events.Publish(ctx, event); pubErr != nil {
		s.logger.Ctx(ctx).Warn("catalog event publish failed",
			zap.String("event", event.Event),
			zap.String("entity", event.Entity),
			zap.Int64("id", id),
			zap.Error(pubErr),
		)
	}

	s.logger.Ctx(ctx).Info("catalog "+operation,
		zap.String("entity", string(entity.Kind)),
		zap.Int64("id", id),
		zap.Int64("actor_id", actor.ID),
	)
}

func lookup(kind domain.EntityKind) (domain.Entity, error) {
	entity, ok := domain.Lookup(kind)

	if !ok {
		return domain.Entity{}, domain.NewInternalError("lookup entity", fmt.Errorf("unknown entity kind %q", kind))
	}

	return entity, nil
}

// normalize checks presence and format and returns trimmed values keyed by
// column. With requireAll every field of the entity must be supplied.
func normalize(entity domain.Entity, changes domain.Changes, requireAll bool) (domain.Changes, error) {
	for column := range changes {
		if _, ok := entity.Field(column); !ok {
			return nil, domain.NewValidationError(column, fmt.Sprintf("Unknown field %s.", column))
		}
	}

	values := make(domain.Changes, len(changes))

	for _, field := range entity.Fields {
		raw, ok := changes[field.Column]

		if !ok || raw == nil {
			if requireAll {
				return nil, domain.NewValidationError(fieldName(field), fmt.Sprintf("%s is required.", fieldName(field)))
			}

			continue
		}

		if field.IsReference() {
			id, ok := toID(raw)

			if !ok || id <= 0 {
				return nil, domain.NewValidationError(fieldName(field), fmt.Sprintf("%s must be a positive integer.", fieldName(field)))
			}

			values[field.Column] = id

			continue
		}

		text, ok := raw.(string)

		if !ok {
			return nil, domain.NewValidationError(fieldName(field), fmt.Sprintf("%s must be a string.", fieldName(field)))
		}

		text = strings.TrimSpace(text)

		if text == "" {
			return nil, domain.NewValidationError(fieldName(field), fmt.Sprintf("%s is required.", fieldName(field)))
		}

		if field.Pattern != nil && !field.Pattern.MatchString(text) {
			return nil, domain.NewValidationError(fieldName(field), field.PatternReason)
		}

		values[field.Column] = text
	}

	return values, nil
}

// checkChanged rejects updates that would leave the row as it is.
func checkChanged(entity domain.Entity, current domain.Record, values domain.Changes) error {
	if field, ok := entity.UniqueField(); ok {
		if value, supplied := values[field.Column]; supplied && value.(string) == current.Values[field.Column] {
			return domain.NewConflictError(fieldName(field),
				fmt.Sprintf("The new %s is the same as the current %s.", field.Noun, field.Noun))
		}
	}

	for column, value := range values {
		if stringify(value) != current.Values[column] {
			return nil
		}
	}

	return domain.NewConflictError("body", "No changes to apply")
}

func translate(entity domain.Entity, op string, err error) error {
	var de *domain.Error

	switch {
	case errors.As(err, &de):
		return de
	case errors.Is(err, domain.ErrNotFound):
		return domain.NewNotFoundError("id", entity.Label+" not found.")
	case errors.Is(err, domain.ErrDuplicate):
		return domain.NewConflictError("", entity.ConflictMessage)
	case errors.Is(err, domain.ErrBrokenReference):
		return domain.NewReferenceError("", "A referenced record does not exist.")
	}

	return domain.NewInternalError(op+" "+entity.Table, err)
}

// fieldName is the client-facing name of a column, e.g. brandId for brand_id.
func fieldName(field domain.Field) string {
	if field.IsReference() {
		return field.Noun + "Id"
	}

	return field.Noun
}

func toID(v any) (int64, bool) {
	switch id := v.(type) {
	case int64:
		return id, true
	case int:
		return int64(id), true
	case float64:
		if id != float64(int64(id)) {
			return 0, false
		}

		return int64(id), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
		return n, err == nil
	}

	return 0, false
}

func stringify(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case int64:
		return strconv.FormatInt(value, 10)
	}

	return fmt.Sprint(v)
}

func spanAttrs(entity domain.Entity, id int64) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String("catalog.entity", string(entity.Kind))}

	if id > 0 {
		attrs = append(attrs, attribute.Int64("catalog.id", id))
	}

	return attrs
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"pricelist/internal/core/domain"
	"pricelist/internal/core/port"
	"pricelist/pkg/tracing"
)

const DefaultListingTTL = time.Minute

// ListingService serves the public catalog reads. Pages are cached under
// ListingCachePrefix, keyed by the current generation, and identical
// concurrent loads share one query.
type ListingService struct {
	repo      port.ListingRepository
	cache     port.CacheRepository
	telemetry port.Telemetry
	logger    *otelzap.Logger
	ttl       time.Duration
	group     singleflight.Group
}

func NewListingService(
	repo port.ListingRepository,
	cache port.CacheRepository,
	telemetry port.Telemetry,
	logger *otelzap.Logger,
	ttl time.Duration,
) *ListingService {
	if ttl <= 0 {
		ttl = DefaultListingTTL
	}

	return &ListingService{
		repo:      repo,
		cache:     cache,
		telemetry: telemetry,
		logger:    logger,
		ttl:       ttl,
	}
}

func (s *ListingService) Pricelists(ctx context.Context, filter domain.PricelistFilter) (domain.Result[domain.PricelistItem], error) {
	filter.Page = filter.Page.Normalize(domain.DefaultCatalogLimit)

	key := cacheKey("pricelists",
		idPart("pricelist", filter.PricelistID),
		idPart("brand", filter.BrandID),
		textPart("brandName", filter.BrandName),
		idPart("type", filter.TypeID),
		idPart("model", filter.ModelID),
		idPart("year", filter.YearID),
		textPart("yearValue", filter.Year),
		pagePart(filter.Page),
	)

	return cached(ctx, s, key, func(ctx context.Context) (domain.Result[domain.PricelistItem], error) {
		items, total, err := s.repo.Pricelists(ctx, filter)

		if err != nil {
			return domain.Result[domain.PricelistItem]{}, domain.NewInternalError("list pricelists", err)
		}

		return result(items, total, filter.Page), nil
	})
}

func (s *ListingService) Pricelist(ctx context.Context, id int64) (domain.PricelistItem, error) {
	page, err := s.Pricelists(ctx, domain.PricelistFilter{PricelistID: &id, Page: domain.Page{Limit: 1}})

	if err != nil {
		return domain.PricelistItem{}, err
	}

	if len(page.Items) == 0 {
		return domain.PricelistItem{}, domain.NewNotFoundError("id", "Id not found.")
	}

	return page.Items[0], nil
}

func (s *ListingService) Years(ctx context.Context, page domain.Page) (domain.Result[domain.Year], error) {
	page = page.Normalize(domain.DefaultCatalogLimit)

	return cached(ctx, s, cacheKey("years", pagePart(page)), func(ctx context.Context) (domain.Result[domain.Year], error) {
		items, total, err := s.repo.Years(ctx, page)

		if err != nil {
			return domain.Result[domain.Year]{}, domain.NewInternalError("list years", err)
		}

		return result(items, total, page), nil
	})
}

func (s *ListingService) Year(ctx context.Context, id int64) (domain.Year, error) {
	return cached(ctx, s, cacheKey("year", strconv.FormatInt(id, 10)), func(ctx context.Context) (domain.Year, error) {
		year, err := s.repo.Year(ctx, id)

		if errors.Is(err, domain.ErrNotFound) {
			return domain.Year{}, domain.NewNotFoundError("id", "Id not found.")
		}

		if err != nil {
			return domain.Year{}, domain.NewInternalError("find year", err)
		}

		return year, nil
	})
}

func (s *ListingService) Brands(ctx context.Context, page domain.Page) (domain.Result[domain.Brand], error) {
	page = page.Normalize(domain.DefaultCatalogLimit)

	return cached(ctx, s, cacheKey("brands", pagePart(page)), func(ctx context.Context) (domain.Result[domain.Brand], error) {
		items, total, err := s.repo.Brands(ctx, page)

		if err != nil {
			return domain.Result[domain.Brand]{}, domain.NewInternalError("list brands", err)
		}

		return result(items, total, page), nil
	})
}

func (s *ListingService) Types(ctx context.Context, filter domain.TypeFilter) (domain.Result[domain.VehicleType], error) {
	filter.Page = filter.Page.Normalize(domain.DefaultCatalogLimit)

	key := cacheKey("types", idPart("brand", filter.BrandID), pagePart(filter.Page))

	return cached(ctx, s, key, func(ctx context.Context) (domain.Result[domain.VehicleType], error) {
		items, total, err := s.repo.Types(ctx, filter)

		if err != nil {
			return domain.Result[domain.VehicleType]{}, domain.NewInternalError("list types", err)
		}

		return result(items, total, filter.Page), nil
	})
}

func (s *ListingService) Models(ctx context.Context, filter domain.ModelFilter) (domain.Result[domain.VehicleModel], error) {
	filter.Page = filter.Page.Normalize(domain.DefaultCatalogLimit)

	key := cacheKey("models", idPart("type", filter.TypeID), pagePart(filter.Page))

	return cached(ctx, s, key, func(ctx context.Context) (domain.Result[domain.VehicleModel], error) {
		items, total, err := s.repo.Models(ctx, filter)

		if err != nil {
			return domain.Result[domain.VehicleModel]{}, domain.NewInternalError("list models", err)
		}

		return result(items, total, filter.Page), nil
	})
}

// cached returns the value stored under key, or loads, stores and returns it.
// Keys are scoped to the current listing generation and a load only stores
// its value when no write bumped the generation meanwhile. Errors are never
// cached.
func cached[T any](ctx context.Context, s *ListingService, key string, load func(context.Context) (T, error)) (T, error) {
	var zero T

	generation, err := s.generation(ctx)

	if err != nil {
		s.logger.Ctx(ctx).Warn("listing cache generation read failed", zap.Error(err))
		return traced(ctx, key, load)
	}

	key = ListingCachePrefix + generation + ":" + key

	if data, err := s.cache.Get(ctx, key); err == nil {
		var value T

		if err := json.Unmarshal(data, &value); err == nil {
			s.telemetry.RecordCacheLookup(ctx, true)
			return value, nil
		}

		_ = s.cache.Delete(ctx, key)
	} else if !errors.Is(err, port.ErrCacheMiss) {
		s.logger.Ctx(ctx).Warn("listing cache read failed", zap.String("key", key), zap.Error(err))
	}

	s.telemetry.RecordCacheLookup(ctx, false)

	v, err, _ := s.group.Do(key, func() (any, error) {
		value, err := traced(ctx, key, load)

		if err != nil {
			return nil, err
		}

		if current, err := s.generation(ctx); err != nil || current != generation {
			return value, nil
		}

		if data, err := json.Marshal(value); err == nil {
			if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
				s.logger.Ctx(ctx).Warn("listing cache write failed", zap.String("key", key), zap.Error(err))
			}
		}

		return value, nil
	})

	if err != nil {
		return zero, err
	}

	return v.(T), nil
}

// generation returns the listing key generation, "0" until the first write.
func (s *ListingService) generation(ctx context.Context) (string, error) {
	data, err := s.cache.Get(ctx, ListingGenerationKey)

	if errors.Is(err, port.ErrCacheMiss) {
		return "0", nil
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}

func traced[T any](ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	var value T

	err := tracing.SpanWrapper(ctx, "ListingService.load", []attribute.KeyValue{attribute.String("cache.key", key)}, func(ctx context.Context) error {
		var err error
		value, err = load(ctx)
		return err
	})

	return value, err
}

func result[T any](items []T, total int, page domain.Page) domain.Result[T] {
	if items == nil {
		items = []T{}
	}

	return domain.Result[T]{Items: items, Total: total, Limit: page.Limit, Offset: page.Offset}
}

func cacheKey(resource string, parts ...string) string {
	kept := make([]string, 0, len(parts))

	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}

	return resource + ":" + strings.Join(kept, "|")
}

func idPart(name string, id *int64) string {
	if id == nil {
		return ""
	}

	return name + "=" + strconv.FormatInt(*id, 10)
}

func textPart(name string, value *string) string {
	if value == nil {
		return ""
	}

	return name + "=" + strconv.Quote(*value)
}

func pagePart(page domain.Page) string {
	return fmt.Sprintf("limit=%d|offset=%d", page.Limit, page.Offset)
}

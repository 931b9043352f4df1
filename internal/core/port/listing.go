package port

import (
	"context"

	"pricelist/internal/core/domain"
)

type ListingRepository interface {
	Pricelists(ctx context.Context, filter domain.PricelistFilter) ([]domain.PricelistItem, int, error)
	Years(ctx context.Context, page domain.Page) ([]domain.Year, int, error)
	Year(ctx context.Context, id int64) (domain.Year, error)
	Brands(ctx context.Context, page domain.Page) ([]domain.Brand, int, error)
	Types(ctx context.Context, filter domain.TypeFilter) ([]domain.VehicleType, int, error)
	Models(ctx context.Context, filter domain.ModelFilter) ([]domain.VehicleModel, int, error)
}

type ListingService interface {
	Pricelists(ctx context.Context, filter domain.PricelistFilter) (domain.Result[domain.PricelistItem], error)
	Pricelist(ctx context.Context, id int64) (domain.PricelistItem, error)
	Years(ctx context.Context, page domain.Page) (domain.Result[domain.Year], error)
	Year(ctx context.Context, id int64) (domain.Year, error)
	Brands(ctx context.Context, page domain.Page) (domain.Result[domain.Brand], error)
	Types(ctx context.Context, filter domain.TypeFilter) (domain.Result[domain.VehicleType], error)
	Models(ctx context.Context, filter domain.ModelFilter) (domain.Result[domain.VehicleModel], error)
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"pricelist/internal/adapter/database"
	"pricelist/internal/adapter/database/query"
	"pricelist/internal/core/domain"
)

type ListingRepository struct {
	db *database.DB
}

func NewListingRepository(db *database.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

func (r *ListingRepository) Pricelists(ctx context.Context, filter domain.PricelistFilter) ([]domain.PricelistItem, int, error) {
	list, total := query.Pricelists(*r.db.QueryBuilder, filter)

	items, err := selectAll(ctx, r.db, "list pricelists", list, func(rows *sql.Rows) (domain.PricelistItem, error) {
		var item domain.PricelistItem

		err := rows.Scan(
			&item.ID, &item.Code, &item.Price,
			&item.YearID, &item.Year,
			&item.ModelID, &item.ModelName,
			&item.TypeID, &item.TypeName,
			&item.BrandID, &item.BrandName,
		)

		return item, err
	})

	if err != nil {
		return nil, 0, err
	}

	n, err := count(ctx, r.db, total)

	return items, n, err
}

func (r *ListingRepository) Years(ctx context.Context, page domain.Page) ([]domain.Year, int, error) {
	list, total := query.Years(*r.db.QueryBuilder, page)

	items, err := selectAll(ctx, r.db, "list years", list, scanYear)

	if err != nil {
		return nil, 0, err
	}

	n, err := count(ctx, r.db, total)

	return items, n, err
}

func (r *ListingRepository) Year(ctx context.Context, id int64) (domain.Year, error) {
	q, args, err := query.Year(*r.db.QueryBuilder, id).ToSql()

	if err != nil {
		return domain.Year{}, fmt.Errorf("build get year: %w", err)
	}

	var year domain.Year

	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&year.ID, &year.Year); err != nil {
		return domain.Year{}, database.Translate("get year", err)
	}

	return year, nil
}

func (r *ListingRepository) Brands(ctx context.Context, page domain.Page) ([]domain.Brand, int, error) {
	list, total := query.Brands(*r.db.QueryBuilder, page)

	items, err := selectAll(ctx, r.db, "list brands", list, func(rows *sql.Rows) (domain.Brand, error) {
		var b domain.Brand
		err := rows.Scan(&b.ID, &b.Name)
		return b, err
	})

	if err != nil {
		return nil, 0, err
	}

	n, err := count(ctx, r.db, total)

	return items, n, err
}

func (r *ListingRepository) Types(ctx context.Context, filter domain.TypeFilter) ([]domain.VehicleType, int, error) {
	list, total := query.Types(*r.db.QueryBuilder, filter)

	items, err := selectAll(ctx, r.db, "list types", list, func(rows *sql.Rows) (domain.VehicleType, error) {
		var t domain.VehicleType
		err := rows.Scan(&t.ID, &t.Name, &t.BrandID, &t.BrandName)
		return t, err
	})

	if err != nil {
		return nil, 0, err
	}

	n, err := count(ctx, r.db, total)

	return items, n, err
}

func (r *ListingRepository) Models(ctx context.Context, filter domain.ModelFilter) ([]domain.VehicleModel, int, error) {
	list, total := query.Models(*r.db.QueryBuilder, filter)

	items, err := selectAll(ctx, r.db, "list models", list, func(rows *sql.Rows) (domain.VehicleModel, error) {
		var m domain.VehicleModel
		err := rows.Scan(&m.ID, &m.Name, &m.TypeID, &m.TypeName)
		return m, err
	})

	if err != nil {
		return nil, 0, err
	}

	n, err := count(ctx, r.db, total)

	return items, n, err
}

func scanYear(rows *sql.Rows) (domain.Year, error) {
	var y domain.Year
	err := rows.Scan(&y.ID, &y.Year)
	return y, err
}

// selectAll runs builder and scans every row. Rows are closed before it
// returns so the caller can issue the next statement on a single-connection
// pool.
func selectAll[T any](ctx context.Context, db *database.DB, op string, builder sq.SelectBuilder, scan func(*sql.Rows) (T, error)) ([]T, error) {
	q, args, err := builder.ToSql()

	if err != nil {
		return nil, fmt.Errorf("build %s: %w", op, err)
	}

	rows, err := db.QueryContext(ctx, q, args...)

	if err != nil {
		return nil, database.Translate(op, err)
	}

	defer rows.Close()

	items := make([]T, 0)

	for rows.Next() {
		item, err := scan(rows)

		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", op, err)
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", op, err)
	}

	return items, nil
}

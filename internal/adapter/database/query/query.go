// Package query composes the read-side SQL of the catalog. Builders return a
// page query and a matching COUNT query over the same joins and filters.
package query

import (
	sq "github.com/Masterminds/squirrel"

	"pricelist/internal/core/domain"
)

// live excludes soft-deleted rows of the given table aliases.
func live(aliases ...string) sq.And {
	conds := make(sq.And, 0, len(aliases))

	for _, alias := range aliases {
		conds = append(conds, sq.Expr(alias+".deleted_at IS NULL"))
	}

	return conds
}

func paginate(b sq.SelectBuilder, page domain.Page) sq.SelectBuilder {
	return b.Limit(uint64(page.Limit)).Offset(uint64(page.Offset))
}

var PricelistColumns = []string{
	"p.id", "p.code", "p.price",
	"y.id", "y.year",
	"m.id", "m.name",
	"t.id", "t.name",
	"b.id", "b.name",
}

func pricelistJoin(b sq.SelectBuilder) sq.SelectBuilder {
	return b.From("pricelists p").
		Join("vehicle_years y ON y.id = p.year_id").
		Join("vehicle_models m ON m.id = p.model_id").
		Join("vehicle_types t ON t.id = m.type_id").
		Join("vehicle_brands b ON b.id = t.brand_id")
}

// PricelistConditions returns the WHERE clause for f: every level of the join
// must be live, and each supplied filter adds one equality.
func PricelistConditions(f domain.PricelistFilter) sq.And {
	where := live("p", "y", "m", "t", "b")

	if f.PricelistID != nil {
		where = append(where, sq.Eq{"p.id": *f.PricelistID})
	}

	if f.BrandID != nil {
		where = append(where, sq.Eq{"b.id": *f.BrandID})
	}

	if f.BrandName != nil {
		where = append(where, sq.Eq{"b.name": *f.BrandName})
	}

	if f.TypeID != nil {
		where = append(where, sq.Eq{"t.id": *f.TypeID})
	}

	if f.ModelID != nil {
		where = append(where, sq.Eq{"m.id": *f.ModelID})
	}

	if f.YearID != nil {
		where = append(where, sq.Eq{"y.id": *f.YearID})
	}

	if f.Year != nil {
		where = append(where, sq.Eq{"y.year": *f.Year})
	}

	return where
}

func Pricelists(b sq.StatementBuilderType, f domain.PricelistFilter) (list, count sq.SelectBuilder) {
	where := PricelistConditions(f)

	list = pricelistJoin(b.Select(PricelistColumns...)).
		Where(where).
		OrderBy("p.code ASC", "p.id ASC")
	list = paginate(list, f.Page)

	count = pricelistJoin(b.Select("COUNT(*)")).Where(where)

	return list, count
}

func Years(b sq.StatementBuilderType, page domain.Page) (list, count sq.SelectBuilder) {
	where := live("y")

	list = paginate(b.Select("y.id", "y.year").From("vehicle_years y").Where(where).OrderBy("y.year ASC", "y.id ASC"), page)
	count = b.Select("COUNT(*)").From("vehicle_years y").Where(where)

	return list, count
}

func Year(b sq.StatementBuilderType, id int64) sq.SelectBuilder {
	return b.Select("y.id", "y.year").From("vehicle_years y").Where(live("y")).Where(sq.Eq{"y.id": id})
}

func Brands(b sq.StatementBuilderType, page domain.Page) (list, count sq.SelectBuilder) {
	where := live("b")

	list = paginate(b.Select("b.id", "b.name").From("vehicle_brands b").Where(where).OrderBy("b.name ASC", "b.id ASC"), page)
	count = b.Select("COUNT(*)").From("vehicle_brands b").Where(where)

	return list, count
}

func Types(b sq.StatementBuilderType, f domain.TypeFilter) (list, count sq.SelectBuilder) {
	where := live("t", "b")

	if f.BrandID != nil {
		where = append(where, sq.Eq{"b.id": *f.BrandID})
	}

	from := func(sb sq.SelectBuilder) sq.SelectBuilder {
		return sb.From("vehicle_types t").Join("vehicle_brands b ON b.id = t.brand_id")
	}

	list = paginate(from(b.Select("t.id", "t.name", "b.id", "b.name")).Where(where).OrderBy("t.name ASC", "t.id ASC"), f.Page)
	count = from(b.Select("COUNT(*)")).Where(where)

	return list, count
}

func Models(b sq.StatementBuilderType, f domain.ModelFilter) (list, count sq.SelectBuilder) {
	where := live("m", "t", "b")

	if f.TypeID != nil {
		where = append(where, sq.Eq{"t.id": *f.TypeID})
	}

	from := func(sb sq.SelectBuilder) sq.SelectBuilder {
		return sb.From("vehicle_models m").
			Join("vehicle_types t ON t.id = m.type_id").
			Join("vehicle_brands b ON b.id = t.brand_id")
	}

	list = paginate(from(b.Select("m.id", "m.name", "t.id", "t.name")).Where(where).OrderBy("m.name ASC", "m.id ASC"), f.Page)
	count = from(b.Select("COUNT(*)")).Where(where)

	return list, count
}

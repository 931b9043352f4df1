package request

import "pricelist/internal/core/domain"

// CatalogRequest is a body that can be turned into catalog column changes.
type CatalogRequest interface {
	Changes() domain.Changes
}

type AddBrandRequest struct {
	Name *string `json:"name"`
}

func (r AddBrandRequest) Changes() domain.Changes {
	return collect(text("name", r.Name))
}

type AddTypeRequest struct {
	Name    *string `json:"name"`
	BrandID *int64  `json:"brandId"`
}

func (r AddTypeRequest) Changes() domain.Changes {
	return collect(text("name", r.Name), id("brand_id", r.BrandID))
}

type AddModelRequest struct {
	Name   *string `json:"name"`
	TypeID *int64  `json:"typeId"`
}

func (r AddModelRequest) Changes() domain.Changes {
	return collect(text("name", r.Name), id("type_id", r.TypeID))
}

type AddYearRequest struct {
	Year *Literal `json:"year"`
}

func (r AddYearRequest) Changes() domain.Changes {
	return collect(literal("year", r.Year))
}

type AddPricelistRequest struct {
	Code    *string  `json:"code"`
	Price   *Literal `json:"price"`
	YearID  *int64   `json:"yearId"`
	ModelID *int64   `json:"modelId"`
}

func (r AddPricelistRequest) Changes() domain.Changes {
	return collect(
		text("code", r.Code),
		literal("price", r.Price),
		id("year_id", r.YearID),
		id("model_id", r.ModelID),
	)
}

type UpdateBrandRequest struct {
	NewBrandName *string `json:"newBrandName"`
}

func (r UpdateBrandRequest) Changes() domain.Changes {
	return collect(text("name", r.NewBrandName))
}

type UpdateTypeRequest struct {
	NewTypeName *string `json:"newTypeName"`
	NewBrandID  *int64  `json:"newBrandId"`
}

func (r UpdateTypeRequest) Changes() domain.Changes {
	return collect(text("name", r.NewTypeName), id("brand_id", r.NewBrandID))
}

type UpdateModelRequest struct {
	NewModelName *string `json:"newModelName"`
	NewTypeID    *int64  `json:"newTypeId"`
}

func (r UpdateModelRequest) Changes() domain.Changes {
	return collect(text("name", r.NewModelName), id("type_id", r.NewTypeID))
}

type UpdateYearRequest struct {
	NewYear *Literal `json:"newYear"`
}

func (r UpdateYearRequest) Changes() domain.Changes {
	return collect(literal("year", r.NewYear))
}

type UpdatePricelistRequest struct {
	NewCode    *string  `json:"newCode"`
	NewPrice   *Literal `json:"newPrice"`
	NewYearID  *int64   `json:"newYearId"`
	NewModelID *int64   `json:"newModelId"`
}

func (r UpdatePricelistRequest) Changes() domain.Changes {
	return collect(
		text("code", r.NewCode),
		literal("price", r.NewPrice),
		id("year_id", r.NewYearID),
		id("model_id", r.NewModelID),
	)
}

type change struct {
	column string
	value  any
	set    bool
}

func text(column string, v *string) change {
	if v == nil {
		return change{}
	}

	return change{column: column, value: *v, set: true}
}

func literal(column string, v *Literal) change {
	if v == nil {
		return change{}
	}

	return change{column: column, value: string(*v), set: true}
}

func id(column string, v *int64) change {
	if v == nil {
		return change{}
	}

	return change{column: column, value: *v, set: true}
}

// collect keeps only the fields present in the body.
func collect(changes ...change) domain.Changes {
	out := make(domain.Changes, len(changes))

	for _, c := range changes {
		if c.set {
			out[c.column] = c.value
		}
	}

	return out
}

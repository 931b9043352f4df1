package request

type PageQuery struct {
	Limit  int `form:"limit" validate:"min=0"`
	Offset int `form:"offset" validate:"min=0"`
}

type PricelistQuery struct {
	PageQuery
	PricelistID *int64  `form:"pricelistId" validate:"omitempty,gt=0"`
	BrandID     *int64  `form:"brandId" validate:"omitempty,gt=0"`
	BrandName   *string `form:"brandName"`
	TypeID      *int64  `form:"typeId" validate:"omitempty,gt=0"`
	ModelID     *int64  `form:"modelId" validate:"omitempty,gt=0"`
	YearID      *int64  `form:"yearId" validate:"omitempty,gt=0"`
	Year        *string `form:"year"`
}

type TypeQuery struct {
	PageQuery
	BrandID *int64 `form:"brandId" validate:"omitempty,gt=0"`
}

type ModelQuery struct {
	PageQuery
	TypeID *int64 `form:"typeId" validate:"omitempty,gt=0"`
}

type UserListQuery struct {
	PageQuery
	IsAdmin *int `form:"isAdmin" validate:"required,oneof=0 1"`
}

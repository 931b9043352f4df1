package response

import (
	"time"

	"pricelist/internal/core/domain"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ResponseError struct {
	Code    string            `json:"code"`
	Errors  []ValidationError `json:"errors"`
	Details any               `json:"details,omitempty"`
}

type SuccessResponse struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error ResponseError `json:"error"`
}

// ListResponse is the envelope of every paginated read.
type ListResponse struct {
	Data   any `json:"data"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type UserResponse struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	IsAdmin   bool       `json:"isAdmin"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

func NewUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin(),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		DeletedAt: u.DeletedAt,
	}
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type BrandResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type TypeResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	BrandID   int64  `json:"brandId"`
	BrandName string `json:"brandName"`
}

type ModelResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	TypeID   int64  `json:"typeId"`
	TypeName string `json:"typeName"`
}

type YearResponse struct {
	ID   int64  `json:"id"`
	Year string `json:"year"`
}

type PricelistResponse struct {
	ID        int64  `json:"id"`
	Code      string `json:"code"`
	Price     string `json:"price"`
	YearID    int64  `json:"yearId"`
	Year      string `json:"year"`
	ModelID   int64  `json:"modelId"`
	ModelName string `json:"modelName"`
	TypeID    int64  `json:"typeId"`
	TypeName  string `json:"typeName"`
	BrandID   int64  `json:"brandId"`
	BrandName string `json:"brandName"`
}

func NewPricelistResponse(p domain.PricelistItem) PricelistResponse {
	return PricelistResponse(p)
}

func NewBrandResponse(b domain.Brand) BrandResponse {
	return BrandResponse(b)
}

func NewTypeResponse(t domain.VehicleType) TypeResponse {
	return TypeResponse(t)
}

func NewModelResponse(m domain.VehicleModel) ModelResponse {
	return ModelResponse(m)
}

func NewYearResponse(y domain.Year) YearResponse {
	return YearResponse(y)
}

// RecordResponse is returned by catalog writes.
type RecordResponse struct {
	ID        int64             `json:"id"`
	Entity    string            `json:"entity"`
	Values    map[string]string `json:"values"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

func NewRecordResponse(r domain.Record) RecordResponse {
	return RecordResponse{
		ID:        r.ID,
		Entity:    string(r.Kind),
		Values:    r.Values,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// NewListResponse maps every item of a result page with fn.
func NewListResponse[T, R any](result domain.Result[T], fn func(T) R) ListResponse {
	data := make([]R, 0, len(result.Items))

	for _, item := range result.Items {
		data = append(data, fn(item))
	}

	return ListResponse{
		Data:   data,
		Total:  result.Total,
		Limit:  result.Limit,
		Offset: result.Offset,
	}
}

package domain

const (
	DefaultCatalogLimit = 4
	DefaultUserLimit    = 10
	MaxPageLimit        = 100
)

type Page struct {
	Limit  int
	Offset int
}

// Normalize fills the defaults and clamps limit to MaxPageLimit.
func (p Page) Normalize(defaultLimit int) Page {
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}

	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}

	if p.Offset < 0 {
		p.Offset = 0
	}

	return p
}

// PricelistFilter holds the optional equality filters of the catalog listing.
// Nil fields are ignored; the rest are combined with AND.
type PricelistFilter struct {
	PricelistID *int64
	BrandID     *int64
	BrandName   *string
	TypeID      *int64
	ModelID     *int64
	YearID      *int64
	Year        *string
	Page        Page
}

type TypeFilter struct {
	BrandID *int64
	Page    Page
}

type ModelFilter struct {
	TypeID *int64
	Page   Page
}

type Brand struct {
	ID   int64
	Name string
}

type VehicleType struct {
	ID        int64
	Name      string
	BrandID   int64
	BrandName string
}

type VehicleModel struct {
	ID       int64
	Name     string
	TypeID   int64
	TypeName string
}

type Year struct {
	ID   int64
	Year string
}

// PricelistItem is one row of the pricelist ⇄ year ⇄ model ⇄ type ⇄ brand join.
type PricelistItem struct {
	ID        int64
	Code      string
	Price     string
	YearID    int64
	Year      string
	ModelID   int64
	ModelName string
	TypeID    int64
	TypeName  string
	BrandID   int64
	BrandName string
}

// Result is one page of a listing plus the number of rows matching the filter.
type Result[T any] struct {
	Items  []T
	Total  int
	Limit  int
	Offset int
}

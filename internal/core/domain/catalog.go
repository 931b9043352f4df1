package domain

import (
	"regexp"
	"time"
)

type EntityKind string

const (
	KindBrand     EntityKind = "brand"
	KindType      EntityKind = "type"
	KindModel     EntityKind = "model"
	KindYear      EntityKind = "year"
	KindPricelist EntityKind = "pricelist"
)

var (
	YearPattern  = regexp.MustCompile(`^\d{4}$`)
	PricePattern = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// Field describes one writable column of a catalog entity.
type Field struct {
	Column string
	// Noun is the word used in client messages ("name", "year", "code").
	Noun string
	// Ref is set when the column is a foreign key to another entity.
	Ref EntityKind
	// Unique marks the column checked for collisions on every write.
	Unique        bool
	Pattern       *regexp.Regexp
	PatternReason string
}

func (f Field) IsReference() bool {
	return f.Ref != ""
}

// Entity is the descriptor that drives the single write path shared by all
// catalog kinds.
type Entity struct {
	Kind   EntityKind
	Label  string
	Table  string
	Fields []Field
	// UniqueAcrossDeleted extends the uniqueness check to soft-deleted rows.
	UniqueAcrossDeleted bool
	// Tombstone holds the column values written on soft delete.
	Tombstone map[string]any
	// InvalidRefMessage is reported when a write points at a missing row of
	// this entity.
	InvalidRefMessage string
	ConflictMessage   string
}

func (e Entity) Field(column string) (Field, bool) {
	for _, f := range e.Fields {
		if f.Column == column {
			return f, true
		}
	}

	return Field{}, false
}

func (e Entity) UniqueField() (Field, bool) {
	for _, f := range e.Fields {
		if f.Unique {
			return f, true
		}
	}

	return Field{}, false
}

func (e Entity) Columns() []string {
	cols := make([]string, 0, len(e.Fields))

	for _, f := range e.Fields {
		cols = append(cols, f.Column)
	}

	return cols
}

var catalog = map[EntityKind]Entity{
	KindBrand: {
		Kind:  KindBrand,
		Label: "Vehicle brand",
		Table: "vehicle_brands",
		Fields: []Field{
			{Column: "name", Noun: "name", Unique: true},
		},
		Tombstone:         map[string]any{"name": "Vehicle brand is deleted"},
		InvalidRefMessage: "Brand`s id is invalid.",
		ConflictMessage:   "Vehicle brand already exists.",
	},
	KindType: {
		Kind:  KindType,
		Label: "Vehicle type",
		Table: "vehicle_types",
		Fields: []Field{
			{Column: "name", Noun: "name", Unique: true},
			{Column: "brand_id", Noun: "brand", Ref: KindBrand},
		},
		Tombstone:         map[string]any{"name": "Vehicle type is deleted"},
		InvalidRefMessage: "Type`s id is invalid.",
		ConflictMessage:   "Vehicle type already exists.",
	},
	KindModel: {
		Kind:  KindModel,
		Label: "Vehicle model",
		Table: "vehicle_models",
		Fields: []Field{
			{Column: "name", Noun: "name", Unique: true},
			{Column: "type_id", Noun: "type", Ref: KindType},
		},
		Tombstone:         map[string]any{"name": "Vehicle model is deleted"},
		InvalidRefMessage: "Model`s id is invalid.",
		ConflictMessage:   "Vehicle model already exists.",
	},
	KindYear: {
		Kind:  KindYear,
		Label: "Vehicle year",
		Table: "vehicle_years",
		Fields: []Field{
			{
				Column:        "year",
				Noun:          "year",
				Unique:        true,
				Pattern:       YearPattern,
				PatternReason: "Invalid year format. Please use the format YYYY.",
			},
		},
		Tombstone:         map[string]any{"year": "0000"},
		InvalidRefMessage: "Year`s id is invalid.",
		ConflictMessage:   "Vehicle year already exists.",
	},
	KindPricelist: {
		Kind:  KindPricelist,
		Label: "Pricelist",
		Table: "pricelists",
		Fields: []Field{
			{Column: "code", Noun: "code", Unique: true},
			{
				Column:        "price",
				Noun:          "price",
				Pattern:       PricePattern,
				PatternReason: "Invalid price format",
			},
			{Column: "year_id", Noun: "year", Ref: KindYear},
			{Column: "model_id", Noun: "model", Ref: KindModel},
		},
		UniqueAcrossDeleted: true,
		// code is kept so a retired code can never be issued again
		Tombstone:         map[string]any{"price": "0"},
		InvalidRefMessage: "Pricelist`s id is invalid.",
		ConflictMessage:   "Pricelist`s code already exists.",
	},
}

// Lookup returns the descriptor for kind.
func Lookup(kind EntityKind) (Entity, bool) {
	e, ok := catalog[kind]
	return e, ok
}

func MustLookup(kind EntityKind) Entity {
	e, ok := catalog[kind]

	if !ok {
		panic("unknown catalog entity kind: " + string(kind))
	}

	return e
}

// Changes maps column names to new values. Text columns carry strings and
// foreign keys carry int64 ids.
type Changes map[string]any

// Record is a catalog row read back through the generic write path.
type Record struct {
	Kind      EntityKind
	ID        int64
	Values    map[string]string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

func (r Record) IsDeleted() bool {
	return r.DeletedAt != nil
}

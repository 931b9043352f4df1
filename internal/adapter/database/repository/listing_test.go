package repository

import (
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"pricelist/internal/adapter/database"
	"pricelist/internal/core/domain"
	. "pricelist/pkg/test"
)

type ListingRepositorySuite struct {
	suite.Suite
	DB      *database.DB
	Catalog *CatalogRepository
	Repo    *ListingRepository

	toyota, honda int64
	suv, sedan    int64
	rav4, civic   int64
	y2023, y2024  int64
}

func (s *ListingRepositorySuite) SetupTest() {
	s.DB = InitTestDB()
	s.Catalog = NewCatalogRepository(s.DB)
	s.Repo = NewListingRepository(s.DB)

	s.toyota = s.insert(domain.KindBrand, domain.Changes{"name": "Toyota"})
	s.honda = s.insert(domain.KindBrand, domain.Changes{"name": "Honda"})
	s.suv = s.insert(domain.KindType, domain.Changes{"name": "SUV", "brand_id": s.toyota})
	s.sedan = s.insert(domain.KindType, domain.Changes{"name": "Sedan", "brand_id": s.honda})
	s.rav4 = s.insert(domain.KindModel, domain.Changes{"name": "RAV4", "type_id": s.suv})
	s.civic = s.insert(domain.KindModel, domain.Changes{"name": "Civic", "type_id": s.sedan})
	s.y2023 = s.insert(domain.KindYear, domain.Changes{"year": "2023"})
	s.y2024 = s.insert(domain.KindYear, domain.Changes{"year": "2024"})

	for i, row := range []struct {
		code  string
		model int64
		year  int64
	}{
		{"C-01", s.civic, s.y2023},
		{"C-02", s.civic, s.y2024},
		{"R-01", s.rav4, s.y2023},
		{"R-02", s.rav4, s.y2024},
		{"R-03", s.rav4, s.y2024},
	} {
		s.insert(domain.KindPricelist, domain.Changes{
			"code": row.code, "price": "1000" + string(rune('0'+i)), "year_id": row.year, "model_id": row.model,
		})
	}
}

func (s *ListingRepositorySuite) TearDownTest() {
	s.DB.Close()
}

func TestListingRepositorySuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(ListingRepositorySuite))
}

func (s *ListingRepositorySuite) insert(kind domain.EntityKind, changes domain.Changes) int64 {
	id, err := s.Catalog.Insert(ctx, domain.MustLookup(kind), changes)
	require.NoError(s.T(), err)

	return id
}

func (s *ListingRepositorySuite) TestPricelistsDefaultPage() {
	items, total, err := s.Repo.Pricelists(ctx, domain.PricelistFilter{Page: domain.Page{Limit: 4}})

	assert.NoError(s.T(), err)
	Expect(total).To(Equal(5))
	Expect(items).To(HaveLen(4))
	Expect(items[0].Code).To(Equal("C-01"))
	Expect(items[0].BrandName).To(Equal("Honda"))
	Expect(items[0].TypeName).To(Equal("Sedan"))
	Expect(items[0].Year).To(Equal("2023"))
}

func (s *ListingRepositorySuite) TestPricelistsFilters() {
	brand := "Toyota"
	year := "2024"

	items, total, err := s.Repo.Pricelists(ctx, domain.PricelistFilter{
		BrandName: &brand,
		Year:      &year,
		Page:      domain.Page{Limit: 4},
	})

	assert.NoError(s.T(), err)
	Expect(total).To(Equal(2))
	Expect(items).To(HaveLen(2))

	for _, item := range items {
		Expect(item.BrandID).To(Equal(s.toyota))
		Expect(item.YearID).To(Equal(s.y2024))
	}

	items, total, _ = s.Repo.Pricelists(ctx, domain.PricelistFilter{ModelID: &s.civic, Page: domain.Page{Limit: 4, Offset: 1}})
	Expect(total).To(Equal(2))
	Expect(items).To(HaveLen(1))
	Expect(items[0].Code).To(Equal("C-02"))
}

func (s *ListingRepositorySuite) TestDeletedAncestorsHideRows() {
	require.NoError(s.T(), s.Catalog.SoftDelete(ctx, domain.MustLookup(domain.KindType), s.suv, time.Now()))

	items, total, err := s.Repo.Pricelists(ctx, domain.PricelistFilter{Page: domain.Page{Limit: 10}})

	assert.NoError(s.T(), err)
	Expect(total).To(Equal(2))

	for _, item := range items {
		Expect(item.ModelID).To(Equal(s.civic))
	}

	models, total, err := s.Repo.Models(ctx, domain.ModelFilter{Page: domain.Page{Limit: 10}})
	assert.NoError(s.T(), err)
	Expect(total).To(Equal(1))
	Expect(models[0].Name).To(Equal("Civic"))
}

func (s *ListingRepositorySuite) TestYearsAndBrands() {
	years, total, err := s.Repo.Years(ctx, domain.Page{Limit: 4})
	assert.NoError(s.T(), err)
	Expect(total).To(Equal(2))
	Expect(years[0].Year).To(Equal("2023"))

	year, err := s.Repo.Year(ctx, s.y2024)
	assert.NoError(s.T(), err)
	Expect(year.Year).To(Equal("2024"))

	_, err = s.Repo.Year(ctx, 999)
	assert.ErrorIs(s.T(), err, domain.ErrNotFound)

	brands, total, err := s.Repo.Brands(ctx, domain.Page{Limit: 4})
	assert.NoError(s.T(), err)
	Expect(total).To(Equal(2))
	Expect(brands[0].Name).To(Equal("Honda"))

	types, total, err := s.Repo.Types(ctx, domain.TypeFilter{BrandID: &s.toyota, Page: domain.Page{Limit: 4}})
	assert.NoError(s.T(), err)
	Expect(total).To(Equal(1))
	Expect(types[0].BrandName).To(Equal("Toyota"))
}

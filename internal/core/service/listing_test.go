package service_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"pricelist/internal/adapter/database"
	"pricelist/internal/adapter/database/memory"
	"pricelist/internal/adapter/database/repository"
	"pricelist/internal/core/domain"
	"pricelist/internal/core/port"
	"pricelist/internal/core/service"
	"pricelist/internal/core/telemetry"
	"pricelist/pkg/config"
	. "pricelist/pkg/test"
)

// countingListing counts pricelist queries that reach the database.
type countingListing struct {
	port.ListingRepository
	pricelistCalls atomic.Int32
}

func (c *countingListing) Pricelists(ctx context.Context, filter domain.PricelistFilter) ([]domain.PricelistItem, int, error) {
	c.pricelistCalls.Add(1)
	return c.ListingRepository.Pricelists(ctx, filter)
}

// gatedListing holds the first Brands call after its query until release is
// closed, signalling loaded once the rows are read.
type gatedListing struct {
	port.ListingRepository
	once    sync.Once
	loaded  chan struct{}
	release chan struct{}
}

func (g *gatedListing) Brands(ctx context.Context, page domain.Page) ([]domain.Brand, int, error) {
	items, total, err := g.ListingRepository.Brands(ctx, page)

	g.once.Do(func() {
		close(g.loaded)
		<-g.release
	})

	return items, total, err
}

type ListingServiceSuite struct {
	suite.Suite
	DB      *database.DB
	Cache   port.CacheRepository
	Repo    *countingListing
	Catalog *service.CatalogService
	Service *service.ListingService
	ctx     context.Context
	modelID int64
	yearID  int64
}

func (s *ListingServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.DB = InitTestDB()

	s.Cache = memory.NewMemoryRepository()
	probe := telemetry.NewNoOpProbe()
	logger := config.NewNopLogger()

	s.Repo = &countingListing{ListingRepository: repository.NewListingRepository(s.DB)}
	s.Service = service.NewListingService(s.Repo, s.Cache, probe, logger, 0)
	s.Catalog = service.NewCatalogService(repository.NewCatalogRepository(s.DB), s.Cache, &recordingPublisher{}, probe, logger)

	brand := s.mustCreate(domain.KindBrand, domain.Changes{"name": "Toyota"})
	vtype := s.mustCreate(domain.KindType, domain.Changes{"name": "SUV", "brand_id": brand})
	s.modelID = s.mustCreate(domain.KindModel, domain.Changes{"name": "RAV4", "type_id": vtype})
	s.yearID = s.mustCreate(domain.KindYear, domain.Changes{"year": "2024"})

	for _, code := range []string{"A1", "A2", "A3", "A4", "A5", "A6"} {
		s.mustCreate(domain.KindPricelist, domain.Changes{
			"code": code, "price": "100", "year_id": s.yearID, "model_id": s.modelID,
		})
	}
}

func (s *ListingServiceSuite) TearDownTest() {
	s.DB.Close()
}

func TestListingServiceSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(ListingServiceSuite))
}

func (s *ListingServiceSuite) mustCreate(kind domain.EntityKind, changes domain.Changes) int64 {
	record, err := s.Catalog.Create(s.ctx, admin, kind, changes)
	require.NoError(s.T(), err)

	return record.ID
}

func (s *ListingServiceSuite) TestPricelistsDefaultsAndTotal() {
	page, err := s.Service.Pricelists(s.ctx, domain.PricelistFilter{})

	assert.NoError(s.T(), err)
	Expect(page.Limit).To(Equal(4))
	Expect(page.Offset).To(Equal(0))
	Expect(page.Total).To(Equal(6))
	Expect(page.Items).To(HaveLen(4))
	Expect(page.Items[0].Code).To(Equal("A1"))

	page, err = s.Service.Pricelists(s.ctx, domain.PricelistFilter{Page: domain.Page{Limit: 4, Offset: 4}})
	assert.NoError(s.T(), err)
	Expect(page.Items).To(HaveLen(2))
	Expect(page.Total).To(Equal(6))
}

func (s *ListingServiceSuite) TestPricelistsAreCachedUntilWrite() {
	_, err := s.Service.Pricelists(s.ctx, domain.PricelistFilter{})
	require.NoError(s.T(), err)

	_, err = s.Service.Pricelists(s.ctx, domain.PricelistFilter{})
	require.NoError(s.T(), err)

	Expect(s.Repo.pricelistCalls.Load()).To(Equal(int32(1)))

	s.mustCreate(domain.KindPricelist, domain.Changes{
		"code": "A0", "price": "1", "year_id": s.yearID, "model_id": s.modelID,
	})

	page, err := s.Service.Pricelists(s.ctx, domain.PricelistFilter{})
	require.NoError(s.T(), err)

	Expect(s.Repo.pricelistCalls.Load()).To(Equal(int32(2)))
	Expect(page.Total).To(Equal(7))
	Expect(page.Items[0].Code).To(Equal("A0"))
}

func (s *ListingServiceSuite) TestConcurrentLoadsAreServed() {
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			page, err := s.Service.Pricelists(s.ctx, domain.PricelistFilter{})
			assert.NoError(s.T(), err)
			assert.Equal(s.T(), 6, page.Total)
		}()
	}

	wg.Wait()

	Expect(s.Repo.pricelistCalls.Load()).To(BeNumerically("<=", 8))
}

func (s *ListingServiceSuite) TestPricelistByID() {
	page, err := s.Service.Pricelists(s.ctx, domain.PricelistFilter{})
	require.NoError(s.T(), err)

	item, err := s.Service.Pricelist(s.ctx, page.Items[1].ID)
	assert.NoError(s.T(), err)
	Expect(item.Code).To(Equal("A2"))
	Expect(item.BrandName).To(Equal("Toyota"))

	_, err = s.Service.Pricelist(s.ctx, 9999)
	Expect(domain.CodeOf(err)).To(Equal(domain.CodeNotFound))
}

func (s *ListingServiceSuite) TestYearsBrandsTypesModels() {
	years, err := s.Service.Years(s.ctx, domain.Page{})
	assert.NoError(s.T(), err)
	Expect(years.Total).To(Equal(1))

	year, err := s.Service.Year(s.ctx, s.yearID)
	assert.NoError(s.T(), err)
	Expect(year.Year).To(Equal("2024"))

	_, err = s.Service.Year(s.ctx, 9999)
	Expect(domain.CodeOf(err)).To(Equal(domain.CodeNotFound))

	brands, err := s.Service.Brands(s.ctx, domain.Page{})
	assert.NoError(s.T(), err)
	Expect(brands.Items).To(HaveLen(1))

	types, err := s.Service.Types(s.ctx, domain.TypeFilter{})
	assert.NoError(s.T(), err)
	Expect(types.Items[0].BrandName).To(Equal("Toyota"))

	models, err := s.Service.Models(s.ctx, domain.ModelFilter{})
	assert.NoError(s.T(), err)
	Expect(models.Items[0].TypeName).To(Equal("SUV"))

	empty := int64(9999)
	models, err = s.Service.Models(s.ctx, domain.ModelFilter{TypeID: &empty})
	assert.NoError(s.T(), err)
	Expect(models.Items).To(BeEmpty())
	Expect(models.Total).To(Equal(0))
}

func (s *ListingServiceSuite) TestWriteDuringLoadDoesNotLeaveStalePage() {
	hondaID := s.mustCreate(domain.KindBrand, domain.Changes{"name": "Honda"})

	gate := &gatedListing{
		ListingRepository: repository.NewListingRepository(s.DB),
		loaded:            make(chan struct{}),
		release:           make(chan struct{}),
	}
	listing := service.NewListingService(gate, s.Cache, telemetry.NewNoOpProbe(), config.NewNopLogger(), 0)

	var inflight domain.Result[domain.Brand]
	done := make(chan error, 1)

	go func() {
		var err error
		inflight, err = listing.Brands(s.ctx, domain.Page{})
		done <- err
	}()

	<-gate.loaded
	require.NoError(s.T(), s.Catalog.Delete(s.ctx, admin, domain.KindBrand, hondaID))
	close(gate.release)

	require.NoError(s.T(), <-done)
	Expect(inflight.Total).To(Equal(2))

	page, err := listing.Brands(s.ctx, domain.Page{})
	require.NoError(s.T(), err)

	Expect(page.Total).To(Equal(1))
	Expect(page.Items).To(HaveLen(1))
	Expect(page.Items[0].Name).To(Equal("Toyota"))
}

func (s *ListingServiceSuite) TestGenerationScopesCachedPages() {
	_, err := s.Service.Pricelists(s.ctx, domain.PricelistFilter{})
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.Cache.Set(s.ctx, service.ListingGenerationKey, []byte("next"), 0))

	_, err = s.Service.Pricelists(s.ctx, domain.PricelistFilter{})
	require.NoError(s.T(), err)

	Expect(s.Repo.pricelistCalls.Load()).To(Equal(int32(2)))
}

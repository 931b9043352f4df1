package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"pricelist/internal/adapter/database"
	"pricelist/internal/adapter/database/memory"
	"pricelist/internal/adapter/database/repository"
	"pricelist/internal/adapter/http/middleware"
	"pricelist/internal/adapter/messaging/rabbitmq"
	"pricelist/internal/core/access"
	"pricelist/internal/core/domain"
	"pricelist/internal/core/model/request"
	"pricelist/internal/core/port"
	"pricelist/internal/core/service"
	"pricelist/internal/core/telemetry"
	"pricelist/pkg/auth"
	"pricelist/pkg/config"
	. "pricelist/pkg/test"
)

// testApp mounts the handlers behind the real gate on a private database.
type testApp struct {
	db     *database.DB
	jwt    *auth.JWT
	auth   port.AuthService
	router *gin.Engine
}

func newTestApp() *testApp {
	gin.SetMode(gin.TestMode)

	db := InitTestDB()
	logger := config.NewNopLogger()
	probe := telemetry.NewNoOpProbe()
	jwt := auth.NewJWT(TestJWTSecret, "pricelist", time.Hour)
	cache := memory.NewMemoryRepository()

	users := repository.NewUserRepository(db)
	authSvc := service.NewAuthService(users, jwt, probe, logger)

	authHandler := NewAuthHandler(authSvc, logger)
	userHandler := NewUserHandler(service.NewUserService(users), logger)
	listing := NewListingHandler(service.NewListingService(repository.NewListingRepository(db), cache, probe, logger, time.Minute), logger)
	catalog := NewCatalogHandler(service.NewCatalogService(repository.NewCatalogRepository(db), cache, rabbitmq.NewNoopPublisher(), probe, logger), logger)

	router := gin.New()
	router.Use(middleware.CurrentMiddleware())

	public := router.Group("/")
	{
		public.POST("/users/register", authHandler.Register)
		public.POST("/users/login", authHandler.Login)
		public.GET("/pricelists/all", listing.Pricelists)
		public.GET("/pricelists/id/:id", listing.Pricelist)
		public.GET("/pricelists/years", listing.Years)
		public.GET("/pricelists/year/id/:id", listing.Year)
		public.GET("/pricelists/vehicle-brands", listing.Brands)
		public.GET("/pricelists/vehicle-types", listing.Types)
		public.GET("/pricelists/vehicle-models", listing.Models)
	}

	owner := router.Group("/userAuth")
	owner.Use(middleware.Gate(jwt, access.OwnerOnly, probe, logger))
	{
		owner.GET("/me", userHandler.Me)
		owner.PATCH("/updateName", userHandler.UpdateName)
		owner.PATCH("/updateEmail", userHandler.UpdateEmail)
		owner.PATCH("/updatePassword", userHandler.UpdatePassword)
		owner.DELETE("/deleteUser", userHandler.Delete)
	}

	admin := router.Group("/adminAuth")
	admin.Use(middleware.Gate(jwt, access.AdminOnly, probe, logger))
	{
		admin.GET("/users", userHandler.List)
		admin.POST("/addVehicleBrand", Create[request.AddBrandRequest](catalog, domain.KindBrand))
		admin.POST("/addVehicleType", Create[request.AddTypeRequest](catalog, domain.KindType))
		admin.POST("/addVehicleModel", Create[request.AddModelRequest](catalog, domain.KindModel))
		admin.POST("/addVehicleYear", Create[request.AddYearRequest](catalog, domain.KindYear))
		admin.POST("/addVehicle", Create[request.AddPricelistRequest](catalog, domain.KindPricelist))
		admin.PATCH("/updateVehicleBrand", Update[request.UpdateBrandRequest](catalog, domain.KindBrand, "brandId"))
		admin.PATCH("/updateVehicle", Update[request.UpdatePricelistRequest](catalog, domain.KindPricelist, "id"))
		admin.DELETE("/deleteVehicleBrand", Delete(catalog, domain.KindBrand))
		admin.DELETE("/deleteVehicleModel", Delete(catalog, domain.KindModel))
		admin.DELETE("/deleteVehicle", Delete(catalog, domain.KindPricelist))
	}

	return &testApp{db: db, jwt: jwt, auth: authSvc, router: router}
}

func (a *testApp) close() {
	a.db.Close()
}

func (a *testApp) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request

	if body == "" {
		req, _ = http.NewRequest(method, path, nil)
	} else {
		req, _ = http.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)

	return rr
}

func (a *testApp) register(email string, admin bool) (domain.User, string) {
	reg := port.Registration{Name: "Test User", Email: email, Password: "12345678"}

	var (
		user domain.User
		err  error
	)

	if admin {
		user, err = a.auth.RegisterAdmin(context.Background(), reg)
	} else {
		user, err = a.auth.Register(context.Background(), reg)
	}

	if err != nil {
		panic(err)
	}

	token, err := a.jwt.Issue(user.Principal())

	if err != nil {
		panic(err)
	}

	return user, token
}

func decode[T any](rr *httptest.ResponseRecorder) T {
	var body T
	_ = json.Unmarshal(rr.Body.Bytes(), &body)

	return body
}

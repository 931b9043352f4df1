package routes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricelist/internal/adapter/database/memory"
	"pricelist/internal/adapter/database/repository"
	"pricelist/internal/adapter/http/handler"
	"pricelist/internal/adapter/http/middleware"
	"pricelist/internal/adapter/messaging/rabbitmq"
	"pricelist/internal/adapter/telemetry"
	"pricelist/internal/core/service"
	"pricelist/pkg/auth"
	"pricelist/pkg/config"
	. "pricelist/pkg/test"
)

func newRouter(t *testing.T, health func(context.Context) error) (*gin.Engine, *prometheus.Registry) {
	gin.SetMode(gin.TestMode)

	db := SetupTestDB(t)
	logger := config.NewNopLogger()
	registry := prometheus.NewRegistry()
	metrics := telemetry.NewAppMetrics(registry)
	jwt := auth.NewJWT(TestJWTSecret, "pricelist", time.Hour)
	cache := memory.NewMemoryRepository()
	users := repository.NewUserRepository(db)

	handlers := HandlersConfig{
		AuthHandler:    handler.NewAuthHandler(service.NewAuthService(users, jwt, metrics, logger), logger),
		UserHandler:    handler.NewUserHandler(service.NewUserService(users), logger),
		CatalogHandler: handler.NewCatalogHandler(service.NewCatalogService(repository.NewCatalogRepository(db), cache, rabbitmq.NewNoopPublisher(), metrics, logger), logger),
		ListingHandler: handler.NewListingHandler(service.NewListingService(repository.NewListingRepository(db), cache, metrics, logger, time.Minute), logger),
	}

	if health == nil {
		health = db.HealthCheck
	}

	router := SetupRouter(handlers, RouterConfig{
		ServiceName:    "pricelist-test",
		AllowedOrigins: []string{"https://dealer.example.com"},
		Verifier:       jwt,
		Probe:          metrics,
		Logger:         logger,
		Metrics:        metrics,
		Registry:       registry,
		Health:         health,
	})

	return router, registry
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	return rr
}

func TestHealthz(t *testing.T) {
	router, _ := newRouter(t, nil)

	rr := serve(router, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"ok"`)

	down, _ := newRouter(t, func(context.Context) error { return errors.New("db down") })
	rr = serve(down, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestMetricsEndpointExposesRequests(t *testing.T) {
	router, _ := newRouter(t, nil)

	serve(router, httptest.NewRequest(http.MethodGet, "/pricelists/all", nil))
	serve(router, httptest.NewRequest(http.MethodPost, "/adminAuth/addVehicleBrand", strings.NewReader(`{"name":"Toyota"}`)))

	rr := serve(router, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()

	assert.Contains(t, body, `pricelist_http_requests_total{method="GET",path="/pricelists/all",status="200"} 1`)
	assert.Contains(t, body, `pricelist_access_denied_total{reason="no_credential"} 1`)
}

func TestRequestIDIsEchoed(t *testing.T) {
	router, _ := newRouter(t, nil)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/pricelists/years", nil)
	req.Header.Set(middleware.RequestIDHeader, id)

	rr := serve(router, req)

	assert.Equal(t, id, rr.Header().Get(middleware.RequestIDHeader))

	rr = serve(router, httptest.NewRequest(http.MethodGet, "/pricelists/years", nil))

	_, err := uuid.Parse(rr.Header().Get(middleware.RequestIDHeader))
	assert.NoError(t, err)
}

func TestCORSPreflight(t *testing.T) {
	router, _ := newRouter(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/adminAuth/addVehicleBrand", nil)
	req.Header.Set("Origin", "https://dealer.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rr := serve(router, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "https://dealer.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouteTable(t *testing.T) {
	router, _ := newRouter(t, nil)

	routes := map[string]bool{}

	for _, route := range router.Routes() {
		routes[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"POST /users/register",
		"POST /users/login",
		"GET /pricelists/all",
		"GET /pricelists/id/:id",
		"GET /pricelists/years",
		"GET /pricelists/year/id/:id",
		"GET /pricelists/vehicle-brands",
		"GET /pricelists/vehicle-types",
		"GET /pricelists/vehicle-models",
		"GET /userAuth/me",
		"PATCH /userAuth/updateName",
		"PATCH /userAuth/updateEmail",
		"PATCH /userAuth/updatePassword",
		"DELETE /userAuth/deleteUser",
		"GET /adminAuth/me",
		"PATCH /adminAuth/updateAdminName",
		"PATCH /adminAuth/updateAdminEmail",
		"PATCH /adminAuth/updateAdminPassword",
		"DELETE /adminAuth/deleteAdmin",
		"GET /adminAuth/users",
		"POST /adminAuth/addVehicle",
		"POST /adminAuth/addVehicleYear",
		"POST /adminAuth/addVehicleModel",
		"POST /adminAuth/addVehicleType",
		"POST /adminAuth/addVehicleBrand",
		"PATCH /adminAuth/updateVehicle",
		"PATCH /adminAuth/updateVehicleYear",
		"PATCH /adminAuth/updateVehicleModel",
		"PATCH /adminAuth/updateVehicleType",
		"PATCH /adminAuth/updateVehicleBrand",
		"DELETE /adminAuth/deleteVehicle",
		"DELETE /adminAuth/deleteVehicleYear",
		"DELETE /adminAuth/deleteVehicleModel",
		"DELETE /adminAuth/deleteVehicleType",
		"DELETE /adminAuth/deleteVehicleBrand",
	} {
		assert.True(t, routes[want], want)
	}
}

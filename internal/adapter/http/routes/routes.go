package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"pricelist/internal/adapter/http/handler"
	. "pricelist/internal/adapter/http/helper"
	"pricelist/internal/adapter/http/middleware"
	"pricelist/internal/adapter/telemetry"
	"pricelist/internal/core/access"
	"pricelist/internal/core/domain"
	"pricelist/internal/core/model/request"
	"pricelist/internal/core/port"
)

type HandlersConfig struct {
	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	CatalogHandler *handler.CatalogHandler
	ListingHandler *handler.ListingHandler
}

type RouterConfig struct {
	ServiceName    string
	AllowedOrigins []string
	Verifier       port.TokenVerifier
	Probe          port.Telemetry
	Logger         *otelzap.Logger
	// Metrics and Registry are optional; /metrics is mounted only with a registry.
	Metrics  *telemetry.AppMetrics
	Registry *prometheus.Registry
	Health   func(context.Context) error
}

func SetupRouter(handlers HandlersConfig, config RouterConfig) *gin.Engine {
	router := gin.New()

	router.Use(middleware.CurrentMiddleware())
	router.Use(otelgin.Middleware(config.ServiceName))
	router.Use(ginzap.Ginzap(config.Logger.Logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(config.Logger.Logger, true))
	router.Use(corsMiddleware(config.AllowedOrigins))

	if config.Metrics != nil {
		router.Use(middleware.MetricsMiddleware(config.Metrics))
	}

	if config.Registry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(config.Registry, promhttp.HandlerOpts{})))
	}

	router.GET("/healthz", healthz(config.Health))

	gate := func(capability access.Capability) gin.HandlerFunc {
		return middleware.Gate(config.Verifier, capability, config.Probe, config.Logger)
	}

	if handlers.AuthHandler != nil {
		setupPublicUserRoutes(router, handlers.AuthHandler)
	}

	if handlers.ListingHandler != nil {
		setupListingRoutes(router, handlers.ListingHandler)
	}

	if handlers.UserHandler != nil {
		setupOwnerRoutes(router, gate(access.OwnerOnly), handlers.UserHandler)
	}

	admin := router.Group("/adminAuth")
	admin.Use(gate(access.AdminOnly))

	if handlers.UserHandler != nil {
		setupAdminAccountRoutes(admin, handlers.UserHandler)
	}

	if handlers.CatalogHandler != nil {
		setupCatalogRoutes(admin, handlers.CatalogHandler)
	}

	return router
}

func setupPublicUserRoutes(router *gin.Engine, authHandler *handler.AuthHandler) {
	public := router.Group("/users")
	{
		public.POST("/register", authHandler.Register)
		public.POST("/login", authHandler.Login)
	}
}

func setupListingRoutes(router *gin.Engine, listing *handler.ListingHandler) {
	public := router.Group("/pricelists")
	{
		public.GET("/all", listing.Pricelists)
		public.GET("/id/:id", listing.Pricelist)
		public.GET("/years", listing.Years)
		public.GET("/year/id/:id", listing.Year)
		public.GET("/vehicle-brands", listing.Brands)
		public.GET("/vehicle-types", listing.Types)
		public.GET("/vehicle-models", listing.Models)
	}
}

func setupOwnerRoutes(router *gin.Engine, gate gin.HandlerFunc, users *handler.UserHandler) {
	owner := router.Group("/userAuth")
	owner.Use(gate)
	{
		owner.GET("/me", users.Me)
		owner.PATCH("/updateName", users.UpdateName)
		owner.PATCH("/updateEmail", users.UpdateEmail)
		owner.PATCH("/updatePassword", users.UpdatePassword)
		owner.DELETE("/deleteUser", users.Delete)
	}
}

func setupAdminAccountRoutes(admin *gin.RouterGroup, users *handler.UserHandler) {
	admin.GET("/me", users.Me)
	admin.PATCH("/updateAdminName", users.UpdateName)
	admin.PATCH("/updateAdminEmail", users.UpdateEmail)
	admin.PATCH("/updateAdminPassword", users.UpdatePassword)
	admin.DELETE("/deleteAdmin", users.Delete)
	admin.GET("/users", users.List)
}

func setupCatalogRoutes(admin *gin.RouterGroup, h *handler.CatalogHandler) {
	admin.POST("/addVehicle", handler.Create[request.AddPricelistRequest](h, domain.KindPricelist))
	admin.POST("/addVehicleYear", handler.Create[request.AddYearRequest](h, domain.KindYear))
	admin.POST("/addVehicleModel", handler.Create[request.AddModelRequest](h, domain.KindModel))
	admin.POST("/addVehicleType", handler.Create[request.AddTypeRequest](h, domain.KindType))
	admin.POST("/addVehicleBrand", handler.Create[request.AddBrandRequest](h, domain.KindBrand))

	admin.PATCH("/updateVehicle", handler.Update[request.UpdatePricelistRequest](h, domain.KindPricelist, "id"))
	admin.PATCH("/updateVehicleYear", handler.Update[request.UpdateYearRequest](h, domain.KindYear, "yearId"))
	admin.PATCH("/updateVehicleModel", handler.Update[request.UpdateModelRequest](h, domain.KindModel, "modelId"))
	admin.PATCH("/updateVehicleType", handler.Update[request.UpdateTypeRequest](h, domain.KindType, "typeId"))
	admin.PATCH("/updateVehicleBrand", handler.Update[request.UpdateBrandRequest](h, domain.KindBrand, "brandId"))

	admin.DELETE("/deleteVehicle", handler.Delete(h, domain.KindPricelist))
	admin.DELETE("/deleteVehicleYear", handler.Delete(h, domain.KindYear))
	admin.DELETE("/deleteVehicleModel", handler.Delete(h, domain.KindModel))
	admin.DELETE("/deleteVehicleType", handler.Delete(h, domain.KindType))
	admin.DELETE("/deleteVehicleBrand", handler.Delete(h, domain.KindBrand))
}

func healthz(check func(context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			if err := check(c.Request.Context()); err != nil {
				SendError(c, http.StatusServiceUnavailable, "UNAVAILABLE", nil)
				return
			}
		}

		SendSuccess(c, http.StatusOK, gin.H{"status": "ok"})
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}

	return cors.New(config)
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"

	. "pricelist/internal/adapter/http/helper"
	"pricelist/internal/adapter/http/middleware"
	"pricelist/internal/core/access"
	"pricelist/internal/core/domain"
	"pricelist/internal/core/model/request"
	"pricelist/internal/core/model/response"
	"pricelist/internal/core/port"
)

// CatalogHandler exposes the admin catalog writes. Every route is built from
// the same three generic handlers, parameterized by entity kind and body type.
type CatalogHandler struct {
	svc    port.CatalogService
	logger *otelzap.Logger
}

func NewCatalogHandler(svc port.CatalogService, logger *otelzap.Logger) *CatalogHandler {
	return &CatalogHandler{
		svc:    svc,
		logger: logger,
	}
}

func Create[T request.CatalogRequest](h *CatalogHandler, kind domain.EntityKind) gin.HandlerFunc {
	entity := domain.MustLookup(kind)

	return func(c *gin.Context) {
		actor, ok := h.actor(c)

		if !ok {
			return
		}

		params, ok := bindBody[T](c)

		if !ok {
			return
		}

		record, err := h.svc.Create(c.Request.Context(), actor, kind, params.Changes())

		if err != nil {
			SendDomainError(c, h.logger, err)
			return
		}

		SendSuccess(c, http.StatusOK, response.NewRecordResponse(record), entity.Label+" added successfully")
	}
}

// Update reads the target id from the query parameter named idParam.
func Update[T request.CatalogRequest](h *CatalogHandler, kind domain.EntityKind, idParam string) gin.HandlerFunc {
	entity := domain.MustLookup(kind)

	return func(c *gin.Context) {
		actor, ok := h.actor(c)

		if !ok {
			return
		}

		id, ok := queryID(c, idParam)

		if !ok {
			return
		}

		params, ok := bindBody[T](c)

		if !ok {
			return
		}

		record, err := h.svc.Update(c.Request.Context(), actor, kind, id, params.Changes())

		if err != nil {
			SendDomainError(c, h.logger, err)
			return
		}

		SendSuccess(c, http.StatusOK, response.NewRecordResponse(record), entity.Label+" updated successfully")
	}
}

func Delete(h *CatalogHandler, kind domain.EntityKind) gin.HandlerFunc {
	entity := domain.MustLookup(kind)

	return func(c *gin.Context) {
		actor, ok := h.actor(c)

		if !ok {
			return
		}

		id, ok := queryID(c, "id")

		if !ok {
			return
		}

		if err := h.svc.Delete(c.Request.Context(), actor, kind, id); err != nil {
			SendDomainError(c, h.logger, err)
			return
		}

		SendSuccess(c, http.StatusOK, nil, entity.Label+" deleted successfully")
	}
}

func (h *CatalogHandler) actor(c *gin.Context) (domain.Principal, bool) {
	principal, ok := middleware.Principal(c)

	if !ok {
		SendDomainError(c, h.logger, access.Deny(access.ReasonNoCredential))
		return domain.Principal{}, false
	}

	return principal, true
}

func queryID(c *gin.Context, name string) (int64, bool) {
	raw := c.Query(name)

	if raw == "" {
		SendBadRequestError(c, name, name+" is required")
		return 0, false
	}

	id, err := strconv.ParseInt(raw, 10, 64)

	if err != nil || id <= 0 {
		SendBadRequestError(c, name, name+" must be a positive integer")
		return 0, false
	}

	return id, true
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"

	. "pricelist/internal/adapter/http/helper"
	. "pricelist/internal/adapter/http/validation"
	"pricelist/internal/core/domain"
	"pricelist/internal/core/model/request"
	"pricelist/internal/core/model/response"
	"pricelist/internal/core/port"
	. "pricelist/pkg/tracing"
)

type ListingHandler struct {
	svc    port.ListingService
	logger *otelzap.Logger
}

func NewListingHandler(svc port.ListingService, logger *otelzap.Logger) *ListingHandler {
	return &ListingHandler{
		svc:    svc,
		logger: logger,
	}
}

func (l *ListingHandler) Pricelists(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.listing.Pricelists", []attribute.KeyValue{
		attribute.String("handler.path", c.FullPath()),
	})

	defer span.End()

	query, ok := bindQuery[request.PricelistQuery](c)

	if !ok {
		return
	}

	span.SetAttributes(attribute.Int("page.limit", query.Limit), attribute.Int("page.offset", query.Offset))

	page, err := l.svc.Pricelists(ctx, domain.PricelistFilter{
		PricelistID: query.PricelistID,
		BrandID:     query.BrandID,
		BrandName:   query.BrandName,
		TypeID:      query.TypeID,
		ModelID:     query.ModelID,
		YearID:      query.YearID,
		Year:        query.Year,
		Page:        domain.Page{Limit: query.Limit, Offset: query.Offset},
	})

	if err != nil {
		AddSpanError(span, err)
		SendDomainError(c, l.logger, err)
		return
	}

	SendList(c, response.NewListResponse(page, response.NewPricelistResponse))
}

func (l *ListingHandler) Pricelist(c *gin.Context) {
	id, ok := pathID(c)

	if !ok {
		return
	}

	item, err := l.svc.Pricelist(c.Request.Context(), id)

	if err != nil {
		SendDomainError(c, l.logger, err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewPricelistResponse(item))
}

func (l *ListingHandler) Years(c *gin.Context) {
	query, ok := bindQuery[request.PageQuery](c)

	if !ok {
		return
	}

	page, err := l.svc.Years(c.Request.Context(), domain.Page{Limit: query.Limit, Offset: query.Offset})

	if err != nil {
		SendDomainError(c, l.logger, err)
		return
	}

	SendList(c, response.NewListResponse(page, response.NewYearResponse))
}

func (l *ListingHandler) Year(c *gin.Context) {
	id, ok := pathID(c)

	if !ok {
		return
	}

	year, err := l.svc.Year(c.Request.Context(), id)

	if err != nil {
		SendDomainError(c, l.logger, err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewYearResponse(year))
}

func (l *ListingHandler) Brands(c *gin.Context) {
	query, ok := bindQuery[request.PageQuery](c)

	if !ok {
		return
	}

	page, err := l.svc.Brands(c.Request.Context(), domain.Page{Limit: query.Limit, Offset: query.Offset})

	if err != nil {
		SendDomainError(c, l.logger, err)
		return
	}

	SendList(c, response.NewListResponse(page, response.NewBrandResponse))
}

func (l *ListingHandler) Types(c *gin.Context) {
	query, ok := bindQuery[request.TypeQuery](c)

	if !ok {
		return
	}

	page, err := l.svc.Types(c.Request.Context(), domain.TypeFilter{
		BrandID: query.BrandID,
		Page:    domain.Page{Limit: query.Limit, Offset: query.Offset},
	})

	if err != nil {
		SendDomainError(c, l.logger, err)
		return
	}

	SendList(c, response.NewListResponse(page, response.NewTypeResponse))
}

func (l *ListingHandler) Models(c *gin.Context) {
	query, ok := bindQuery[request.ModelQuery](c)

	if !ok {
		return
	}

	page, err := l.svc.Models(c.Request.Context(), domain.ModelFilter{
		TypeID: query.TypeID,
		Page:   domain.Page{Limit: query.Limit, Offset: query.Offset},
	})

	if err != nil {
		SendDomainError(c, l.logger, err)
		return
	}

	SendList(c, response.NewListResponse(page, response.NewModelResponse))
}

func bindQuery[T any](c *gin.Context) (T, bool) {
	var query T

	if err := c.ShouldBindQuery(&query); err != nil {
		SendBadRequestError(c, "query", "Invalid query parameters")
		return query, false
	}

	if err := Validator.Struct(query); err != nil {
		SendValidationError(c, err)
		return query, false
	}

	return query, true
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)

	if err != nil || id <= 0 {
		SendBadRequestError(c, "id", "id must be a positive integer")
		return 0, false
	}

	return id, true
}

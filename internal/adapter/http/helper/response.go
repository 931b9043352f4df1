package helper

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	. "pricelist/internal/adapter/http/validation"
	"pricelist/internal/core/access"
	"pricelist/internal/core/domain"
	"pricelist/internal/core/model/response"
	ct "pricelist/pkg/context"
	"pricelist/pkg/tracing"
)

const internalErrorMessage = "internal server error"

var statusByCode = map[domain.ErrorCode]int{
	domain.CodeUnauthenticated:  http.StatusUnauthorized,
	domain.CodeForbidden:        http.StatusForbidden,
	domain.CodeValidation:       http.StatusBadRequest,
	domain.CodeInvalidReference: http.StatusBadRequest,
	domain.CodeConflict:         http.StatusConflict,
	domain.CodeNotFound:         http.StatusNotFound,
	domain.CodeInternal:         http.StatusInternalServerError,
}

func SendSuccess(c *gin.Context, statusCode int, data any, message ...string) {
	response := response.SuccessResponse{
		Data: data,
	}

	if len(message) > 0 && message[0] != "" {
		response.Message = message[0]
	}

	c.JSON(statusCode, response)
}

func SendList(c *gin.Context, list response.ListResponse) {
	c.JSON(http.StatusOK, list)
}

func SendError(c *gin.Context, statusCode int, code string, errors []response.ValidationError, details ...any) {
	errorResponse := response.ErrorResponse{
		Error: response.ResponseError{
			Code:   code,
			Errors: errors,
		},
	}

	if len(details) > 0 {
		errorResponse.Error.Details = details[0]
	}

	c.AbortWithStatusJSON(statusCode, errorResponse)
}

func SendValidationError(c *gin.Context, err error) {
	validationErrors := FormatValidationErrors(err)
	SendError(c, http.StatusBadRequest, string(domain.CodeValidation), validationErrors)
}

// SendInternalError never exposes the cause. It is logged with the request id
// and trace id instead.
func SendInternalError(c *gin.Context, logger *otelzap.Logger, err error) {
	ctx := c.Request.Context()

	logger.Ctx(ctx).Error("request failed",
		zap.String("request_id", ct.GetCurrent(ctx).RequestID()),
		zap.String("trace_id", tracing.GetTraceID(ctx)),
		zap.String("route", c.FullPath()),
		zap.Error(err),
	)

	errors := []response.ValidationError{
		{
			Field:   "server",
			Message: internalErrorMessage,
		},
	}

	SendError(c, http.StatusInternalServerError, string(domain.CodeInternal), errors)
}

func SendUnauthorizedError(c *gin.Context, message string) {
	errors := []response.ValidationError{
		{
			Field:   "auth",
			Message: message,
		},
	}

	SendError(c, http.StatusUnauthorized, string(domain.CodeUnauthenticated), errors)
}

func SendForbiddenError(c *gin.Context, message string) {
	errors := []response.ValidationError{
		{
			Field:   "auth",
			Message: message,
		},
	}

	SendError(c, http.StatusForbidden, string(domain.CodeForbidden), errors)
}

func SendBadRequestError(c *gin.Context, field string, message string) {
	errors := []response.ValidationError{
		{
			Field:   field,
			Message: message,
		},
	}

	SendError(c, http.StatusBadRequest, "BAD_REQUEST", errors)
}

func SendNotFoundError(c *gin.Context, message string) {
	errors := []response.ValidationError{
		{
			Field:   "resource",
			Message: message,
		},
	}

	SendError(c, http.StatusNotFound, string(domain.CodeNotFound), errors)
}

// SendDomainError renders any error returned by a service or the access gate.
func SendDomainError(c *gin.Context, logger *otelzap.Logger, err error) {
	var denied *access.Denied

	if errors.As(err, &denied) {
		if denied.Unauthenticated() {
			SendUnauthorizedError(c, denied.Message)
		} else {
			SendForbiddenError(c, denied.Message)
		}

		return
	}

	var de *domain.Error

	if !errors.As(err, &de) || de.Code == domain.CodeInternal {
		SendInternalError(c, logger, err)
		return
	}

	status, ok := statusByCode[de.Code]

	if !ok {
		SendInternalError(c, logger, err)
		return
	}

	SendError(c, status, string(de.Code), []response.ValidationError{
		{
			Field:   de.Field,
			Message: de.Message,
		},
	})
}

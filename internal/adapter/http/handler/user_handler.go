package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"

	. "pricelist/internal/adapter/http/helper"
	"pricelist/internal/adapter/http/middleware"
	. "pricelist/internal/adapter/http/validation"
	"pricelist/internal/core/access"
	"pricelist/internal/core/domain"
	"pricelist/internal/core/model/request"
	"pricelist/internal/core/model/response"
	"pricelist/internal/core/port"
	"pricelist/internal/core/util"
)

// UserHandler serves self-service account routes for both roles and the
// admin user listing. The gate in front of each group picks the role.
type UserHandler struct {
	svc    port.UserService
	logger *otelzap.Logger
}

func NewUserHandler(svc port.UserService, logger *otelzap.Logger) *UserHandler {
	return &UserHandler{
		svc:    svc,
		logger: logger,
	}
}

// subject returns the principal after checking the optional id query
// parameter names the caller's own account.
func (u *UserHandler) subject(c *gin.Context) (domain.Principal, bool) {
	principal, ok := middleware.Principal(c)

	if !ok {
		SendDomainError(c, u.logger, access.Deny(access.ReasonNoCredential))
		return domain.Principal{}, false
	}

	if raw := c.Query("id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)

		if err != nil {
			SendBadRequestError(c, "id", "id must be an integer")
			return domain.Principal{}, false
		}

		if err := access.AuthorizeOwner(principal, id); err != nil {
			SendDomainError(c, u.logger, err)
			return domain.Principal{}, false
		}
	}

	return principal, true
}

func (u *UserHandler) Me(c *gin.Context) {
	principal, ok := u.subject(c)

	if !ok {
		return
	}

	user, err := u.svc.Profile(c.Request.Context(), principal.ID)

	if err != nil {
		SendDomainError(c, u.logger, err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewUserResponse(user))
}

func (u *UserHandler) UpdateName(c *gin.Context) {
	principal, ok := u.subject(c)

	if !ok {
		return
	}

	params, ok := bindBody[request.UpdateNameRequest](c)

	if !ok {
		return
	}

	user, err := u.svc.UpdateName(c.Request.Context(), principal.ID, params.NewName)

	if err != nil {
		SendDomainError(c, u.logger, err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewUserResponse(user), "Name updated successfully")
}

func (u *UserHandler) UpdateEmail(c *gin.Context) {
	principal, ok := u.subject(c)

	if !ok {
		return
	}

	params, ok := bindBody[request.UpdateEmailRequest](c)

	if !ok {
		return
	}

	user, err := u.svc.UpdateEmail(c.Request.Context(), principal.ID, params.NewEmail)

	if err != nil {
		SendDomainError(c, u.logger, err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewUserResponse(user), "Email updated successfully")
}

func (u *UserHandler) UpdatePassword(c *gin.Context) {
	principal, ok := u.subject(c)

	if !ok {
		return
	}

	params, ok := bindBody[request.UpdatePasswordRequest](c)

	if !ok {
		return
	}

	if err := u.svc.UpdatePassword(c.Request.Context(), principal.ID, params.CurrentPassword, params.NewPassword); err != nil {
		SendDomainError(c, u.logger, err)
		return
	}

	SendSuccess(c, http.StatusOK, nil, "Password updated successfully")
}

func (u *UserHandler) Delete(c *gin.Context) {
	principal, ok := u.subject(c)

	if !ok {
		return
	}

	if err := u.svc.Delete(c.Request.Context(), principal.ID); err != nil {
		SendDomainError(c, u.logger, err)
		return
	}

	message := "User deleted successfully"

	if principal.IsAdmin() {
		message = "Admin deleted successfully"
	}

	SendSuccess(c, http.StatusOK, nil, message)
}

func (u *UserHandler) List(c *gin.Context) {
	query, ok := bindQuery[request.UserListQuery](c)

	if !ok {
		return
	}

	page, err := u.svc.List(c.Request.Context(), domain.UserFilter{
		IsAdmin: *query.IsAdmin == 1,
		Limit:   query.Limit,
		Offset:  query.Offset,
	})

	if err != nil {
		SendDomainError(c, u.logger, err)
		return
	}

	SendList(c, response.NewListResponse(page, response.NewUserResponse))
}

// bindBody decodes and validates a JSON body, writing the error response
// itself when it fails.
func bindBody[T any](c *gin.Context) (T, bool) {
	params, err := util.ParamsToMap[T](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return params, false
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return params, false
	}

	return params, true
}

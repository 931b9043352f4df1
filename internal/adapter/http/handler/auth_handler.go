package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"

	. "pricelist/internal/adapter/http/helper"
	. "pricelist/internal/adapter/http/validation"
	"pricelist/internal/core/model/request"
	"pricelist/internal/core/model/response"
	"pricelist/internal/core/port"
	"pricelist/internal/core/util"
)

type AuthHandler struct {
	svc    port.AuthService
	logger *otelzap.Logger
}

func NewAuthHandler(svc port.AuthService, logger *otelzap.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		logger: logger,
	}
}

func (a *AuthHandler) Register(c *gin.Context) {
	params, err := util.ParamsToMap[request.RegisterRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	user, err := a.svc.Register(c.Request.Context(), port.Registration{
		Name:     params.Name,
		Email:    params.Email,
		Password: params.Password,
	})

	if err != nil {
		SendDomainError(c, a.logger, err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewUserResponse(user), "Your account is successfully created.")
}

func (a *AuthHandler) Login(c *gin.Context) {
	params, err := util.ParamsToMap[request.LoginRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	session, err := a.svc.Login(c.Request.Context(), params.Email, params.Password)

	if err != nil {
		SendDomainError(c, a.logger, err)
		return
	}

	message := "Login as user"

	if session.User.IsAdmin() {
		message = "Login as admin"
	}

	SendSuccess(c, http.StatusOK, response.LoginResponse{
		Token: session.Token,
		User:  response.NewUserResponse(session.User),
	}, message)
}

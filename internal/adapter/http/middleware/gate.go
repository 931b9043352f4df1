package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"pricelist/internal/adapter/http/helper"
	"pricelist/internal/core/access"
	"pricelist/internal/core/domain"
	"pricelist/internal/core/port"
	"pricelist/pkg/auth"
	ct "pricelist/pkg/context"
)

const principalKey = "principal"

// Gate enforces capability on every request of the group it is attached to.
// The verified principal is stored in the request context and in gin's.
func Gate(verifier port.TokenVerifier, capability access.Capability, probe port.Telemetry, logger *otelzap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if capability == access.Public {
			c.Next()
			return
		}

		principal, err := resolve(verifier, c.GetHeader("Authorization"))

		if err == nil {
			err = access.Authorize(principal, capability)
		}

		if err != nil {
			var denied *access.Denied
			errors.As(err, &denied)

			probe.RecordAccessDenied(c.Request.Context(), string(denied.Reason))
			logger.Ctx(c.Request.Context()).Info("access denied",
				zap.String("reason", string(denied.Reason)),
				zap.String("capability", capability.String()),
				zap.String("route", c.FullPath()),
				zap.String("request_id", GetCurrent(c).RequestID()),
			)

			helper.SendDomainError(c, logger, denied)

			return
		}

		current := GetCurrent(c)
		current.Set(ct.SubjectKey, principal.ID)
		current.Set(ct.RoleKey, string(principal.Role))

		c.Request = c.Request.WithContext(access.WithPrincipal(c.Request.Context(), *principal))
		c.Set(principalKey, *principal)

		c.Next()
	}
}

// resolve turns the Authorization header into a principal. A missing header
// yields a nil principal so Authorize reports no_credential.
func resolve(verifier port.TokenVerifier, header string) (*domain.Principal, error) {
	token, err := auth.BearerToken(header)

	if errors.Is(err, auth.ErrMissingToken) {
		return nil, nil
	}

	if err != nil {
		return nil, access.Deny(access.ReasonInvalidCredential)
	}

	principal, err := verifier.Verify(token)

	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return nil, nil
	case errors.Is(err, auth.ErrExpiredToken):
		return nil, access.Deny(access.ReasonExpiredCredential)
	case err != nil:
		return nil, access.Deny(access.ReasonInvalidCredential)
	}

	return &principal, nil
}

// Principal returns the principal stored by Gate.
func Principal(c *gin.Context) (domain.Principal, bool) {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(domain.Principal); ok {
			return p, true
		}
	}

	return access.PrincipalFrom(c.Request.Context())
}

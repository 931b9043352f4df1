package port

import (
	"context"

	"pricelist/internal/core/domain"
)

type Registration struct {
	Name     string
	Email    string
	Password string
}

type Session struct {
	Token string
	User  domain.User
}

type AuthService interface {
	Register(ctx context.Context, reg Registration) (domain.User, error)
	RegisterAdmin(ctx context.Context, reg Registration) (domain.User, error)
	Login(ctx context.Context, email, password string) (Session, error)
}

// TokenIssuer signs credentials for an authenticated principal.
type TokenIssuer interface {
	Issue(p domain.Principal) (string, error)
}

// TokenVerifier resolves a bearer credential into a principal without I/O.
type TokenVerifier interface {
	Verify(token string) (domain.Principal, error)
}

package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"pricelist/internal/core/domain"
	"pricelist/internal/core/port"
	"pricelist/internal/core/util"
)

const invalidCredentials = "Invalid email or password"

// decoyDigest is compared against when the email is unknown, so a failed
// login costs one bcrypt comparison either way.
var decoyDigest = sync.OnceValue(func() string {
	digest, _ := util.HashPassword("pricelist-decoy-password")
	return digest
})

type AuthService struct {
	repo      port.UserRepository
	issuer    port.TokenIssuer
	telemetry port.Telemetry
	logger    *otelzap.Logger
}

func NewAuthService(repo port.UserRepository, issuer port.TokenIssuer, telemetry port.Telemetry, logger *otelzap.Logger) *AuthService {
	return &AuthService{repo: repo, issuer: issuer, telemetry: telemetry, logger: logger}
}

func (s *AuthService) Register(ctx context.Context, reg port.Registration) (domain.User, error) {
	return s.register(ctx, reg, domain.RoleStandard)
}

// RegisterAdmin creates an administrator. Only reachable from the CLI.
func (s *AuthService) RegisterAdmin(ctx context.Context, reg port.Registration) (domain.User, error) {
	return s.register(ctx, reg, domain.RoleAdmin)
}

func (s *AuthService) register(ctx context.Context, reg port.Registration, role domain.UserRole) (domain.User, error) {
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = strings.TrimSpace(reg.Email)

	switch {
	case reg.Name == "":
		return domain.User{}, domain.NewValidationError("name", "name is required.")
	case reg.Email == "":
		return domain.User{}, domain.NewValidationError("email", "email is required.")
	case reg.Password == "":
		return domain.User{}, domain.NewValidationError("password", "password is required.")
	}

	taken, err := s.repo.EmailTaken(ctx, reg.Email, 0)

	if err != nil {
		return domain.User{}, domain.NewInternalError("check email", err)
	}

	if taken {
		return domain.User{}, domain.NewConflictError("email", "Email already in use")
	}

	digest, err := util.HashPassword(reg.Password)

	if err != nil {
		return domain.User{}, hashError("password", err)
	}

	user, err := s.repo.Create(ctx, domain.User{
		Name:           reg.Name,
		Email:          reg.Email,
		PasswordDigest: digest,
		Role:           role,
	})

	if errors.Is(err, domain.ErrDuplicate) {
		return domain.User{}, domain.NewConflictError("email", "Email already in use")
	}

	if err != nil {
		return domain.User{}, domain.NewInternalError("create user", err)
	}

	s.logger.Ctx(ctx).Info("user registered", zap.Int64("user_id", user.ID), zap.String("role", string(role)))

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (port.Session, error) {
	user, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))

	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return port.Session{}, domain.NewInternalError("find user", err)
	}

	digest := user.PasswordDigest

	if err != nil {
		digest = decoyDigest()
	}

	if util.ComparePassword(password, digest) != nil || err != nil {
		s.telemetry.RecordLogin(ctx, false)
		return port.Session{}, domain.NewUnauthenticatedError(invalidCredentials)
	}

	token, err := s.issuer.Issue(user.Principal())

	if err != nil {
		return port.Session{}, domain.NewInternalError("issue token", err)
	}

	s.telemetry.RecordLogin(ctx, true)

	return port.Session{Token: token, User: user}, nil
}

// hashError reports bcrypt's 72 byte ceiling as a validation failure.
func hashError(field string, err error) *domain.Error {
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return domain.NewValidationError(field, field+" must be at most 72 bytes.")
	}

	return domain.NewInternalError("hash password", err)
}

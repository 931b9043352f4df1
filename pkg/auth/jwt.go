package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pricelist/internal/core/domain"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = fmt.Errorf("%w: expired", ErrInvalidToken)
)

const DefaultTTL = 24 * time.Hour

type Claims struct {
	IsAdmin bool `json:"isAdmin"`
	jwt.RegisteredClaims
}

// JWT issues and verifies HS256 bearer tokens. It is built once from
// configuration and is safe for concurrent use.
type JWT struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
	now    func() time.Time
}

func NewJWT(secret, issuer string, ttl time.Duration) *JWT {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &JWT{Secret: []byte(secret), Issuer: issuer, TTL: ttl, now: time.Now}
}

func (j *JWT) Issue(p domain.Principal) (string, error) {
	now := j.clock()

	claims := Claims{
		IsAdmin: p.IsAdmin(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Subject(),
			Issuer:    j.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.Secret)
}

// Verify parses token and returns the principal it names. A blank token is
// ErrMissingToken; anything unparseable, unsigned by Secret or expired wraps
// ErrInvalidToken.
func (j *JWT) Verify(token string) (domain.Principal, error) {
	token = strings.TrimSpace(token)

	if token == "" {
		return domain.Principal{}, ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.clock),
	}

	if j.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.Issuer))
	}

	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}

		return j.Secret, nil
	}, opts...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Principal{}, ErrExpiredToken
		}

		return domain.Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !parsed.Valid {
		return domain.Principal{}, ErrInvalidToken
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)

	if err != nil || id <= 0 {
		return domain.Principal{}, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}

	return domain.Principal{ID: id, Role: domain.RoleFromFlag(claims.IsAdmin)}, nil
}

// BearerToken extracts the credential from an Authorization header value.
// A header without the Bearer scheme yields ErrInvalidToken.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)

	if header == "" {
		return "", ErrMissingToken
	}

	scheme, token, found := strings.Cut(header, " ")

	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrInvalidToken
	}

	token = strings.TrimSpace(token)

	if token == "" {
		return "", ErrMissingToken
	}

	return token, nil
}

func (j *JWT) clock() time.Time {
	if j.now == nil {
		return time.Now()
	}

	return j.now()
}

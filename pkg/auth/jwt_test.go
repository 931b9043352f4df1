package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricelist/internal/core/domain"
)

func TestIssueAndVerify(t *testing.T) {
	RegisterTestingT(t)

	j := NewJWT("secret", "pricelist", time.Hour)

	token, err := j.Issue(domain.Principal{ID: 42, Role: domain.RoleAdmin})
	require.NoError(t, err)

	p, err := j.Verify(token)
	require.NoError(t, err)

	Expect(p.ID).To(Equal(int64(42)))
	Expect(p.Role).To(Equal(domain.RoleAdmin))

	token, _ = j.Issue(domain.Principal{ID: 3, Role: domain.RoleStandard})
	p, err = j.Verify(token)

	require.NoError(t, err)
	Expect(p.IsAdmin()).To(BeFalse())
}

func TestVerifyFailures(t *testing.T) {
	j := NewJWT("secret", "pricelist", time.Hour)

	_, err := j.Verify("")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = j.Verify("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewJWT("another-secret", "pricelist", time.Hour)
	foreign, _ := other.Issue(domain.Principal{ID: 1, Role: domain.RoleAdmin})

	_, err = j.Verify(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.NotErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyExpired(t *testing.T) {
	j := NewJWT("secret", "pricelist", time.Minute)
	j.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := j.Issue(domain.Principal{ID: 1, Role: domain.RoleStandard})
	require.NoError(t, err)

	j.now = time.Now

	_, err = j.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	j := NewJWT("secret", "pricelist", time.Hour)

	claims := Claims{
		IsAdmin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			Issuer:    "pricelist",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = j.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = j.Verify(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBearerToken(t *testing.T) {
	token, err := BearerToken("Bearer abc.def")
	assert.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	_, err = BearerToken("")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = BearerToken("Token abc")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = BearerToken("abc")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

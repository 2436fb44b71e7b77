package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/marathon-wallet/internal/domain"
	"github.com/iho/marathon-wallet/internal/infrastructure/auth"
)

func TestJWTManager_AuthenticateRoundTrip(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("super-secret", time.Minute)

	token, err := manager.Generate(&domain.User{ID: "runner-7", Email: "runner@example.com", Role: domain.RoleAdmin})
	require.NoError(t, err)

	user, err := manager.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, "runner-7", user.ID)
	assert.Equal(t, "runner@example.com", user.Email)
	assert.Equal(t, domain.RoleAdmin, user.Role)
}

func TestJWTManager_GenerateRejectsBadUsers(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("secret", time.Minute)

	_, err := manager.Generate(nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = manager.Generate(&domain.User{ID: " "})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = manager.Generate(&domain.User{ID: "u1", Role: "operator"})
	assert.Error(t, err)
}

func TestJWTManager_VerifyErrors(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("secret", time.Minute)

	sign := func(claims auth.Claims, key string) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
		require.NoError(t, err)
		return token
	}

	expired := sign(auth.Claims{
		Role: domain.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "expired",
			Issuer:    auth.DefaultIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Minute)),
		},
	}, "secret")

	_, err := manager.Verify(expired)
	assert.ErrorIs(t, err, domain.ErrExpiredToken)

	_, err = auth.NewJWTManager("other-secret", time.Minute).Verify(expired)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	foreignIssuer := sign(auth.Claims{
		Role: domain.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}, "secret")
	_, err = manager.Verify(foreignIssuer)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	noSubject := sign(auth.Claims{
		Role: domain.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    auth.DefaultIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}, "secret")
	_, err = manager.Authenticate(noSubject)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	badRole := sign(auth.Claims{
		Role: "viewer",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			Issuer:    auth.DefaultIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}, "secret")
	_, err = manager.Authenticate(badRole)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = manager.Verify("not-a-token")
	assert.Error(t, err)
}

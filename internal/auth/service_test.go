package auth_test

import (
	"inkwell/internal/auth"
	"inkwell/internal/testutil"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestService_GenerateAndValidateToken(t *testing.T) {
	cfg := testutil.TestConfig(t)
	service := auth.NewService(cfg)

	userID := uuid.New()
	token, err := service.GenerateToken(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// Three dot-separated segments, standard compact serialization
	require.Len(t, strings.Split(token, "."), 3)

	gotID, err := service.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, userID, gotID)
}

func TestService_ValidateToken_Expired(t *testing.T) {
	cfg := testutil.TestConfig(t)
	service := auth.NewService(cfg)

	claims := jwt.MapClaims{
		"sub": uuid.New().String(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(cfg.Auth.JWTSecret))
	require.NoError(t, err)

	_, err = service.ValidateToken(expired)
	require.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestService_ValidateToken_Invalid(t *testing.T) {
	cfg := testutil.TestConfig(t)
	service := auth.NewService(cfg)

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{
			name:  "Malformed",
			token: func(t *testing.T) string { return "not.a.token" },
		},
		{
			name:  "Empty",
			token: func(t *testing.T) string { return "" },
		},
		{
			name: "Wrong Signing Key",
			token: func(t *testing.T) string {
				claims := jwt.MapClaims{
					"sub": uuid.New().String(),
					"exp": time.Now().Add(time.Hour).Unix(),
				}
				token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
					SignedString([]byte("some_other_secret"))
				require.NoError(t, err)
				return token
			},
		},
		{
			name: "Wrong Signing Method",
			token: func(t *testing.T) string {
				claims := jwt.MapClaims{
					"sub": uuid.New().String(),
					"exp": time.Now().Add(time.Hour).Unix(),
				}
				token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
					SignedString(jwt.UnsafeAllowNoneSignatureType)
				require.NoError(t, err)
				return token
			},
		},
		{
			name: "Subject Not A UUID",
			token: func(t *testing.T) string {
				claims := jwt.MapClaims{
					"sub": "alice",
					"exp": time.Now().Add(time.Hour).Unix(),
				}
				token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
					SignedString([]byte(cfg.Auth.JWTSecret))
				require.NoError(t, err)
				return token
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotID, err := service.ValidateToken(tt.token(t))
			require.ErrorIs(t, err, auth.ErrInvalidToken)
			require.Equal(t, uuid.Nil, gotID)
		})
	}
}

func TestService_HashAndComparePasswords(t *testing.T) {
	cfg := testutil.TestConfig(t)
	service := auth.NewService(cfg)

	hash, err := service.HashPassword("test_password")
	require.NoError(t, err)
	require.NotEqual(t, "test_password", hash)
	require.True(t, strings.HasPrefix(hash, "$2"))

	require.NoError(t, service.ComparePasswords(hash, "test_password"))
	require.Error(t, service.ComparePasswords(hash, "wrong_password"))

	// Hashing is salted, two digests of the same input differ
	hash2, err := service.HashPassword("test_password")
	require.NoError(t, err)
	require.NotEqual(t, hash, hash2)
}

func TestService_ComparePasswords_MalformedDigest(t *testing.T) {
	cfg := testutil.TestConfig(t)
	service := auth.NewService(cfg)

	// A corrupt stored digest must deny, same as a mismatch
	require.Error(t, service.ComparePasswords("not-a-bcrypt-digest", "test_password"))
	require.Error(t, service.ComparePasswords("", "test_password"))
}

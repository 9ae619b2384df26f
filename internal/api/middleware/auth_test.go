package middleware_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-smartdial/internal/api/middleware"
)

func generateRSAKey(t *testing.T) (*rsa.PrivateKey, string, string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pkix, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pkixPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pkix})

	pkcs1PEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PUBLIC KEY", Bytes: x509.MarshalPKCS1PublicKey(&key.PublicKey)})

	return key, string(pkixPEM), string(pkcs1PEM)
}

func signToken(t *testing.T, key *rsa.PrivateKey, claims jwt.RegisteredClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestAuthenticateJWT(t *testing.T) {
	key, pkixPEM, pkcs1PEM := generateRSAKey(t)
	now := time.Now()

	valid := signToken(t, key, jwt.RegisteredClaims{
		Subject:   "operator",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	})

	t.Run("valid token with PKIX key", func(t *testing.T) {
		result := middleware.NewAuthenticator(middleware.AuthConfig{JWTPublicKey: pkixPEM}).
			Authenticate("Bearer " + valid)
		require.True(t, result.Success, result.Error)
		assert.Equal(t, middleware.AUTH_TYPE_JWT, result.AuthType)
		assert.Equal(t, "operator", result.AuthSubject)
		require.NotNil(t, result.Claims)
	})

	t.Run("valid token with PKCS1 key", func(t *testing.T) {
		result := middleware.NewAuthenticator(middleware.AuthConfig{JWTPublicKey: pkcs1PEM}).
			Authenticate("bearer " + valid)
		assert.True(t, result.Success, result.Error)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := signToken(t, key, jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
		})
		result := middleware.NewAuthenticator(middleware.AuthConfig{JWTPublicKey: pkixPEM}).
			Authenticate("Bearer " + expired)
		assert.False(t, result.Success)
		assert.ErrorIs(t, result.Error, jwt.ErrTokenExpired)
	})

	t.Run("token not yet valid", func(t *testing.T) {
		early := signToken(t, key, jwt.RegisteredClaims{
			NotBefore: jwt.NewNumericDate(now.Add(time.Hour)),
		})
		result := middleware.NewAuthenticator(middleware.AuthConfig{JWTPublicKey: pkixPEM}).
			Authenticate("Bearer " + early)
		assert.False(t, result.Success)
		assert.ErrorIs(t, result.Error, jwt.ErrTokenNotValidYet)
	})

	t.Run("token signed by another key", func(t *testing.T) {
		other, _, _ := generateRSAKey(t)
		forged := signToken(t, other, jwt.RegisteredClaims{Subject: "operator"})
		result := middleware.NewAuthenticator(middleware.AuthConfig{JWTPublicKey: pkixPEM}).
			Authenticate("Bearer " + forged)
		assert.False(t, result.Success)
	})

	t.Run("HMAC token is rejected", func(t *testing.T) {
		hmac, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{}).SignedString([]byte("secret"))
		require.NoError(t, err)
		result := middleware.NewAuthenticator(middleware.AuthConfig{JWTPublicKey: pkixPEM}).
			Authenticate("Bearer " + hmac)
		assert.False(t, result.Success)
		assert.Contains(t, result.Error.Error(), "unexpected signing method")
	})

	t.Run("public key not configured", func(t *testing.T) {
		result := middleware.NewAuthenticator(middleware.AuthConfig{}).Authenticate("Bearer " + valid)
		assert.False(t, result.Success)
		assert.EqualError(t, result.Error, "JWT public key not configured")
	})

	t.Run("malformed public key", func(t *testing.T) {
		result := middleware.NewAuthenticator(middleware.AuthConfig{JWTPublicKey: "not a pem"}).
			Authenticate("Bearer " + valid)
		assert.False(t, result.Success)
		assert.Contains(t, result.Error.Error(), "failed to parse RSA public key")
	})

	t.Run("non RSA public key", func(t *testing.T) {
		ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		require.NoError(t, err)
		der, err := x509.MarshalPKIXPublicKey(&ecKey.PublicKey)
		require.NoError(t, err)
		ecPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})

		result := middleware.NewAuthenticator(middleware.AuthConfig{JWTPublicKey: string(ecPEM)}).
			Authenticate("Bearer " + valid)
		assert.False(t, result.Success)
		assert.Contains(t, result.Error.Error(), "public key is not an RSA key")
	})
}

func TestAuthenticateAPIKey(t *testing.T) {
	authenticator := middleware.NewAuthenticator(middleware.AuthConfig{APIKeys: []string{"key-1", "", "key-2"}})

	tests := []struct {
		name    string
		header  string
		success bool
	}{
		{name: "first key", header: "ApiKey key-1", success: true},
		{name: "second key, lowercase scheme", header: "apikey key-2", success: true},
		{name: "unknown key", header: "ApiKey key-3", success: false},
		{name: "empty key is never valid", header: "ApiKey ", success: false},
		{name: "missing header", header: "", success: false},
		{name: "missing credentials", header: "ApiKey", success: false},
		{name: "unsupported scheme", header: "Basic dXNlcjpwYXNz", success: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := authenticator.Authenticate(tt.header)
			assert.Equal(t, tt.success, result.Success)
			if tt.success {
				assert.Equal(t, middleware.AUTH_TYPE_APIKEY, result.AuthType)
				assert.NoError(t, result.Error)
			} else {
				assert.Error(t, result.Error)
			}
		})
	}

	t.Run("no keys configured", func(t *testing.T) {
		result := middleware.NewAuthenticator(middleware.AuthConfig{}).Authenticate("ApiKey key-1")
		assert.False(t, result.Success)
		assert.EqualError(t, result.Error, "no API keys configured")
	})
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.POST("/protected", middleware.Auth(middleware.AuthConfig{APIKeys: []string{"key-1"}}), func(c *gin.Context) {
		authType, _ := c.Get(string(middleware.AUTH_TYPE_KEY))
		c.String(http.StatusOK, "%v", authType)
	})

	t.Run("authenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/protected", nil)
		req.Header.Set("Authorization", "ApiKey key-1")
		req.Header.Set(middleware.REQUEST_ID_HEADER, "req-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, middleware.AUTH_TYPE_APIKEY, w.Body.String())
		assert.Equal(t, "req-1", w.Header().Get(middleware.REQUEST_ID_HEADER))
	})

	t.Run("rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/protected", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "missing Authorization header")
		assert.NotEmpty(t, w.Header().Get(middleware.REQUEST_ID_HEADER))
	})
}

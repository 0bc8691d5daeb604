package middleware

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artivio/artivio-chain/internal/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func generateKey(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	return key, string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

func sign(t *testing.T, key *rsa.PrivateKey, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestNewAuthenticator_InvalidKey(t *testing.T) {
	_, err := NewAuthenticator(AuthConfig{JWTPublicKey: "not a pem"})
	assert.Error(t, err)

	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&ecKey.PublicKey)
	require.NoError(t, err)
	_, err = NewAuthenticator(AuthConfig{JWTPublicKey: string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))})
	assert.Error(t, err)
}

func TestAuthenticate(t *testing.T) {
	key, publicPEM := generateKey(t)
	otherKey, _ := generateKey(t)

	a, err := NewAuthenticator(AuthConfig{JWTPublicKey: publicPEM, APIKeys: []string{"", "storefront-key"}})
	require.NoError(t, err)

	now := time.Now()
	validToken := sign(t, key, jwt.RegisteredClaims{
		Subject:   "storefront",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	})
	expiredToken := sign(t, key, jwt.RegisteredClaims{
		Subject:   "storefront",
		ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
	})
	futureToken := sign(t, key, jwt.RegisteredClaims{
		NotBefore: jwt.NewNumericDate(now.Add(time.Hour)),
	})
	foreignToken := sign(t, otherKey, jwt.RegisteredClaims{Subject: "intruder"})
	hmacToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		success  bool
		authType string
		subject  string
	}{
		{name: "valid jwt", header: "Bearer " + validToken, success: true, authType: AuthTypeJWT, subject: "storefront"},
		{name: "lowercase scheme", header: "bearer " + validToken, success: true, authType: AuthTypeJWT, subject: "storefront"},
		{name: "expired jwt", header: "Bearer " + expiredToken},
		{name: "not yet valid jwt", header: "Bearer " + futureToken},
		{name: "wrong signer", header: "Bearer " + foreignToken},
		{name: "hmac jwt", header: "Bearer " + hmacToken},
		{name: "valid api key", header: "ApiKey storefront-key", success: true, authType: AuthTypeAPIKey},
		{name: "empty configured key never matches", header: "ApiKey "},
		{name: "wrong api key", header: "ApiKey other"},
		{name: "missing header", header: ""},
		{name: "no credentials", header: "Bearer"},
		{name: "unsupported scheme", header: "Basic dXNlcjpwYXNz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := a.Authenticate(tt.header)
			assert.Equal(t, tt.success, result.Success)
			if tt.success {
				assert.NoError(t, result.Error)
				assert.Equal(t, tt.authType, result.AuthType)
				assert.Equal(t, tt.subject, result.AuthSubject)
			} else {
				assert.Error(t, result.Error)
			}
		})
	}
}

func TestAuthenticate_NothingConfigured(t *testing.T) {
	a, err := NewAuthenticator(AuthConfig{})
	require.NoError(t, err)

	assert.False(t, a.Authenticate("ApiKey anything").Success)
	assert.False(t, a.Authenticate("Bearer a.b.c").Success)
}

func TestAuthMiddleware(t *testing.T) {
	a, err := NewAuthenticator(AuthConfig{APIKeys: []string{"storefront-key"}})
	require.NoError(t, err)

	router := gin.New()
	router.POST("/mint", Auth(a), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"authType": c.GetString(AUTH_TYPE_KEY)})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/mint", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"unauthorized"`)

	req := httptest.NewRequest(http.MethodPost, "/mint", nil)
	req.Header.Set("Authorization", "ApiKey storefront-key")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authType":"apikey"}`, w.Body.String())
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Len(t, w.Header().Get(REQUEST_ID_HEADER), 26)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(REQUEST_ID_HEADER, "checkout-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "checkout-123", w.Header().Get(REQUEST_ID_HEADER))
}

func TestRecovery(t *testing.T) {
	router := gin.New()
	router.Use(Recovery())
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal_error")
}

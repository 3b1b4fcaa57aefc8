package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func setupProbeRouter(captured *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(BearerToken())
	r.GET("/probe", func(c *gin.Context) {
		*captured = TokenFromContext(c)
		c.Status(http.StatusOK)
	})
	return r
}

func TestBearerTokenExtractsPrefixedToken(t *testing.T) {
	var token string
	router := setupProbeRouter(&token)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer abc123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, "abc123", token)
}

func TestBearerTokenAcceptsRawHeader(t *testing.T) {
	var token string
	router := setupProbeRouter(&token)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "abc123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, "abc123", token)
}

func TestBearerTokenMissingHeader(t *testing.T) {
	var token string
	router := setupProbeRouter(&token)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, token)
}

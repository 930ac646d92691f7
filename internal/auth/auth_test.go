package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParseToken(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")

	token, err := signToken("user-1", "a@example.com", "access", AccessTokenDuration)
	require.NoError(t, err)

	claims, err := parseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, "access", claims.TokenType)
	assert.Equal(t, "nutriplan", claims.Issuer)
}

func TestParseTokenExpired(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")

	token, err := signToken("user-1", "a@example.com", "access", -time.Minute)
	require.NoError(t, err)

	_, err = parseToken(token)
	assert.Error(t, err)
}

func TestParseTokenWrongSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")
	token, err := signToken("user-1", "a@example.com", "access", AccessTokenDuration)
	require.NoError(t, err)

	t.Setenv("SESSION_SECRET", "other-secret")
	_, err = parseToken(token)
	assert.Error(t, err)
}

func TestJwtAuthMiddleware(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")
	e := echo.New()

	handler := JwtAuthMiddleware(func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get("user_id").(string))
	})

	t.Run("valid access token", func(t *testing.T) {
		token, err := signToken("user-1", "a@example.com", "access", AccessTokenDuration)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		require.NoError(t, handler(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user-1", rec.Body.String())
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		rec := httptest.NewRecorder()

		require.NoError(t, handler(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("refresh token rejected as access token", func(t *testing.T) {
		token, err := signToken("user-1", "a@example.com", "refresh", RefreshTokenDuration)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		require.NoError(t, handler(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "unit-test-secret"

func signToken(t *testing.T, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func run(t *testing.T, authHeader string, mw ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}
	err := handler(c)
	if err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, c
}

func TestJWTRejectsMissingOrBadTokens(t *testing.T) {
	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong secret", "Bearer " + func() string {
			token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "u"}).
				SignedString([]byte("other-secret"))
			return token
		}()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, _ := run(t, tc.header, JWT(secret))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	claims := Claims{UserID: "u-1", Role: "admin"}
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	rec, _ := run(t, "Bearer "+signToken(t, claims), JWT(secret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTSetsIdentityOnContext(t *testing.T) {
	claims := Claims{UserID: "u-1", Email: "u@example.com", Role: "admin"}
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))

	rec, c := run(t, "Bearer "+signToken(t, claims), JWT(secret))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-1", c.Get("user_id"))
	assert.Equal(t, "u@example.com", c.Get("user_email"))
	assert.Equal(t, "admin", c.Get("user_role"))
}

func TestAdminOnly(t *testing.T) {
	admin := Claims{UserID: "u-1", Role: "admin"}
	admin.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	rec, _ := run(t, "Bearer "+signToken(t, admin), JWT(secret), AdminOnly())
	assert.Equal(t, http.StatusOK, rec.Code)

	user := Claims{UserID: "u-2", Role: "user"}
	user.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	rec, _ = run(t, "Bearer "+signToken(t, user), JWT(secret), AdminOnly())
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/warehouse-qr-system/internal/utils"
)

const testSecret = "unit-test-secret"

// perform runs a handler chain against a GET request carrying the given
// Authorization header and returns the recorder plus the context values
// captured by the terminal handler.
func perform(t *testing.T, authz string, mws ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/slots", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	captured := map[string]interface{}{}
	h := func(c echo.Context) error {
		captured["user_id"] = c.Get("user_id")
		captured["username"] = c.Get("username")
		captured["role"] = c.Get("role")
		return c.NoContent(http.StatusOK)
	}
	wrapped := echo.HandlerFunc(h)
	for i := len(mws) - 1; i >= 0; i-- {
		wrapped = mws[i](wrapped)
	}
	require.NoError(t, wrapped(c))
	return rec, captured
}

func TestJWTAuthValidToken(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 7, "employee", "EMPLOYEE", 5)
	require.NoError(t, err)

	rec, got := perform(t, "Bearer "+at.Token, JWTAuth(testSecret))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 7, got["user_id"])
	assert.Equal(t, "employee", got["username"])
	assert.Equal(t, "EMPLOYEE", got["role"])
}

func TestJWTAuthMissingHeader(t *testing.T) {
	rec, _ := perform(t, "", JWTAuth(testSecret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	at, err := utils.NewAccessToken("another-secret", 7, "employee", "EMPLOYEE", 5)
	require.NoError(t, err)

	rec, _ := perform(t, "Bearer "+at.Token, JWTAuth(testSecret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	admin, err := utils.NewAccessToken(testSecret, 1, "admin", "ADMIN", 5)
	require.NoError(t, err)
	employee, err := utils.NewAccessToken(testSecret, 2, "employee", "EMPLOYEE", 5)
	require.NoError(t, err)

	rec, _ := perform(t, "Bearer "+admin.Token, JWTAuth(testSecret), RequireRole("ADMIN"))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = perform(t, "Bearer "+employee.Token, JWTAuth(testSecret), RequireRole("ADMIN"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = perform(t, "Bearer "+employee.Token, JWTAuth(testSecret), RequireRole("ADMIN", "EMPLOYEE"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

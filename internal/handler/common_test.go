package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/property-rental/internal/repository"
	"github.com/iliyamo/property-rental/internal/utils"
)

// newTestContext builds an Echo context carrying a JSON body and the
// authenticated user, as the JWT and active-user middlewares would have
// left it.
func newTestContext(t *testing.T, method, target string, body any, u repository.User) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = utils.NewRequestValidator()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("current_user", u)
	return c, rec
}

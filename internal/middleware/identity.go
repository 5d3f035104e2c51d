package middleware

// identity.go loads the authenticated user's database record for
// downstream role checks. Every protected operation requires an *active*
// user, and role flags must be read fresh because tenant registration
// flips is_tenant mid-session; a stale claim in the JWT would let a
// deactivated or demoted user keep acting.

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-rental/internal/repository"
)

// ctxUserKey is the context key under which ActiveUser stores the loaded
// repository.User value.
const ctxUserKey = "current_user"

// ActiveUser returns a middleware that resolves the user_id placed in
// context by JWTAuth into a full user record and rejects inactive
// accounts. Handlers access the record via CurrentUser.
func ActiveUser(users *repository.UserRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := contextUserID(c)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			u, err := users.GetByID(c.Request().Context(), id)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			if !u.IsActive {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "inactive user"})
			}
			c.Set(ctxUserKey, u)
			return next(c)
		}
	}
}

// CurrentUser returns the user record stored by ActiveUser. The boolean
// is false when the middleware did not run on this route.
func CurrentUser(c echo.Context) (repository.User, bool) {
	u, ok := c.Get(ctxUserKey).(repository.User)
	return u, ok
}

// contextUserID converts the raw "user_id" context value into a uint64.
// The JWT library decodes numeric claims as float64, so several types
// are accepted.
func contextUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

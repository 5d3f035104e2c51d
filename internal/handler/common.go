package handler // handler defines http handlers

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// dateLayout is the wire format for contract and payment dates.
const dateLayout = "2006-01-02"

// parseDate parses a YYYY-MM-DD date string.
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// pagination extracts skip/limit query parameters with the defaults 0
// and 100. Negative or malformed values fall back to the defaults; limit
// is capped at 500 to bound result sets.
func pagination(c echo.Context) (skip, limit int) {
	skip, limit = 0, 100
	if v := c.QueryParam("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			skip = n
		}
	}
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 500 {
		limit = 500
	}
	return skip, limit
}

// pathID parses the numeric :id (or named) path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

package middleware

// identity.go holds small helpers shared by the middleware in this package.
// The JWT middleware stores the token subject under "user_id"; rate limiting
// needs it back as a plain string to build per-user bucket keys.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// userID returns the authenticated user's identifier from the request
// context, or "anon" for unauthenticated requests.
func userID(c echo.Context) string {
	v := c.Get("user_id")
	if v == nil {
		return "anon"
	}
	switch t := v.(type) {
	case string:
		if t != "" {
			return t
		}
	case float64:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	}
	return "anon"
}

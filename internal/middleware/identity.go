package middleware

// identity.go provides helper functions shared across middleware files.  The
// user identifier stored by JWTAuth is rendered as a string for use in rate
// limit and cache keys; "anon" is returned when no user is authenticated.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// currentUserID renders the authenticated user's ID from the context as a
// string.  JWT numeric claims decode as float64, so several shapes are
// accepted.  "anon" is returned when no user is authenticated.
func currentUserID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case nil:
		return "anon"
	case string:
		if v != "" {
			return v
		}
		return "anon"
	case float64:
		return fmt.Sprintf("%.0f", v)
	case uint64:
		return fmt.Sprintf("%d", v)
	case int64:
		return fmt.Sprintf("%d", v)
	default:
		return "anon"
	}
}

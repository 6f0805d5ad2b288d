package middlewares

import (
	"net/http"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

// adminIDContextKey is the key under which the authenticated admin ID is
// stored on the echo context.
const adminIDContextKey = "admin_id"

// AdminSessionName is the cookie name for admin console sessions. It is
// distinct from the clinician session so the two principals never mix.
const AdminSessionName = "admin_session"

// AdminMiddleware resolves the admin session cookie and stores the
// authenticated admin ID on the context.
func AdminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := session.Get(AdminSessionName, c)
		if err != nil {
			resetSessionCookie(c, AdminSessionName)
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Session error. Please log in again."})
		}

		rawID, ok := sess.Values[adminIDContextKey]
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Admin authentication required."})
		}
		adminID, ok := rawID.(uint)
		if !ok {
			resetSessionCookie(c, AdminSessionName)
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Admin authentication required."})
		}

		c.Set(adminIDContextKey, adminID)
		return next(c)
	}
}

// GetAdminIDFromContext returns the admin ID set by AdminMiddleware.
func GetAdminIDFromContext(c echo.Context) (uint, error) {
	rawID := c.Get(adminIDContextKey)
	if rawID == nil {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "Admin authentication required.")
	}
	adminID, ok := rawID.(uint)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusInternalServerError, "Invalid session principal type.")
	}
	return adminID, nil
}

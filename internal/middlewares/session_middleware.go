package middlewares

import (
	"net/http"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

// userIDContextKey is the key under which the authenticated user ID is
// stored on the echo context.
const userIDContextKey = "user_id"

// UserSessionName is the cookie name for clinician sessions.
const UserSessionName = "session"

// SessionMiddleware resolves the clinician session cookie and stores the
// authenticated user ID on the context. Requests without a valid session
// are rejected and the stale cookie is cleared.
func SessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := session.Get(UserSessionName, c)
		if err != nil {
			resetSessionCookie(c, UserSessionName)
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Session error. Please log in again."})
		}

		rawID, ok := sess.Values[userIDContextKey]
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authentication required."})
		}
		userID, ok := rawID.(uint)
		if !ok {
			resetSessionCookie(c, UserSessionName)
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authentication required."})
		}

		c.Set(userIDContextKey, userID)
		return next(c)
	}
}

// resetSessionCookie clears the named session cookie on the client.
func resetSessionCookie(c echo.Context, name string) {
	cookie := new(http.Cookie)
	cookie.Name = name
	cookie.Value = ""
	cookie.Path = "/"
	cookie.MaxAge = -1
	cookie.HttpOnly = true
	c.SetCookie(cookie)
}

// GetUserIDFromContext returns the user ID set by SessionMiddleware.
func GetUserIDFromContext(c echo.Context) (uint, error) {
	rawID := c.Get(userIDContextKey)
	if rawID == nil {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "Authentication required.")
	}
	userID, ok := rawID.(uint)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusInternalServerError, "Invalid session principal type.")
	}
	return userID, nil
}

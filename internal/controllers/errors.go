package controllers

import (
	"github.com/labstack/echo/v4"

	"neuroscan-server/internal/apperrors"
)

// respondError converts a service error into the JSON error envelope.
// Unknown errors collapse to a generic 500 so internals never leak.
func respondError(c echo.Context, err error) error {
	return c.JSON(apperrors.StatusFor(err), map[string]string{"error": apperrors.MessageFor(err)})
}

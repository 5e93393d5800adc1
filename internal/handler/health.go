package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health returns 200 OK with a tiny JSON payload. Used by load balancers.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

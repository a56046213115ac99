package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health responds 200 when the process is up. Used by load balancers.
func Health(c echo.Context) error {
	return respond(c, http.StatusOK, "ok", nil)
}

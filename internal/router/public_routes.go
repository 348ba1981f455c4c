package router

import (
	"github.com/labstack/echo/v4"

	"github.com/college360hub/hub-booking/internal/handler"
)

// RegisterPublic mounts the availability listings.  Their output depends
// only on the current date, so the response cache is applied here and
// nowhere else.
func RegisterPublic(e *echo.Echo, h *handler.AvailabilityHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/api", cache)
	g.GET("/available-dates", h.Dates)
	g.GET("/available-times", h.Times)
}

package router

import (
	"github.com/labstack/echo/v4"

	"github.com/college360hub/hub-booking/internal/handler"
)

// RegisterAdmin mounts the staff dashboard reads.  Never cached: stats must
// reflect the latest confirmations.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler) {
	g := e.Group("/api/admin")
	g.GET("/bookings", h.ListBookings)
	g.GET("/donations", h.ListDonations)
	g.GET("/stats", h.Stats)
}

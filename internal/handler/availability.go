package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/college360hub/hub-booking/internal/service"
)

// AvailabilityHandler lists bookable dates and time slots.  Now is
// injectable for tests; nil means time.Now.
type AvailabilityHandler struct {
	Now func() time.Time
}

func (h *AvailabilityHandler) Dates(c echo.Context) error {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	return c.JSON(http.StatusOK, service.AvailableDates(now()))
}

func (h *AvailabilityHandler) Times(c echo.Context) error {
	return c.JSON(http.StatusOK, service.TimeSlots())
}

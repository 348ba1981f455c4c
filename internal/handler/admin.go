package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/college360hub/hub-booking/internal/model"
)

// Dashboard is the read side used by staff.
type Dashboard interface {
	Bookings(ctx context.Context) ([]model.Booking, error)
	Donations(ctx context.Context) ([]model.Donation, error)
	Dashboard(ctx context.Context) (model.DashboardStats, error)
}

// AdminHandler serves the staff dashboard.  Access control is left to the
// deployment (reverse proxy or network policy).
type AdminHandler struct {
	Reports Dashboard
	Logger  *zap.Logger
}

// ListBookings handles GET /api/admin/bookings, newest first.
func (h *AdminHandler) ListBookings(c echo.Context) error {
	out, err := h.Reports.Bookings(c.Request().Context())
	if err != nil {
		h.Logger.Error("error fetching bookings", zap.Error(err))
		return respondError(c, err, "Failed to fetch bookings")
	}
	return c.JSON(http.StatusOK, out)
}

// ListDonations handles GET /api/admin/donations, newest first.
func (h *AdminHandler) ListDonations(c echo.Context) error {
	out, err := h.Reports.Donations(c.Request().Context())
	if err != nil {
		h.Logger.Error("error fetching donations", zap.Error(err))
		return respondError(c, err, "Failed to fetch donations")
	}
	return c.JSON(http.StatusOK, out)
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandler) Stats(c echo.Context) error {
	out, err := h.Reports.Dashboard(c.Request().Context())
	if err != nil {
		h.Logger.Error("error fetching stats", zap.Error(err))
		return respondError(c, err, "Failed to fetch stats")
	}
	return c.JSON(http.StatusOK, out)
}

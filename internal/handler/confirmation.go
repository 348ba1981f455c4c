package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/college360hub/hub-booking/internal/model"
	"github.com/college360hub/hub-booking/internal/service"
)

// Confirmer is the workflow behind the confirmation endpoints.
type Confirmer interface {
	ConfirmBooking(ctx context.Context, req service.BookingRequest) (model.Booking, error)
	ConfirmDonation(ctx context.Context, req service.DonationRequest) (model.Donation, error)
}

// ConfirmationHandler records bookings and donations the browser reports
// as paid.
type ConfirmationHandler struct {
	Service Confirmer
}

// ConfirmBooking handles POST /api/confirm-booking.
func (h *ConfirmationHandler) ConfirmBooking(c echo.Context) error {
	var raw map[string]any
	if err := c.Bind(&raw); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msgInvalidBody})
	}
	req, err := service.ParseBookingRequest(raw)
	if err != nil {
		return respondError(c, err, "Failed to confirm booking")
	}
	b, err := h.Service.ConfirmBooking(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err, "Failed to confirm booking")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "booking_id": b.ID})
}

// ConfirmDonation handles POST /api/confirm-donation.
func (h *ConfirmationHandler) ConfirmDonation(c echo.Context) error {
	var raw map[string]any
	if err := c.Bind(&raw); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msgInvalidBody})
	}
	req, err := service.ParseDonationRequest(raw)
	if err != nil {
		return respondError(c, err, "Failed to confirm donation")
	}
	d, err := h.Service.ConfirmDonation(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err, "Failed to confirm donation")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "donation_id": d.ID})
}

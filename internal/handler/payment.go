package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/college360hub/hub-booking/internal/payment"
)

// PaymentHandler creates payment intents for the browser to confirm.
type PaymentHandler struct {
	Gateway payment.Gateway
	Logger  *zap.Logger
}

type createIntentRequest struct {
	Amount float64 `json:"amount"`
	Type   string  `json:"type"`
}

// CreatePaymentIntent handles POST /api/create-payment-intent with
// {amount, type} in dollars and returns {client_secret}.
func (h *PaymentHandler) CreatePaymentIntent(c echo.Context) error {
	var req createIntentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msgInvalidBody})
	}
	secret, err := h.Gateway.CreatePaymentIntent(c.Request().Context(), req.Amount, payment.Purpose(req.Type))
	if err != nil {
		h.Logger.Warn("create payment intent failed", zap.Float64("amount", req.Amount), zap.String("type", req.Type), zap.Error(err))
		return respondError(c, err, "Failed to create payment intent")
	}
	return c.JSON(http.StatusOK, echo.Map{"client_secret": secret})
}

// Package handler exposes the HTTP endpoints of the booking API.  Handlers
// decode the request, call into the service layer and translate its typed
// errors into status codes; they hold no business rules themselves.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/college360hub/hub-booking/internal/payment"
	"github.com/college360hub/hub-booking/internal/service"
)

const msgInvalidBody = "invalid request body"

// respondError maps err onto a status and JSON body.  fallback is the
// message shown for storage and unexpected failures, whose details stay in
// the logs.
func respondError(c echo.Context, err error, fallback string) error {
	var (
		ve *service.ValidationError
		ge *payment.GatewayError
	)
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Error(), "field": ve.Field})
	case errors.As(err, &ge):
		switch ge.Kind {
		case payment.KindInvalid:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": ge.Err.Error()})
		case payment.KindDeclined:
			return c.JSON(http.StatusPaymentRequired, echo.Map{"error": "Payment was not completed"})
		default:
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "Payment processor unavailable"})
		}
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": fallback})
	}
}

package router

import (
	"github.com/labstack/echo/v4"

	"github.com/college360hub/hub-booking/internal/handler"
)

// RegisterCheckout mounts the payment and confirmation endpoints behind the
// rate limiter.
func RegisterCheckout(e *echo.Echo, p *handler.PaymentHandler, c *handler.ConfirmationHandler, limiter echo.MiddlewareFunc) {
	g := e.Group("/api", limiter)
	g.POST("/create-payment-intent", p.CreatePaymentIntent)
	g.POST("/confirm-booking", c.ConfirmBooking)
	g.POST("/confirm-donation", c.ConfirmDonation)
}

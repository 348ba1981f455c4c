// Package payment wraps the card processor.  The server only creates
// payment intents and, when verification is enabled, reads them back; card
// confirmation happens between the browser and the processor.
package payment

import (
	"context"
	"errors"
	"fmt"
)

// Purpose tags an intent with what it pays for.
type Purpose string

const (
	PurposeBooking  Purpose = "booking"
	PurposeDonation Purpose = "donation"
)

// Valid reports whether p is a known purpose.
func (p Purpose) Valid() bool {
	return p == PurposeBooking || p == PurposeDonation
}

// StatusSucceeded is the processor status of a captured intent.
const StatusSucceeded = "succeeded"

var (
	ErrInvalidAmount  = errors.New("amount must be positive")
	ErrInvalidPurpose = errors.New("type must be booking or donation")
	// ErrUnverified is returned when an intent exists but has not been paid
	// in full.
	ErrUnverified = errors.New("payment intent not verified")
)

// ErrorKind classifies a GatewayError for the HTTP layer.
type ErrorKind int

const (
	// KindInvalid means the request to the gateway was malformed.
	KindInvalid ErrorKind = iota
	// KindDeclined means the processor refused the payment, or the intent
	// failed verification.
	KindDeclined
	// KindUnavailable covers transport and processor-side failures.
	KindUnavailable
)

// GatewayError is returned by every Gateway operation that fails.
type GatewayError struct {
	Op   string
	Kind ErrorKind
	Err  error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// Intent is the subset of a payment intent the server inspects.
type Intent struct {
	ID          string
	Status      string
	AmountCents int64
	Currency    string
}

// Gateway creates and inspects payment intents.
type Gateway interface {
	CreatePaymentIntent(ctx context.Context, amount float64, purpose Purpose) (string, error)
	RetrievePaymentIntent(ctx context.Context, id string) (*Intent, error)
}

// Verify checks that intent id succeeded for exactly wantCents.
func Verify(ctx context.Context, g Gateway, id string, wantCents int64) error {
	in, err := g.RetrievePaymentIntent(ctx, id)
	if err != nil {
		return err
	}
	if in.Status != StatusSucceeded {
		return &GatewayError{Op: "verify", Kind: KindDeclined, Err: fmt.Errorf("%w: status %s", ErrUnverified, in.Status)}
	}
	if in.AmountCents != wantCents {
		return &GatewayError{Op: "verify", Kind: KindDeclined, Err: fmt.Errorf("%w: amount %d, expected %d", ErrUnverified, in.AmountCents, wantCents)}
	}
	return nil
}

package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"

	"github.com/college360hub/hub-booking/internal/model"
)

// intentAPI is the part of the stripe client used here.
type intentAPI interface {
	Create(ctx context.Context, params *stripe.PaymentIntentCreateParams) (*stripe.PaymentIntent, error)
	Retrieve(ctx context.Context, id string, params *stripe.PaymentIntentRetrieveParams) (*stripe.PaymentIntent, error)
}

// StripeGateway implements Gateway on the Stripe API.
type StripeGateway struct {
	intents  intentAPI
	currency string
	logger   *zap.Logger
}

// NewStripeGateway builds a gateway authenticated with secretKey.  An empty
// currency means USD.
func NewStripeGateway(secretKey, currency string, logger *zap.Logger) *StripeGateway {
	sc := stripe.NewClient(secretKey)
	return newStripeGateway(sc.V1PaymentIntents, currency, logger)
}

func newStripeGateway(api intentAPI, currency string, logger *zap.Logger) *StripeGateway {
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StripeGateway{intents: api, currency: strings.ToLower(currency), logger: logger}
}

// CreatePaymentIntent creates an intent for amount dollars with automatic
// payment methods and returns its client secret.
func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, amount float64, purpose Purpose) (string, error) {
	if amount <= 0 {
		return "", &GatewayError{Op: "create intent", Kind: KindInvalid, Err: ErrInvalidAmount}
	}
	if !purpose.Valid() {
		return "", &GatewayError{Op: "create intent", Kind: KindInvalid, Err: fmt.Errorf("%w: %q", ErrInvalidPurpose, purpose)}
	}

	params := &stripe.PaymentIntentCreateParams{
		Amount:   stripe.Int64(model.ToCents(amount)),
		Currency: stripe.String(g.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentCreateAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("type", string(purpose))

	pi, err := g.intents.Create(ctx, params)
	if err != nil {
		g.logger.Warn("create payment intent failed", zap.String("purpose", string(purpose)), zap.Error(err))
		return "", classify("create intent", err)
	}
	g.logger.Info("payment intent created",
		zap.String("payment_intent", pi.ID),
		zap.String("purpose", string(purpose)),
		zap.Int64("amount_cents", pi.Amount),
	)
	return pi.ClientSecret, nil
}

// RetrievePaymentIntent reads an intent back from Stripe.
func (g *StripeGateway) RetrievePaymentIntent(ctx context.Context, id string) (*Intent, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &GatewayError{Op: "retrieve intent", Kind: KindInvalid, Err: errors.New("payment intent id is empty")}
	}
	pi, err := g.intents.Retrieve(ctx, id, nil)
	if err != nil {
		return nil, classify("retrieve intent", err)
	}
	return &Intent{
		ID:          pi.ID,
		Status:      string(pi.Status),
		AmountCents: pi.Amount,
		Currency:    string(pi.Currency),
	}, nil
}

// classify maps a stripe error onto an ErrorKind.  Card errors are
// declines; invalid requests (bad id, bad params) are the caller's fault;
// everything else, including network failures, is the processor's.
func classify(op string, err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		switch se.Type {
		case stripe.ErrorTypeCard:
			return &GatewayError{Op: op, Kind: KindDeclined, Err: err}
		case stripe.ErrorTypeInvalidRequest:
			return &GatewayError{Op: op, Kind: KindInvalid, Err: err}
		}
	}
	return &GatewayError{Op: op, Kind: KindUnavailable, Err: err}
}

// Package queue carries confirmation events over a message broker so that
// e-mail delivery can run in a separate worker process.
package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/college360hub/hub-booking/internal/model"
)

// Queue (RabbitMQ) names, also used as the Kafka message key.
const (
	BookingQueue  = "booking.confirmed"
	DonationQueue = "donation.confirmed"
)

// Event kinds.
const (
	KindBooking  = "booking"
	KindDonation = "donation"
)

var ErrUnknownKind = errors.New("unknown event kind")

// ConfirmationEvent is published once per recorded booking or donation.  It
// embeds the full record so the consumer can render the e-mail without
// reading the database.
type ConfirmationEvent struct {
	EventID     string          `json:"event_id"`
	Kind        string          `json:"kind"`
	Booking     *model.Booking  `json:"booking,omitempty"`
	Donation    *model.Donation `json:"donation,omitempty"`
	ConfirmedAt string          `json:"confirmed_at"`
}

func NewBookingEvent(b model.Booking) ConfirmationEvent {
	return ConfirmationEvent{
		EventID:     uuid.NewString(),
		Kind:        KindBooking,
		Booking:     &b,
		ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

func NewDonationEvent(d model.Donation) ConfirmationEvent {
	return ConfirmationEvent{
		EventID:     uuid.NewString(),
		Kind:        KindDonation,
		Donation:    &d,
		ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// Queue returns the destination queue for the event.
func (e ConfirmationEvent) Queue() string {
	if e.Kind == KindDonation {
		return DonationQueue
	}
	return BookingQueue
}

// DecodeEvent parses and sanity-checks a message body.
func DecodeEvent(body []byte) (ConfirmationEvent, error) {
	var ev ConfirmationEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return ev, fmt.Errorf("unmarshal: %w", err)
	}
	switch {
	case ev.Kind == KindBooking && ev.Booking != nil:
	case ev.Kind == KindDonation && ev.Donation != nil:
	default:
		return ev, fmt.Errorf("%w: %q", ErrUnknownKind, ev.Kind)
	}
	return ev, nil
}

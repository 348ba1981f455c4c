package queue

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/college360hub/hub-booking/internal/notify"
)

// Handler turns a broker message into a notification.  It is shared by the
// RabbitMQ and Kafka consumers.
type Handler struct {
	notifier notify.Notifier
	logger   *zap.Logger
}

func NewHandler(n notify.Notifier, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{notifier: n, logger: logger}
}

// HandleMessage decodes body and delivers it.  A malformed body is an error
// the caller should not retry.
func (h *Handler) HandleMessage(ctx context.Context, body []byte) error {
	ev, err := DecodeEvent(body)
	if err != nil {
		h.logger.Error("discarding malformed event", zap.Error(err), zap.ByteString("raw_message", body))
		return err
	}

	switch ev.Kind {
	case KindBooking:
		err = h.notifier.NotifyBooking(ctx, *ev.Booking)
	case KindDonation:
		err = h.notifier.NotifyDonation(ctx, *ev.Donation)
	}
	if err != nil {
		return fmt.Errorf("event %s: %w", ev.EventID, err)
	}
	h.logger.Info("confirmation delivered", zap.String("event_id", ev.EventID), zap.String("kind", ev.Kind))
	return nil
}

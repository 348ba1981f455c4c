package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/college360hub/hub-booking/internal/model"
	"github.com/college360hub/hub-booking/internal/notify"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes confirmation events to a single topic, keyed by
// queue name so bookings and donations keep their own ordering.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	logger *zap.Logger
}

var _ notify.Notifier = (*KafkaPublisher)(nil)

func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger) *KafkaPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		Logger:                 zap.NewStdLog(logger.With(zap.String("kafka_component", "producer"))),
	}
	logger.Info("kafka producer initialized", zap.Strings("brokers", brokers), zap.String("topic", topic))
	return &KafkaPublisher{writer: w, topic: topic, logger: logger}
}

func (p *KafkaPublisher) NotifyBooking(ctx context.Context, b model.Booking) error {
	return p.Publish(ctx, NewBookingEvent(b))
}

func (p *KafkaPublisher) NotifyDonation(ctx context.Context, d model.Donation) error {
	return p.Publish(ctx, NewDonationEvent(d))
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev ConfirmationEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return &notify.NotificationError{Op: "marshal event", Err: err}
	}
	msg := kafka.Message{
		Key:   []byte(ev.Queue()),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(ev.EventID)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("failed to produce message", zap.String("topic", p.topic), zap.Error(err))
		return &notify.NotificationError{Op: "produce", Err: err}
	}
	p.logger.Debug("produced message", zap.String("topic", p.topic), zap.String("event_id", ev.EventID))
	return nil
}

func (p *KafkaPublisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("close kafka producer: %w", err)
	}
	return nil
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConsumer reads the confirmation topic as part of a consumer group.
type KafkaConsumer struct {
	reader  messageReader
	handler *Handler
	logger  *zap.Logger
}

func NewKafkaConsumer(brokers []string, topic, groupID string, h *Handler, logger *zap.Logger) *KafkaConsumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0,
		Logger:         zap.NewStdLog(logger.With(zap.String("kafka_component", "consumer"))),
	})
	return &KafkaConsumer{reader: r, handler: h, logger: logger}
}

// Run fetches and handles messages until ctx is cancelled.  A message is
// committed once handled, or once it failed in a way a retry cannot fix.
func (c *KafkaConsumer) Run(ctx context.Context) error {
	c.logger.Info("kafka consumer started")
	defer func() {
		if err := c.reader.Close(); err != nil {
			c.logger.Warn("closing kafka consumer", zap.Error(err))
		}
	}()

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("error fetching message", zap.Error(err))
			if !sleep(ctx, time.Second) {
				return nil
			}
			continue
		}

		if err := c.handler.HandleMessage(ctx, m.Value); err != nil {
			c.logger.Error("error handling message",
				zap.String("topic", m.Topic),
				zap.Int("partition", m.Partition),
				zap.Int64("offset", m.Offset),
				zap.Error(err))
			if ctx.Err() != nil {
				return nil
			}
			// delivery is best-effort: commit and move on
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("failed to commit offset", zap.Int64("offset", m.Offset), zap.Error(err))
		}
	}
}

package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/college360hub/hub-booking/internal/model"
	"github.com/college360hub/hub-booking/internal/notify"
)

// amqpChannel is the part of *amqp.Channel the publisher uses.
type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitPublisher publishes confirmation events to durable queues on the
// default exchange.  The channel is opened lazily and reopened after a
// failed publish.
type RabbitPublisher struct {
	open   func() (amqpChannel, closer, error)
	logger *zap.Logger

	mu   sync.Mutex
	ch   amqpChannel
	conn closer
}

// closer is the connection owning the channel.
type closer interface{ Close() error }

var _ notify.Notifier = (*RabbitPublisher)(nil)

// NewRabbitPublisher returns a publisher for the broker at url.  No
// connection is made until the first publish.
func NewRabbitPublisher(url string, logger *zap.Logger) *RabbitPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RabbitPublisher{
		open: func() (amqpChannel, closer, error) {
			conn, err := amqp.Dial(url)
			if err != nil {
				return nil, nil, fmt.Errorf("dial: %w", err)
			}
			ch, err := conn.Channel()
			if err != nil {
				_ = conn.Close()
				return nil, nil, fmt.Errorf("channel open: %w", err)
			}
			return ch, conn, nil
		},
		logger: logger,
	}
}

func (p *RabbitPublisher) NotifyBooking(ctx context.Context, b model.Booking) error {
	return p.Publish(ctx, NewBookingEvent(b))
}

func (p *RabbitPublisher) NotifyDonation(ctx context.Context, d model.Donation) error {
	return p.Publish(ctx, NewDonationEvent(d))
}

// Publish sends ev as a persistent JSON message routed to ev.Queue().
func (p *RabbitPublisher) Publish(ctx context.Context, ev ConfirmationEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return &notify.NotificationError{Op: "marshal event", Err: err}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil {
		ch, conn, err := p.open()
		if err != nil {
			p.logger.Error("rabbitmq connect failed", zap.Error(err))
			return &notify.NotificationError{Op: "publish", Err: err}
		}
		p.ch, p.conn = ch, conn
	}

	queue := ev.Queue()
	if _, err := p.ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		p.reset()
		return &notify.NotificationError{Op: "queue declare", Err: err}
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.EventID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := p.ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
		p.reset()
		p.logger.Error("rabbitmq publish failed", zap.String("queue", queue), zap.Error(err))
		return &notify.NotificationError{Op: "publish", Err: err}
	}
	p.logger.Debug("event published", zap.String("queue", queue), zap.String("event_id", ev.EventID))
	return nil
}

// reset drops a broken channel so the next publish reconnects.  Callers
// hold p.mu.
func (p *RabbitPublisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.ch, p.conn = nil, nil
}

// Close releases the broker connection.
func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
	return nil
}

// RabbitConsumer drains both confirmation queues into a Handler.
type RabbitConsumer struct {
	url      string
	handler  *Handler
	prefetch int
	logger   *zap.Logger
}

func NewRabbitConsumer(url string, h *Handler, logger *zap.Logger) *RabbitConsumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RabbitConsumer{url: url, handler: h, prefetch: 50, logger: logger}
}

// Run connects to the broker and consumes until ctx is cancelled,
// reconnecting with exponential backoff (capped at 30s) whenever the
// connection drops.
func (c *RabbitConsumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.logger.Warn("rabbitmq dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return nil
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return nil
		}
		c.logger.Warn("rabbitmq consume loop ended, reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return nil
		}
	}
}

func (c *RabbitConsumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		c.logger.Warn("rabbitmq set QoS failed", zap.Error(err))
	}

	deliveries := make(chan amqp.Delivery)
	var wg sync.WaitGroup
	for _, q := range []string{BookingQueue, DonationQueue} {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", q, err)
		}
		msgs, err := ch.Consume(q, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("queue consume %s: %w", q, err)
		}
		wg.Add(1)
		go func(msgs <-chan amqp.Delivery) {
			defer wg.Done()
			for d := range msgs {
				select {
				case deliveries <- d:
				case <-ctx.Done():
					_ = d.Nack(false, true)
				}
			}
		}(msgs)
	}
	go func() {
		wg.Wait()
		close(deliveries)
	}()
	c.logger.Info("rabbitmq consumer started", zap.Strings("queues", []string{BookingQueue, DonationQueue}))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.handler.HandleMessage(ctx, d.Body); err != nil {
				c.logger.Error("handle message failed", zap.String("queue", d.RoutingKey), zap.Error(err))
				// reject without requeue to avoid tight loops
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// sleep waits for d or ctx, reporting false when ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

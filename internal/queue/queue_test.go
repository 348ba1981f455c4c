package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/college360hub/hub-booking/internal/model"
)

type recordingNotifier struct {
	mu        sync.Mutex
	bookings  []model.Booking
	donations []model.Donation
	err       error
}

func (r *recordingNotifier) NotifyBooking(_ context.Context, b model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings = append(r.bookings, b)
	return r.err
}

func (r *recordingNotifier) NotifyDonation(_ context.Context, d model.Donation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.donations = append(r.donations, d)
	return r.err
}

func TestEventRoundTripThroughHandler(t *testing.T) {
	rn := &recordingNotifier{}
	h := NewHandler(rn, nil)

	ev := NewBookingEvent(model.Booking{ID: 1, Name: "Ada", Email: "ada@example.com", Participants: 2, TotalAmount: 80})
	if ev.Queue() != BookingQueue || ev.EventID == "" {
		t.Fatalf("event = %+v", ev)
	}
	body, _ := json.Marshal(ev)
	if err := h.HandleMessage(context.Background(), body); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	dev := NewDonationEvent(model.Donation{ID: 2, DonorName: "Bo", TicketsDonated: 1, TotalAmount: 40})
	if dev.Queue() != DonationQueue {
		t.Errorf("donation queue = %s", dev.Queue())
	}
	body, _ = json.Marshal(dev)
	if err := h.HandleMessage(context.Background(), body); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	if len(rn.bookings) != 1 || rn.bookings[0].Name != "Ada" || rn.bookings[0].TotalAmount != 80 {
		t.Errorf("bookings = %+v", rn.bookings)
	}
	if len(rn.donations) != 1 || rn.donations[0].DonorName != "Bo" {
		t.Errorf("donations = %+v", rn.donations)
	}
}

func TestHandlerRejectsMalformed(t *testing.T) {
	h := NewHandler(&recordingNotifier{}, nil)
	tests := map[string]string{
		"not json":        `{`,
		"unknown kind":    `{"kind":"refund"}`,
		"missing payload": `{"kind":"booking"}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if err := h.HandleMessage(context.Background(), []byte(body)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestHandlerPropagatesNotifyError(t *testing.T) {
	boom := errors.New("smtp down")
	h := NewHandler(&recordingNotifier{err: boom}, nil)
	body, _ := json.Marshal(NewDonationEvent(model.Donation{ID: 1}))
	if err := h.HandleMessage(context.Background(), body); !errors.Is(err, boom) {
		t.Errorf("error = %v, want %v", err, boom)
	}
}

type fakeChannel struct {
	declared  []string
	published []amqp.Publishing
	keys      []string
	failOnce  error
	closed    bool
}

func (f *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	f.declared = append(f.declared, name)
	return amqp.Queue{Name: name}, nil
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.failOnce != nil {
		err := f.failOnce
		f.failOnce = nil
		return err
	}
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestRabbitPublisher(t *testing.T) {
	ch := &fakeChannel{}
	opens := 0
	p := NewRabbitPublisher("amqp://unused", nil)
	p.open = func() (amqpChannel, closer, error) {
		opens++
		return ch, nil, nil
	}
	ctx := context.Background()

	if err := p.NotifyBooking(ctx, model.Booking{ID: 1}); err != nil {
		t.Fatal(err)
	}
	if err := p.NotifyDonation(ctx, model.Donation{ID: 2}); err != nil {
		t.Fatal(err)
	}
	if opens != 1 {
		t.Errorf("opened %d channels, want 1", opens)
	}
	if len(ch.keys) != 2 || ch.keys[0] != BookingQueue || ch.keys[1] != DonationQueue {
		t.Errorf("routing keys = %v", ch.keys)
	}
	msg := ch.published[0]
	if msg.DeliveryMode != amqp.Persistent || msg.ContentType != "application/json" || msg.MessageId == "" {
		t.Errorf("publishing = %+v", msg)
	}
	ev, err := DecodeEvent(msg.Body)
	if err != nil || ev.Booking.ID != 1 {
		t.Errorf("decoded = %+v, %v", ev, err)
	}
}

func TestRabbitPublisherReconnectsAfterFailure(t *testing.T) {
	ch := &fakeChannel{failOnce: errors.New("channel closed")}
	opens := 0
	p := NewRabbitPublisher("amqp://unused", nil)
	p.open = func() (amqpChannel, closer, error) {
		opens++
		return ch, nil, nil
	}
	ctx := context.Background()

	if err := p.NotifyBooking(ctx, model.Booking{ID: 1}); err == nil {
		t.Fatal("expected publish error")
	}
	if !ch.closed {
		t.Error("broken channel not closed")
	}
	if err := p.NotifyBooking(ctx, model.Booking{ID: 1}); err != nil {
		t.Fatalf("retry error = %v", err)
	}
	if opens != 2 {
		t.Errorf("opened %d channels, want 2", opens)
	}
}

type fakeWriter struct {
	msgs []kafka.Message
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestKafkaPublisher(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w, topic: "hub.confirmations", logger: zap.NewNop()}

	if err := p.NotifyDonation(context.Background(), model.Donation{ID: 9, DonorName: "Bo"}); err != nil {
		t.Fatal(err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("wrote %d messages", len(w.msgs))
	}
	m := w.msgs[0]
	if string(m.Key) != DonationQueue {
		t.Errorf("key = %s", m.Key)
	}
	ev, err := DecodeEvent(m.Value)
	if err != nil || ev.Donation.ID != 9 {
		t.Errorf("decoded = %+v, %v", ev, err)
	}
}

type fakeReader struct {
	msgs      []kafka.Message
	committed []int64
	cancel    context.CancelFunc
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(f.msgs) == 0 {
		f.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	m := f.msgs[0]
	f.msgs = f.msgs[1:]
	return m, nil
}

func (f *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		f.committed = append(f.committed, m.Offset)
	}
	return nil
}

func (f *fakeReader) Close() error { return nil }

func TestKafkaConsumerHandlesAndCommits(t *testing.T) {
	good, _ := json.Marshal(NewBookingEvent(model.Booking{ID: 1, Name: "Ada"}))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := &fakeReader{
		msgs: []kafka.Message{
			{Offset: 1, Value: good},
			{Offset: 2, Value: []byte("garbage")},
		},
		cancel: cancel,
	}
	rn := &recordingNotifier{}
	c := &KafkaConsumer{reader: r, handler: NewHandler(rn, nil), logger: zap.NewNop()}

	if err := c.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(rn.bookings) != 1 {
		t.Errorf("handled %d bookings, want 1", len(rn.bookings))
	}
	if len(r.committed) != 2 {
		t.Errorf("committed offsets = %v, want both", r.committed)
	}
}

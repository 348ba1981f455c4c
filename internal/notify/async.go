package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/college360hub/hub-booking/internal/model"
)

// sendTimeout bounds one delivery attempt made by a worker.  Workers do not
// inherit the request context, which is gone by the time they run.
const sendTimeout = 30 * time.Second

type job struct {
	booking  *model.Booking
	donation *model.Donation
}

// AsyncNotifier queues notifications in memory and delivers them from a
// fixed pool of workers, so a confirmation response never waits on the
// mail provider.  Queued work is lost if the process dies before Close.
type AsyncNotifier struct {
	next   Notifier
	logger *zap.Logger

	mu     sync.RWMutex
	closed bool
	jobs   chan job
	wg     sync.WaitGroup
}

var _ Notifier = (*AsyncNotifier)(nil)

// NewAsyncNotifier starts workers goroutines draining a queue of size
// queueSize into next.
func NewAsyncNotifier(next Notifier, workers, queueSize int, logger *zap.Logger) *AsyncNotifier {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	n := &AsyncNotifier{next: next, logger: logger, jobs: make(chan job, queueSize)}
	n.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go n.work()
	}
	return n
}

func (n *AsyncNotifier) NotifyBooking(_ context.Context, b model.Booking) error {
	return n.enqueue(job{booking: &b}, b.Email)
}

func (n *AsyncNotifier) NotifyDonation(_ context.Context, d model.Donation) error {
	return n.enqueue(job{donation: &d}, d.DonorEmail)
}

func (n *AsyncNotifier) enqueue(j job, to string) error {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		return &NotificationError{Op: "enqueue", To: to, Err: ErrClosed}
	}
	select {
	case n.jobs <- j:
		return nil
	default:
		return &NotificationError{Op: "enqueue", To: to, Err: ErrQueueFull}
	}
}

func (n *AsyncNotifier) work() {
	defer n.wg.Done()
	for j := range n.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		var err error
		switch {
		case j.booking != nil:
			err = n.next.NotifyBooking(ctx, *j.booking)
			if err != nil {
				n.logger.Error("booking notification failed", zap.Int64("booking_id", j.booking.ID), zap.Error(err))
			}
		case j.donation != nil:
			err = n.next.NotifyDonation(ctx, *j.donation)
			if err != nil {
				n.logger.Error("donation notification failed", zap.Int64("donation_id", j.donation.ID), zap.Error(err))
			}
		}
		cancel()
	}
}

// Close stops accepting work and waits for queued notifications to be
// delivered, or for ctx to expire.
func (n *AsyncNotifier) Close(ctx context.Context) error {
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		close(n.jobs)
	}
	n.mu.Unlock()

	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

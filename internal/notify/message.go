// Package notify renders and delivers the confirmation e-mails sent after
// a booking or donation is recorded.  Delivery is best-effort: callers log
// a failed send and move on.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/college360hub/hub-booking/internal/model"
)

// Message is one outgoing e-mail.
type Message struct {
	To          string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Attachment is a file carried with a Message.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Sender delivers a Message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Notifier is told about every recorded booking and donation.
type Notifier interface {
	NotifyBooking(ctx context.Context, b model.Booking) error
	NotifyDonation(ctx context.Context, d model.Donation) error
}

var (
	ErrQueueFull = errors.New("notification queue full")
	ErrClosed    = errors.New("notifier closed")
)

// NotificationError reports a failed render, enqueue or send.
type NotificationError struct {
	Op  string
	To  string
	Err error
}

func (e *NotificationError) Error() string {
	if e.To == "" {
		return fmt.Sprintf("notify %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("notify %s to %s: %v", e.Op, e.To, e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }

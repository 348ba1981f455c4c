package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/college360hub/hub-booking/internal/model"
)

// Mailer renders confirmation e-mails and hands them to a Sender.  It is the
// synchronous Notifier every dispatch transport ends in.
type Mailer struct {
	sender  Sender
	siteURL string
	logger  *zap.Logger
}

var _ Notifier = (*Mailer)(nil)

// NewMailer wires a Mailer to sender.
func NewMailer(sender Sender, siteURL string, logger *zap.Logger) *Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mailer{sender: sender, siteURL: siteURL, logger: logger}
}

// NotifyBooking e-mails the booker a confirmation with a PDF ticket.  A ticket
// that fails to render is left out; the e-mail still goes.
func (m *Mailer) NotifyBooking(ctx context.Context, b model.Booking) error {
	var atts []Attachment
	if pdf, err := RenderTicket(b); err != nil {
		m.logger.Warn("ticket render failed", zap.Int64("booking_id", b.ID), zap.Error(err))
	} else {
		atts = append(atts, Attachment{
			Filename:    BookingReference(b) + ".pdf",
			ContentType: "application/pdf",
			Content:     pdf,
		})
	}

	subject, html, err := BookingConfirmation(b, m.siteURL, len(atts) > 0)
	if err != nil {
		return &NotificationError{Op: "render booking", To: b.Email, Err: err}
	}
	return m.sender.Send(ctx, Message{To: b.Email, Subject: subject, HTML: html, Attachments: atts})
}

// NotifyDonation e-mails the donor a thank-you with a PDF receipt.
func (m *Mailer) NotifyDonation(ctx context.Context, d model.Donation) error {
	var atts []Attachment
	if pdf, err := RenderReceipt(d); err != nil {
		m.logger.Warn("receipt render failed", zap.Int64("donation_id", d.ID), zap.Error(err))
	} else {
		atts = append(atts, Attachment{
			Filename:    DonationReference(d) + ".pdf",
			ContentType: "application/pdf",
			Content:     pdf,
		})
	}

	subject, html, err := DonationConfirmation(d, m.siteURL, len(atts) > 0)
	if err != nil {
		return &NotificationError{Op: "render donation", To: d.DonorEmail, Err: err}
	}
	return m.sender.Send(ctx, Message{To: d.DonorEmail, Subject: subject, HTML: html, Attachments: atts})
}

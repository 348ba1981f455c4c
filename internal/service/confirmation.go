package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/college360hub/hub-booking/internal/model"
	"github.com/college360hub/hub-booking/internal/notify"
	"github.com/college360hub/hub-booking/internal/payment"
	"github.com/college360hub/hub-booking/internal/repository"
)

// ConfirmationService records a paid booking or donation and triggers its
// confirmation e-mail.  It is stateless beyond its collaborators and safe
// for concurrent use.
type ConfirmationService struct {
	store    repository.Store
	gateway  payment.Gateway
	notifier notify.Notifier
	verify   bool
	now      func() time.Time
	logger   *zap.Logger
}

// NewConfirmationService wires the workflow.  When verify is true every
// payment reference is checked with gateway before anything is stored.
func NewConfirmationService(store repository.Store, gateway payment.Gateway, notifier notify.Notifier, verify bool, logger *zap.Logger) *ConfirmationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConfirmationService{
		store:    store,
		gateway:  gateway,
		notifier: notifier,
		verify:   verify,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger.With(zap.String("component", "confirmation")),
	}
}

// ConfirmBooking validates req, stores it as a completed booking and
// notifies the booker.  Notification failures are logged, never returned.
func (s *ConfirmationService) ConfirmBooking(ctx context.Context, req BookingRequest) (model.Booking, error) {
	if err := req.Validate(); err != nil {
		return model.Booking{}, err
	}
	if s.verify {
		if err := payment.Verify(ctx, s.gateway, req.PaymentIntentID, model.ToCents(req.TotalAmount)); err != nil {
			s.logger.Warn("booking payment not verified", zap.String("payment_intent", req.PaymentIntentID), zap.Error(err))
			return model.Booking{}, err
		}
	}

	b := model.Booking{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Location:        req.Location,
		Date:            req.Date,
		TimeSlot:        req.TimeSlot,
		Participants:    req.Participants,
		TotalAmount:     req.TotalAmount,
		PaymentStatus:   model.StatusCompleted,
		PaymentIntentID: req.PaymentIntentID,
		CreatedAt:       s.now(),
	}
	if err := s.store.CreateBooking(ctx, &b); err != nil {
		// The charge already went through; there is no automatic refund.
		s.logger.Error("booking not recorded after payment",
			zap.String("payment_intent", req.PaymentIntentID),
			zap.String("email", req.Email),
			zap.Float64("amount", req.TotalAmount),
			zap.Error(err))
		return model.Booking{}, err
	}
	s.logger.Info("booking confirmed",
		zap.Int64("booking_id", b.ID),
		zap.String("location", b.Location),
		zap.String("date", b.Date),
		zap.Int("participants", b.Participants))

	if err := s.notifier.NotifyBooking(ctx, b); err != nil {
		s.logger.Error("failed to send booking confirmation", zap.Int64("booking_id", b.ID), zap.Error(err))
	}
	return b, nil
}

// ConfirmDonation is ConfirmBooking for donations.
func (s *ConfirmationService) ConfirmDonation(ctx context.Context, req DonationRequest) (model.Donation, error) {
	if err := req.Validate(); err != nil {
		return model.Donation{}, err
	}
	if s.verify {
		if err := payment.Verify(ctx, s.gateway, req.PaymentIntentID, model.ToCents(req.TotalAmount)); err != nil {
			s.logger.Warn("donation payment not verified", zap.String("payment_intent", req.PaymentIntentID), zap.Error(err))
			return model.Donation{}, err
		}
	}

	d := model.Donation{
		DonorName:       req.DonorName,
		DonorEmail:      req.DonorEmail,
		TicketsDonated:  req.TicketsDonated,
		TotalAmount:     req.TotalAmount,
		PaymentStatus:   model.StatusCompleted,
		PaymentIntentID: req.PaymentIntentID,
		CreatedAt:       s.now(),
	}
	if err := s.store.CreateDonation(ctx, &d); err != nil {
		s.logger.Error("donation not recorded after payment",
			zap.String("payment_intent", req.PaymentIntentID),
			zap.String("email", req.DonorEmail),
			zap.Float64("amount", req.TotalAmount),
			zap.Error(err))
		return model.Donation{}, err
	}
	s.logger.Info("donation confirmed", zap.Int64("donation_id", d.ID), zap.Int("tickets", d.TicketsDonated))

	if err := s.notifier.NotifyDonation(ctx, d); err != nil {
		s.logger.Error("failed to send donation confirmation", zap.Int64("donation_id", d.ID), zap.Error(err))
	}
	return d, nil
}

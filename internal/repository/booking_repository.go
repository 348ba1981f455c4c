package repository

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/college360hub/hub-booking/internal/model"
)

const bookingColumns = `id, name, email, phone, location, date, time_slot, participants, total_amount, payment_status, stripe_payment_intent, created_at`

// CreateBooking appends a booking row and fills in the generated ID.  A zero
// CreatedAt is stamped with the current UTC time; an empty status defaults to
// pending.
func (s *SQLStore) CreateBooking(ctx context.Context, b *model.Booking) error {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	if b.PaymentStatus == "" {
		b.PaymentStatus = model.StatusPending
	}
	const q = `INSERT INTO bookings (name, email, phone, location, date, time_slot, participants, total_amount, payment_status, stripe_payment_intent, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	id, err := s.dialect.insert(ctx, s.db, q,
		b.Name, b.Email, b.Phone, b.Location, b.Date, b.TimeSlot,
		b.Participants, b.TotalAmount, b.PaymentStatus, nullString(b.PaymentIntentID), b.CreatedAt,
	)
	if err != nil {
		return wrap("create booking", err)
	}
	b.ID = id
	s.logger.Debug("booking stored", zap.Int64("booking_id", id), zap.String("location", b.Location))
	return nil
}

// ListBookings returns every booking, newest first.
func (s *SQLStore) ListBookings(ctx context.Context) ([]model.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC, id DESC`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, wrap("list bookings", err)
	}
	defer rows.Close()

	out := make([]model.Booking, 0)
	for rows.Next() {
		var (
			b      model.Booking
			intent sql.NullString
		)
		if err := rows.Scan(
			&b.ID, &b.Name, &b.Email, &b.Phone, &b.Location, &b.Date, &b.TimeSlot,
			&b.Participants, &b.TotalAmount, &b.PaymentStatus, &intent, &b.CreatedAt,
		); err != nil {
			return nil, wrap("scan booking", err)
		}
		b.PaymentIntentID = intent.String
		b.CreatedAt = b.CreatedAt.UTC()
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list bookings", err)
	}
	return out, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

package repository

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/college360hub/hub-booking/internal/model"
)

// CreateDonation appends a donation row and fills in the generated ID.
func (s *SQLStore) CreateDonation(ctx context.Context, d *model.Donation) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	if d.PaymentStatus == "" {
		d.PaymentStatus = model.StatusPending
	}
	const q = `INSERT INTO donations (donor_name, donor_email, tickets_donated, total_amount, payment_status, stripe_payment_intent, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	id, err := s.dialect.insert(ctx, s.db, q,
		d.DonorName, d.DonorEmail, d.TicketsDonated, d.TotalAmount,
		d.PaymentStatus, nullString(d.PaymentIntentID), d.CreatedAt,
	)
	if err != nil {
		return wrap("create donation", err)
	}
	d.ID = id
	s.logger.Debug("donation stored", zap.Int64("donation_id", id), zap.Int("tickets", d.TicketsDonated))
	return nil
}

// ListDonations returns every donation, newest first.
func (s *SQLStore) ListDonations(ctx context.Context) ([]model.Donation, error) {
	const q = `SELECT id, donor_name, donor_email, tickets_donated, total_amount, payment_status, stripe_payment_intent, created_at FROM donations ORDER BY created_at DESC, id DESC`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, wrap("list donations", err)
	}
	defer rows.Close()

	out := make([]model.Donation, 0)
	for rows.Next() {
		var (
			d      model.Donation
			intent sql.NullString
		)
		if err := rows.Scan(
			&d.ID, &d.DonorName, &d.DonorEmail, &d.TicketsDonated, &d.TotalAmount,
			&d.PaymentStatus, &intent, &d.CreatedAt,
		); err != nil {
			return nil, wrap("scan donation", err)
		}
		d.PaymentIntentID = intent.String
		d.CreatedAt = d.CreatedAt.UTC()
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list donations", err)
	}
	return out, nil
}

package repository

import (
	"context"

	"github.com/college360hub/hub-booking/internal/model"
)

// BookingStats sums completed bookings.  COALESCE keeps an empty table at
// zero instead of NULL.
func (s *SQLStore) BookingStats(ctx context.Context) (model.BookingStats, error) {
	q := s.dialect.rebind(`SELECT COUNT(*), COALESCE(SUM(total_amount), 0), COALESCE(SUM(participants), 0) FROM bookings WHERE payment_status = ?`)
	var st model.BookingStats
	if err := s.db.QueryRowContext(ctx, q, model.StatusCompleted).Scan(&st.Count, &st.TotalRevenue, &st.TotalParticipants); err != nil {
		return model.BookingStats{}, wrap("booking stats", err)
	}
	return st, nil
}

// DonationStats sums completed donations.
func (s *SQLStore) DonationStats(ctx context.Context) (model.DonationStats, error) {
	q := s.dialect.rebind(`SELECT COUNT(*), COALESCE(SUM(total_amount), 0), COALESCE(SUM(tickets_donated), 0) FROM donations WHERE payment_status = ?`)
	var st model.DonationStats
	if err := s.db.QueryRowContext(ctx, q, model.StatusCompleted).Scan(&st.Count, &st.TotalDonated, &st.TotalTicketsDonated); err != nil {
		return model.DonationStats{}, wrap("donation stats", err)
	}
	return st, nil
}

// LocationStats groups completed bookings by location, ordered by name.
// Locations without completed bookings are absent.
func (s *SQLStore) LocationStats(ctx context.Context) ([]model.LocationStats, error) {
	q := s.dialect.rebind(`SELECT location, COUNT(*), COALESCE(SUM(participants), 0), COALESCE(SUM(total_amount), 0) FROM bookings WHERE payment_status = ? GROUP BY location ORDER BY location`)
	rows, err := s.db.QueryContext(ctx, q, model.StatusCompleted)
	if err != nil {
		return nil, wrap("location stats", err)
	}
	defer rows.Close()

	out := make([]model.LocationStats, 0)
	for rows.Next() {
		var ls model.LocationStats
		if err := rows.Scan(&ls.Location, &ls.Bookings, &ls.TotalParticipants, &ls.Revenue); err != nil {
			return nil, wrap("scan location stats", err)
		}
		out = append(out, ls)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("location stats", err)
	}
	return out, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/college360hub/hub-booking/internal/model"
)

// Store is the persistence contract shared by every backend.  Bookings and
// donations are append-only; aggregates only count completed records and
// return zero values, not errors, when nothing matches.
type Store interface {
	CreateBooking(ctx context.Context, b *model.Booking) error
	CreateDonation(ctx context.Context, d *model.Donation) error
	ListBookings(ctx context.Context) ([]model.Booking, error)
	ListDonations(ctx context.Context) ([]model.Donation, error)
	BookingStats(ctx context.Context) (model.BookingStats, error)
	DonationStats(ctx context.Context) (model.DonationStats, error)
	LocationStats(ctx context.Context) ([]model.LocationStats, error)
	Ping(ctx context.Context) error
	Close() error
}

// SQLStore implements Store on database/sql.  Backend differences are
// confined to its dialect.  The pool is safe for concurrent use, so one
// SQLStore is shared by all request handlers.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	logger  *zap.Logger
}

var _ Store = (*SQLStore)(nil)

// New returns a SQLStore for the named driver (mysql, postgres or sqlite3)
// bound to db.  The schema must already be migrated.
func New(driver string, db *sql.DB, logger *zap.Logger) (*SQLStore, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLStore{db: db, dialect: d, logger: logger}, nil
}

// Driver reports the backend name.
func (s *SQLStore) Driver() string { return s.dialect.name }

// Ping verifies the database is reachable.
func (s *SQLStore) Ping(ctx context.Context) error {
	return wrap("ping", s.db.PingContext(ctx))
}

// Close releases the connection pool.
func (s *SQLStore) Close() error { return s.db.Close() }

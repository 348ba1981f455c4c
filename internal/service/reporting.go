package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/college360hub/hub-booking/internal/model"
	"github.com/college360hub/hub-booking/internal/repository"
)

// Reporter serves the staff dashboard.  Reads are never cached.
type Reporter struct {
	store repository.Store
}

func NewReporter(store repository.Store) *Reporter {
	return &Reporter{store: store}
}

func (r *Reporter) Bookings(ctx context.Context) ([]model.Booking, error) {
	return r.store.ListBookings(ctx)
}

func (r *Reporter) Donations(ctx context.Context) ([]model.Donation, error) {
	return r.store.ListDonations(ctx)
}

// Dashboard runs the three aggregate queries concurrently and merges them.
// Any failing query fails the whole call.
func (r *Reporter) Dashboard(ctx context.Context) (model.DashboardStats, error) {
	var (
		bs model.BookingStats
		ds model.DonationStats
		ls []model.LocationStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		bs, err = r.store.BookingStats(gctx)
		return err
	})
	g.Go(func() (err error) {
		ds, err = r.store.DonationStats(gctx)
		return err
	})
	g.Go(func() (err error) {
		ls, err = r.store.LocationStats(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.DashboardStats{}, err
	}

	if ls == nil {
		ls = []model.LocationStats{}
	}
	return model.DashboardStats{
		TotalBookings:  bs.Count,
		TotalDonations: ds.Count,
		TotalRevenue:   bs.TotalRevenue,
		TotalDonated:   ds.TotalDonated,
		LocationStats:  ls,
	}, nil
}

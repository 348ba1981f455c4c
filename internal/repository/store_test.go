package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/college360hub/hub-booking/internal/config"
	"github.com/college360hub/hub-booking/internal/database"
	"github.com/college360hub/hub-booking/internal/model"
)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	cfg := config.DBConfig{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "hub.db")}
	if err := database.Migrate(cfg, database.Up, nil); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s, err := New(cfg.Driver, db, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func booking(name, location string, participants int, status string, at time.Time) *model.Booking {
	return &model.Booking{
		Name:            name,
		Email:           name + "@example.com",
		Phone:           "555",
		Location:        location,
		Date:            "2026-10-17",
		TimeSlot:        model.TimeSlots[0],
		Participants:    participants,
		TotalAmount:     model.BookingTotal(participants),
		PaymentStatus:   status,
		PaymentIntentID: "pi_" + name,
		CreatedAt:       at,
	}
}

func TestRebind(t *testing.T) {
	q := `SELECT a FROM t WHERE b = ? AND c = ?`
	if got := dialects["mysql"].rebind(q); got != q {
		t.Errorf("mysql rebind changed query: %q", got)
	}
	want := `SELECT a FROM t WHERE b = $1 AND c = $2`
	if got := dialects["postgres"].rebind(q); got != want {
		t.Errorf("postgres rebind = %q, want %q", got, want)
	}
}

func TestNewUnsupportedDriver(t *testing.T) {
	_, err := New("oracle", nil, nil)
	if !errors.Is(err, ErrUnsupportedDriver) {
		t.Fatalf("New() error = %v, want ErrUnsupportedDriver", err)
	}
}

func TestCreateAndListBookings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	first := booking("ada", "Atlanta, GA", 2, model.StatusCompleted, base)
	second := booking("bo", "Flint, MI", 1, model.StatusCompleted, base.Add(time.Hour))
	for _, b := range []*model.Booking{first, second} {
		if err := s.CreateBooking(ctx, b); err != nil {
			t.Fatalf("CreateBooking() error = %v", err)
		}
	}
	if first.ID == 0 || second.ID <= first.ID {
		t.Fatalf("ids not assigned in order: %d, %d", first.ID, second.ID)
	}

	got, err := s.ListBookings(ctx)
	if err != nil {
		t.Fatalf("ListBookings() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Name != "bo" || got[1].Name != "ada" {
		t.Errorf("order = %s, %s; want newest first", got[0].Name, got[1].Name)
	}
	if got[1].TotalAmount != 80 || got[1].PaymentIntentID != "pi_ada" || !got[1].CreatedAt.Equal(base) {
		t.Errorf("round trip mismatch: %+v", got[1])
	}
}

func TestListOnEmptyStore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	b, err := s.ListBookings(ctx)
	if err != nil || b == nil || len(b) != 0 {
		t.Errorf("ListBookings() = %v, %v; want empty non-nil", b, err)
	}
	d, err := s.ListDonations(ctx)
	if err != nil || d == nil || len(d) != 0 {
		t.Errorf("ListDonations() = %v, %v; want empty non-nil", d, err)
	}
}

func TestDuplicatePaymentIntentAllowed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 2; i++ {
		b := booking("ada", "Atlanta, GA", 1, model.StatusCompleted, now)
		if err := s.CreateBooking(ctx, b); err != nil {
			t.Fatalf("CreateBooking() #%d error = %v", i, err)
		}
	}
	got, err := s.ListBookings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2 rows for the same payment reference", len(got))
	}
}

func TestCreateAndListDonations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	d := &model.Donation{
		DonorName:       "Bo",
		DonorEmail:      "bo@example.com",
		TicketsDonated:  3,
		TotalAmount:     model.DonationTotal(3),
		PaymentStatus:   model.StatusCompleted,
		PaymentIntentID: "pi_2",
	}
	if err := s.CreateDonation(ctx, d); err != nil {
		t.Fatalf("CreateDonation() error = %v", err)
	}
	if d.ID == 0 || d.CreatedAt.IsZero() {
		t.Errorf("generated fields not set: %+v", d)
	}
	got, err := s.ListDonations(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].TotalAmount != 120 || got[0].TicketsDonated != 3 {
		t.Errorf("ListDonations() = %+v", got)
	}
}

func TestStatsOnEmptyStore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	bs, err := s.BookingStats(ctx)
	if err != nil || bs != (model.BookingStats{}) {
		t.Errorf("BookingStats() = %+v, %v", bs, err)
	}
	ds, err := s.DonationStats(ctx)
	if err != nil || ds != (model.DonationStats{}) {
		t.Errorf("DonationStats() = %+v, %v", ds, err)
	}
	ls, err := s.LocationStats(ctx)
	if err != nil || ls == nil || len(ls) != 0 {
		t.Errorf("LocationStats() = %v, %v", ls, err)
	}
}

func TestStatsCountOnlyCompleted(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, b := range []*model.Booking{
		booking("a", "Flint, MI", 2, model.StatusCompleted, now),
		booking("b", "Atlanta, GA", 1, model.StatusCompleted, now),
		booking("c", "Atlanta, GA", 3, model.StatusCompleted, now),
		booking("d", "Detroit, MI", 5, model.StatusPending, now),
	} {
		if err := s.CreateBooking(ctx, b); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.CreateDonation(ctx, &model.Donation{
		DonorName: "x", DonorEmail: "x@example.com", TicketsDonated: 4,
		TotalAmount: 160, PaymentStatus: model.StatusPending,
	}); err != nil {
		t.Fatal(err)
	}

	bs, err := s.BookingStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := model.BookingStats{Count: 3, TotalRevenue: 240, TotalParticipants: 6}
	if bs != want {
		t.Errorf("BookingStats() = %+v, want %+v", bs, want)
	}

	ds, err := s.DonationStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if ds != (model.DonationStats{}) {
		t.Errorf("pending donation counted: %+v", ds)
	}

	ls, err := s.LocationStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	wantLS := []model.LocationStats{
		{Location: "Atlanta, GA", Bookings: 2, TotalParticipants: 4, Revenue: 160},
		{Location: "Flint, MI", Bookings: 1, TotalParticipants: 2, Revenue: 80},
	}
	if len(ls) != len(wantLS) {
		t.Fatalf("LocationStats() = %+v, want %+v", ls, wantLS)
	}
	var sum float64
	for i := range ls {
		if ls[i] != wantLS[i] {
			t.Errorf("LocationStats()[%d] = %+v, want %+v", i, ls[i], wantLS[i])
		}
		sum += ls[i].Revenue
	}
	if sum != bs.TotalRevenue {
		t.Errorf("location revenue %v != total revenue %v", sum, bs.TotalRevenue)
	}
}

func TestClosedStoreReturnsPersistenceError(t *testing.T) {
	s := newTestStore(t)
	_ = s.Close()

	err := s.CreateBooking(context.Background(), booking("a", "Flint, MI", 1, model.StatusCompleted, time.Now()))
	var pe *PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *PersistenceError", err)
	}
	if pe.Op != "create booking" {
		t.Errorf("Op = %q", pe.Op)
	}
	if err := s.Ping(context.Background()); !errors.As(err, &pe) {
		t.Errorf("Ping() error = %v, want *PersistenceError", err)
	}
}

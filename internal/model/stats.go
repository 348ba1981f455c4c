package model

// BookingStats aggregates completed bookings.
type BookingStats struct {
	Count             int64   `json:"total_bookings"`
	TotalRevenue      float64 `json:"total_revenue"`
	TotalParticipants int64   `json:"total_participants"`
}

// DonationStats aggregates completed donations.
type DonationStats struct {
	Count               int64   `json:"total_donations"`
	TotalDonated        float64 `json:"total_donated"`
	TotalTicketsDonated int64   `json:"total_tickets_donated"`
}

// LocationStats is the per-location breakdown of completed bookings.
type LocationStats struct {
	Location          string  `json:"location"`
	Bookings          int64   `json:"bookings"`
	TotalParticipants int64   `json:"total_participants"`
	Revenue           float64 `json:"revenue"`
}

// DashboardStats is the combined object served to the staff dashboard.
type DashboardStats struct {
	TotalBookings  int64           `json:"total_bookings"`
	TotalDonations int64           `json:"total_donations"`
	TotalRevenue   float64         `json:"total_revenue"`
	TotalDonated   float64         `json:"total_donated"`
	LocationStats  []LocationStats `json:"location_stats"`
}

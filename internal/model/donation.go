package model

import "time"

// Ticket limits for a single donation.
const (
	MinTicketsDonated = 1
	MaxTicketsDonated = 200
)

// Donation records tickets bought by a donor on behalf of students.  Like
// Booking it is append-only.
type Donation struct {
	ID              int64     `json:"id"`
	DonorName       string    `json:"donor_name"`
	DonorEmail      string    `json:"donor_email"`
	TicketsDonated  int       `json:"tickets_donated"`
	TotalAmount     float64   `json:"total_amount"`
	PaymentStatus   string    `json:"payment_status"`
	PaymentIntentID string    `json:"stripe_payment_intent"`
	CreatedAt       time.Time `json:"created_at"`
}

// DonationTotal returns the amount due for the given number of tickets.
func DonationTotal(tickets int) float64 {
	return float64(tickets * UnitPrice)
}

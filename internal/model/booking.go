package model

import (
	"math"
	"time"
)

// UnitPrice is the price in dollars of one tour seat. Bookings pay it per
// participant and donations per ticket.
const UnitPrice = 40

// Payment status values stored in the payment_status column. Only
// StatusCompleted is ever written; StatusPending exists in the schema.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Participant limits for a single booking.
const (
	MinParticipants = 1
	MaxParticipants = 5
)

// Locations lists the physical hubs a tour can be booked at.
var Locations = []string{
	"Atlanta, GA",
	"Flint, MI",
	"Detroit, MI",
}

// TimeSlots lists the hour-long windows offered on every tour date.
var TimeSlots = []string{
	"9:00 AM - 10:00 AM",
	"10:00 AM - 11:00 AM",
	"11:00 AM - 12:00 PM",
	"12:00 PM - 1:00 PM",
	"1:00 PM - 2:00 PM",
}

// DateLayout is the ISO calendar date format used for tour dates.
const DateLayout = "2006-01-02"

// Booking records a paid tour reservation.  Rows are append-only: a
// booking is created once the gateway reported a successful charge and is
// never updated or deleted.
//
// Fields:
//
//	ID              – bookings.id, assigned by the store.
//	Date            – tour date as YYYY-MM-DD (a Saturday or Sunday).
//	TotalAmount     – dollars, participants × UnitPrice.
//	PaymentIntentID – bookings.stripe_payment_intent, the gateway reference.
type Booking struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Location        string    `json:"location"`
	Date            string    `json:"date"`
	TimeSlot        string    `json:"time_slot"`
	Participants    int       `json:"participants"`
	TotalAmount     float64   `json:"total_amount"`
	PaymentStatus   string    `json:"payment_status"`
	PaymentIntentID string    `json:"stripe_payment_intent"`
	CreatedAt       time.Time `json:"created_at"`
}

// BookingTotal returns the amount due for the given number of participants.
func BookingTotal(participants int) float64 {
	return float64(participants * UnitPrice)
}

// IsLocation reports whether name is one of the bookable Locations.
func IsLocation(name string) bool {
	for _, l := range Locations {
		if l == name {
			return true
		}
	}
	return false
}

// IsTimeSlot reports whether slot is one of the offered TimeSlots.
func IsTimeSlot(slot string) bool {
	for _, s := range TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// ToCents converts a dollar amount into integer cents, rounding to the
// nearest cent.
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/college360hub/hub-booking/internal/model"
)

// BookingRequest is the body of a booking confirmation.  Fields are
// declared in wire order; validation reports the first failing one.
type BookingRequest struct {
	Name            string  `json:"name" validate:"present"`
	Email           string  `json:"email" validate:"present"`
	Phone           string  `json:"phone" validate:"present"`
	Location        string  `json:"location" validate:"present,location"`
	Date            string  `json:"date" validate:"present,datetime=2006-01-02,weekend"`
	TimeSlot        string  `json:"time_slot" validate:"present,timeslot"`
	Participants    int     `json:"participants" validate:"present,min=1,max=5"`
	TotalAmount     float64 `json:"total_amount" validate:"present"`
	PaymentIntentID string  `json:"payment_intent_id" validate:"present"`
}

// DonationRequest is the body of a donation confirmation.
type DonationRequest struct {
	DonorName       string  `json:"donor_name" validate:"present"`
	DonorEmail      string  `json:"donor_email" validate:"present"`
	TicketsDonated  int     `json:"tickets_donated" validate:"present,min=1,max=200"`
	TotalAmount     float64 `json:"total_amount" validate:"present"`
	PaymentIntentID string  `json:"payment_intent_id" validate:"present"`
}

// coercer converts loosely typed JSON values into request fields.  Absent,
// null and empty values become zero values, which the "present" rule then
// reports as missing.  A value of the wrong type stops the walk.
type coercer struct {
	raw map[string]any
	err error
}

func (c *coercer) str(name string) string {
	if c.err != nil {
		return ""
	}
	switch t := c.raw[name].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		c.err = invalid(name, "must be a string")
		return ""
	}
}

func (c *coercer) num(name string) float64 {
	if c.err != nil {
		return 0
	}
	var (
		n   float64
		err error
	)
	switch t := c.raw[name].(type) {
	case nil:
		return 0
	case float64:
		n = t
	case int:
		n = float64(t)
	case int64:
		n = float64(t)
	case json.Number:
		n, err = t.Float64()
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0
		}
		n, err = strconv.ParseFloat(s, 64)
	default:
		err = fmt.Errorf("unsupported type %T", t)
	}
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		c.err = invalid(name, "must be a number")
		return 0
	}
	return n
}

func (c *coercer) integer(name string) int {
	n := c.num(name)
	if c.err != nil {
		return 0
	}
	if n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
		c.err = invalid(name, "must be a whole number")
		return 0
	}
	return int(n)
}

// ParseBookingRequest extracts a BookingRequest from a decoded JSON object.
// Numbers may arrive as JSON numbers or numeric strings.  Absent, empty and
// zero values count as missing.
func ParseBookingRequest(raw map[string]any) (BookingRequest, error) {
	c := &coercer{raw: raw}
	req := BookingRequest{
		Name:            c.str("name"),
		Email:           c.str("email"),
		Phone:           c.str("phone"),
		Location:        c.str("location"),
		Date:            c.str("date"),
		TimeSlot:        c.str("time_slot"),
		Participants:    c.integer("participants"),
		TotalAmount:     c.num("total_amount"),
		PaymentIntentID: c.str("payment_intent_id"),
	}
	if c.err != nil {
		return BookingRequest{}, c.err
	}
	if err := checkPresent(req); err != nil {
		return BookingRequest{}, err
	}
	return req, nil
}

// ParseDonationRequest is ParseBookingRequest for donations.
func ParseDonationRequest(raw map[string]any) (DonationRequest, error) {
	c := &coercer{raw: raw}
	req := DonationRequest{
		DonorName:       c.str("donor_name"),
		DonorEmail:      c.str("donor_email"),
		TicketsDonated:  c.integer("tickets_donated"),
		TotalAmount:     c.num("total_amount"),
		PaymentIntentID: c.str("payment_intent_id"),
	}
	if c.err != nil {
		return DonationRequest{}, c.err
	}
	if err := checkPresent(req); err != nil {
		return DonationRequest{}, err
	}
	return req, nil
}

// Validate applies the presence and domain rules to a typed request.
func (r BookingRequest) Validate() error {
	if err := check(r); err != nil {
		return err
	}
	if want := model.BookingTotal(r.Participants); model.ToCents(r.TotalAmount) != model.ToCents(want) {
		return invalid("total_amount", fmt.Sprintf("must equal %d x %d = %v", r.Participants, model.UnitPrice, want))
	}
	return nil
}

// Validate applies the presence and domain rules to a typed request.
func (r DonationRequest) Validate() error {
	if err := check(r); err != nil {
		return err
	}
	if want := model.DonationTotal(r.TicketsDonated); model.ToCents(r.TotalAmount) != model.ToCents(want) {
		return invalid("total_amount", fmt.Sprintf("must equal %d x %d = %v", r.TicketsDonated, model.UnitPrice, want))
	}
	return nil
}

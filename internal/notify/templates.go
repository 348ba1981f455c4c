package notify

import (
	"bytes"
	"embed"
	"html/template"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/college360hub/hub-booking/internal/model"
)

const (
	BookingSubject  = "Booking Confirmation - 360 Hub Experience"
	DonationSubject = "Thank You for Your Generous Donation - 360 Hub Experience"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"money":  Money,
	"plural": plural,
}).ParseFS(templateFS, "templates/*.html"))

type bookingView struct {
	Booking   model.Booking
	SiteURL   string
	HasTicket bool
}

type donationView struct {
	Donation  model.Donation
	SiteURL   string
	HasTicket bool
}

// BookingConfirmation renders the subject and HTML body for a recorded
// booking.
func BookingConfirmation(b model.Booking, siteURL string, hasTicket bool) (string, string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "booking_confirmation.html", bookingView{b, siteURL, hasTicket}); err != nil {
		return "", "", err
	}
	return BookingSubject, buf.String(), nil
}

// DonationConfirmation renders the subject and HTML body for a recorded
// donation.
func DonationConfirmation(d model.Donation, siteURL string, hasReceipt bool) (string, string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "donation_confirmation.html", donationView{d, siteURL, hasReceipt}); err != nil {
		return "", "", err
	}
	return DonationSubject, buf.String(), nil
}

var printer = message.NewPrinter(language.English)

// Money formats a dollar amount with thousands separators and no trailing
// zero cents: 1200 -> "1,200", 40.5 -> "40.5".
func Money(amount float64) string {
	cents := model.ToCents(amount)
	switch {
	case cents%100 == 0:
		return printer.Sprintf("%.0f", amount)
	case cents%10 == 0:
		return printer.Sprintf("%.1f", amount)
	}
	return printer.Sprintf("%.2f", amount)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

package notify

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/college360hub/hub-booking/internal/model"
)

// BookingReference is the code printed on a ticket and encoded in its QR.
func BookingReference(b model.Booking) string {
	return fmt.Sprintf("360HUB-B-%06d", b.ID)
}

// DonationReference is the receipt number for a donation.
func DonationReference(d model.Donation) string {
	return fmt.Sprintf("360HUB-D-%06d", d.ID)
}

// RenderTicket produces a one-page PDF e-ticket for a booking.
func RenderTicket(b model.Booking) ([]byte, error) {
	ref := BookingReference(b)
	pdf := newDocument("360 HUB EXPERIENCE E-TICKET")

	rows := []string{
		fmt.Sprintf("Reference: %s", ref),
		fmt.Sprintf("Name: %s", b.Name),
		fmt.Sprintf("Location: %s", b.Location),
		fmt.Sprintf("Date: %s", b.Date),
		fmt.Sprintf("Time: %s", b.TimeSlot),
		fmt.Sprintf("Participants: %d", b.Participants),
		fmt.Sprintf("Total Paid: $%s", Money(b.TotalAmount)),
	}
	if err := summaryBox(pdf, "BOOKING SUMMARY", rows, ref); err != nil {
		return nil, err
	}

	pdf.SetFont("Helvetica", "I", 10)
	pdf.Cell(0, 6, "Scan this QR code at check-in. Please arrive 15 minutes early.")
	pdf.Ln(10)
	return finish(pdf)
}

// RenderReceipt produces a one-page PDF donation receipt.
func RenderReceipt(d model.Donation) ([]byte, error) {
	ref := DonationReference(d)
	pdf := newDocument("360 HUB EXPERIENCE DONATION RECEIPT")

	rows := []string{
		fmt.Sprintf("Receipt: %s", ref),
		fmt.Sprintf("Donor: %s", d.DonorName),
		fmt.Sprintf("Tickets Donated: %d", d.TicketsDonated),
		fmt.Sprintf("Amount: $%s", Money(d.TotalAmount)),
		fmt.Sprintf("Date: %s", d.CreatedAt.UTC().Format(model.DateLayout)),
	}
	if err := summaryBox(pdf, "DONATION SUMMARY", rows, ref); err != nil {
		return nil, err
	}

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, fmt.Sprintf("Your gift gives %d %s access to a college tour. Thank you!",
		d.TicketsDonated, plural(d.TicketsDonated, "student")), "", "", false)
	return finish(pdf)
}

func newDocument(title string) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(0, 15, title)
	pdf.Ln(18)
	pdf.SetDrawColor(220, 220, 220)
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(8)
	return pdf
}

// summaryBox draws the shaded detail panel with a QR code of ref beside it.
func summaryBox(pdf *gofpdf.Fpdf, heading string, rows []string, ref string) error {
	qr, err := qrcode.Encode(ref, qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("encode qr: %w", err)
	}

	top := pdf.GetY()
	height := 20 + float64(len(rows))*6
	pdf.SetFillColor(245, 245, 245)
	pdf.Rect(15, top, 120, height, "F")

	pdf.SetXY(20, top+5)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, heading)
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 12)
	for _, r := range rows {
		pdf.SetX(20)
		pdf.Cell(0, 6, pdf.UnicodeTranslatorFromDescriptor("")(r))
		pdf.Ln(6)
	}

	pdf.RegisterImageOptionsReader("qr", gofpdf.ImageOptions{ImageType: "png"}, bytes.NewReader(qr))
	pdf.ImageOptions("qr", 145, top, 45, 0, false, gofpdf.ImageOptions{ImageType: "png"}, 0, "")
	pdf.SetY(top + height + 8)
	return nil
}

func finish(pdf *gofpdf.Fpdf) ([]byte, error) {
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(15, 285, 195, 285)
	pdf.SetY(288)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.CellFormat(0, 8, fmt.Sprintf("360 Hub Experience %d. Making college tours accessible to all students.", time.Now().UTC().Year()), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

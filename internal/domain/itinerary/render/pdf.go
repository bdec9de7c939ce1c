package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/FACorreiaa/loci-trip-planner/internal/types"
)

const qrSizeMM = 32

// WritePDF writes a printable A4 version of it to w. Every day with located stops
// carries a QR code of its route link.
func WritePDF(w io.Writer, it *types.Itinerary) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	p := it.Preferences

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Travel Itinerary - %d days", p.Days))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("%d travelers, %s budget, %s pace", p.Pax, p.BudgetCategory, p.Pace))
	pdf.Ln(7)
	if p.PointOfOrigin != "" {
		pdf.Cell(0, 7, tr(fmt.Sprintf("From %s (%.1f h travel)", p.PointOfOrigin, p.TravelTimeHours)))
		pdf.Ln(7)
	}
	pdf.Ln(4)

	for _, day := range it.Days {
		pdf.SetFont("Arial", "B", 13)
		pdf.CellFormat(0, 9, fmt.Sprintf("Day %d - %s", day.DayNumber, day.Date), "B", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)

		switch {
		case day.IsRestDay:
			pdf.Cell(0, 6, "Rest day")
			pdf.Ln(6)
		case day.IsTravelDay:
			pdf.Cell(0, 6, fmt.Sprintf("Travel day, %d min on the road", day.TotalTravelTimeMinutes))
			pdf.Ln(6)
		}

		for i, a := range day.Activities {
			pdf.SetFont("Arial", "B", 10)
			pdf.Cell(0, 6, tr(fmt.Sprintf("%d. %s - %s  %s", i+1, a.StartTime, a.EndTime, a.DestinationName)))
			pdf.Ln(6)
			pdf.SetFont("Arial", "", 9)
			var details []string
			if a.Category != "" {
				details = append(details, a.Category)
			}
			if a.TravelTimeFromPrevious > 0 {
				details = append(details, fmt.Sprintf("%d min travel (%.2f km)", a.TravelTimeFromPrevious, a.DistanceFromPreviousKm))
			}
			if a.EntranceFee > 0 {
				details = append(details, fmt.Sprintf("fee %s %.2f", types.Currency, a.EntranceFee))
			}
			if a.Address != "" {
				details = append(details, a.Address)
			}
			if len(details) > 0 {
				pdf.MultiCell(0, 5, tr("    "+strings.Join(details, " | ")), "", "L", false)
			}
		}

		if acc := day.Accommodation; acc != nil {
			pdf.SetFont("Arial", "I", 10)
			pdf.Cell(0, 6, tr("Stay: "+acc.Name))
			pdf.Ln(6)
		}

		if link := DayRouteURL(day); link != "" {
			png, err := qrcode.Encode(link, qrcode.Medium, 256)
			if err != nil {
				return fmt.Errorf("failed to encode route for day %d: %w", day.DayNumber, err)
			}
			name := fmt.Sprintf("route-day-%d", day.DayNumber)
			opts := gofpdf.ImageOptions{ImageType: "PNG"}
			pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
			pdf.ImageOptions(name, -1, 0, qrSizeMM, qrSizeMM, true, opts, 0, link)
		}
		pdf.Ln(4)
	}

	s := it.Summary
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 9, "Trip summary", "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	lines := []string{
		fmt.Sprintf("Destinations: %d", s.TotalDestinations),
		fmt.Sprintf("Travel time: %d min (%.1f h)", s.TotalTravelTimeMinutes, s.TotalTravelTimeHours),
		fmt.Sprintf("Distance: %.2f km", s.TotalDistanceKm),
		fmt.Sprintf("Entrance fees: %s %.2f", s.Currency, s.TotalEntranceFees),
		fmt.Sprintf("Transport hubs available: %d", s.AvailableTransportHubs),
	}
	for _, line := range lines {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write itinerary pdf: %w", err)
	}
	return nil
}

package analytics

import (
	"github.com/de-tools/booking-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
)

// Summarize computes the KPI summary of an already filtered booking set.
func Summarize(records []domain.Booking) domain.KPISummary {
	var (
		kpi     domain.KPISummary
		revenue = decimal.Zero
		tax     = decimal.Zero
		area    float64
	)

	for _, b := range records {
		kpi.TotalBookings++
		switch b.Status {
		case domain.BookingStatusActive:
			kpi.ActiveBookings++
		case domain.BookingStatusComplete:
			kpi.CompletedBookings++
		case domain.BookingStatusCancelled:
			kpi.CancelledBookings++
		}
		if b.Status.Earning() {
			revenue = revenue.Add(b.Amount)
			tax = tax.Add(b.TaxGST)
		}
		area += b.Area
	}

	kpi.TotalRevenue = revenue.InexactFloat64()
	kpi.TotalTax = tax.InexactFloat64()
	kpi.TotalRevenueWithTax = revenue.Add(tax).InexactFloat64()
	kpi.AvgBookingValue = average(revenue, kpi.TotalBookings)
	kpi.CompletionRate = percentage(kpi.CompletedBookings, kpi.TotalBookings)
	kpi.CancellationRate = percentage(kpi.CancelledBookings, kpi.TotalBookings)
	kpi.TotalArea = area
	kpi.AvgArea = ratio(area, kpi.TotalBookings)
	return kpi
}

// average divides a money sum by a count; an empty set averages to 0.
func average(sum decimal.Decimal, count int) float64 {
	if count == 0 {
		return 0
	}
	return sum.Div(decimal.NewFromInt(int64(count))).InexactFloat64()
}

func ratio(sum float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

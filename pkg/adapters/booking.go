package adapters

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/booking-atlas/pkg/models/api"
	"github.com/de-tools/booking-atlas/pkg/models/domain"
	"github.com/de-tools/booking-atlas/pkg/models/store"
)

func MapStoreBookingToDomain(b store.Booking) domain.Booking {
	var timeline time.Time
	if b.Timeline.Valid {
		timeline = b.Timeline.Time
	}
	return domain.Booking{
		ID:             b.ID,
		CustomerName:   b.CustomerName,
		ContactNumber:  b.ContactNumber,
		ProjectName:    b.ProjectName,
		PropertyType:   b.PropertyType,
		Area:           b.Area,
		AgreementCost:  b.AgreementCost,
		Amount:         b.Amount,
		TaxGST:         b.TaxGST,
		RefundBuyer:    b.RefundBuyer,
		RefundReferral: b.RefundReferral,
		TrustFund:      b.TrustFund,
		TrustFunded:    b.TrustFunded,
		InvoiceStatus:  b.InvoiceStatus,
		Timeline:       timeline,
		LoanRequired:   domain.LoanRequirement(b.LoanRequired),
		Status:         domain.BookingStatus(b.Status),
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
		CreatedBy:      b.CreatedBy,
	}
}

func MapStoreBookingsToDomain(records []store.Booking) []domain.Booking {
	out := make([]domain.Booking, 0, len(records))
	for _, r := range records {
		out = append(out, MapStoreBookingToDomain(r))
	}
	return out
}

func MapDomainBookingToStore(b domain.Booking) store.Booking {
	return store.Booking{
		ID:             b.ID,
		CustomerName:   b.CustomerName,
		ContactNumber:  b.ContactNumber,
		ProjectName:    b.ProjectName,
		PropertyType:   b.PropertyType,
		Area:           b.Area,
		AgreementCost:  b.AgreementCost,
		Amount:         b.Amount,
		TaxGST:         b.TaxGST,
		RefundBuyer:    b.RefundBuyer,
		RefundReferral: b.RefundReferral,
		TrustFund:      b.TrustFund,
		TrustFunded:    b.TrustFunded,
		InvoiceStatus:  b.InvoiceStatus,
		Timeline:       sql.NullTime{Time: b.Timeline, Valid: !b.Timeline.IsZero()},
		LoanRequired:   string(b.LoanRequired),
		Status:         string(b.Status),
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
		CreatedBy:      b.CreatedBy,
	}
}

func MapBookingDomainToApi(b domain.Booking) api.Booking {
	out := api.Booking{
		ID:             b.ID,
		CustomerName:   b.CustomerName,
		ContactNumber:  b.ContactNumber,
		ProjectName:    b.ProjectName,
		PropertyType:   b.PropertyType,
		Area:           b.Area,
		AgreementCost:  b.AgreementCost.InexactFloat64(),
		Amount:         b.Amount.InexactFloat64(),
		TaxGST:         b.TaxGST.InexactFloat64(),
		RefundBuyer:    b.RefundBuyer.InexactFloat64(),
		RefundReferral: b.RefundReferral.InexactFloat64(),
		TrustFund:      b.TrustFund.InexactFloat64(),
		TrustFunded:    b.TrustFunded.InexactFloat64(),
		InvoiceStatus:  b.InvoiceStatus,
		LoanRequired:   string(b.LoanRequired),
		Status:         string(b.Status),
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
		CreatedBy:      b.CreatedBy,
		TotalAmount:    b.TotalAmount().InexactFloat64(),
		NetRefund:      b.NetRefund().InexactFloat64(),
	}
	if !b.Timeline.IsZero() {
		t := b.Timeline
		out.Timeline = &t
	}
	return out
}

func MapBookingsDomainToApi(bookings []domain.Booking) []api.Booking {
	out := make([]api.Booking, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, MapBookingDomainToApi(b))
	}
	return out
}

func MapStoreStatsToDomain(s store.BookingStats) domain.BookingStats {
	return domain.BookingStats{
		TotalBookings:     s.Total,
		ActiveBookings:    s.Active,
		CompletedBookings: s.Completed,
		CancelledBookings: s.Cancelled,
		TotalRevenue:      s.TotalRevenue,
	}
}

func MapBookingStatsDomainToApi(s domain.BookingStats) api.BookingStats {
	out := api.BookingStats{
		TotalBookings:     s.TotalBookings,
		ActiveBookings:    s.ActiveBookings,
		CompletedBookings: s.CompletedBookings,
		CancelledBookings: s.CancelledBookings,
		TotalRevenue:      s.TotalRevenue.InexactFloat64(),
	}
	if s.TotalBookings > 0 {
		out.CompletionRate = float64(s.CompletedBookings) / float64(s.TotalBookings) * 100
	}
	return out
}

// ParseTimeline accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func ParseTimeline(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("timeline %q is not an ISO-8601 date", value)
	}
	return t.UTC(), nil
}

func MapBookingInputApiToDomain(in api.BookingInput) (domain.BookingChanges, error) {
	changes := domain.BookingChanges{
		CustomerName:   in.CustomerName,
		ContactNumber:  in.ContactNumber,
		ProjectName:    in.ProjectName,
		PropertyType:   in.PropertyType,
		Area:           in.Area,
		AgreementCost:  in.AgreementCost,
		Amount:         in.Amount,
		TaxGST:         in.TaxGST,
		RefundBuyer:    in.RefundBuyer,
		RefundReferral: in.RefundReferral,
		TrustFund:      in.TrustFund,
		TrustFunded:    in.TrustFunded,
		InvoiceStatus:  in.InvoiceStatus,
		LoanRequired:   in.LoanRequired,
		Status:         in.Status,
	}
	if in.Timeline != nil {
		t, err := ParseTimeline(*in.Timeline)
		if err != nil {
			return domain.BookingChanges{}, err
		}
		changes.Timeline = &t
	}
	return changes, nil
}

// ParseDateBound reads a start_date or end_date parameter. A plain date used
// as an end bound covers the whole day.
func ParseDateBound(value string, end bool) (time.Time, error) {
	value = strings.TrimSpace(value)
	t, err := ParseTimeline(value)
	if err != nil {
		return time.Time{}, err
	}
	if end && len(value) == len(time.DateOnly) {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

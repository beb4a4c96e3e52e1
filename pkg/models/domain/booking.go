package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusActive    BookingStatus = "active"
	BookingStatusComplete  BookingStatus = "complete"
	BookingStatusCancelled BookingStatus = "cancelled"
)

var BookingStatuses = []BookingStatus{
	BookingStatusActive,
	BookingStatusComplete,
	BookingStatusCancelled,
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusActive, BookingStatusComplete, BookingStatusCancelled:
		return true
	}
	return false
}

// Earning reports whether bookings in this status contribute to revenue.
func (s BookingStatus) Earning() bool {
	return s == BookingStatusActive || s == BookingStatusComplete
}

type LoanRequirement string

const (
	LoanRequired    LoanRequirement = "yes"
	LoanNotRequired LoanRequirement = "no"
)

const DefaultInvoiceStatus = "pending"

// Booking is a single real-estate transaction.
type Booking struct {
	ID            int64
	CustomerName  string
	ContactNumber string
	ProjectName   string
	PropertyType  string  // 2BHK, 3BHK, ...
	Area          float64 // sq ft

	AgreementCost  decimal.Decimal
	Amount         decimal.Decimal
	TaxGST         decimal.Decimal
	RefundBuyer    decimal.Decimal
	RefundReferral decimal.Decimal
	TrustFund      decimal.Decimal
	TrustFunded    decimal.Decimal

	InvoiceStatus string
	Timeline      time.Time
	LoanRequired  LoanRequirement
	Status        BookingStatus

	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy string
}

func (b Booking) TotalAmount() decimal.Decimal {
	return b.Amount.Add(b.TaxGST)
}

func (b Booking) NetRefund() decimal.Decimal {
	return b.RefundBuyer.Add(b.RefundReferral)
}

func (b Booking) Cancelled() bool {
	return b.Status == BookingStatusCancelled
}

// DateRange is an inclusive window over booking creation time. A nil bound is open.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

func (r DateRange) Unbounded() bool {
	return r.Start == nil && r.End == nil
}

func (r DateRange) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

type BookingStats struct {
	TotalBookings     int
	ActiveBookings    int
	CompletedBookings int
	CancelledBookings int
	TotalRevenue      decimal.Decimal
}

// BookingChanges carries the fields of a create or update request. Nil means not supplied.
type BookingChanges struct {
	CustomerName   *string
	ContactNumber  *string
	ProjectName    *string
	PropertyType   *string
	Area           *float64
	AgreementCost  *decimal.Decimal
	Amount         *decimal.Decimal
	TaxGST         *decimal.Decimal
	RefundBuyer    *decimal.Decimal
	RefundReferral *decimal.Decimal
	TrustFund      *decimal.Decimal
	TrustFunded    *decimal.Decimal
	InvoiceStatus  *string
	Timeline       *time.Time
	LoanRequired   *string
	Status         *string
}

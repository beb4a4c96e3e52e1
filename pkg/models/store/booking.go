package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Booking mirrors a row of the bookings table.
type Booking struct {
	ID             int64
	CustomerName   string
	ContactNumber  string
	ProjectName    string
	PropertyType   string
	Area           float64
	AgreementCost  decimal.Decimal
	Amount         decimal.Decimal
	TaxGST         decimal.Decimal
	RefundBuyer    decimal.Decimal
	RefundReferral decimal.Decimal
	TrustFund      decimal.Decimal
	TrustFunded    decimal.Decimal
	InvoiceStatus  string
	Timeline       sql.NullTime
	LoanRequired   string
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	CreatedBy      string
}

// BookingFilter is pushed down into SQL. Text fields match case-insensitive substrings.
type BookingFilter struct {
	Search       string
	Statuses     []string
	ProjectName  string
	CustomerName string
	PropertyType string
	MinAmount    *decimal.Decimal
	MaxAmount    *decimal.Decimal
	MinArea      *float64
	MaxArea      *float64
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// BookingSortColumns whitelists the columns a listing may be ordered by.
var BookingSortColumns = map[string]struct{}{
	"created_at":    {},
	"updated_at":    {},
	"customer_name": {},
	"project_name":  {},
	"amount":        {},
	"timeline":      {},
	"status":        {},
}

type BookingQuery struct {
	Filter    BookingFilter
	SortBy    string
	SortOrder SortOrder
	Limit     int
	Offset    int
}

type BookingPage struct {
	Items []Booking
	Total int
}

type BookingStats struct {
	Total        int
	Active       int
	Completed    int
	Cancelled    int
	TotalRevenue decimal.Decimal
}

// ErrNotFound is returned by stores when the requested row does not exist.
var ErrNotFound = errors.New("record not found")

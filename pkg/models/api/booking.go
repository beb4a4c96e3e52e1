package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type Booking struct {
	ID             int64      `json:"id"`
	CustomerName   string     `json:"customer_name"`
	ContactNumber  string     `json:"contact_number"`
	ProjectName    string     `json:"project_name"`
	PropertyType   string     `json:"type"`
	Area           float64    `json:"area"`
	AgreementCost  float64    `json:"agreement_cost"`
	Amount         float64    `json:"amount"`
	TaxGST         float64    `json:"tax_gst"`
	RefundBuyer    float64    `json:"refund_buyer"`
	RefundReferral float64    `json:"refund_referral"`
	TrustFund      float64    `json:"trust_fund"`
	TrustFunded    float64    `json:"trust_funded"`
	InvoiceStatus  string     `json:"invoice_status"`
	Timeline       *time.Time `json:"timeline"`
	LoanRequired   string     `json:"loan_req"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	CreatedBy      string     `json:"created_by"`
	TotalAmount    float64    `json:"total_amount"`
	NetRefund      float64    `json:"net_refund"`
}

// BookingInput is the body of create and update requests. Absent fields are nil.
type BookingInput struct {
	CustomerName   *string          `json:"customer_name"`
	ContactNumber  *string          `json:"contact_number"`
	ProjectName    *string          `json:"project_name"`
	PropertyType   *string          `json:"type"`
	Area           *float64         `json:"area"`
	AgreementCost  *decimal.Decimal `json:"agreement_cost"`
	Amount         *decimal.Decimal `json:"amount"`
	TaxGST         *decimal.Decimal `json:"tax_gst"`
	RefundBuyer    *decimal.Decimal `json:"refund_buyer"`
	RefundReferral *decimal.Decimal `json:"refund_referral"`
	TrustFund      *decimal.Decimal `json:"trust_fund"`
	TrustFunded    *decimal.Decimal `json:"trust_funded"`
	InvoiceStatus  *string          `json:"invoice_status"`
	Timeline       *string          `json:"timeline"`
	LoanRequired   *string          `json:"loan_req"`
	Status         *string          `json:"status"`
}

type Pagination struct {
	Page    int  `json:"page"`
	PerPage int  `json:"per_page"`
	Total   int  `json:"total"`
	Pages   int  `json:"pages"`
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
}

type BookingList struct {
	Bookings       []Booking         `json:"bookings"`
	Pagination     Pagination        `json:"pagination"`
	FiltersApplied map[string]string `json:"filters_applied"`
}

type BookingResponse struct {
	Message string  `json:"message,omitempty"`
	Booking Booking `json:"booking"`
}

type DeletedBookingResponse struct {
	Message        string  `json:"message"`
	DeletedBooking Booking `json:"deleted_booking"`
}

type BookingSearchResult struct {
	Query   string    `json:"query"`
	Results []Booking `json:"results"`
	Count   int       `json:"count"`
}

type BookingStats struct {
	TotalBookings     int     `json:"total_bookings"`
	ActiveBookings    int     `json:"active_bookings"`
	CompletedBookings int     `json:"completed_bookings"`
	CancelledBookings int     `json:"cancelled_bookings"`
	TotalRevenue      float64 `json:"total_revenue"`
	CompletionRate    float64 `json:"completion_rate"`
}

package booking

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/de-tools/booking-atlas/pkg/models/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// fields is the validated shape of a booking once defaults and changes are applied.
type fields struct {
	CustomerName   string          `json:"customer_name" validate:"notblank"`
	ContactNumber  string          `json:"contact_number" validate:"notblank,min=10"`
	ProjectName    string          `json:"project_name" validate:"notblank"`
	PropertyType   string          `json:"type" validate:"notblank"`
	Area           float64         `json:"area" validate:"gt=0"`
	AgreementCost  decimal.Decimal `json:"agreement_cost" validate:"gte=0"`
	Amount         decimal.Decimal `json:"amount" validate:"gte=0"`
	TaxGST         decimal.Decimal `json:"tax_gst" validate:"gte=0"`
	RefundBuyer    decimal.Decimal `json:"refund_buyer" validate:"gte=0"`
	RefundReferral decimal.Decimal `json:"refund_referral" validate:"gte=0"`
	TrustFund      decimal.Decimal `json:"trust_fund" validate:"gte=0"`
	TrustFunded    decimal.Decimal `json:"trust_funded" validate:"gte=0"`
	InvoiceStatus  string          `json:"invoice_status" validate:"notblank"`
	LoanRequired   string          `json:"loan_req" validate:"oneof=yes no"`
	Status         string          `json:"status" validate:"oneof=active complete cancelled"`
}

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		// Money is compared as a float; only the sign matters here.
		validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
			if d, ok := v.Interface().(decimal.Decimal); ok {
				return d.InexactFloat64()
			}
			return nil
		}, decimal.Decimal{})
		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
	return validate
}

var messages = map[string]string{
	"notblank": "%s cannot be empty",
	"gt":       "%s must be greater than %s",
	"gte":      "%s cannot be negative",
	"min":      "%s must be at least %s characters",
	"oneof":    "%s must be one of: %s",
}

func validateBooking(b domain.Booking) []string {
	err := getValidator().Struct(fields{
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
		LoanRequired:   string(b.LoanRequired),
		Status:         string(b.Status),
	})
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}
	details := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, translate(fe))
	}
	return details
}

func translate(fe validator.FieldError) string {
	tmpl, ok := messages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
	if strings.Count(tmpl, "%s") == 2 {
		param := fe.Param()
		if fe.Tag() == "oneof" {
			param = strings.Join(strings.Fields(param), ", ")
		}
		return fmt.Sprintf(tmpl, fe.Field(), param)
	}
	return fmt.Sprintf(tmpl, fe.Field())
}

// missingFields names the create-time fields absent from c.
func missingFields(c domain.BookingChanges) []string {
	var missing []string
	check := func(name string, present bool) {
		if !present {
			missing = append(missing, name)
		}
	}
	check("customer_name", c.CustomerName != nil)
	check("contact_number", c.ContactNumber != nil)
	check("project_name", c.ProjectName != nil)
	check("type", c.PropertyType != nil)
	check("area", c.Area != nil)
	check("agreement_cost", c.AgreementCost != nil)
	check("amount", c.Amount != nil)
	check("timeline", c.Timeline != nil)
	return missing
}

package analytics

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/de-tools/booking-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
)

// FilterKey names a recognised filter criterion.
type FilterKey string

const (
	FilterStatus       FilterKey = "status"
	FilterProjectName  FilterKey = "project_name"
	FilterCustomerName FilterKey = "customer_name"
	FilterPropertyType FilterKey = "property_type"
	FilterMinAmount    FilterKey = "min_amount"
	FilterMaxAmount    FilterKey = "max_amount"
	FilterMinArea      FilterKey = "min_area"
	FilterMaxArea      FilterKey = "max_area"
)

// FilterKeys lists every recognised key in evaluation order.
var FilterKeys = []FilterKey{
	FilterStatus,
	FilterProjectName,
	FilterCustomerName,
	FilterPropertyType,
	FilterMinAmount,
	FilterMaxAmount,
	FilterMinArea,
	FilterMaxArea,
}

// Criteria narrows a booking set. The zero value matches every booking.
type Criteria struct {
	Statuses     []domain.BookingStatus
	ProjectName  string
	CustomerName string
	PropertyType string
	MinAmount    *decimal.Decimal
	MaxAmount    *decimal.Decimal
	MinArea      *float64
	MaxArea      *float64
}

func (c Criteria) Empty() bool {
	return len(c.Statuses) == 0 &&
		c.ProjectName == "" && c.CustomerName == "" && c.PropertyType == "" &&
		c.MinAmount == nil && c.MaxAmount == nil &&
		c.MinArea == nil && c.MaxArea == nil
}

// ParseCriteria reads criteria from request style parameters. Keys outside
// FilterKeys are ignored so that clients may send filters this server does
// not know yet. Blank values count as absent.
func ParseCriteria(params map[string][]string) (Criteria, error) {
	var c Criteria
	for key, values := range params {
		value := firstNonBlank(values)
		if value == "" {
			continue
		}

		switch FilterKey(key) {
		case FilterStatus:
			for _, v := range values {
				for _, part := range strings.Split(v, ",") {
					if part = strings.TrimSpace(part); part != "" {
						c.Statuses = append(c.Statuses, domain.BookingStatus(part))
					}
				}
			}
		case FilterProjectName:
			c.ProjectName = value
		case FilterCustomerName:
			c.CustomerName = value
		case FilterPropertyType:
			c.PropertyType = value
		case FilterMinAmount, FilterMaxAmount:
			d, err := decimal.NewFromString(value)
			if err != nil {
				return Criteria{}, fmt.Errorf("%w: %s must be numeric", ErrInvalidArgument, key)
			}
			if FilterKey(key) == FilterMinAmount {
				c.MinAmount = &d
			} else {
				c.MaxAmount = &d
			}
		case FilterMinArea, FilterMaxArea:
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return Criteria{}, fmt.Errorf("%w: %s must be numeric", ErrInvalidArgument, key)
			}
			if FilterKey(key) == FilterMinArea {
				c.MinArea = &f
			} else {
				c.MaxArea = &f
			}
		}
	}
	return c, nil
}

// Echo returns the provided criteria keyed by filter name, for report envelopes.
func (c Criteria) Echo() map[string]interface{} {
	out := map[string]interface{}{}
	switch len(c.Statuses) {
	case 0:
	case 1:
		out[string(FilterStatus)] = string(c.Statuses[0])
	default:
		statuses := make([]string, 0, len(c.Statuses))
		for _, s := range c.Statuses {
			statuses = append(statuses, string(s))
		}
		out[string(FilterStatus)] = statuses
	}
	if c.ProjectName != "" {
		out[string(FilterProjectName)] = c.ProjectName
	}
	if c.CustomerName != "" {
		out[string(FilterCustomerName)] = c.CustomerName
	}
	if c.PropertyType != "" {
		out[string(FilterPropertyType)] = c.PropertyType
	}
	if c.MinAmount != nil {
		out[string(FilterMinAmount)] = c.MinAmount.InexactFloat64()
	}
	if c.MaxAmount != nil {
		out[string(FilterMaxAmount)] = c.MaxAmount.InexactFloat64()
	}
	if c.MinArea != nil {
		out[string(FilterMinArea)] = *c.MinArea
	}
	if c.MaxArea != nil {
		out[string(FilterMaxArea)] = *c.MaxArea
	}
	return out
}

func firstNonBlank(values []string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

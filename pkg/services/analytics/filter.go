package analytics

import (
	"strings"

	"github.com/de-tools/booking-atlas/pkg/models/domain"
)

// Predicate reports whether a booking is kept.
type Predicate func(domain.Booking) bool

// predicateBuilders maps each recognised key to its predicate constructor.
// A constructor returns nil when the criteria leave that key unconstrained.
var predicateBuilders = map[FilterKey]func(Criteria) Predicate{
	FilterStatus:       statusPredicate,
	FilterProjectName:  containsPredicate(func(c Criteria) string { return c.ProjectName }, func(b domain.Booking) string { return b.ProjectName }),
	FilterCustomerName: containsPredicate(func(c Criteria) string { return c.CustomerName }, func(b domain.Booking) string { return b.CustomerName }),
	FilterPropertyType: containsPredicate(func(c Criteria) string { return c.PropertyType }, func(b domain.Booking) string { return b.PropertyType }),
	FilterMinAmount: func(c Criteria) Predicate {
		if c.MinAmount == nil {
			return nil
		}
		lo := *c.MinAmount
		return func(b domain.Booking) bool { return b.Amount.GreaterThanOrEqual(lo) }
	},
	FilterMaxAmount: func(c Criteria) Predicate {
		if c.MaxAmount == nil {
			return nil
		}
		hi := *c.MaxAmount
		return func(b domain.Booking) bool { return b.Amount.LessThanOrEqual(hi) }
	},
	FilterMinArea: func(c Criteria) Predicate {
		if c.MinArea == nil {
			return nil
		}
		lo := *c.MinArea
		return func(b domain.Booking) bool { return b.Area >= lo }
	},
	FilterMaxArea: func(c Criteria) Predicate {
		if c.MaxArea == nil {
			return nil
		}
		hi := *c.MaxArea
		return func(b domain.Booking) bool { return b.Area <= hi }
	},
}

// Predicates builds the predicate list for the constrained keys of c.
func (c Criteria) Predicates() []Predicate {
	preds := make([]Predicate, 0, len(FilterKeys))
	for _, key := range FilterKeys {
		if p := predicateBuilders[key](c); p != nil {
			preds = append(preds, p)
		}
	}
	return preds
}

// RangePredicate keeps bookings created inside r. It is nil for an unbounded range.
func RangePredicate(r domain.DateRange) Predicate {
	if r.Unbounded() {
		return nil
	}
	return func(b domain.Booking) bool { return r.Contains(b.CreatedAt) }
}

// Filter keeps the bookings accepted by every predicate, in one pass.
// The input slice is never modified.
func Filter(records []domain.Booking, preds ...Predicate) []domain.Booking {
	out := make([]domain.Booking, 0, len(records))
next:
	for _, b := range records {
		for _, p := range preds {
			if p != nil && !p(b) {
				continue next
			}
		}
		out = append(out, b)
	}
	return out
}

// Apply narrows records to the date range and criteria.
func Apply(records []domain.Booking, r domain.DateRange, c Criteria) []domain.Booking {
	preds := c.Predicates()
	if p := RangePredicate(r); p != nil {
		preds = append(preds, p)
	}
	return Filter(records, preds...)
}

func statusPredicate(c Criteria) Predicate {
	switch len(c.Statuses) {
	case 0:
		return nil
	case 1:
		want := c.Statuses[0]
		return func(b domain.Booking) bool { return b.Status == want }
	}
	set := make(map[domain.BookingStatus]struct{}, len(c.Statuses))
	for _, s := range c.Statuses {
		set[s] = struct{}{}
	}
	return func(b domain.Booking) bool {
		_, ok := set[b.Status]
		return ok
	}
}

func containsPredicate(
	criterion func(Criteria) string,
	field func(domain.Booking) string,
) func(Criteria) Predicate {
	return func(c Criteria) Predicate {
		needle := strings.ToLower(criterion(c))
		if needle == "" {
			return nil
		}
		return func(b domain.Booking) bool {
			return strings.Contains(strings.ToLower(field(b)), needle)
		}
	}
}

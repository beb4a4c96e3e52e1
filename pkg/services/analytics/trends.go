package analytics

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/de-tools/booking-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
)

// DefaultTrendWindow is how far back trends look when the caller gives no start date.
const DefaultTrendWindow = 365 * 24 * time.Hour

// ParseGranularity resolves a bucket size name. Blank and unknown names fall
// back to monthly buckets.
func ParseGranularity(name string) domain.Granularity {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "quarter", "quarterly":
		return domain.GranularityQuarter
	case "year", "yearly", "annual":
		return domain.GranularityYear
	default:
		return domain.GranularityMonth
	}
}

// TrendWindow fills the open bounds of r: the end defaults to now and the
// start to DefaultTrendWindow before the end.
func TrendWindow(r domain.DateRange, now time.Time) domain.DateRange {
	end := now
	if r.End != nil {
		end = *r.End
	}
	start := end.Add(-DefaultTrendWindow)
	if r.Start != nil {
		start = *r.Start
	}
	return domain.DateRange{Start: &start, End: &end}
}

type bucketKey struct {
	year int
	sub  int // month or quarter, 0 for yearly buckets
}

func bucketOf(g domain.Granularity, t time.Time) bucketKey {
	t = t.UTC()
	switch g {
	case domain.GranularityYear:
		return bucketKey{year: t.Year()}
	case domain.GranularityQuarter:
		return bucketKey{year: t.Year(), sub: (int(t.Month()) + 2) / 3}
	default:
		return bucketKey{year: t.Year(), sub: int(t.Month())}
	}
}

func (k bucketKey) label(g domain.Granularity) string {
	switch g {
	case domain.GranularityYear:
		return fmt.Sprintf("%04d", k.year)
	case domain.GranularityQuarter:
		return fmt.Sprintf("%04d-Q%d", k.year, k.sub)
	default:
		return fmt.Sprintf("%04d-%02d", k.year, k.sub)
	}
}

type trendAccumulator struct {
	count        int
	nonCancelled int
	revenue      decimal.Decimal
	tax          decimal.Decimal
	area         float64
}

// Trends groups an already filtered booking set into calendar buckets,
// oldest first. Buckets without bookings are not emitted.
func Trends(records []domain.Booking, g domain.Granularity) []domain.TrendPoint {
	g = ParseGranularity(string(g))
	buckets := make(map[bucketKey]*trendAccumulator)
	for _, b := range records {
		key := bucketOf(g, b.CreatedAt)
		acc, ok := buckets[key]
		if !ok {
			acc = &trendAccumulator{revenue: decimal.Zero, tax: decimal.Zero}
			buckets[key] = acc
		}
		acc.count++
		if !b.Cancelled() {
			acc.nonCancelled++
		}
		acc.revenue = acc.revenue.Add(b.Amount)
		acc.tax = acc.tax.Add(b.TaxGST)
		acc.area += b.Area
	}

	keys := make([]bucketKey, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b bucketKey) int {
		if c := cmp.Compare(a.year, b.year); c != 0 {
			return c
		}
		return cmp.Compare(a.sub, b.sub)
	})

	points := make([]domain.TrendPoint, 0, len(keys))
	for _, k := range keys {
		acc := buckets[k]
		p := domain.TrendPoint{
			Period:            k.label(g),
			Year:              k.year,
			BookingCount:      acc.count,
			NonCancelledCount: acc.nonCancelled,
			TotalRevenue:      acc.revenue.InexactFloat64(),
			TotalTax:          acc.tax.InexactFloat64(),
			TotalWithTax:      acc.revenue.Add(acc.tax).InexactFloat64(),
			TotalArea:         acc.area,
			AvgBookingValue:   average(acc.revenue, acc.count),
		}
		switch g {
		case domain.GranularityQuarter:
			p.Quarter = k.sub
		case domain.GranularityMonth:
			p.Month = k.sub
		}
		points = append(points, p)
	}
	return points
}

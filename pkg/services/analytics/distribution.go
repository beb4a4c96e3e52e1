package analytics

import (
	"cmp"
	"slices"

	"github.com/de-tools/booking-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
)

// MinAreaDenominator replaces a zero total area when computing revenue per
// unit area. Groups without area therefore report their full revenue.
const MinAreaDenominator = 1.0

// ParseDimension resolves a grouping dimension by name.
func ParseDimension(name string) (domain.Dimension, error) {
	switch domain.Dimension(name) {
	case domain.DimensionProject, domain.DimensionPropertyType:
		return domain.Dimension(name), nil
	}
	return "", unsupported("dimension", name)
}

type categoryAccumulator struct {
	label        string
	count        int
	nonCancelled int
	revenue      decimal.Decimal
	area         float64
}

// Distribution groups an already filtered booking set by the raw value of
// dim, largest groups first. Groups of equal size keep first-seen order.
func Distribution(records []domain.Booking, dim domain.Dimension) ([]domain.CategoryPoint, error) {
	var keyOf func(domain.Booking) string
	switch dim {
	case domain.DimensionProject:
		keyOf = func(b domain.Booking) string { return b.ProjectName }
	case domain.DimensionPropertyType:
		keyOf = func(b domain.Booking) string { return b.PropertyType }
	default:
		return nil, unsupported("dimension", string(dim))
	}

	index := make(map[string]int)
	groups := make([]*categoryAccumulator, 0)
	for _, b := range records {
		key := keyOf(b)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, &categoryAccumulator{label: key, revenue: decimal.Zero})
		}
		g := groups[i]
		g.count++
		if !b.Cancelled() {
			g.nonCancelled++
		}
		g.revenue = g.revenue.Add(b.Amount)
		g.area += b.Area
	}

	slices.SortStableFunc(groups, func(a, b *categoryAccumulator) int {
		return cmp.Compare(b.count, a.count)
	})

	points := make([]domain.CategoryPoint, 0, len(groups))
	for _, g := range groups {
		p := domain.CategoryPoint{
			Label:             g.label,
			BookingCount:      g.count,
			NonCancelledCount: g.nonCancelled,
			TotalRevenue:      g.revenue.InexactFloat64(),
			TotalArea:         g.area,
			AvgRevenue:        average(g.revenue, g.count),
			AvgArea:           ratio(g.area, g.count),
			SuccessRate:       percentage(g.nonCancelled, g.count),
		}
		if dim == domain.DimensionPropertyType {
			perArea := revenuePerUnitArea(g.revenue, g.area)
			p.RevenuePerUnitArea = &perArea
		}
		points = append(points, p)
	}
	return points, nil
}

func revenuePerUnitArea(revenue decimal.Decimal, area float64) float64 {
	if area <= 0 {
		area = MinAreaDenominator
	}
	return revenue.InexactFloat64() / area
}

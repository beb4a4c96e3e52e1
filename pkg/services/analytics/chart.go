package analytics

import (
	"fmt"

	"github.com/de-tools/booking-atlas/pkg/models/domain"
)

// ChartKind selects the chart a Formatter produces.
type ChartKind int

const (
	ChartMonthlyTrends ChartKind = iota + 1
	ChartProjectDistribution
	ChartPropertyTypes
	ChartRevenueTrends
)

// ChartKinds lists every supported chart in dashboard order.
var ChartKinds = []ChartKind{
	ChartMonthlyTrends,
	ChartProjectDistribution,
	ChartPropertyTypes,
	ChartRevenueTrends,
}

var chartKindNames = map[ChartKind]string{
	ChartMonthlyTrends:       "monthly_trends",
	ChartProjectDistribution: "project_distribution",
	ChartPropertyTypes:       "property_types",
	ChartRevenueTrends:       "revenue_trends",
}

func (k ChartKind) String() string {
	if name, ok := chartKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("chart(%d)", int(k))
}

// ParseChartKind resolves a chart name such as "monthly_trends".
func ParseChartKind(name string) (ChartKind, error) {
	for kind, n := range chartKindNames {
		if n == name {
			return kind, nil
		}
	}
	return 0, unsupported("chart kind", name)
}

// FormatChart maps aggregate rows onto the series of the given chart kind.
// Labels keep the order of rows.
func FormatChart(kind ChartKind, rows Result) (domain.Chart, error) {
	switch kind {
	case ChartMonthlyTrends:
		trends, err := trendRows(kind, rows)
		if err != nil {
			return domain.Chart{}, err
		}
		return domain.Chart{
			Labels: periods(trends),
			Datasets: []domain.Dataset{
				{Label: "Bookings", Type: domain.SeriesLine, Data: trendSeries(trends, func(p domain.TrendPoint) float64 { return float64(p.BookingCount) })},
				{Label: "Revenue", Type: domain.SeriesBar, Data: trendSeries(trends, func(p domain.TrendPoint) float64 { return p.TotalRevenue })},
			},
		}, nil
	case ChartRevenueTrends:
		trends, err := trendRows(kind, rows)
		if err != nil {
			return domain.Chart{}, err
		}
		return domain.Chart{
			Labels: periods(trends),
			Datasets: []domain.Dataset{
				{Label: "Revenue", Type: domain.SeriesLine, Data: trendSeries(trends, func(p domain.TrendPoint) float64 { return p.TotalRevenue })},
				{Label: "Revenue + Tax", Type: domain.SeriesLine, Data: trendSeries(trends, func(p domain.TrendPoint) float64 { return p.TotalWithTax })},
			},
		}, nil
	case ChartProjectDistribution:
		categories, err := categoryRows(kind, rows)
		if err != nil {
			return domain.Chart{}, err
		}
		return domain.Chart{
			Labels: labels(categories),
			Datasets: []domain.Dataset{
				{Label: "Bookings by Project", Type: domain.SeriesPie, Data: categorySeries(categories, func(p domain.CategoryPoint) float64 { return float64(p.BookingCount) })},
			},
		}, nil
	case ChartPropertyTypes:
		categories, err := categoryRows(kind, rows)
		if err != nil {
			return domain.Chart{}, err
		}
		return domain.Chart{
			Labels: labels(categories),
			Datasets: []domain.Dataset{
				{Label: "Revenue by Type", Type: domain.SeriesDoughnut, Data: categorySeries(categories, func(p domain.CategoryPoint) float64 { return p.TotalRevenue })},
			},
		}, nil
	}
	return domain.Chart{}, unsupported("chart kind", kind.String())
}

func trendRows(kind ChartKind, rows Result) (TrendRows, error) {
	trends, ok := rows.(TrendRows)
	if !ok {
		return nil, fmt.Errorf("%w: %s expects trend rows, got %T", ErrInvalidArgument, kind, rows)
	}
	return trends, nil
}

func categoryRows(kind ChartKind, rows Result) (CategoryRows, error) {
	categories, ok := rows.(CategoryRows)
	if !ok {
		return nil, fmt.Errorf("%w: %s expects category rows, got %T", ErrInvalidArgument, kind, rows)
	}
	return categories, nil
}

func periods(rows TrendRows) []string {
	out := make([]string, 0, len(rows))
	for _, p := range rows {
		out = append(out, p.Period)
	}
	return out
}

func labels(rows CategoryRows) []string {
	out := make([]string, 0, len(rows))
	for _, p := range rows {
		out = append(out, p.Label)
	}
	return out
}

func trendSeries(rows TrendRows, value func(domain.TrendPoint) float64) []float64 {
	out := make([]float64, 0, len(rows))
	for _, p := range rows {
		out = append(out, value(p))
	}
	return out
}

func categorySeries(rows CategoryRows, value func(domain.CategoryPoint) float64) []float64 {
	out := make([]float64, 0, len(rows))
	for _, p := range rows {
		out = append(out, value(p))
	}
	return out
}

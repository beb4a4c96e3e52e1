package adapters

import (
	"github.com/de-tools/booking-atlas/pkg/models/api"
	"github.com/de-tools/booking-atlas/pkg/models/domain"
	"github.com/de-tools/booking-atlas/pkg/services/analytics"
)

func MapKPISummaryDomainToApi(k domain.KPISummary) api.KPISummary {
	return api.KPISummary{
		TotalBookings:       k.TotalBookings,
		ActiveBookings:      k.ActiveBookings,
		CompletedBookings:   k.CompletedBookings,
		CancelledBookings:   k.CancelledBookings,
		TotalRevenue:        k.TotalRevenue,
		TotalTax:            k.TotalTax,
		TotalRevenueWithTax: k.TotalRevenueWithTax,
		AvgBookingValue:     k.AvgBookingValue,
		CompletionRate:      k.CompletionRate,
		TotalArea:           k.TotalArea,
		AvgArea:             k.AvgArea,
		CancellationRate:    k.CancellationRate,
	}
}

func MapTrendsDomainToApi(points []domain.TrendPoint) []api.TrendPoint {
	out := make([]api.TrendPoint, 0, len(points))
	for _, p := range points {
		out = append(out, api.TrendPoint{
			Period:            p.Period,
			Year:              p.Year,
			Quarter:           p.Quarter,
			Month:             p.Month,
			BookingCount:      p.BookingCount,
			NonCancelledCount: p.NonCancelledCount,
			TotalRevenue:      p.TotalRevenue,
			TotalTax:          p.TotalTax,
			TotalWithTax:      p.TotalWithTax,
			TotalArea:         p.TotalArea,
			AvgBookingValue:   p.AvgBookingValue,
		})
	}
	return out
}

func MapProjectsDomainToApi(points []domain.CategoryPoint) []api.ProjectPoint {
	out := make([]api.ProjectPoint, 0, len(points))
	for _, p := range points {
		out = append(out, api.ProjectPoint{
			ProjectName:         p.Label,
			BookingCount:        p.BookingCount,
			ActiveCompleteCount: p.NonCancelledCount,
			TotalRevenue:        p.TotalRevenue,
			TotalArea:           p.TotalArea,
			AvgRevenue:          p.AvgRevenue,
			AvgArea:             p.AvgArea,
			SuccessRate:         p.SuccessRate,
		})
	}
	return out
}

func MapPropertyTypesDomainToApi(points []domain.CategoryPoint) []api.PropertyTypePoint {
	out := make([]api.PropertyTypePoint, 0, len(points))
	for _, p := range points {
		point := api.PropertyTypePoint{
			PropertyType:        p.Label,
			BookingCount:        p.BookingCount,
			ActiveCompleteCount: p.NonCancelledCount,
			TotalRevenue:        p.TotalRevenue,
			TotalArea:           p.TotalArea,
			AvgRevenue:          p.AvgRevenue,
			AvgArea:             p.AvgArea,
			SuccessRate:         p.SuccessRate,
		}
		if p.RevenuePerUnitArea != nil {
			point.RevenuePerSqft = *p.RevenuePerUnitArea
		}
		out = append(out, point)
	}
	return out
}

func MapChartDomainToApi(c domain.Chart) api.Chart {
	out := api.Chart{
		Labels:   append([]string{}, c.Labels...),
		Datasets: make([]api.Dataset, 0, len(c.Datasets)),
	}
	for _, ds := range c.Datasets {
		out.Datasets = append(out.Datasets, api.Dataset{
			Label: ds.Label,
			Data:  append([]float64{}, ds.Data...),
			Type:  string(ds.Type),
		})
	}
	return out
}

func MapDateRangeDomainToApi(r domain.DateRange) api.DateRange {
	return api.DateRange{StartDate: r.Start, EndDate: r.End}
}

func MapDashboardDomainToApi(d *analytics.Dashboard) api.Dashboard {
	charts := make(map[string]api.Chart, len(d.Charts))
	for kind, chart := range d.Charts {
		charts[kind.String()] = MapChartDomainToApi(chart)
	}
	return api.Dashboard{
		KPIs:      MapKPISummaryDomainToApi(d.KPIs),
		Charts:    charts,
		DateRange: MapDateRangeDomainToApi(d.Range),
	}
}

// MapResultToApi converts a result set to its JSON representation.
// Category rows are keyed by dim.
func MapResultToApi(r analytics.Result, dim domain.Dimension) interface{} {
	switch rows := r.(type) {
	case analytics.KPIResult:
		return MapKPISummaryDomainToApi(rows.KPISummary)
	case analytics.MetricRows:
		out := make([]api.Metric, 0, len(rows))
		for _, m := range rows {
			out = append(out, api.Metric{Metric: m.Metric, Value: m.Value})
		}
		return out
	case analytics.TrendRows:
		return MapTrendsDomainToApi(rows)
	case analytics.CategoryRows:
		if dim == domain.DimensionPropertyType {
			return MapPropertyTypesDomainToApi(rows)
		}
		return MapProjectsDomainToApi(rows)
	}
	return nil
}

func MapExportDomainToApi(e *analytics.Export) api.Export {
	dim := domain.DimensionProject
	if e.Kind == analytics.ExportPropertyTypes {
		dim = domain.DimensionPropertyType
	}
	out := api.Export{
		DataType:    e.Kind.String(),
		GeneratedAt: e.GeneratedAt,
		DateRange:   MapDateRangeDomainToApi(e.Range),
		Filters:     e.Filters.Echo(),
		Data:        MapResultToApi(e.Data, dim),
	}
	if e.Rows != nil {
		out.CSVData = MapResultToApi(e.Rows, dim)
	}
	return out
}

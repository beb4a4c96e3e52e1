package adapters

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/de-tools/booking-atlas/pkg/models/domain"
	"github.com/de-tools/booking-atlas/pkg/services/analytics"
)

var metricUnits = map[string]string{
	"total_bookings":         "bookings",
	"active_bookings":        "bookings",
	"completed_bookings":     "bookings",
	"cancelled_bookings":     "bookings",
	"completion_rate":        "%",
	"cancellation_rate":      "%",
	"total_area":             "sq ft",
	"avg_area":               "sq ft",
	"total_revenue":          "amount",
	"total_tax":              "amount",
	"total_revenue_with_tax": "amount",
	"avg_booking_value":      "amount",
}

func newReport(title string, r domain.DateRange, generated time.Time) *domain.Report {
	report := &domain.Report{Title: title, Generated: generated.UTC()}
	if r.Start != nil {
		report.Period.Start = *r.Start
	}
	if r.End != nil {
		report.Period.End = *r.End
	}
	return report
}

// MapKPISummaryToReport renders the summary as a single metric section.
func MapKPISummaryToReport(k domain.KPISummary, r domain.DateRange, generated time.Time) *domain.Report {
	report := newReport("Booking KPIs", r, generated)
	section := domain.ReportSection{Title: "Key Performance Indicators"}
	for _, m := range k.Metrics() {
		section.Details = append(section.Details, domain.ReportDetail{
			Name:  m.Metric,
			Value: formatNumber(m.Value),
			Unit:  metricUnits[m.Metric],
		})
	}
	report.Sections = []domain.ReportSection{section}
	return report
}

func MapTrendsToReport(points []domain.TrendPoint, g domain.Granularity, r domain.DateRange, generated time.Time) *domain.Report {
	report := newReport("Booking Trends", r, generated)
	section := domain.ReportSection{
		Title:   fmt.Sprintf("Bookings per %s", g),
		Summary: map[string]interface{}{"Periods": len(points)},
	}
	for _, p := range points {
		section.Details = append(section.Details, domain.ReportDetail{
			Name:  p.Period,
			Value: p.BookingCount,
			Unit:  "bookings",
			Description: fmt.Sprintf("revenue %s, tax %s, area %s",
				formatNumber(p.TotalRevenue), formatNumber(p.TotalTax), formatNumber(p.TotalArea)),
		})
	}
	report.Sections = []domain.ReportSection{section}
	return report
}

func MapDistributionToReport(points []domain.CategoryPoint, dim domain.Dimension, r domain.DateRange, generated time.Time) *domain.Report {
	title := "Project Distribution"
	if dim == domain.DimensionPropertyType {
		title = "Property Type Distribution"
	}
	report := newReport(title, r, generated)
	section := domain.ReportSection{
		Title:   title,
		Summary: map[string]interface{}{"Groups": len(points)},
	}
	for _, p := range points {
		desc := fmt.Sprintf("revenue %s, success %s%%", formatNumber(p.TotalRevenue), formatNumber(p.SuccessRate))
		if p.RevenuePerUnitArea != nil {
			desc += fmt.Sprintf(", %s per sq ft", formatNumber(*p.RevenuePerUnitArea))
		}
		section.Details = append(section.Details, domain.ReportDetail{
			Name:        p.Label,
			Value:       p.BookingCount,
			Unit:        "bookings",
			Description: desc,
		})
	}
	report.Sections = []domain.ReportSection{section}
	return report
}

// MapChartToReport prints one section per dataset.
func MapChartToReport(kind analytics.ChartKind, c domain.Chart, r domain.DateRange, generated time.Time) *domain.Report {
	report := newReport(fmt.Sprintf("Chart %s", kind), r, generated)
	for _, ds := range c.Datasets {
		section := domain.ReportSection{
			Title:   ds.Label,
			Summary: map[string]interface{}{"Series": string(ds.Type)},
		}
		for i, v := range ds.Data {
			label := ""
			if i < len(c.Labels) {
				label = c.Labels[i]
			}
			section.Details = append(section.Details, domain.ReportDetail{Name: label, Value: formatNumber(v)})
		}
		report.Sections = append(report.Sections, section)
	}
	return report
}

func MapProfilesToReport(profiles []domain.SourceProfile, generated time.Time) *domain.Report {
	report := newReport("Data Source Profiles", domain.DateRange{}, generated)
	section := domain.ReportSection{Title: "Profiles"}
	for _, p := range profiles {
		keys := make([]string, 0, len(p.Settings))
		for k := range p.Settings {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		section.Details = append(section.Details, domain.ReportDetail{
			Name:        p.Name,
			Value:       string(p.Type),
			Description: strings.Join(keys, ", "),
		})
	}
	report.Sections = []domain.ReportSection{section}
	return report
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

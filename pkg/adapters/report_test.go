package adapters

import (
	"testing"
	"time"

	"github.com/de-tools/booking-atlas/pkg/models/domain"
	"github.com/de-tools/booking-atlas/pkg/services/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var generated = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

func TestMapKPISummaryToReport(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	report := MapKPISummaryToReport(domain.KPISummary{TotalBookings: 4, TotalRevenue: 1250.5, CompletionRate: 25}, domain.DateRange{Start: &start}, generated)

	assert.Equal(t, start, report.Period.Start)
	assert.True(t, report.Period.End.IsZero())
	require.Len(t, report.Sections, 1)
	details := report.Sections[0].Details
	require.Len(t, details, 12)
	assert.Equal(t, domain.ReportDetail{Name: "total_bookings", Value: "4", Unit: "bookings"}, details[0])
	assert.Equal(t, domain.ReportDetail{Name: "total_revenue", Value: "1250.50", Unit: "amount"}, details[4])
	assert.Equal(t, domain.ReportDetail{Name: "completion_rate", Value: "25", Unit: "%"}, details[8])
}

func TestMapDistributionToReport(t *testing.T) {
	perArea := 2.5
	points := []domain.CategoryPoint{{Label: "Villa", BookingCount: 2, TotalRevenue: 500, SuccessRate: 50, RevenuePerUnitArea: &perArea}}

	report := MapDistributionToReport(points, domain.DimensionPropertyType, domain.DateRange{}, generated)

	assert.Equal(t, "Property Type Distribution", report.Title)
	require.Len(t, report.Sections[0].Details, 1)
	assert.Equal(t, "revenue 500, success 50%, 2.50 per sq ft", report.Sections[0].Details[0].Description)
}

func TestMapChartToReport(t *testing.T) {
	chart := domain.Chart{
		Labels: []string{"2024-01", "2024-02"},
		Datasets: []domain.Dataset{
			{Label: "Bookings", Type: domain.SeriesLine, Data: []float64{1, 3}},
			{Label: "Revenue", Type: domain.SeriesBar, Data: []float64{10, 30.25}},
		},
	}

	report := MapChartToReport(analytics.ChartMonthlyTrends, chart, domain.DateRange{}, generated)

	assert.Equal(t, "Chart monthly_trends", report.Title)
	require.Len(t, report.Sections, 2)
	assert.Equal(t, "bar", report.Sections[1].Summary["Series"])
	assert.Equal(t, domain.ReportDetail{Name: "2024-02", Value: "30.25"}, report.Sections[1].Details[1])
}

func TestMapProfilesToReport(t *testing.T) {
	report := MapProfilesToReport([]domain.SourceProfile{
		{Name: "lake", Type: domain.ProfileTypeDatabricks, Settings: map[string]string{"token": "x", "host": "h", "http_path": "/p"}},
	}, generated)

	detail := report.Sections[0].Details[0]
	assert.Equal(t, "databricks", detail.Value)
	assert.Equal(t, "host, http_path, token", detail.Description)
}

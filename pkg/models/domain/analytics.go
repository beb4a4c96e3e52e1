package domain

// KPISummary holds the headline metrics of a filtered booking set.
// Revenue and tax only count active and complete bookings while the
// area metrics cover every booking in the set.
type KPISummary struct {
	TotalBookings       int
	ActiveBookings      int
	CompletedBookings   int
	CancelledBookings   int
	TotalRevenue        float64
	TotalTax            float64
	TotalRevenueWithTax float64
	AvgBookingValue     float64
	CompletionRate      float64
	CancellationRate    float64
	TotalArea           float64
	AvgArea             float64
}

// MetricValue is one named KPI, used for row oriented exports.
type MetricValue struct {
	Metric string
	Value  float64
}

// Metrics flattens the summary into ordered metric rows.
func (k KPISummary) Metrics() []MetricValue {
	return []MetricValue{
		{Metric: "total_bookings", Value: float64(k.TotalBookings)},
		{Metric: "active_bookings", Value: float64(k.ActiveBookings)},
		{Metric: "completed_bookings", Value: float64(k.CompletedBookings)},
		{Metric: "cancelled_bookings", Value: float64(k.CancelledBookings)},
		{Metric: "total_revenue", Value: k.TotalRevenue},
		{Metric: "total_tax", Value: k.TotalTax},
		{Metric: "total_revenue_with_tax", Value: k.TotalRevenueWithTax},
		{Metric: "avg_booking_value", Value: k.AvgBookingValue},
		{Metric: "completion_rate", Value: k.CompletionRate},
		{Metric: "total_area", Value: k.TotalArea},
		{Metric: "avg_area", Value: k.AvgArea},
		{Metric: "cancellation_rate", Value: k.CancellationRate},
	}
}

type Granularity string

const (
	GranularityMonth   Granularity = "month"
	GranularityQuarter Granularity = "quarter"
	GranularityYear    Granularity = "year"
)

// TrendPoint is one calendar bucket. Month and Quarter are zero unless the
// bucket granularity uses them.
type TrendPoint struct {
	Period            string
	Year              int
	Quarter           int
	Month             int
	BookingCount      int
	NonCancelledCount int
	TotalRevenue      float64
	TotalTax          float64
	TotalWithTax      float64
	TotalArea         float64
	AvgBookingValue   float64
}

type Dimension string

const (
	DimensionProject      Dimension = "project_name"
	DimensionPropertyType Dimension = "property_type"
)

// CategoryPoint aggregates the bookings sharing one value of a dimension.
// RevenuePerUnitArea is only set for property type groupings.
type CategoryPoint struct {
	Label              string
	BookingCount       int
	NonCancelledCount  int
	TotalRevenue       float64
	TotalArea          float64
	AvgRevenue         float64
	AvgArea            float64
	SuccessRate        float64
	RevenuePerUnitArea *float64
}

// SeriesType is a rendering hint for chart clients.
type SeriesType string

const (
	SeriesLine     SeriesType = "line"
	SeriesBar      SeriesType = "bar"
	SeriesPie      SeriesType = "pie"
	SeriesDoughnut SeriesType = "doughnut"
)

type Dataset struct {
	Label string
	Data  []float64
	Type  SeriesType
}

type Chart struct {
	Labels   []string
	Datasets []Dataset
}

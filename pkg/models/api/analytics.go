package api

import "time"

type KPISummary struct {
	TotalBookings       int     `json:"total_bookings"`
	ActiveBookings      int     `json:"active_bookings"`
	CompletedBookings   int     `json:"completed_bookings"`
	CancelledBookings   int     `json:"cancelled_bookings"`
	TotalRevenue        float64 `json:"total_revenue"`
	TotalTax            float64 `json:"total_tax"`
	TotalRevenueWithTax float64 `json:"total_revenue_with_tax"`
	AvgBookingValue     float64 `json:"avg_booking_value"`
	CompletionRate      float64 `json:"completion_rate"`
	TotalArea           float64 `json:"total_area"`
	AvgArea             float64 `json:"avg_area"`
	CancellationRate    float64 `json:"cancellation_rate"`
}

type Metric struct {
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
}

type TrendPoint struct {
	Period            string  `json:"period"`
	Year              int     `json:"year"`
	Quarter           int     `json:"quarter,omitempty"`
	Month             int     `json:"month,omitempty"`
	BookingCount      int     `json:"booking_count"`
	NonCancelledCount int     `json:"non_cancelled_count"`
	TotalRevenue      float64 `json:"total_revenue"`
	TotalTax          float64 `json:"total_tax"`
	TotalWithTax      float64 `json:"total_with_tax"`
	TotalArea         float64 `json:"total_area"`
	AvgBookingValue   float64 `json:"avg_booking_value"`
}

type ProjectPoint struct {
	ProjectName         string  `json:"project_name"`
	BookingCount        int     `json:"booking_count"`
	ActiveCompleteCount int     `json:"active_complete_count"`
	TotalRevenue        float64 `json:"total_revenue"`
	TotalArea           float64 `json:"total_area"`
	AvgRevenue          float64 `json:"avg_revenue"`
	AvgArea             float64 `json:"avg_area"`
	SuccessRate         float64 `json:"success_rate"`
}

type PropertyTypePoint struct {
	PropertyType        string  `json:"property_type"`
	BookingCount        int     `json:"booking_count"`
	ActiveCompleteCount int     `json:"active_complete_count"`
	TotalRevenue        float64 `json:"total_revenue"`
	TotalArea           float64 `json:"total_area"`
	AvgRevenue          float64 `json:"avg_revenue"`
	AvgArea             float64 `json:"avg_area"`
	SuccessRate         float64 `json:"success_rate"`
	RevenuePerSqft      float64 `json:"revenue_per_sqft"`
}

type Dataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
	Type  string    `json:"type"`
}

type Chart struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

type DateRange struct {
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

type Dashboard struct {
	KPIs      KPISummary       `json:"kpis"`
	Charts    map[string]Chart `json:"charts"`
	DateRange DateRange        `json:"date_range"`
}

type KPIResponse struct {
	KPIs      KPISummary             `json:"kpis"`
	DateRange DateRange              `json:"date_range"`
	Filters   map[string]interface{} `json:"filters"`
}

type TrendsResponse struct {
	Trends    []TrendPoint `json:"trends"`
	TrendType string       `json:"trend_type"`
	GroupBy   string       `json:"group_by,omitempty"`
}

type ProjectsResponse struct {
	Projects []ProjectPoint `json:"projects"`
}

type PropertyTypesResponse struct {
	PropertyTypes []PropertyTypePoint `json:"property_types"`
}

// Export is the envelope of /api/analytics/export. Data and CSVData hold
// whichever row type the data type produces.
type Export struct {
	DataType    string                 `json:"data_type"`
	GeneratedAt time.Time              `json:"generated_at"`
	DateRange   DateRange              `json:"date_range"`
	Filters     map[string]interface{} `json:"filters"`
	Data        interface{}            `json:"data"`
	CSVData     interface{}            `json:"csv_data,omitempty"`
}

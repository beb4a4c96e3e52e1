package analytics

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/de-tools/booking-atlas/pkg/models/domain"
)

// ExportKind selects the data set an export carries.
type ExportKind int

const (
	ExportKPIs ExportKind = iota + 1
	ExportTrends
	ExportProjects
	ExportPropertyTypes
)

var exportKindNames = map[ExportKind]string{
	ExportKPIs:          "kpis",
	ExportTrends:        "trends",
	ExportProjects:      "projects",
	ExportPropertyTypes: "types",
}

func (k ExportKind) String() string {
	if name, ok := exportKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("export(%d)", int(k))
}

// ParseExportKind resolves an export data type name such as "kpis".
func ParseExportKind(name string) (ExportKind, error) {
	for kind, n := range exportKindNames {
		if n == name {
			return kind, nil
		}
	}
	return 0, unsupported("data type", name)
}

type ExportFormat string

const (
	ExportFormatJSON ExportFormat = "json"
	// ExportFormatCSVData adds row oriented data to the JSON envelope.
	ExportFormatCSVData ExportFormat = "csv_data"
	// ExportFormatCSV renders the row oriented data as CSV text.
	ExportFormatCSV ExportFormat = "csv"
)

// ParseExportFormat resolves an export format. Anything unrecognised is plain JSON.
func ParseExportFormat(name string) ExportFormat {
	switch ExportFormat(name) {
	case ExportFormatCSVData, ExportFormatCSV:
		return ExportFormat(name)
	}
	return ExportFormatJSON
}

// Export is the envelope wrapped around an exported result.
type Export struct {
	Kind        ExportKind
	Format      ExportFormat
	GeneratedAt time.Time
	Range       domain.DateRange
	Filters     Criteria
	Data        Result
	// Rows is only set for row oriented formats.
	Rows Result
}

// BuildExport wraps data with its metadata.
func BuildExport(
	kind ExportKind,
	format ExportFormat,
	r domain.DateRange,
	filters Criteria,
	data Result,
	generatedAt time.Time,
) *Export {
	e := &Export{
		Kind:        kind,
		Format:      format,
		GeneratedAt: generatedAt.UTC(),
		Range:       r,
		Filters:     filters,
		Data:        data,
	}
	if format == ExportFormatCSVData || format == ExportFormatCSV {
		e.Rows = Flatten(data)
	}
	return e
}

// Table renders a result as a header and string rows for CSV writers.
func Table(r Result) ([]string, [][]string) {
	switch rows := Flatten(r).(type) {
	case MetricRows:
		out := make([][]string, 0, len(rows))
		for _, m := range rows {
			out = append(out, []string{m.Metric, formatFloat(m.Value)})
		}
		return []string{"metric", "value"}, out
	case TrendRows:
		out := make([][]string, 0, len(rows))
		for _, p := range rows {
			out = append(out, []string{
				p.Period,
				strconv.Itoa(p.BookingCount),
				strconv.Itoa(p.NonCancelledCount),
				formatFloat(p.TotalRevenue),
				formatFloat(p.TotalTax),
				formatFloat(p.TotalWithTax),
				formatFloat(p.TotalArea),
				formatFloat(p.AvgBookingValue),
			})
		}
		return []string{
			"period", "booking_count", "non_cancelled_count", "total_revenue",
			"total_tax", "total_with_tax", "total_area", "avg_booking_value",
		}, out
	case CategoryRows:
		out := make([][]string, 0, len(rows))
		for _, p := range rows {
			perArea := ""
			if p.RevenuePerUnitArea != nil {
				perArea = formatFloat(*p.RevenuePerUnitArea)
			}
			out = append(out, []string{
				p.Label,
				strconv.Itoa(p.BookingCount),
				strconv.Itoa(p.NonCancelledCount),
				formatFloat(p.TotalRevenue),
				formatFloat(p.TotalArea),
				formatFloat(p.AvgRevenue),
				formatFloat(p.AvgArea),
				formatFloat(p.SuccessRate),
				perArea,
			})
		}
		return []string{
			"label", "booking_count", "non_cancelled_count", "total_revenue", "total_area",
			"avg_revenue", "avg_area", "success_rate", "revenue_per_unit_area",
		}, out
	}
	return nil, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteCSV renders r through Table as CSV with a header row.
func WriteCSV(w io.Writer, r Result) error {
	header, rows := Table(r)
	if header == nil {
		return fmt.Errorf("%w: result cannot be rendered as csv", ErrInvalidArgument)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

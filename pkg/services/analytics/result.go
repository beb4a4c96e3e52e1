package analytics

import "github.com/de-tools/booking-atlas/pkg/models/domain"

// Result is an aggregate result set: KPIResult, MetricRows, TrendRows or CategoryRows.
type Result interface {
	isResult()
}

type KPIResult struct {
	domain.KPISummary
}

type MetricRows []domain.MetricValue

type TrendRows []domain.TrendPoint

type CategoryRows []domain.CategoryPoint

func (KPIResult) isResult()    {}
func (MetricRows) isResult()   {}
func (TrendRows) isResult()    {}
func (CategoryRows) isResult() {}

// Flatten turns a single-mapping KPI result into metric rows. Sequence
// shaped results are returned untouched.
func Flatten(r Result) Result {
	if kpi, ok := r.(KPIResult); ok {
		return MetricRows(kpi.Metrics())
	}
	return r
}

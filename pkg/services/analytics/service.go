package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/booking-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Source provides a snapshot of the bookings created inside a date range.
// Implementations may return bookings outside the range; they are filtered again.
type Source interface {
	Bookings(ctx context.Context, r domain.DateRange) ([]domain.Booking, error)
}

// Query is the common input of every report entry point.
type Query struct {
	Range       domain.DateRange
	Criteria    Criteria
	Granularity domain.Granularity
}

// Dashboard bundles the KPI summary with every chart.
type Dashboard struct {
	KPIs   domain.KPISummary
	Charts map[ChartKind]domain.Chart
	Range  domain.DateRange
}

type Service struct {
	source Source
	now    func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source used for default windows and export stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(source Source, opts ...Option) *Service {
	s := &Service{
		source: source,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) KPISummary(ctx context.Context, q Query) (domain.KPISummary, error) {
	records, err := s.load(ctx, q.Range, q.Criteria)
	if err != nil {
		return domain.KPISummary{}, err
	}
	return Summarize(records), nil
}

// Trends buckets bookings by q.Granularity. Open range bounds default to the
// year ending now.
func (s *Service) Trends(ctx context.Context, q Query) ([]domain.TrendPoint, error) {
	window := TrendWindow(q.Range, s.now())
	records, err := s.load(ctx, window, q.Criteria)
	if err != nil {
		return nil, err
	}
	return Trends(records, q.Granularity), nil
}

func (s *Service) Distribution(ctx context.Context, dim domain.Dimension, q Query) ([]domain.CategoryPoint, error) {
	if _, err := ParseDimension(string(dim)); err != nil {
		return nil, err
	}
	records, err := s.load(ctx, q.Range, q.Criteria)
	if err != nil {
		return nil, err
	}
	return Distribution(records, dim)
}

func (s *Service) Chart(ctx context.Context, kind ChartKind, q Query) (domain.Chart, error) {
	var rows Result
	switch kind {
	case ChartMonthlyTrends:
		q.Granularity = domain.GranularityMonth
		fallthrough
	case ChartRevenueTrends:
		trends, err := s.Trends(ctx, q)
		if err != nil {
			return domain.Chart{}, err
		}
		rows = TrendRows(trends)
	case ChartProjectDistribution, ChartPropertyTypes:
		dim := domain.DimensionProject
		if kind == ChartPropertyTypes {
			dim = domain.DimensionPropertyType
		}
		categories, err := s.Distribution(ctx, dim, q)
		if err != nil {
			return domain.Chart{}, err
		}
		rows = CategoryRows(categories)
	default:
		return domain.Chart{}, unsupported("chart kind", kind.String())
	}
	return FormatChart(kind, rows)
}

// Dashboard loads the booking snapshot once and derives the KPIs and every chart from it.
func (s *Service) Dashboard(ctx context.Context, q Query) (*Dashboard, error) {
	// TrendWindow keeps explicit bounds, so the window never leaves q.Range.
	window := TrendWindow(q.Range, s.now())
	snapshot, err := s.fetch(ctx, q.Range)
	if err != nil {
		return nil, err
	}

	inRange := Apply(snapshot, q.Range, q.Criteria)
	inWindow := Apply(snapshot, window, q.Criteria)

	projects, err := Distribution(inRange, domain.DimensionProject)
	if err != nil {
		return nil, err
	}
	types, err := Distribution(inRange, domain.DimensionPropertyType)
	if err != nil {
		return nil, err
	}

	rows := map[ChartKind]Result{
		ChartMonthlyTrends:       TrendRows(Trends(inWindow, domain.GranularityMonth)),
		ChartRevenueTrends:       TrendRows(Trends(inWindow, q.Granularity)),
		ChartProjectDistribution: CategoryRows(projects),
		ChartPropertyTypes:       CategoryRows(types),
	}
	charts := make(map[ChartKind]domain.Chart, len(ChartKinds))
	for _, kind := range ChartKinds {
		chart, err := FormatChart(kind, rows[kind])
		if err != nil {
			return nil, err
		}
		charts[kind] = chart
	}

	return &Dashboard{
		KPIs:   Summarize(inRange),
		Charts: charts,
		Range:  q.Range,
	}, nil
}

// Export computes the data set selected by kind and wraps it in an envelope.
func (s *Service) Export(ctx context.Context, kind ExportKind, format ExportFormat, q Query) (*Export, error) {
	var data Result
	switch kind {
	case ExportKPIs:
		kpi, err := s.KPISummary(ctx, q)
		if err != nil {
			return nil, err
		}
		data = KPIResult{kpi}
	case ExportTrends:
		trends, err := s.Trends(ctx, q)
		if err != nil {
			return nil, err
		}
		data = TrendRows(trends)
	case ExportProjects, ExportPropertyTypes:
		dim := domain.DimensionProject
		if kind == ExportPropertyTypes {
			dim = domain.DimensionPropertyType
		}
		categories, err := s.Distribution(ctx, dim, q)
		if err != nil {
			return nil, err
		}
		data = CategoryRows(categories)
	default:
		return nil, unsupported("data type", kind.String())
	}
	return BuildExport(kind, format, q.Range, q.Criteria, data, s.now()), nil
}

func (s *Service) load(ctx context.Context, r domain.DateRange, c Criteria) ([]domain.Booking, error) {
	records, err := s.fetch(ctx, r)
	if err != nil {
		return nil, err
	}
	filtered := Apply(records, r, c)
	zerolog.Ctx(ctx).Debug().
		Int("fetched", len(records)).
		Int("matched", len(filtered)).
		Msg("bookings filtered")
	return filtered, nil
}

func (s *Service) fetch(ctx context.Context, r domain.DateRange) ([]domain.Booking, error) {
	records, err := s.source.Bookings(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

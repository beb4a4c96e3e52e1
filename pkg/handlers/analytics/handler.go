package analytics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/de-tools/booking-atlas/pkg/adapters"
	"github.com/de-tools/booking-atlas/pkg/handlers/render"
	"github.com/de-tools/booking-atlas/pkg/models/api"
	"github.com/de-tools/booking-atlas/pkg/models/domain"
	"github.com/de-tools/booking-atlas/pkg/services/analytics"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Service is the reporting surface the handler exposes over HTTP.
type Service interface {
	KPISummary(ctx context.Context, q analytics.Query) (domain.KPISummary, error)
	Trends(ctx context.Context, q analytics.Query) ([]domain.TrendPoint, error)
	Distribution(ctx context.Context, dim domain.Dimension, q analytics.Query) ([]domain.CategoryPoint, error)
	Chart(ctx context.Context, kind analytics.ChartKind, q analytics.Query) (domain.Chart, error)
	Dashboard(ctx context.Context, q analytics.Query) (*analytics.Dashboard, error)
	Export(ctx context.Context, kind analytics.ExportKind, format analytics.ExportFormat, q analytics.Query) (*analytics.Export, error)
}

const (
	trendTypeMonthly = "monthly"
	trendTypeRevenue = "revenue"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	q, ok := parseQuery(w, r)
	if !ok {
		return
	}
	dashboard, err := h.svc.Dashboard(r.Context(), q)
	if err != nil {
		fail(w, r, err)
		return
	}
	render.JSON(w, r, http.StatusOK, adapters.MapDashboardDomainToApi(dashboard))
}

func (h *Handler) KPIs(w http.ResponseWriter, r *http.Request) {
	q, ok := parseQuery(w, r)
	if !ok {
		return
	}
	kpis, err := h.svc.KPISummary(r.Context(), q)
	if err != nil {
		fail(w, r, err)
		return
	}
	render.JSON(w, r, http.StatusOK, api.KPIResponse{
		KPIs:      adapters.MapKPISummaryDomainToApi(kpis),
		DateRange: adapters.MapDateRangeDomainToApi(q.Range),
		Filters:   q.Criteria.Echo(),
	})
}

// Trends serves monthly booking trends, or revenue trends bucketed by group_by.
func (h *Handler) Trends(w http.ResponseWriter, r *http.Request) {
	q, ok := parseQuery(w, r)
	if !ok {
		return
	}

	trendType := strings.ToLower(r.URL.Query().Get("type"))
	resp := api.TrendsResponse{TrendType: trendType}
	switch trendType {
	case "", trendTypeMonthly:
		resp.TrendType = trendTypeMonthly
		q.Granularity = domain.GranularityMonth
	case trendTypeRevenue:
		resp.GroupBy = string(q.Granularity)
	default:
		render.Error(w, r, http.StatusBadRequest,
			fmt.Sprintf("invalid trend type %q, use %q or %q", trendType, trendTypeMonthly, trendTypeRevenue))
		return
	}

	trends, err := h.svc.Trends(r.Context(), q)
	if err != nil {
		fail(w, r, err)
		return
	}
	resp.Trends = adapters.MapTrendsDomainToApi(trends)
	render.JSON(w, r, http.StatusOK, resp)
}

func (h *Handler) Projects(w http.ResponseWriter, r *http.Request) {
	q, ok := parseQuery(w, r)
	if !ok {
		return
	}
	points, err := h.svc.Distribution(r.Context(), domain.DimensionProject, q)
	if err != nil {
		fail(w, r, err)
		return
	}
	render.JSON(w, r, http.StatusOK, api.ProjectsResponse{Projects: adapters.MapProjectsDomainToApi(points)})
}

func (h *Handler) PropertyTypes(w http.ResponseWriter, r *http.Request) {
	q, ok := parseQuery(w, r)
	if !ok {
		return
	}
	points, err := h.svc.Distribution(r.Context(), domain.DimensionPropertyType, q)
	if err != nil {
		fail(w, r, err)
		return
	}
	render.JSON(w, r, http.StatusOK, api.PropertyTypesResponse{
		PropertyTypes: adapters.MapPropertyTypesDomainToApi(points),
	})
}

func (h *Handler) Chart(w http.ResponseWriter, r *http.Request) {
	kind, err := analytics.ParseChartKind(chi.URLParam(r, "kind"))
	if err != nil {
		fail(w, r, err)
		return
	}
	q, ok := parseQuery(w, r)
	if !ok {
		return
	}
	chart, err := h.svc.Chart(r.Context(), kind, q)
	if err != nil {
		fail(w, r, err)
		return
	}
	render.JSON(w, r, http.StatusOK, adapters.MapChartDomainToApi(chart))
}

// Export answers with the JSON envelope, or streams CSV rows for format=csv.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	dataType := params.Get("type")
	if dataType == "" {
		dataType = analytics.ExportKPIs.String()
	}
	kind, err := analytics.ParseExportKind(dataType)
	if err != nil {
		fail(w, r, err)
		return
	}
	q, ok := parseQuery(w, r)
	if !ok {
		return
	}
	format := analytics.ParseExportFormat(params.Get("format"))

	export, err := h.svc.Export(r.Context(), kind, format, q)
	if err != nil {
		fail(w, r, err)
		return
	}

	if format != analytics.ExportFormatCSV {
		render.JSON(w, r, http.StatusOK, adapters.MapExportDomainToApi(export))
		return
	}

	filename := fmt.Sprintf("%s-%s.csv", kind, export.GeneratedAt.Format("20060102T150405Z"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if err := analytics.WriteCSV(w, export.Rows); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("type", kind.String()).Msg("failed to write csv export")
	}
}

// parseQuery reads the date range, filter criteria and group_by shared by every report.
func parseQuery(w http.ResponseWriter, r *http.Request) (analytics.Query, bool) {
	params := r.URL.Query()

	var q analytics.Query
	for _, bound := range []struct {
		key string
		end bool
	}{
		{"start_date", false},
		{"end_date", true},
	} {
		v := strings.TrimSpace(params.Get(bound.key))
		if v == "" {
			continue
		}
		t, err := adapters.ParseDateBound(v, bound.end)
		if err != nil {
			render.Error(w, r, http.StatusBadRequest,
				fmt.Sprintf("invalid %s, use ISO format (YYYY-MM-DD)", bound.key))
			return q, false
		}
		if bound.end {
			q.Range.End = &t
		} else {
			q.Range.Start = &t
		}
	}

	criteria, err := analytics.ParseCriteria(params)
	if err != nil {
		render.Error(w, r, http.StatusBadRequest, err.Error())
		return q, false
	}
	q.Criteria = criteria

	groupBy := params.Get("group_by")
	if groupBy == "" {
		groupBy = params.Get("granularity")
	}
	q.Granularity = analytics.ParseGranularity(groupBy)
	return q, true
}

func fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, analytics.ErrInvalidArgument) {
		render.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if errors.Is(err, context.Canceled) {
		zerolog.Ctx(r.Context()).Debug().Err(err).Msg("analytics request cancelled")
		return
	}
	render.InternalError(w, r, err, "analytics request failed")
}

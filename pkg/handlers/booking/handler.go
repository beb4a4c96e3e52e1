package booking

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/booking-atlas/pkg/adapters"
	"github.com/de-tools/booking-atlas/pkg/handlers/render"
	"github.com/de-tools/booking-atlas/pkg/models/api"
	"github.com/de-tools/booking-atlas/pkg/models/domain"
	authsvc "github.com/de-tools/booking-atlas/pkg/services/auth"
	bookingsvc "github.com/de-tools/booking-atlas/pkg/services/booking"
	"github.com/go-chi/chi/v5"
)

// Service is the booking management surface the handler drives.
type Service interface {
	List(ctx context.Context, q bookingsvc.ListQuery) (*bookingsvc.Page, error)
	Get(ctx context.Context, id int64) (*domain.Booking, error)
	Create(ctx context.Context, caller domain.Principal, c domain.BookingChanges) (*domain.Booking, error)
	Update(ctx context.Context, caller domain.Principal, id int64, c domain.BookingChanges) (*domain.Booking, error)
	Cancel(ctx context.Context, caller domain.Principal, id int64) (*domain.Booking, error)
	HardDelete(ctx context.Context, caller domain.Principal, id int64) (*domain.Booking, error)
	Search(ctx context.Context, q string) ([]domain.Booking, error)
	Stats(ctx context.Context) (*domain.BookingStats, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q, applied, err := parseListQuery(r)
	if err != nil {
		render.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.svc.List(r.Context(), q)
	if err != nil {
		render.InternalError(w, r, err, "failed to list bookings")
		return
	}

	render.JSON(w, r, http.StatusOK, api.BookingList{
		Bookings: adapters.MapBookingsDomainToApi(page.Bookings),
		Pagination: api.Pagination{
			Page:    page.Page,
			PerPage: page.PerPage,
			Total:   page.Total,
			Pages:   page.Pages,
			HasNext: page.HasNext,
			HasPrev: page.HasPrev,
		},
		FiltersApplied: applied,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(w, r)
	if !ok {
		return
	}
	b, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, http.StatusOK, api.BookingResponse{Booking: adapters.MapBookingDomainToApi(*b)})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	changes, ok := decodeChanges(w, r)
	if !ok {
		return
	}
	b, err := h.svc.Create(r.Context(), caller(r), changes)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, http.StatusCreated, api.BookingResponse{
		Message: "booking created successfully",
		Booking: adapters.MapBookingDomainToApi(*b),
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(w, r)
	if !ok {
		return
	}
	changes, ok := decodeChanges(w, r)
	if !ok {
		return
	}
	b, err := h.svc.Update(r.Context(), caller(r), id, changes)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, http.StatusOK, api.BookingResponse{
		Message: "booking updated successfully",
		Booking: adapters.MapBookingDomainToApi(*b),
	})
}

// Delete cancels the booking; the row stays for reporting.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(w, r)
	if !ok {
		return
	}
	b, err := h.svc.Cancel(r.Context(), caller(r), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, http.StatusOK, api.BookingResponse{
		Message: "booking cancelled successfully",
		Booking: adapters.MapBookingDomainToApi(*b),
	})
}

func (h *Handler) HardDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(w, r)
	if !ok {
		return
	}
	b, err := h.svc.HardDelete(r.Context(), caller(r), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, http.StatusOK, api.DeletedBookingResponse{
		Message:        "booking permanently deleted",
		DeletedBooking: adapters.MapBookingDomainToApi(*b),
	})
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	results, err := h.svc.Search(r.Context(), q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, http.StatusOK, api.BookingSearchResult{
		Query:   q,
		Results: adapters.MapBookingsDomainToApi(results),
		Count:   len(results),
	})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		render.InternalError(w, r, err, "failed to compute booking stats")
		return
	}
	render.JSON(w, r, http.StatusOK, adapters.MapBookingStatsDomainToApi(*stats))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *bookingsvc.ValidationError
	switch {
	case errors.As(err, &verr):
		render.Error(w, r, http.StatusBadRequest, bookingsvc.ErrValidation.Error(), verr.Details...)
	case errors.Is(err, bookingsvc.ErrNotFound):
		render.Error(w, r, http.StatusNotFound, bookingsvc.ErrNotFound.Error())
	case errors.Is(err, bookingsvc.ErrAlreadyCancelled), errors.Is(err, bookingsvc.ErrEmptySearch):
		render.Error(w, r, http.StatusBadRequest, err.Error())
	default:
		render.InternalError(w, r, err, "booking request failed")
	}
}

func caller(r *http.Request) domain.Principal {
	p, _ := authsvc.PrincipalFrom(r.Context())
	return p
}

func bookingID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		render.Error(w, r, http.StatusBadRequest, "invalid booking id")
		return 0, false
	}
	return id, true
}

func decodeChanges(w http.ResponseWriter, r *http.Request) (domain.BookingChanges, bool) {
	var in api.BookingInput
	if err := render.Decode(r, &in); err != nil {
		render.Error(w, r, http.StatusBadRequest, "invalid request body")
		return domain.BookingChanges{}, false
	}
	changes, err := adapters.MapBookingInputApiToDomain(in)
	if err != nil {
		render.Error(w, r, http.StatusBadRequest, bookingsvc.ErrValidation.Error(), err.Error())
		return domain.BookingChanges{}, false
	}
	return changes, true
}

// parseListQuery reads listing parameters and reports the filters it applied.
func parseListQuery(r *http.Request) (bookingsvc.ListQuery, map[string]string, error) {
	params := r.URL.Query()
	applied := make(map[string]string)

	q := bookingsvc.ListQuery{
		SortBy:    params.Get("sort_by"),
		SortOrder: params.Get("sort_order"),
	}
	if v := params.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			return q, nil, fmt.Errorf("page must be an integer")
		}
		q.Page = page
	}
	if v := params.Get("per_page"); v != "" {
		perPage, err := strconv.Atoi(v)
		if err != nil {
			return q, nil, fmt.Errorf("per_page must be an integer")
		}
		q.PerPage = perPage
	}

	text := []struct {
		key string
		dst *string
	}{
		{"search", &q.Search},
		{"project_name", &q.ProjectName},
		{"customer_name", &q.CustomerName},
		{"type", &q.PropertyType},
	}
	for _, f := range text {
		if v := strings.TrimSpace(params.Get(f.key)); v != "" {
			*f.dst = v
			applied[f.key] = v
		}
	}

	if v := strings.ToLower(strings.TrimSpace(params.Get("status"))); v != "" {
		if status := domain.BookingStatus(v); status.Valid() {
			q.Statuses = []domain.BookingStatus{status}
			applied["status"] = v
		}
	}

	for _, bound := range []struct {
		key string
		end bool
		dst **time.Time
	}{
		{"start_date", false, &q.CreatedFrom},
		{"end_date", true, &q.CreatedTo},
	} {
		v := strings.TrimSpace(params.Get(bound.key))
		if v == "" {
			continue
		}
		t, err := adapters.ParseDateBound(v, bound.end)
		if err != nil {
			return q, nil, fmt.Errorf("invalid %s, use ISO format (YYYY-MM-DD)", bound.key)
		}
		*bound.dst = &t
		applied[bound.key] = v
	}

	return q, applied, nil
}

package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/booking-atlas/pkg/models/api"
	"github.com/de-tools/booking-atlas/pkg/models/domain"
	authsvc "github.com/de-tools/booking-atlas/pkg/services/auth"
	bookingsvc "github.com/de-tools/booking-atlas/pkg/services/booking"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) List(ctx context.Context, q bookingsvc.ListQuery) (*bookingsvc.Page, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingsvc.Page), args.Error(1)
}

func (m *mockService) Get(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockService) Create(ctx context.Context, caller domain.Principal, c domain.BookingChanges) (*domain.Booking, error) {
	args := m.Called(ctx, caller, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockService) Update(ctx context.Context, caller domain.Principal, id int64, c domain.BookingChanges) (*domain.Booking, error) {
	args := m.Called(ctx, caller, id, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockService) Cancel(ctx context.Context, caller domain.Principal, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockService) HardDelete(ctx context.Context, caller domain.Principal, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockService) Search(ctx context.Context, q string) ([]domain.Booking, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *mockService) Stats(ctx context.Context) (*domain.BookingStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingStats), args.Error(1)
}

var seller = domain.Principal{UserID: "u-2", Username: "sales", Role: domain.RoleSalesPerson}

// newRequest attaches the caller and the chi id parameter the router would normally set.
func newRequest(method, target, body, id string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	ctx := authsvc.WithPrincipal(req.Context(), seller)
	if id != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) api.ErrorResponse {
	t.Helper()
	var resp api.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestList(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		setupMock      func(*mockService)
		expectedStatus int
		expectedFilter map[string]string
	}{
		{
			name:   "filters are echoed",
			target: "/api/bookings?search=sky&type=2BHK&status=Complete&start_date=2024-01-01&end_date=2024-01-31&sort_by=amount&sort_order=asc&page=2",
			setupMock: func(m *mockService) {
				start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
				end := time.Date(2024, 1, 31, 23, 59, 59, 999999999, time.UTC)
				m.On("List", mock.Anything, bookingsvc.ListQuery{
					Page:         2,
					Search:       "sky",
					PropertyType: "2BHK",
					Statuses:     []domain.BookingStatus{domain.BookingStatusComplete},
					CreatedFrom:  &start,
					CreatedTo:    &end,
					SortBy:       "amount",
					SortOrder:    "asc",
				}).Return(&bookingsvc.Page{Bookings: []domain.Booking{}, Page: 2, PerPage: 50, Total: 51, Pages: 2, HasPrev: true}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedFilter: map[string]string{
				"search":     "sky",
				"type":       "2BHK",
				"status":     "complete",
				"start_date": "2024-01-01",
				"end_date":   "2024-01-31",
			},
		},
		{
			name:   "unknown status is ignored",
			target: "/api/bookings?status=archived",
			setupMock: func(m *mockService) {
				m.On("List", mock.Anything, bookingsvc.ListQuery{}).
					Return(&bookingsvc.Page{Bookings: []domain.Booking{}, Page: 1, PerPage: 50}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedFilter: map[string]string{},
		},
		{
			name:           "bad end date",
			target:         "/api/bookings?end_date=yesterday",
			setupMock:      func(*mockService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad page",
			target:         "/api/bookings?page=two",
			setupMock:      func(*mockService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockService)
			tt.setupMock(svc)
			rec := httptest.NewRecorder()

			NewHandler(svc).List(rec, newRequest(http.MethodGet, tt.target, "", ""))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				var resp api.BookingList
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, tt.expectedFilter, resp.FiltersApplied)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestGet(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Get", mock.Anything, int64(5)).Return(&domain.Booking{
			ID: 5, Amount: decimal.NewFromInt(100), TaxGST: decimal.NewFromInt(18), Status: domain.BookingStatusActive,
		}, nil)
		rec := httptest.NewRecorder()

		NewHandler(svc).Get(rec, newRequest(http.MethodGet, "/api/bookings/5", "", "5"))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp api.BookingResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, int64(5), resp.Booking.ID)
		assert.Equal(t, 118.0, resp.Booking.TotalAmount)
		assert.Nil(t, resp.Booking.Timeline)
	})

	t.Run("missing", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Get", mock.Anything, int64(5)).Return(nil, bookingsvc.ErrNotFound)
		rec := httptest.NewRecorder()

		NewHandler(svc).Get(rec, newRequest(http.MethodGet, "/api/bookings/5", "", "5"))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "booking not found", decodeError(t, rec).Error)
	})

	t.Run("bad id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewHandler(new(mockService)).Get(rec, newRequest(http.MethodGet, "/api/bookings/abc", "", "abc"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCreate(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Create", mock.Anything, seller, mock.MatchedBy(func(c domain.BookingChanges) bool {
			return c.CustomerName != nil && *c.CustomerName == "Asha Rao" &&
				c.Amount != nil && c.Amount.Equal(decimal.RequireFromString("4800000.50")) &&
				c.Timeline != nil && c.Timeline.Equal(time.Date(2030, 1, 15, 0, 0, 0, 0, time.UTC))
		})).Return(&domain.Booking{ID: 9, CustomerName: "Asha Rao"}, nil)
		rec := httptest.NewRecorder()

		body := `{"customer_name":"Asha Rao","amount":"4800000.50","timeline":"2030-01-15"}`
		NewHandler(svc).Create(rec, newRequest(http.MethodPost, "/api/bookings", body, ""))

		assert.Equal(t, http.StatusCreated, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("validation details", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Create", mock.Anything, seller, mock.Anything).
			Return(nil, &bookingsvc.ValidationError{Details: []string{"area must be greater than 0"}})
		rec := httptest.NewRecorder()

		NewHandler(svc).Create(rec, newRequest(http.MethodPost, "/api/bookings", `{"area":0}`, ""))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, api.ErrorResponse{
			Error:   "validation failed",
			Details: []string{"area must be greater than 0"},
		}, decodeError(t, rec))
	})

	t.Run("unparseable timeline", func(t *testing.T) {
		svc := new(mockService)
		rec := httptest.NewRecorder()

		NewHandler(svc).Create(rec, newRequest(http.MethodPost, "/api/bookings", `{"timeline":"soon"}`, ""))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewHandler(new(mockService)).Create(rec, newRequest(http.MethodPost, "/api/bookings", `{`, ""))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDelete_AlreadyCancelled(t *testing.T) {
	svc := new(mockService)
	svc.On("Cancel", mock.Anything, seller, int64(3)).Return(nil, bookingsvc.ErrAlreadyCancelled)
	rec := httptest.NewRecorder()

	NewHandler(svc).Delete(rec, newRequest(http.MethodDelete, "/api/bookings/3", "", "3"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "booking is already cancelled", decodeError(t, rec).Error)
}

func TestSearch(t *testing.T) {
	t.Run("empty query", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Search", mock.Anything, "").Return(nil, bookingsvc.ErrEmptySearch)
		rec := httptest.NewRecorder()

		NewHandler(svc).Search(rec, newRequest(http.MethodGet, "/api/bookings/search", "", ""))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("results", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Search", mock.Anything, "asha").Return([]domain.Booking{{ID: 1}, {ID: 2}}, nil)
		rec := httptest.NewRecorder()

		NewHandler(svc).Search(rec, newRequest(http.MethodGet, "/api/bookings/search?q=asha", "", ""))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp api.BookingSearchResult
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "asha", resp.Query)
		assert.Equal(t, 2, resp.Count)
	})
}

func TestStats(t *testing.T) {
	svc := new(mockService)
	svc.On("Stats", mock.Anything).Return(&domain.BookingStats{
		TotalBookings: 4, CompletedBookings: 1, TotalRevenue: decimal.NewFromInt(500),
	}, nil)
	rec := httptest.NewRecorder()

	NewHandler(svc).Stats(rec, newRequest(http.MethodGet, "/api/bookings/stats", "", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp api.BookingStats
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 25.0, resp.CompletionRate)
	assert.Equal(t, 500.0, resp.TotalRevenue)
}

package booking

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/de-tools/booking-atlas/pkg/models/store"
	"github.com/de-tools/booking-atlas/pkg/store/duckdb"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db    *sql.DB
	store Store
}

func setupTestDB(t *testing.T) *sql.DB {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	return db
}

func setupFixture(t *testing.T) *fixture {
	db := setupTestDB(t)
	s, err := NewStore(db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return &fixture{
		db:    db,
		store: s,
	}
}

func newBooking(customer, project, propertyType, status string, amount int64, created time.Time) *store.Booking {
	return &store.Booking{
		CustomerName:   customer,
		ContactNumber:  "9876543210",
		ProjectName:    project,
		PropertyType:   propertyType,
		Area:           1200,
		AgreementCost:  decimal.NewFromInt(amount + 200000),
		Amount:         decimal.NewFromInt(amount),
		TaxGST:         decimal.NewFromInt(amount / 20),
		RefundBuyer:    decimal.Zero,
		RefundReferral: decimal.Zero,
		TrustFund:      decimal.Zero,
		TrustFunded:    decimal.Zero,
		InvoiceStatus:  "pending",
		Timeline:       sql.NullTime{Time: created.AddDate(1, 0, 0), Valid: true},
		LoanRequired:   "no",
		Status:         status,
		CreatedAt:      created,
		UpdatedAt:      created,
		CreatedBy:      "admin",
	}
}

func seed(t *testing.T, f *fixture) []*store.Booking {
	ctx := context.Background()
	jan := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	bookings := []*store.Booking{
		newBooking("Asha Rao", "Skyline Towers", "2BHK", "active", 4800000, jan),
		newBooking("Vikram Shah", "Green Valley", "3BHK", "complete", 5800000, jan.AddDate(0, 1, 0)),
		newBooking("Meera Iyer", "Skyline Towers", "2BHK", "cancelled", 3000000, jan.AddDate(0, 2, 0)),
	}
	for _, b := range bookings {
		require.NoError(t, f.store.Create(ctx, b))
	}
	return bookings
}

func TestBookingStore_CreateGet(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	t.Run("success - assigns sequential ids", func(t *testing.T) {
		bookings := seed(t, f)
		assert.Equal(t, int64(1), bookings[0].ID)
		assert.Equal(t, int64(3), bookings[2].ID)

		got, err := f.store.Get(ctx, bookings[1].ID)
		require.NoError(t, err)
		assert.Equal(t, "Vikram Shah", got.CustomerName)
		assert.Equal(t, "3BHK", got.PropertyType)
		assert.True(t, got.Amount.Equal(decimal.NewFromInt(5800000)))
		assert.True(t, got.TaxGST.Equal(decimal.NewFromInt(290000)))
		assert.True(t, got.Timeline.Valid)
		assert.Equal(t, bookings[1].CreatedAt, got.CreatedAt.UTC())
	})

	t.Run("missing booking", func(t *testing.T) {
		_, err := f.store.Get(ctx, 999)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestBookingStore_UpdateDelete(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	bookings := seed(t, f)

	b := bookings[0]
	b.Status = "cancelled"
	b.Amount = decimal.RequireFromString("4750000.50")
	b.UpdatedAt = b.UpdatedAt.Add(time.Hour)
	require.NoError(t, f.store.Update(ctx, b))

	got, err := f.store.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", got.Status)
	assert.Equal(t, "4750000.5", got.Amount.String())

	require.NoError(t, f.store.Delete(ctx, b.ID))
	_, err = f.store.Get(ctx, b.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, f.store.Delete(ctx, b.ID), store.ErrNotFound)
	assert.ErrorIs(t, f.store.Update(ctx, &store.Booking{ID: 404}), store.ErrNotFound)
}

func TestBookingStore_List(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	seed(t, f)

	tests := []struct {
		name      string
		query     store.BookingQuery
		wantNames []string
		wantTotal int
	}{
		{
			name:      "default order is newest first",
			query:     store.BookingQuery{},
			wantNames: []string{"Meera Iyer", "Vikram Shah", "Asha Rao"},
			wantTotal: 3,
		},
		{
			name:      "search spans columns",
			query:     store.BookingQuery{Filter: store.BookingFilter{Search: "skyline"}},
			wantNames: []string{"Meera Iyer", "Asha Rao"},
			wantTotal: 2,
		},
		{
			name:      "status filter",
			query:     store.BookingQuery{Filter: store.BookingFilter{Statuses: []string{"complete"}}},
			wantNames: []string{"Vikram Shah"},
			wantTotal: 1,
		},
		{
			name: "sorted by amount ascending and paged",
			query: store.BookingQuery{
				SortBy:    "amount",
				SortOrder: store.SortAsc,
				Limit:     2,
				Offset:    0,
			},
			wantNames: []string{"Meera Iyer", "Asha Rao"},
			wantTotal: 3,
		},
		{
			name: "second page",
			query: store.BookingQuery{
				SortBy:    "amount",
				SortOrder: store.SortAsc,
				Limit:     2,
				Offset:    2,
			},
			wantNames: []string{"Vikram Shah"},
			wantTotal: 3,
		},
		{
			name:      "unknown sort column falls back",
			query:     store.BookingQuery{SortBy: "id; DROP TABLE bookings", SortOrder: store.SortAsc},
			wantNames: []string{"Meera Iyer", "Vikram Shah", "Asha Rao"},
			wantTotal: 3,
		},
		{
			name: "created range",
			query: store.BookingQuery{Filter: store.BookingFilter{
				CreatedFrom: timePtr(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)),
				CreatedTo:   timePtr(time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)),
			}},
			wantNames: []string{"Vikram Shah"},
			wantTotal: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := f.store.List(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, page.Total)

			names := make([]string, 0, len(page.Items))
			for _, b := range page.Items {
				names = append(names, b.CustomerName)
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestBookingStore_List_SearchIsLiteral(t *testing.T) {
	// Given
	f := setupFixture(t)
	ctx := context.Background()
	seed(t, f)
	created := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, f.store.Create(ctx, newBooking("Lake_View Holdings", "Lake_View", "2BHK", "active", 4000000, created)))
	require.NoError(t, f.store.Create(ctx, newBooking("Nair 100% Realty", "Harbour", "Villa", "active", 9000000, created)))

	tests := []struct {
		name      string
		filter    store.BookingFilter
		wantNames []string
	}{
		{
			name:      "underscore",
			filter:    store.BookingFilter{Search: "_"},
			wantNames: []string{"Lake_View Holdings"},
		},
		{
			name:      "percent",
			filter:    store.BookingFilter{Search: "%"},
			wantNames: []string{"Nair 100% Realty"},
		},
		{
			name:      "backslash",
			filter:    store.BookingFilter{Search: `\`},
			wantNames: []string{},
		},
		{
			name:      "project column",
			filter:    store.BookingFilter{ProjectName: "e_v"},
			wantNames: []string{"Lake_View Holdings"},
		},
		{
			name:      "customer column",
			filter:    store.BookingFilter{CustomerName: "0%"},
			wantNames: []string{"Nair 100% Realty"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// When
			page, err := f.store.List(ctx, store.BookingQuery{Filter: tt.filter})

			// Then
			require.NoError(t, err)
			names := make([]string, 0, len(page.Items))
			for _, b := range page.Items {
				names = append(names, b.CustomerName)
			}
			assert.Equal(t, tt.wantNames, names)
			assert.Equal(t, len(tt.wantNames), page.Total)
		})
	}
}

func TestBookingStore_Stats(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	stats, err := f.store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
	assert.True(t, stats.TotalRevenue.IsZero())

	seed(t, f)
	stats, err = f.store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Active)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.Cancelled)
	assert.True(t, stats.TotalRevenue.Equal(decimal.NewFromInt(10600000)))
}

func TestBookingStore_Range(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	seed(t, f)

	all, err := f.store.Range(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Asha Rao", all[0].CustomerName)

	from := time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC)
	tail, err := f.store.Range(ctx, &from, nil)
	require.NoError(t, err)
	assert.Len(t, tail, 2)
}

func TestBookingStore_Transaction(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	err := duckdb.InTransaction(ctx, f.db, func(ctx context.Context) error {
		b := newBooking("Asha Rao", "Skyline Towers", "2BHK", "active", 4800000, time.Now().UTC())
		if err := f.store.Create(ctx, b); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	page, err := f.store.List(ctx, store.BookingQuery{})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
}

func timePtr(t time.Time) *time.Time { return &t }

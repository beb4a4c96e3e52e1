package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/de-tools/booking-atlas/pkg/adapters"
	"github.com/de-tools/booking-atlas/pkg/models/domain"
	"github.com/de-tools/booking-atlas/pkg/models/store"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	DefaultPerPage = 50
	MaxPerPage     = 100
	SearchLimit    = 50
	DefaultSortBy  = "created_at"
)

// Store is the persistence the service needs. The DuckDB booking store satisfies it.
type Store interface {
	Create(ctx context.Context, b *store.Booking) error
	Get(ctx context.Context, id int64) (*store.Booking, error)
	Update(ctx context.Context, b *store.Booking) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, q store.BookingQuery) (*store.BookingPage, error)
	Stats(ctx context.Context) (*store.BookingStats, error)
}

type ListQuery struct {
	Page         int
	PerPage      int
	Search       string
	ProjectName  string
	CustomerName string
	PropertyType string
	Statuses     []domain.BookingStatus
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	SortBy       string
	SortOrder    string
}

// Normalize clamps paging and falls back to the default ordering.
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = DefaultPerPage
	}
	if q.PerPage > MaxPerPage {
		q.PerPage = MaxPerPage
	}
	if _, ok := store.BookingSortColumns[q.SortBy]; !ok {
		q.SortBy = DefaultSortBy
	}
	if strings.ToLower(q.SortOrder) == string(store.SortAsc) {
		q.SortOrder = string(store.SortAsc)
	} else {
		q.SortOrder = string(store.SortDesc)
	}
	return q
}

type Page struct {
	Bookings []domain.Booking
	Page     int
	PerPage  int
	Total    int
	Pages    int
	HasNext  bool
	HasPrev  bool
}

type Service struct {
	store Store
	now   func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(st Store, opts ...Option) *Service {
	s := &Service{store: st, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) List(ctx context.Context, q ListQuery) (*Page, error) {
	q = q.Normalize()

	statuses := make([]string, 0, len(q.Statuses))
	for _, st := range q.Statuses {
		statuses = append(statuses, string(st))
	}
	result, err := s.store.List(ctx, store.BookingQuery{
		Filter: store.BookingFilter{
			Search:       q.Search,
			Statuses:     statuses,
			ProjectName:  q.ProjectName,
			CustomerName: q.CustomerName,
			PropertyType: q.PropertyType,
			CreatedFrom:  q.CreatedFrom,
			CreatedTo:    q.CreatedTo,
		},
		SortBy:    q.SortBy,
		SortOrder: store.SortOrder(q.SortOrder),
		Limit:     q.PerPage,
		Offset:    (q.Page - 1) * q.PerPage,
	})
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	pages := int(math.Ceil(float64(result.Total) / float64(q.PerPage)))
	return &Page{
		Bookings: adapters.MapStoreBookingsToDomain(result.Items),
		Page:     q.Page,
		PerPage:  q.PerPage,
		Total:    result.Total,
		Pages:    pages,
		HasNext:  q.Page < pages,
		HasPrev:  q.Page > 1,
	}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Booking, error) {
	record, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, mapStoreError(id, err)
	}
	b := adapters.MapStoreBookingToDomain(*record)
	return &b, nil
}

// Create validates c and stores a new booking owned by the caller.
func (s *Service) Create(ctx context.Context, caller domain.Principal, c domain.BookingChanges) (*domain.Booking, error) {
	if missing := missingFields(c); len(missing) > 0 {
		return nil, &ValidationError{Details: []string{"missing required fields: " + strings.Join(missing, ", ")}}
	}

	now := s.now().UTC()
	b := domain.Booking{
		InvoiceStatus: domain.DefaultInvoiceStatus,
		LoanRequired:  domain.LoanNotRequired,
		Status:        domain.BookingStatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
		CreatedBy:     caller.UserID,
	}
	apply(&b, c)
	if err := s.check(b, c); err != nil {
		return nil, err
	}

	record := adapters.MapDomainBookingToStore(b)
	if err := s.store.Create(ctx, &record); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	b.ID = record.ID

	zerolog.Ctx(ctx).Info().
		Int64("booking_id", b.ID).
		Str("user", caller.Username).
		Msg("booking created")
	return &b, nil
}

// Update applies the supplied fields of c to booking id.
func (s *Service) Update(ctx context.Context, caller domain.Principal, id int64, c domain.BookingChanges) (*domain.Booking, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	apply(b, c)
	if err := s.check(*b, c); err != nil {
		return nil, err
	}
	b.UpdatedAt = s.now().UTC()

	record := adapters.MapDomainBookingToStore(*b)
	if err := s.store.Update(ctx, &record); err != nil {
		return nil, mapStoreError(id, err)
	}

	zerolog.Ctx(ctx).Info().
		Int64("booking_id", id).
		Str("user", caller.Username).
		Msg("booking updated")
	return b, nil
}

// Cancel marks the booking cancelled. The row is kept.
func (s *Service) Cancel(ctx context.Context, caller domain.Principal, id int64) (*domain.Booking, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Cancelled() {
		return nil, ErrAlreadyCancelled
	}

	b.Status = domain.BookingStatusCancelled
	b.UpdatedAt = s.now().UTC()
	record := adapters.MapDomainBookingToStore(*b)
	if err := s.store.Update(ctx, &record); err != nil {
		return nil, mapStoreError(id, err)
	}

	zerolog.Ctx(ctx).Info().
		Int64("booking_id", id).
		Str("user", caller.Username).
		Msg("booking cancelled")
	return b, nil
}

// HardDelete removes the booking and returns it as it was.
func (s *Service) HardDelete(ctx context.Context, caller domain.Principal, id int64) (*domain.Booking, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return nil, mapStoreError(id, err)
	}

	zerolog.Ctx(ctx).Warn().
		Int64("booking_id", id).
		Str("user", caller.Username).
		Msg("booking permanently deleted")
	return b, nil
}

// Search matches q against the text fields and returns the newest matches.
func (s *Service) Search(ctx context.Context, q string) ([]domain.Booking, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, ErrEmptySearch
	}
	result, err := s.store.List(ctx, store.BookingQuery{
		Filter:    store.BookingFilter{Search: q},
		SortBy:    DefaultSortBy,
		SortOrder: store.SortDesc,
		Limit:     SearchLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("search bookings: %w", err)
	}
	return adapters.MapStoreBookingsToDomain(result.Items), nil
}

func (s *Service) Stats(ctx context.Context) (*domain.BookingStats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("booking stats: %w", err)
	}
	out := adapters.MapStoreStatsToDomain(*stats)
	return &out, nil
}

func (s *Service) check(b domain.Booking, c domain.BookingChanges) error {
	details := validateBooking(b)
	// Only a newly supplied timeline has to lie ahead; stored ones may have passed.
	if c.Timeline != nil {
		today := s.now().UTC().Truncate(24 * time.Hour)
		if c.Timeline.Before(today) {
			details = append(details, "timeline cannot be in the past")
		}
	}
	if len(details) > 0 {
		return &ValidationError{Details: details}
	}
	return nil
}

func apply(b *domain.Booking, c domain.BookingChanges) {
	setString(&b.CustomerName, c.CustomerName)
	setString(&b.ContactNumber, c.ContactNumber)
	setString(&b.ProjectName, c.ProjectName)
	setString(&b.PropertyType, c.PropertyType)
	setString(&b.InvoiceStatus, c.InvoiceStatus)
	if c.Area != nil {
		b.Area = *c.Area
	}
	setMoney(&b.AgreementCost, c.AgreementCost)
	setMoney(&b.Amount, c.Amount)
	setMoney(&b.TaxGST, c.TaxGST)
	setMoney(&b.RefundBuyer, c.RefundBuyer)
	setMoney(&b.RefundReferral, c.RefundReferral)
	setMoney(&b.TrustFund, c.TrustFund)
	setMoney(&b.TrustFunded, c.TrustFunded)
	if c.Timeline != nil {
		b.Timeline = c.Timeline.UTC()
	}
	if c.LoanRequired != nil {
		b.LoanRequired = domain.LoanRequirement(strings.ToLower(strings.TrimSpace(*c.LoanRequired)))
	}
	if c.Status != nil {
		b.Status = domain.BookingStatus(strings.ToLower(strings.TrimSpace(*c.Status)))
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func setMoney(dst *decimal.Decimal, v *decimal.Decimal) {
	if v != nil {
		*dst = v.Round(2)
	}
}

func mapStoreError(id int64, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("booking %d: %w", id, ErrNotFound)
	}
	return fmt.Errorf("booking %d: %w", id, err)
}

package source

import (
	"context"
	"io"
	"time"

	"github.com/de-tools/booking-atlas/pkg/adapters"
	"github.com/de-tools/booking-atlas/pkg/models/domain"
	"github.com/de-tools/booking-atlas/pkg/models/store"
)

// RangeReader is implemented by the embedded booking store and the warehouse reader.
type RangeReader interface {
	Range(ctx context.Context, from, to *time.Time) ([]store.Booking, error)
}

type readerSource struct {
	reader RangeReader
	closer io.Closer
}

// NewSource adapts a RangeReader to analytics. closer may be nil when the
// caller keeps ownership of the connection.
func NewSource(reader RangeReader, closer io.Closer) Source {
	return &readerSource{reader: reader, closer: closer}
}

func (s *readerSource) Bookings(ctx context.Context, r domain.DateRange) ([]domain.Booking, error) {
	records, err := s.reader.Range(ctx, r.Start, r.End)
	if err != nil {
		return nil, err
	}
	return adapters.MapStoreBookingsToDomain(records), nil
}

func (s *readerSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

package sql

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/booking-atlas/pkg/models/store"
	"github.com/rs/zerolog"
)

// Dialect captures the driver differences the booking reader cares about.
type Dialect struct {
	Name        string
	Placeholder func(n int) string
}

var (
	// Postgres numbers its bind parameters.
	Postgres = Dialect{Name: "postgres", Placeholder: func(n int) string { return "$" + strconv.Itoa(n) }}
	// Snowflake, Databricks and DuckDB bind with question marks.
	Positional = Dialect{Name: "positional", Placeholder: func(int) string { return "?" }}
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*){0,2}$`)

// BookingReader reads bookings from a warehouse table that follows the bookings schema.
type BookingReader interface {
	Range(ctx context.Context, from, to *time.Time) ([]store.Booking, error)
}

type bookingReader struct {
	db      *sql.DB
	table   string
	dialect Dialect
}

func NewBookingReader(db *sql.DB, table string, dialect Dialect) (BookingReader, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	if dialect.Placeholder == nil {
		dialect = Positional
	}
	return &bookingReader{db: db, table: table, dialect: dialect}, nil
}

// Range pushes the creation window down to the warehouse. Every other
// criterion is evaluated in memory by the caller.
func (r *bookingReader) Range(ctx context.Context, from, to *time.Time) ([]store.Booking, error) {
	logger := zerolog.Ctx(ctx)

	var (
		clauses []string
		args    []any
	)
	if from != nil {
		args = append(args, *from)
		clauses = append(clauses, "created_at >= "+r.dialect.Placeholder(len(args)))
	}
	if to != nil {
		args = append(args, *to)
		clauses = append(clauses, "created_at <= "+r.dialect.Placeholder(len(args)))
	}

	query := fmt.Sprintf(`
		SELECT
			id, customer_name, contact_number, project_name, type, area,
			agreement_cost, amount, tax_gst, refund_buyer, refund_referral,
			trust_fund, trust_funded, invoice_status, timeline, loan_req,
			status, created_at, updated_at, created_by
		FROM %s`, r.table)
	if len(clauses) > 0 {
		query += "\n\t\tWHERE " + strings.Join(clauses, " AND ")
	}
	query += "\n\t\tORDER BY created_at ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s booking query failed: %w", r.dialect.Name, err)
	}
	defer func(rows *sql.Rows) {
		err := rows.Close()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to close booking query rows")
		}
	}(rows)

	records := make([]store.Booking, 0)
	for rows.Next() {
		var b store.Booking
		if err := rows.Scan(
			&b.ID,
			&b.CustomerName,
			&b.ContactNumber,
			&b.ProjectName,
			&b.PropertyType,
			&b.Area,
			&b.AgreementCost,
			&b.Amount,
			&b.TaxGST,
			&b.RefundBuyer,
			&b.RefundReferral,
			&b.TrustFund,
			&b.TrustFunded,
			&b.InvoiceStatus,
			&b.Timeline,
			&b.LoanRequired,
			&b.Status,
			&b.CreatedAt,
			&b.UpdatedAt,
			&b.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		records = append(records, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	logger.Debug().
		Str("table", r.table).
		Int("records", len(records)).
		Msg("retrieved warehouse bookings")
	return records, nil
}

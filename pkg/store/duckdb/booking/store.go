package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/booking-atlas/pkg/models/store"
	"github.com/de-tools/booking-atlas/pkg/store/duckdb"
	"github.com/rs/zerolog"
)

// Store persists bookings in DuckDB.
type Store interface {
	Create(ctx context.Context, b *store.Booking) error
	Get(ctx context.Context, id int64) (*store.Booking, error)
	Update(ctx context.Context, b *store.Booking) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, q store.BookingQuery) (*store.BookingPage, error)
	Stats(ctx context.Context) (*store.BookingStats, error)
	// Range returns the bookings created inside [from, to], oldest first. Nil bounds are open.
	Range(ctx context.Context, from, to *time.Time) ([]store.Booking, error)
}

const columns = `
	id, customer_name, contact_number, project_name, type, area,
	CAST(agreement_cost AS VARCHAR), CAST(amount AS VARCHAR), CAST(tax_gst AS VARCHAR),
	CAST(refund_buyer AS VARCHAR), CAST(refund_referral AS VARCHAR),
	CAST(trust_fund AS VARCHAR), CAST(trust_funded AS VARCHAR),
	invoice_status, timeline, loan_req, status, created_at, updated_at, created_by`

type defaultStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &defaultStore{db: db}, nil
}

func (s *defaultStore) Create(ctx context.Context, b *store.Booking) error {
	query := `
		INSERT INTO bookings (
			customer_name, contact_number, project_name, type, area,
			agreement_cost, amount, tax_gst, refund_buyer, refund_referral,
			trust_fund, trust_funded, invoice_status, timeline, loan_req,
			status, created_at, updated_at, created_by
		) VALUES (
			?, ?, ?, ?, ?,
			CAST(? AS DECIMAL(15, 2)), CAST(? AS DECIMAL(15, 2)), CAST(? AS DECIMAL(15, 2)),
			CAST(? AS DECIMAL(15, 2)), CAST(? AS DECIMAL(15, 2)),
			CAST(? AS DECIMAL(15, 2)), CAST(? AS DECIMAL(15, 2)),
			?, ?, ?, ?, ?, ?, ?
		)
		RETURNING id`

	err := duckdb.Conn(ctx, s.db).QueryRowContext(ctx, query,
		b.CustomerName,
		b.ContactNumber,
		b.ProjectName,
		b.PropertyType,
		b.Area,
		b.AgreementCost.String(),
		b.Amount.String(),
		b.TaxGST.String(),
		b.RefundBuyer.String(),
		b.RefundReferral.String(),
		b.TrustFund.String(),
		b.TrustFunded.String(),
		b.InvoiceStatus,
		nullTime(b.Timeline),
		b.LoanRequired,
		b.Status,
		b.CreatedAt,
		b.UpdatedAt,
		b.CreatedBy,
	).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (s *defaultStore) Get(ctx context.Context, id int64) (*store.Booking, error) {
	row := duckdb.Conn(ctx, s.db).QueryRowContext(ctx, `SELECT `+columns+` FROM bookings WHERE id = ?`, id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("booking %d: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

func (s *defaultStore) Update(ctx context.Context, b *store.Booking) error {
	query := `
		UPDATE bookings SET
			customer_name = ?, contact_number = ?, project_name = ?, type = ?, area = ?,
			agreement_cost = CAST(? AS DECIMAL(15, 2)), amount = CAST(? AS DECIMAL(15, 2)),
			tax_gst = CAST(? AS DECIMAL(15, 2)), refund_buyer = CAST(? AS DECIMAL(15, 2)),
			refund_referral = CAST(? AS DECIMAL(15, 2)), trust_fund = CAST(? AS DECIMAL(15, 2)),
			trust_funded = CAST(? AS DECIMAL(15, 2)),
			invoice_status = ?, timeline = ?, loan_req = ?, status = ?, updated_at = ?
		WHERE id = ?`

	res, err := duckdb.Conn(ctx, s.db).ExecContext(ctx, query,
		b.CustomerName,
		b.ContactNumber,
		b.ProjectName,
		b.PropertyType,
		b.Area,
		b.AgreementCost.String(),
		b.Amount.String(),
		b.TaxGST.String(),
		b.RefundBuyer.String(),
		b.RefundReferral.String(),
		b.TrustFund.String(),
		b.TrustFunded.String(),
		b.InvoiceStatus,
		nullTime(b.Timeline),
		b.LoanRequired,
		b.Status,
		b.UpdatedAt,
		b.ID,
	)
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	return expectOne(res, b.ID)
}

func (s *defaultStore) Delete(ctx context.Context, id int64) error {
	res, err := duckdb.Conn(ctx, s.db).ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	return expectOne(res, id)
}

func (s *defaultStore) List(ctx context.Context, q store.BookingQuery) (*store.BookingPage, error) {
	where, args := buildWhere(q.Filter)
	conn := duckdb.Conn(ctx, s.db)

	var total int
	if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	query := `SELECT ` + columns + ` FROM bookings` + where + orderBy(q.SortBy, q.SortOrder)
	pageArgs := append([]any{}, args...)
	if q.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		pageArgs = append(pageArgs, q.Limit, q.Offset)
	}

	rows, err := conn.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer closeRows(ctx, rows)

	items, err := scanBookings(rows)
	if err != nil {
		return nil, err
	}
	return &store.BookingPage{Items: items, Total: total}, nil
}

func (s *defaultStore) Stats(ctx context.Context) (*store.BookingStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'active'),
			COUNT(*) FILTER (WHERE status = 'complete'),
			COUNT(*) FILTER (WHERE status = 'cancelled'),
			CAST(COALESCE(SUM(amount) FILTER (WHERE status IN ('active', 'complete')), 0) AS VARCHAR)
		FROM bookings`

	var stats store.BookingStats
	err := duckdb.Conn(ctx, s.db).QueryRowContext(ctx, query).Scan(
		&stats.Total,
		&stats.Active,
		&stats.Completed,
		&stats.Cancelled,
		&stats.TotalRevenue,
	)
	if err != nil {
		return nil, fmt.Errorf("booking stats: %w", err)
	}
	return &stats, nil
}

func (s *defaultStore) Range(ctx context.Context, from, to *time.Time) ([]store.Booking, error) {
	where, args := buildWhere(store.BookingFilter{CreatedFrom: from, CreatedTo: to})
	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx,
		`SELECT `+columns+` FROM bookings`+where+` ORDER BY created_at ASC, id ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer closeRows(ctx, rows)
	return scanBookings(rows)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern matches value literally anywhere in a column.
func containsPattern(value string) string {
	return "%" + likeEscaper.Replace(value) + "%"
}

func buildWhere(f store.BookingFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if f.Search != "" {
		pattern := containsPattern(f.Search)
		clauses = append(clauses, `(customer_name ILIKE ? ESCAPE '\' OR project_name ILIKE ? ESCAPE '\' OR `+
			`contact_number ILIKE ? ESCAPE '\' OR type ILIKE ? ESCAPE '\' OR invoice_status ILIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern, pattern, pattern)
	}
	if len(f.Statuses) > 0 {
		placeholders := make([]string, len(f.Statuses))
		for i, st := range f.Statuses {
			placeholders[i] = "?"
			args = append(args, st)
		}
		clauses = append(clauses, fmt.Sprintf(`status IN (%s)`, strings.Join(placeholders, ", ")))
	}
	for _, like := range []struct {
		column, value string
	}{
		{"project_name", f.ProjectName},
		{"customer_name", f.CustomerName},
		{"type", f.PropertyType},
	} {
		if like.value != "" {
			clauses = append(clauses, like.column+` ILIKE ? ESCAPE '\'`)
			args = append(args, containsPattern(like.value))
		}
	}
	if f.MinAmount != nil {
		clauses = append(clauses, `amount >= CAST(? AS DECIMAL(15, 2))`)
		args = append(args, f.MinAmount.String())
	}
	if f.MaxAmount != nil {
		clauses = append(clauses, `amount <= CAST(? AS DECIMAL(15, 2))`)
		args = append(args, f.MaxAmount.String())
	}
	if f.MinArea != nil {
		clauses = append(clauses, `area >= ?`)
		args = append(args, *f.MinArea)
	}
	if f.MaxArea != nil {
		clauses = append(clauses, `area <= ?`)
		args = append(args, *f.MaxArea)
	}
	if f.CreatedFrom != nil {
		clauses = append(clauses, `created_at >= ?`)
		args = append(args, *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		clauses = append(clauses, `created_at <= ?`)
		args = append(args, *f.CreatedTo)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return ` WHERE ` + strings.Join(clauses, ` AND `), args
}

// orderBy falls back to newest first for columns outside store.BookingSortColumns.
func orderBy(column string, order store.SortOrder) string {
	if _, ok := store.BookingSortColumns[column]; !ok {
		return ` ORDER BY created_at DESC, id DESC`
	}
	dir := `DESC`
	if order == store.SortAsc {
		dir = `ASC`
	}
	return fmt.Sprintf(` ORDER BY %s %s, id %s`, column, dir, dir)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBooking(row scanner) (*store.Booking, error) {
	var b store.Booking
	err := row.Scan(
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
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func scanBookings(rows *sql.Rows) ([]store.Booking, error) {
	items := make([]store.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		items = append(items, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}
	return items, nil
}

func expectOne(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("booking %d: %w", id, store.ErrNotFound)
	}
	return nil
}

func nullTime(t sql.NullTime) any {
	if !t.Valid {
		return nil
	}
	return t.Time
}

func closeRows(ctx context.Context, rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to close booking rows")
	}
}

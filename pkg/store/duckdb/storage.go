package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/duckdb/duckdb-go/v2"
)

const UsersTableSchema = `
	CREATE TABLE IF NOT EXISTS users (
		id VARCHAR PRIMARY KEY,
		username VARCHAR NOT NULL UNIQUE,
		password_hash VARCHAR NOT NULL,
		role VARCHAR NOT NULL CHECK (role IN ('admin', 'sales_person')),
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`

const BookingsSequence = `CREATE SEQUENCE IF NOT EXISTS bookings_id_seq START 1;`

const BookingsTableSchema = `
	CREATE TABLE IF NOT EXISTS bookings (
		id BIGINT PRIMARY KEY DEFAULT nextval('bookings_id_seq'),
		customer_name VARCHAR NOT NULL,
		contact_number VARCHAR NOT NULL,
		project_name VARCHAR NOT NULL,
		type VARCHAR NOT NULL,
		area DOUBLE NOT NULL CHECK (area > 0),
		agreement_cost DECIMAL(15, 2) NOT NULL CHECK (agreement_cost >= 0),
		amount DECIMAL(15, 2) NOT NULL CHECK (amount >= 0),
		tax_gst DECIMAL(15, 2) NOT NULL DEFAULT 0 CHECK (tax_gst >= 0),
		refund_buyer DECIMAL(15, 2) NOT NULL DEFAULT 0 CHECK (refund_buyer >= 0),
		refund_referral DECIMAL(15, 2) NOT NULL DEFAULT 0 CHECK (refund_referral >= 0),
		trust_fund DECIMAL(15, 2) NOT NULL DEFAULT 0 CHECK (trust_fund >= 0),
		trust_funded DECIMAL(15, 2) NOT NULL DEFAULT 0 CHECK (trust_funded >= 0),
		invoice_status VARCHAR NOT NULL DEFAULT 'pending',
		timeline TIMESTAMP,
		loan_req VARCHAR NOT NULL DEFAULT 'no' CHECK (loan_req IN ('yes', 'no')),
		status VARCHAR NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'complete', 'cancelled')),
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		created_by VARCHAR NOT NULL
	);
`

const BookingsCreatedAtIndex = `CREATE INDEX IF NOT EXISTS bookings_created_at_idx ON bookings (created_at);`

var bootQueries = []string{
	UsersTableSchema,
	BookingsSequence,
	BookingsTableSchema,
	BookingsCreatedAtIndex,
}

type Settings struct {
	DbPath  string
	Threads int
}

func NewDB(settings Settings) (*sql.DB, error) {
	threads := settings.Threads
	if threads <= 0 {
		threads = 4
	}
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=%d", settings.DbPath, threads), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return fmt.Errorf("boot query: %w", err)
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return sql.OpenDB(c), nil
}

package source

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	"github.com/de-tools/booking-atlas/pkg/models/domain"
	"github.com/de-tools/booking-atlas/pkg/store/duckdb"
	"github.com/de-tools/booking-atlas/pkg/store/duckdb/booking"
	sqlstore "github.com/de-tools/booking-atlas/pkg/store/sql"
	_ "github.com/databricks/databricks-sql-go"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	sf "github.com/snowflakedb/gosnowflake"
)

const defaultTable = "bookings"

// DuckDBFactory opens a DuckDB file holding the bookings schema.
// Settings: path (defaults to booking-atlas.db).
func DuckDBFactory(_ context.Context, profile domain.SourceProfile) (Source, error) {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: profile.Setting("path", "booking-atlas.db")})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB instance: %w", err)
	}
	store, err := booking.NewStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return NewSource(store, db), nil
}

// PostgresFactory reads bookings through lib/pq. Settings: dsn, table.
func PostgresFactory(ctx context.Context, profile domain.SourceProfile) (Source, error) {
	dsn := profile.Setting("dsn", "")
	if dsn == "" {
		return nil, fmt.Errorf("postgres profile %s: dsn is required", profile.Name)
	}
	return openWarehouse(ctx, profile, "postgres", dsn, sqlstore.Postgres)
}

// SnowflakeFactory reads bookings through gosnowflake. Settings: account,
// user, password, database, schema, warehouse, role, table.
func SnowflakeFactory(ctx context.Context, profile domain.SourceProfile) (Source, error) {
	dsn, err := SnowflakeDSN(profile)
	if err != nil {
		return nil, err
	}
	return openWarehouse(ctx, profile, "snowflake", dsn, sqlstore.Positional)
}

// DatabricksFactory reads bookings from a Databricks SQL warehouse.
// Settings: host, token, http_path, catalog, schema, table.
func DatabricksFactory(ctx context.Context, profile domain.SourceProfile) (Source, error) {
	dsn, err := DatabricksDSN(profile)
	if err != nil {
		return nil, err
	}
	return openWarehouse(ctx, profile, "databricks", dsn, sqlstore.Positional)
}

func SnowflakeDSN(profile domain.SourceProfile) (string, error) {
	cfg := &sf.Config{
		Account:   profile.Setting("account", ""),
		User:      profile.Setting("user", ""),
		Password:  profile.Setting("password", ""),
		Database:  profile.Setting("database", ""),
		Schema:    profile.Setting("schema", ""),
		Warehouse: profile.Setting("warehouse", ""),
		Role:      profile.Setting("role", ""),
	}
	if cfg.Account == "" || cfg.User == "" || cfg.Password == "" {
		return "", fmt.Errorf("snowflake profile %s: account, user and password are required", profile.Name)
	}
	dsn, err := sf.DSN(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to create DSN: %w", err)
	}
	return dsn, nil
}

func DatabricksDSN(profile domain.SourceProfile) (string, error) {
	host := profile.Setting("host", "")
	token := profile.Setting("token", "")
	httpPath := profile.Setting("http_path", "")
	if host == "" || token == "" || httpPath == "" {
		return "", fmt.Errorf("databricks profile %s: host, token and http_path are required", profile.Name)
	}

	dsn := fmt.Sprintf("token:%s@%s%s", token, host, httpPath)

	params := url.Values{}
	if catalog := profile.Setting("catalog", ""); catalog != "" {
		params.Set("catalog", catalog)
	}
	if schema := profile.Setting("schema", ""); schema != "" {
		params.Set("schema", schema)
	}
	if qp := params.Encode(); qp != "" {
		dsn = dsn + "?" + qp
	}
	return dsn, nil
}

func openWarehouse(
	ctx context.Context,
	profile domain.SourceProfile,
	driver, dsn string,
	dialect sqlstore.Dialect,
) (Source, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach %s: %w", driver, err)
	}

	reader, err := sqlstore.NewBookingReader(db, profile.Setting("table", defaultTable), dialect)
	if err != nil {
		db.Close()
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("profile", profile.Name).
		Str("driver", driver).
		Msg("connected to booking warehouse")
	return NewSource(reader, db), nil
}

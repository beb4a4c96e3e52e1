package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/de-tools/booking-atlas/pkg/models/store"
	"github.com/de-tools/booking-atlas/pkg/store/duckdb"
)

type Store interface {
	Create(ctx context.Context, u *store.User) error
	GetByUsername(ctx context.Context, username string) (*store.User, error)
	List(ctx context.Context) ([]store.User, error)
}

type defaultStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &defaultStore{db: db}, nil
}

// Create inserts u, or refreshes the password hash and role of an existing username.
func (s *defaultStore) Create(ctx context.Context, u *store.User) error {
	query := `
		INSERT INTO users (id, username, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (username) DO UPDATE SET
			password_hash = excluded.password_hash,
			role = excluded.role
		RETURNING id`

	var id string
	err := duckdb.Conn(ctx, s.db).QueryRowContext(ctx, query,
		u.ID.String(), u.Username, u.PasswordHash, u.Role, u.CreatedAt,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return u.ID.Scan(id)
}

func (s *defaultStore) GetByUsername(ctx context.Context, username string) (*store.User, error) {
	var u store.User
	err := duckdb.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT id, username, password_hash, role, created_at FROM users WHERE username = ?`, username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", username, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (s *defaultStore) List(ctx context.Context) ([]store.User, error) {
	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx,
		`SELECT id, username, password_hash, role, created_at FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]store.User, 0)
	for rows.Next() {
		var u store.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Package postgres provides PostgreSQL-backed access to the employee
// directory projection.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/kintaihq/kintai/pkg/user"
)

// psq is the PostgreSQL statement builder with dollar placeholders.
var psq = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// userColumns lists columns returned by directory SELECT queries.
var userColumns = []string{"id", "email", "name", "role", "created_at"}

// Directory implements user.Directory using PostgreSQL.
type Directory struct {
	db *sql.DB
}

// New creates a new PostgreSQL directory.
func New(db *sql.DB) *Directory {
	return &Directory{db: db}
}

// Lookup returns the user with the given ID. Returns nil, nil if no such
// user exists.
func (d *Directory) Lookup(ctx context.Context, id string) (*user.User, error) {
	query, args, err := psq.Select(userColumns...).
		From("users").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building user query: %w", err)
	}

	var u user.User
	err = d.db.QueryRowContext(ctx, query, args...).
		Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // Directory interface specifies nil,nil for not-found
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return &u, nil
}

// List returns all users ordered by name.
func (d *Directory) List(ctx context.Context) ([]*user.User, error) {
	query, args, err := psq.Select(userColumns...).
		From("users").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building user list query: %w", err)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var users []*user.User
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user rows: %w", err)
	}
	return users, nil
}

// Verify interface compliance.
var _ user.Directory = (*Directory)(nil)

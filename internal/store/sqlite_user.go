package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"skincare/internal/model"
)

// SQLiteUsers stores users in an embedded sqlite database.
type SQLiteUsers struct {
	db *sql.DB
}

func NewSQLiteUsers(db *sql.DB) *SQLiteUsers {
	return &SQLiteUsers{db: db}
}

func (s *SQLiteUsers) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	row := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = ?)`,
		email,
	)
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("EmailExists: %w", err)
	}
	return exists, nil
}

func (s *SQLiteUsers) CreateUser(ctx context.Context, u *model.User) (*model.User, error) {
	u.CreatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
INSERT INTO users (name, email, password, created_at)
VALUES (?, ?, ?, ?)`,
		u.Name,
		u.Email,
		u.PasswordHash,
		u.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, fmt.Errorf("CreateUser: %w", ErrEmailTaken)
		}
		return nil, fmt.Errorf("CreateUser: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("CreateUser: last insert id: %w", err)
	}
	u.ID = int(id)
	return u, nil
}

func (s *SQLiteUsers) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, name, email, password, created_at
FROM users
WHERE email = ?`,
		email,
	)
	u := &model.User{}
	if err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("GetUserByEmail: %w", err)
	}
	return u, nil
}

// CountByEmail reports how many rows carry email; the unique constraint keeps it at 0 or 1.
func (s *SQLiteUsers) CountByEmail(ctx context.Context, email string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`, email).Scan(&n); err != nil {
		return 0, fmt.Errorf("CountByEmail: %w", err)
	}
	return n, nil
}

func (s *SQLiteUsers) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

package store

import (
	"context"
	"errors"
	"fmt"

	"skincare/internal/database"
	"skincare/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrEmailTaken is returned when an insert violates the unique constraint on users.email.
var ErrEmailTaken = errors.New("email already exists")

const pgUniqueViolation = "23505"

func EmailExists(ctx context.Context, db database.DB, email string) (bool, error) {
	var exists bool
	row := db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`,
		email,
	)
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("EmailExists: %w", err)
	}
	return exists, nil
}

func GetUserByEmail(ctx context.Context, db database.DB, email string) (*model.User, error) {
	row := db.QueryRow(ctx,
		`SELECT id, name, email, password, created_at
		 FROM users WHERE email = $1`,
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

func CreateUser(ctx context.Context, db database.DB, u *model.User) (*model.User, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO users (name, email, password)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		u.Name,
		u.Email,
		u.PasswordHash,
	)
	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, fmt.Errorf("CreateUser: %w", ErrEmailTaken)
		}
		return nil, fmt.Errorf("CreateUser: %w", err)
	}
	return u, nil
}

// PostgresUsers binds the package functions to one pool.
type PostgresUsers struct {
	DB database.DB
}

func NewPostgresUsers(db database.DB) *PostgresUsers {
	return &PostgresUsers{DB: db}
}

func (p *PostgresUsers) EmailExists(ctx context.Context, email string) (bool, error) {
	return EmailExists(ctx, p.DB, email)
}

func (p *PostgresUsers) CreateUser(ctx context.Context, u *model.User) (*model.User, error) {
	return CreateUser(ctx, p.DB, u)
}

func (p *PostgresUsers) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return GetUserByEmail(ctx, p.DB, email)
}

func (p *PostgresUsers) Ping(ctx context.Context) error {
	return p.DB.Ping(ctx)
}

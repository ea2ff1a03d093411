// Package repository provides persistence implementations for the
// authentication and to-do services.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/atinyakov/GophTodo/internal/models"
	"github.com/atinyakov/GophTodo/internal/service"
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// PostgresAuthRepository implements user persistence using a PostgreSQL database.
type PostgresAuthRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresAuthRepository creates a new PostgresAuthRepository with the given database connection.
func NewPostgresAuthRepository(db *sql.DB) *PostgresAuthRepository {
	return &PostgresAuthRepository{DB: db}
}

// UserExists checks whether a user with the specified email exists in the database.
func (r *PostgresAuthRepository) UserExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`,
		email,
	).Scan(&exists)
	return exists, err
}

// CreateUser inserts u and returns it with the generated ID.
// A duplicate email yields service.ErrUserExists.
func (r *PostgresAuthRepository) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	err := r.DB.QueryRowContext(
		ctx,
		`INSERT INTO users (email, password_hash, role) VALUES ($1, $2, $3) RETURNING id`,
		u.Email, u.PasswordHash, string(u.Role),
	).Scan(&u.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return models.User{}, service.ErrUserExists
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// GetUserByEmail fetches the user registered with email.
func (r *PostgresAuthRepository) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	row := r.DB.QueryRowContext(
		ctx,
		`SELECT id, email, password_hash, role FROM users WHERE email = $1`,
		email,
	)
	return scanUser(row)
}

// GetUserByID fetches the user with id.
func (r *PostgresAuthRepository) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	row := r.DB.QueryRowContext(
		ctx,
		`SELECT id, email, password_hash, role FROM users WHERE id = $1`,
		id,
	)
	return scanUser(row)
}

func scanUser(row *sql.Row) (models.User, error) {
	var (
		u    models.User
		role string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, service.ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("scan user: %w", err)
	}
	u.Role = models.UserRole(role)
	return u, nil
}

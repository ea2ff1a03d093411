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

// PostgresTodoRepository implements to-do persistence against a PostgreSQL database.
type PostgresTodoRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresTodoRepository creates a new PostgresTodoRepository using the provided *sql.DB.
func NewPostgresTodoRepository(db *sql.DB) *PostgresTodoRepository {
	return &PostgresTodoRepository{DB: db}
}

// ListTodos fetches all todos of userID ordered by ID.
func (r *PostgresTodoRepository) ListTodos(ctx context.Context, userID int64) ([]models.Todo, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, description, due_date, check_mark, completion_date
		FROM todos WHERE user_id = $1 ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("ListTodos: %w", err)
	}
	defer rows.Close()

	todos := []models.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListTodos: %w", err)
	}
	return todos, nil
}

// CreateTodo inserts t for userID and returns it with the generated ID.
func (r *PostgresTodoRepository) CreateTodo(ctx context.Context, userID int64, t models.Todo) (models.Todo, error) {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO todos (user_id, description, due_date, check_mark, completion_date)
		VALUES ($1, $2, $3, $4, $5) RETURNING id
	`, userID, t.Description, t.DueDate.Time, t.CheckMark, nullDate(t.CompletionDate)).Scan(&t.ID)
	if err != nil {
		return models.Todo{}, fmt.Errorf("CreateTodo: %w", err)
	}
	return t, nil
}

// GetTodo retrieves a single todo by ID for the given user.
func (r *PostgresTodoRepository) GetTodo(ctx context.Context, userID, id int64) (models.Todo, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, description, due_date, check_mark, completion_date
		FROM todos WHERE user_id = $1 AND id = $2
	`, userID, id)
	t, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Todo{}, service.ErrTodoNotFound
	}
	return t, err
}

// UpdateTodo overwrites the todo with t.ID if it belongs to userID.
func (r *PostgresTodoRepository) UpdateTodo(ctx context.Context, userID int64, t models.Todo) (models.Todo, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE todos
		SET description = $1, due_date = $2, check_mark = $3, completion_date = $4, updated_at = now()
		WHERE user_id = $5 AND id = $6
	`, t.Description, t.DueDate.Time, t.CheckMark, nullDate(t.CompletionDate), userID, t.ID)
	if err != nil {
		return models.Todo{}, fmt.Errorf("UpdateTodo: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.Todo{}, fmt.Errorf("UpdateTodo: %w", err)
	}
	if n == 0 {
		return models.Todo{}, service.ErrTodoNotFound
	}
	return t, nil
}

// DeleteTodos removes todos by their IDs for the specified user and reports
// how many rows were removed.
func (r *PostgresTodoRepository) DeleteTodos(ctx context.Context, userID int64, ids []int64) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM todos WHERE user_id = $1 AND id = ANY($2)`,
		userID, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("DeleteTodos: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTodo(s scanner) (models.Todo, error) {
	var (
		t         models.Todo
		due       sql.NullTime
		completed sql.NullTime
	)
	if err := s.Scan(&t.ID, &t.Description, &due, &t.CheckMark, &completed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Todo{}, err
		}
		return models.Todo{}, fmt.Errorf("scan: %w", err)
	}
	if due.Valid {
		t.DueDate = models.NewDate(due.Time)
	}
	if completed.Valid {
		t.CompletionDate = models.NewDate(completed.Time).Ptr()
	}
	return t, nil
}

func nullDate(d *models.Date) sql.NullTime {
	if d == nil || d.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: d.Time, Valid: true}
}

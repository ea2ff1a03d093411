// Package todo wraps the backend's to-do endpoints. Each call is exactly one
// request; nothing is retried or cached here.
package todo

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/atinyakov/GophTodo/internal/models"
)

// Caller-side validation errors.
var (
	ErrEmptyDescription = errors.New("description must not be empty")
	ErrMissingDueDate   = errors.New("due date must be set")
	ErrNoIDs            = errors.New("no ids to delete")
)

// Doer sends one JSON request to the backend.
type Doer interface {
	Do(ctx context.Context, method, path string, in, out any) error
}

// Service performs CRUD on to-do items.
type Service struct {
	client Doer
}

// NewService returns a Service using client.
func NewService(client Doer) *Service {
	return &Service{client: client}
}

// List returns the caller's todos in backend order.
func (s *Service) List(ctx context.Context) ([]models.Todo, error) {
	var out []models.Todo
	if err := s.client.Do(ctx, http.MethodGet, "/todos", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Todo{}
	}
	return out, nil
}

// Create submits t without an id and returns the stored item.
func (s *Service) Create(ctx context.Context, t models.Todo) (*models.Todo, error) {
	t.ID = 0
	var out models.Todo
	if err := s.client.Do(ctx, http.MethodPost, "/todo/create", t, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update sends the full item and returns the backend's version of it.
func (s *Service) Update(ctx context.Context, t models.Todo) (*models.Todo, error) {
	var out models.Todo
	if err := s.client.Do(ctx, http.MethodPut, "/todo/update", t, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes ids and returns the caller's remaining todos.
func (s *Service) Delete(ctx context.Context, ids []int64) ([]models.Todo, error) {
	if len(ids) == 0 {
		return nil, ErrNoIDs
	}
	var out []models.Todo
	if err := s.client.Do(ctx, http.MethodDelete, "/todo/delete", models.IDs{IDs: ids}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Todo{}
	}
	return out, nil
}

// Validate is the check the presentation layer runs before submitting t.
func Validate(t models.Todo) error {
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if t.DueDate.IsZero() {
		return ErrMissingDueDate
	}
	return nil
}

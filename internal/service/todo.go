package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atinyakov/GophTodo/internal/models"
)

var (
	// ErrTodoNotFound is returned when no todo with the ID belongs to the user.
	ErrTodoNotFound = errors.New("todo not found")
	// ErrInvalidTodo is returned for todos that fail validation.
	ErrInvalidTodo = errors.New("invalid todo")
)

// TodoRepository defines the persistence operations needed by the TodoService.
// Every method is scoped to the owning user.
type TodoRepository interface {
	// ListTodos returns all todos of userID ordered by ID.
	ListTodos(ctx context.Context, userID int64) ([]models.Todo, error)
	// CreateTodo stores t and returns it with its ID set.
	CreateTodo(ctx context.Context, userID int64, t models.Todo) (models.Todo, error)
	// GetTodo returns ErrTodoNotFound if id does not belong to userID.
	GetTodo(ctx context.Context, userID, id int64) (models.Todo, error)
	// UpdateTodo overwrites the stored todo with t.ID.
	// Returns ErrTodoNotFound if it does not belong to userID.
	UpdateTodo(ctx context.Context, userID int64, t models.Todo) (models.Todo, error)
	// DeleteTodos removes the listed todos and reports how many were removed.
	DeleteTodos(ctx context.Context, userID int64, ids []int64) (int64, error)
}

// TodoService implements the to-do business rules.
type TodoService struct {
	repo TodoRepository
	now  func() time.Time
}

// TodoOption configures a TodoService.
type TodoOption func(*TodoService)

// WithClock overrides the clock used to stamp completion dates.
func WithClock(now func() time.Time) TodoOption {
	return func(s *TodoService) { s.now = now }
}

// NewTodoService constructs a TodoService with the provided TodoRepository.
func NewTodoService(repo TodoRepository, opts ...TodoOption) *TodoService {
	s := &TodoService{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every todo of userID. The result is never nil.
func (s *TodoService) List(ctx context.Context, userID int64) ([]models.Todo, error) {
	todos, err := s.repo.ListTodos(ctx, userID)
	if err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []models.Todo{}
	}
	return todos, nil
}

// Create validates t, ignores any client-supplied ID and stores it.
func (s *TodoService) Create(ctx context.Context, userID int64, t models.Todo) (models.Todo, error) {
	t.ID = 0
	t.Description = strings.TrimSpace(t.Description)
	if err := validate(t); err != nil {
		return models.Todo{}, err
	}
	t.CompletionDate = nil
	if t.CheckMark {
		t.CompletionDate = s.today().Ptr()
	}
	return s.repo.CreateTodo(ctx, userID, t)
}

// Update overwrites an existing todo. CompletionDate is derived from CheckMark:
// it is set to today when the item becomes checked, kept while it stays
// checked and cleared when it is unchecked.
func (s *TodoService) Update(ctx context.Context, userID int64, t models.Todo) (models.Todo, error) {
	if t.ID == 0 {
		return models.Todo{}, fmt.Errorf("%w: missing id", ErrInvalidTodo)
	}
	t.Description = strings.TrimSpace(t.Description)
	if err := validate(t); err != nil {
		return models.Todo{}, err
	}

	current, err := s.repo.GetTodo(ctx, userID, t.ID)
	if err != nil {
		return models.Todo{}, err
	}
	switch {
	case !t.CheckMark:
		t.CompletionDate = nil
	case current.CheckMark && current.CompletionDate != nil:
		t.CompletionDate = current.CompletionDate
	default:
		t.CompletionDate = s.today().Ptr()
	}
	return s.repo.UpdateTodo(ctx, userID, t)
}

// Delete removes the listed todos and returns the user's remaining collection.
// Returns ErrTodoNotFound when none of ids matched.
func (s *TodoService) Delete(ctx context.Context, userID int64, ids []int64) ([]models.Todo, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no ids", ErrInvalidTodo)
	}
	n, err := s.repo.DeleteTodos(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrTodoNotFound
	}
	return s.List(ctx, userID)
}

func (s *TodoService) today() models.Date {
	return models.NewDate(s.now())
}

func validate(t models.Todo) error {
	if t.Description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidTodo)
	}
	if t.DueDate.IsZero() {
		return fmt.Errorf("%w: due date is required", ErrInvalidTodo)
	}
	return nil
}

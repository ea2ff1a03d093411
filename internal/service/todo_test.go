package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/GophTodo/internal/models"
	"github.com/atinyakov/GophTodo/internal/repository"
	"github.com/atinyakov/GophTodo/internal/service"
)

type mockTodoRepo struct {
	ListTodosFunc   func(ctx context.Context, userID int64) ([]models.Todo, error)
	CreateTodoFunc  func(ctx context.Context, userID int64, t models.Todo) (models.Todo, error)
	GetTodoFunc     func(ctx context.Context, userID, id int64) (models.Todo, error)
	UpdateTodoFunc  func(ctx context.Context, userID int64, t models.Todo) (models.Todo, error)
	DeleteTodosFunc func(ctx context.Context, userID int64, ids []int64) (int64, error)
}

func (m *mockTodoRepo) ListTodos(ctx context.Context, userID int64) ([]models.Todo, error) {
	return m.ListTodosFunc(ctx, userID)
}
func (m *mockTodoRepo) CreateTodo(ctx context.Context, userID int64, t models.Todo) (models.Todo, error) {
	return m.CreateTodoFunc(ctx, userID, t)
}
func (m *mockTodoRepo) GetTodo(ctx context.Context, userID, id int64) (models.Todo, error) {
	return m.GetTodoFunc(ctx, userID, id)
}
func (m *mockTodoRepo) UpdateTodo(ctx context.Context, userID int64, t models.Todo) (models.Todo, error) {
	return m.UpdateTodoFunc(ctx, userID, t)
}
func (m *mockTodoRepo) DeleteTodos(ctx context.Context, userID int64, ids []int64) (int64, error) {
	return m.DeleteTodosFunc(ctx, userID, ids)
}

var (
	today = time.Date(2024, 6, 10, 15, 4, 5, 0, time.UTC)
	due   = models.MustParseDate("2024-06-20")
)

func newTodoService() (*service.TodoService, *repository.MemoryRepository) {
	repo := repository.NewMemoryRepository()
	return service.NewTodoService(repo, service.WithClock(func() time.Time { return today })), repo
}

func TestTodoService_ListNeverNil(t *testing.T) {
	svc := service.NewTodoService(&mockTodoRepo{
		ListTodosFunc: func(context.Context, int64) ([]models.Todo, error) { return nil, nil },
	})
	todos, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, todos)
	assert.Empty(t, todos)
}

func TestTodoService_ListError(t *testing.T) {
	wantErr := errors.New("db down")
	svc := service.NewTodoService(&mockTodoRepo{
		ListTodosFunc: func(context.Context, int64) ([]models.Todo, error) { return nil, wantErr },
	})
	_, err := svc.List(context.Background(), 1)
	assert.Equal(t, wantErr, err)
}

func TestTodoService_Create(t *testing.T) {
	svc, _ := newTodoService()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, models.Todo{ID: 77, Description: "  Buy milk ", DueDate: due})
	require.NoError(t, err)
	assert.NotEqual(t, int64(77), created.ID, "client supplied id must be ignored")
	assert.Equal(t, "Buy milk", created.Description)
	assert.Nil(t, created.CompletionDate)

	checked, err := svc.Create(ctx, 1, models.Todo{Description: "Done already", DueDate: due, CheckMark: true})
	require.NoError(t, err)
	require.NotNil(t, checked.CompletionDate)
	assert.Equal(t, "2024-06-10", checked.CompletionDate.String())
}

func TestTodoService_CreateValidation(t *testing.T) {
	svc, _ := newTodoService()
	for name, todo := range map[string]models.Todo{
		"blank description": {Description: "   ", DueDate: due},
		"missing due date":  {Description: "Buy milk"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), 1, todo)
			assert.ErrorIs(t, err, service.ErrInvalidTodo)
		})
	}
}

func TestTodoService_UpdateCompletionDate(t *testing.T) {
	svc, repo := newTodoService()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, models.Todo{Description: "Buy milk", DueDate: due})
	require.NoError(t, err)

	created.CheckMark = true
	checked, err := svc.Update(ctx, 1, created)
	require.NoError(t, err)
	require.NotNil(t, checked.CompletionDate)
	assert.Equal(t, "2024-06-10", checked.CompletionDate.String())

	// stays checked: the original completion date is kept even if the client sends another
	later := service.NewTodoService(repo, service.WithClock(func() time.Time { return today.AddDate(0, 0, 3) }))
	checked.Description = "Buy oat milk"
	checked.CompletionDate = models.MustParseDate("2000-01-01").Ptr()
	kept, err := later.Update(ctx, 1, checked)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-10", kept.CompletionDate.String())
	assert.Equal(t, "Buy oat milk", kept.Description)

	kept.CheckMark = false
	unchecked, err := later.Update(ctx, 1, kept)
	require.NoError(t, err)
	assert.Nil(t, unchecked.CompletionDate)
}

func TestTodoService_UpdateErrors(t *testing.T) {
	svc, _ := newTodoService()
	ctx := context.Background()

	_, err := svc.Update(ctx, 1, models.Todo{Description: "x", DueDate: due})
	assert.ErrorIs(t, err, service.ErrInvalidTodo)

	other, err := svc.Create(ctx, 2, models.Todo{Description: "theirs", DueDate: due})
	require.NoError(t, err)
	_, err = svc.Update(ctx, 1, other)
	assert.ErrorIs(t, err, service.ErrTodoNotFound)
}

func TestTodoService_Delete(t *testing.T) {
	svc, _ := newTodoService()
	ctx := context.Background()

	a, err := svc.Create(ctx, 1, models.Todo{Description: "a", DueDate: due})
	require.NoError(t, err)
	b, err := svc.Create(ctx, 1, models.Todo{Description: "b", DueDate: due})
	require.NoError(t, err)

	remaining, err := svc.Delete(ctx, 1, []int64{a.ID})
	require.NoError(t, err)
	assert.Equal(t, []models.Todo{b}, remaining)

	_, err = svc.Delete(ctx, 1, []int64{a.ID})
	assert.ErrorIs(t, err, service.ErrTodoNotFound)

	_, err = svc.Delete(ctx, 1, nil)
	assert.ErrorIs(t, err, service.ErrInvalidTodo)
}

func TestTodoService_DeleteRepoError(t *testing.T) {
	wantErr := errors.New("delete failed")
	svc := service.NewTodoService(&mockTodoRepo{
		DeleteTodosFunc: func(context.Context, int64, []int64) (int64, error) { return 0, wantErr },
	})
	_, err := svc.Delete(context.Background(), 1, []int64{1})
	assert.Equal(t, wantErr, err)
}

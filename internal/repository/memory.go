package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/atinyakov/GophTodo/internal/models"
	"github.com/atinyakov/GophTodo/internal/service"
)

// MemoryRepository keeps users and todos in process memory. It satisfies both
// service.AuthRepository and service.TodoRepository and is used when the
// server runs without a database.
type MemoryRepository struct {
	mu         sync.RWMutex
	users      map[int64]models.User
	byEmail    map[string]int64
	todos      map[int64]todoRow
	nextUserID int64
	nextTodoID int64
}

type todoRow struct {
	userID int64
	todo   models.Todo
}

// NewMemoryRepository returns an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:   make(map[int64]models.User),
		byEmail: make(map[string]int64),
		todos:   make(map[int64]todoRow),
	}
}

func (r *MemoryRepository) UserExists(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *MemoryRepository) CreateUser(_ context.Context, u models.User) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return models.User{}, service.ErrUserExists
	}
	r.nextUserID++
	u.ID = r.nextUserID
	u.PasswordHash = append([]byte(nil), u.PasswordHash...)
	r.users[u.ID] = u
	r.byEmail[u.Email] = u.ID
	return u, nil
}

func (r *MemoryRepository) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return models.User{}, service.ErrUserNotFound
	}
	return r.users[id], nil
}

func (r *MemoryRepository) GetUserByID(_ context.Context, id int64) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return models.User{}, service.ErrUserNotFound
	}
	return u, nil
}

func (r *MemoryRepository) ListTodos(_ context.Context, userID int64) ([]models.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.Todo{}
	for _, row := range r.todos {
		if row.userID == userID {
			out = append(out, copyTodo(row.todo))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepository) CreateTodo(_ context.Context, userID int64, t models.Todo) (models.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextTodoID++
	t.ID = r.nextTodoID
	r.todos[t.ID] = todoRow{userID: userID, todo: copyTodo(t)}
	return copyTodo(t), nil
}

func (r *MemoryRepository) GetTodo(_ context.Context, userID, id int64) (models.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.todos[id]
	if !ok || row.userID != userID {
		return models.Todo{}, service.ErrTodoNotFound
	}
	return copyTodo(row.todo), nil
}

func (r *MemoryRepository) UpdateTodo(_ context.Context, userID int64, t models.Todo) (models.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.todos[t.ID]
	if !ok || row.userID != userID {
		return models.Todo{}, service.ErrTodoNotFound
	}
	r.todos[t.ID] = todoRow{userID: userID, todo: copyTodo(t)}
	return copyTodo(t), nil
}

func (r *MemoryRepository) DeleteTodos(_ context.Context, userID int64, ids []int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		if row, ok := r.todos[id]; ok && row.userID == userID {
			delete(r.todos, id)
			n++
		}
	}
	return n, nil
}

func copyTodo(t models.Todo) models.Todo {
	if t.CompletionDate != nil {
		t.CompletionDate = t.CompletionDate.Ptr()
	}
	return t
}

// Package cache keeps the client's ordered copy of the user's todos.
//
// The collection only changes after the backend confirms an action, and it
// always takes the backend's representation of an item, never the one the
// caller submitted. Each action moves through idle → pending → settled or
// failed; the latest transition is visible through Status.
package cache

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atinyakov/GophTodo/internal/models"
)

var (
	// ErrInFlight is returned for a duplicate of an action still pending.
	ErrInFlight = errors.New("cache: action already in flight")
	// ErrMissingID is returned when updating or deleting an item without id.
	ErrMissingID = errors.New("cache: todo has no id")
	// ErrStale is returned when the cache was reset while the request ran.
	ErrStale = errors.New("cache: reset while request was in flight")
)

// Transient messages shown to the user after a failed action.
const (
	MsgFetchFailed  = "Failed to load todos."
	MsgCreateFailed = "Failed to create todo."
	MsgUpdateFailed = "Failed to update todo."
	MsgDeleteFailed = "Failed to delete todo."
)

// Backend is the subset of the todo service the cache drives.
type Backend interface {
	List(ctx context.Context) ([]models.Todo, error)
	Create(ctx context.Context, t models.Todo) (*models.Todo, error)
	Update(ctx context.Context, t models.Todo) (*models.Todo, error)
	Delete(ctx context.Context, ids []int64) ([]models.Todo, error)
}

// Cache is safe for concurrent use. Its lock is never held across a request.
type Cache struct {
	backend Backend
	log     *zap.Logger

	mu       sync.Mutex
	todos    []models.Todo
	status   Status
	gen      uint64
	busyIDs  map[int64]Action
	creating map[string]struct{}
	created  map[string]models.Todo
}

// New returns an empty cache over backend. log may be nil.
func New(backend Backend, log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{
		backend:  backend,
		log:      log,
		todos:    []models.Todo{},
		busyIDs:  make(map[int64]Action),
		creating: make(map[string]struct{}),
		created:  make(map[string]models.Todo),
	}
}

// NewRequestToken returns a fresh token identifying one logical create.
// Resubmitting a create with the same token never creates a second item.
func NewRequestToken() string {
	return uuid.NewString()
}

// Todos returns a copy of the collection in display order.
func (c *Cache) Todos() []models.Todo {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Todo, len(c.todos))
	copy(out, c.todos)
	return out
}

// Get returns the cached item with id.
func (c *Cache) Get(id int64) (models.Todo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(id); i >= 0 {
		return c.todos[i], true
	}
	return models.Todo{}, false
}

// Status returns the most recent action transition.
func (c *Cache) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Reset empties the cache, forgets create tokens and makes responses of
// requests started before the reset no-ops.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.todos = []models.Todo{}
	c.status = Status{}
	c.busyIDs = make(map[int64]Action)
	c.creating = make(map[string]struct{})
	c.created = make(map[string]models.Todo)
}

// FetchAll replaces the collection with the backend's list. On failure the
// previous collection is kept.
func (c *Cache) FetchAll(ctx context.Context) error {
	c.mu.Lock()
	gen := c.begin(ActionFetch, 0)
	c.mu.Unlock()

	todos, err := c.backend.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return ErrStale
	}
	if err != nil {
		c.fail(ActionFetch, 0, MsgFetchFailed, err)
		return err
	}
	c.todos = append([]models.Todo{}, todos...)
	c.settle(ActionFetch, 0)
	return nil
}

// Create submits draft and appends the stored item. token identifies the
// logical create (see NewRequestToken); an empty token disables
// de-duplication.
func (c *Cache) Create(ctx context.Context, token string, draft models.Todo) (models.Todo, error) {
	if token == "" {
		token = NewRequestToken()
	}

	c.mu.Lock()
	if done, ok := c.created[token]; ok {
		c.mu.Unlock()
		return done, nil
	}
	if _, ok := c.creating[token]; ok {
		c.mu.Unlock()
		return models.Todo{}, ErrInFlight
	}
	c.creating[token] = struct{}{}
	gen := c.begin(ActionCreate, 0)
	c.mu.Unlock()

	created, err := c.backend.Create(ctx, draft)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return models.Todo{}, ErrStale
	}
	delete(c.creating, token)
	if err != nil {
		c.fail(ActionCreate, 0, MsgCreateFailed, err)
		return models.Todo{}, err
	}
	c.todos = append(c.todos, *created)
	c.created[token] = *created
	c.settle(ActionCreate, created.ID)
	return *created, nil
}

// Update sends t and replaces the cached item carrying the returned id.
func (c *Cache) Update(ctx context.Context, t models.Todo) (models.Todo, error) {
	if t.ID == 0 {
		return models.Todo{}, ErrMissingID
	}

	c.mu.Lock()
	if _, busy := c.busyIDs[t.ID]; busy {
		c.mu.Unlock()
		return models.Todo{}, ErrInFlight
	}
	c.busyIDs[t.ID] = ActionUpdate
	gen := c.begin(ActionUpdate, t.ID)
	c.mu.Unlock()

	updated, err := c.backend.Update(ctx, t)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return models.Todo{}, ErrStale
	}
	delete(c.busyIDs, t.ID)
	if err != nil {
		c.fail(ActionUpdate, t.ID, MsgUpdateFailed, err)
		return models.Todo{}, err
	}
	if i := c.indexOf(updated.ID); i >= 0 {
		c.todos[i] = *updated
	} else {
		c.todos = append(c.todos, *updated)
	}
	c.settle(ActionUpdate, updated.ID)
	return *updated, nil
}

// Delete removes id on the backend and replaces the collection with the
// remaining items the backend returns.
func (c *Cache) Delete(ctx context.Context, id int64) error {
	if id == 0 {
		return ErrMissingID
	}

	c.mu.Lock()
	if _, busy := c.busyIDs[id]; busy {
		c.mu.Unlock()
		return ErrInFlight
	}
	c.busyIDs[id] = ActionDelete
	gen := c.begin(ActionDelete, id)
	c.mu.Unlock()

	remaining, err := c.backend.Delete(ctx, []int64{id})

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return ErrStale
	}
	delete(c.busyIDs, id)
	if err != nil {
		c.fail(ActionDelete, id, MsgDeleteFailed, err)
		return err
	}
	c.todos = append([]models.Todo{}, remaining...)
	c.settle(ActionDelete, id)
	return nil
}

func (c *Cache) indexOf(id int64) int {
	for i := range c.todos {
		if c.todos[i].ID == id {
			return i
		}
	}
	return -1
}

// begin, fail and settle must be called with c.mu held.
func (c *Cache) begin(a Action, id int64) uint64 {
	c.status = Status{Action: a, ID: id, Phase: Pending}
	return c.gen
}

func (c *Cache) fail(a Action, id int64, msg string, err error) {
	c.status = Status{Action: a, ID: id, Phase: Failed, Message: msg, Err: err}
	c.log.Info("todo action failed", zap.Stringer("action", a), zap.Int64("id", id), zap.Error(err))
}

func (c *Cache) settle(a Action, id int64) {
	c.status = Status{Action: a, ID: id, Phase: Settled}
}

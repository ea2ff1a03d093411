// Package app assembles the client core: session, HTTP client, auth and todo
// services and the todo cache.
package app

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/GophTodo/internal/client/api"
	"github.com/atinyakov/GophTodo/internal/client/auth"
	"github.com/atinyakov/GophTodo/internal/client/cache"
	"github.com/atinyakov/GophTodo/internal/client/session"
	"github.com/atinyakov/GophTodo/internal/client/storage"
	"github.com/atinyakov/GophTodo/internal/client/todo"
)

// App holds one wired client. All parts share the same session.
type App struct {
	Session *session.Session
	API     *api.Client
	Auth    *auth.Service
	Todos   *todo.Service
	Cache   *cache.Cache
}

// New wires an App for the backend at baseURL, keeping the token in store.
// hc and log may be nil. A store that cannot be read is logged and the
// session starts unauthenticated.
func New(baseURL string, store storage.Store, hc *http.Client, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	// a read failure is logged by the session, which still starts usable
	sess, _ := session.New(store, session.WithLogger(log))
	client := api.New(baseURL, sess, api.WithHTTPClient(hc), api.WithLogger(log))
	todos := todo.NewService(client)
	return &App{
		Session: sess,
		API:     client,
		Auth:    auth.NewService(client, sess, log),
		Todos:   todos,
		Cache:   cache.New(todos, log),
	}
}

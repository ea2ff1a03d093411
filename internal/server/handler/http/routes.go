package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/atinyakov/GophTodo/internal/middleware"
	"github.com/atinyakov/GophTodo/internal/models"
)

// NewRouter constructs and returns an HTTP handler that serves the to-do API
// under /api.
//
// Routes:
//
//	POST   /api/register     → authHandler.Register (rate limited)
//	POST   /api/login        → authHandler.Login (rate limited)
//	GET    /api/me           → authHandler.Me
//	GET    /api/todos        → todoHandler.List   (VIEW_TODOS)
//	POST   /api/todo/create  → todoHandler.Create (CREATE_TODOS)
//	PUT    /api/todo/update  → todoHandler.Update (UPDATE_TODOS)
//	DELETE /api/todo/delete  → todoHandler.Delete (DELETE_TODOS)
//
// Every route except register and login requires a bearer token. limiter may
// be nil to disable rate limiting.
func NewRouter(
	authHandler *AuthHandler,
	todoHandler *TodoHandler,
	tokens middleware.TokenParser,
	limiter *middleware.IPRateLimiter,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(chiMiddleware.Recoverer)
	// Only allow request bodies with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Group(func(r chi.Router) {
			if limiter != nil {
				r.Use(limiter.Middleware)
			}
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		// Protected group: requires a valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth(tokens))

			r.Get("/me", authHandler.Me)
			r.With(middleware.RequirePrivilege(models.ViewTodos)).Get("/todos", todoHandler.List)
			r.With(middleware.RequirePrivilege(models.CreateTodos)).Post("/todo/create", todoHandler.Create)
			r.With(middleware.RequirePrivilege(models.UpdateTodos)).Put("/todo/update", todoHandler.Update)
			r.With(middleware.RequirePrivilege(models.DeleteTodos)).Delete("/todo/delete", todoHandler.Delete)
		})
	})

	return r
}

package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	apiMiddleware "github.com/phrazzld/todo-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Trace)

	// Public endpoints
	r.Post("/users", app.authHandler.Register)
	r.Post("/users/login", app.authHandler.Login)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(app.authMiddleware.Authenticate)

		r.Get("/users/me", app.authHandler.Me)
		r.Delete("/users/me/token", app.authHandler.Logout)

		r.Post("/todos", app.todoHandler.Create)
		r.Get("/todos", app.todoHandler.List)
		r.Get("/todos/{id}", app.todoHandler.Get)
		r.Patch("/todos/{id}", app.todoHandler.Update)
		r.Delete("/todos/{id}", app.todoHandler.Delete)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}

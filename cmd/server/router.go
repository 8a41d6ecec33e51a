package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/parlo-app/parlo-api/internal/api"
	apiMiddleware "github.com/parlo-app/parlo-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordVerifier,
		app.logger,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	cardHandler := api.NewCardHandler(app.cardStore, app.db, app.logger)
	tallyHandler := api.NewTallyHandler(app.tallyStore, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Card endpoints
			r.Get("/cards", cardHandler.ListCards)
			r.Post("/cards", cardHandler.CreateCards)
			r.Patch("/cards/{id}/level", cardHandler.UpdateLevel)
			r.Delete("/cards/{id}", cardHandler.DeleteCard)

			// Answer tally endpoints
			r.Post("/answers", tallyHandler.RecordAnswer)
			r.Get("/answers", tallyHandler.GetTally)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}

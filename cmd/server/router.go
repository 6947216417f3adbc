package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/olustayhired/postflow/internal/api"
	apimiddleware "github.com/olustayhired/postflow/internal/api/middleware"
)

// setupRouter configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	generationHandler := api.NewGenerationHandler(app.genService)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/generate", generationHandler.GeneratePrompt)
			r.Post("/generate/hook", generationHandler.GenerateHook)
			r.Post("/generate/linkedin", generationHandler.GenerateLinkedIn)
			r.Post("/rewrite/linkedin", generationHandler.RewriteLinkedIn)
			r.Get("/generations", generationHandler.ListGenerations)
		})
	})

	return r
}

/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Request logging
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for the browser front-end

ROUTE GROUPS:
  /api/roster/*     Upload, parse, import, calendar
  /api/settings/*   Financial data and profile
  /api/shifts/*     Stored shifts, edits, overtime
  /api/summary      Monthly view
  /api/reference    Rate reference
  /api/backup       XML export/import
  /api/reset        Wipe all data

SECURITY NOTE:
  No authentication middleware. The server is a single-user tool meant to
  listen on localhost.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/roster", func(r chi.Router) {
			r.Post("/parse", h.ParseRoster)
			r.Post("/import", h.ImportRoster)
			r.Post("/calendar", h.RosterCalendar)
		})
		r.Get("/codes", h.GetCodes)

		r.Route("/settings", func(r chi.Router) {
			r.Get("/financial", h.GetFinancialData)
			r.Put("/financial", h.PutFinancialData)
			r.Get("/profile", h.GetProfile)
			r.Put("/profile", h.PutProfile)
		})

		r.Route("/shifts", func(r chi.Router) {
			r.Get("/", h.ListShifts)
			r.Post("/overtime", h.AddOvertime)
			r.Get("/overtime/default-start", h.DefaultOvertimeStart)
			r.Put("/{id}", h.UpdateShift)
			r.Delete("/{id}", h.DeleteShift)
		})

		r.Get("/summary", h.GetSummary)
		r.Get("/reference", h.GetReference)

		r.Get("/backup", h.ExportBackup)
		r.Post("/backup", h.ImportBackup)
		r.Post("/reset", h.Reset)
	})

	return r
}

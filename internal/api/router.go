package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Auth endpoints (no auth required)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/register", s.handleRegister)

		// WebSocket upgrades cannot carry an Authorization header, so the
		// endpoint authenticates via a single-use ticket issued to
		// logged-in principals at /auth/ws-ticket.
		r.Get("/ws", s.handleWebSocket)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/auth/me", s.handleMe)
			r.Post("/auth/ws-ticket", s.handleWSTicket)

			// Room dashboard is role-scoped inside the handler.
			r.Route("/rooms", func(r chi.Router) {
				r.Get("/", s.handleListRooms)
				r.With(s.requireAdmin).Post("/", s.handleCreateRoom)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetRoom)
					r.Get("/devices", s.handleListRoomDevices)
					r.With(s.requireAdmin).Put("/", s.handleUpdateRoom)
					r.With(s.requireAdmin).Delete("/", s.handleDeleteRoom)
				})
			})

			r.Route("/device-types", func(r chi.Router) {
				r.Get("/", s.handleListDeviceTypes)
				r.With(s.requireAdmin).Post("/", s.handleCreateDeviceType)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetDeviceType)
					r.With(s.requireAdmin).Put("/", s.handleUpdateDeviceType)
					r.With(s.requireAdmin).Delete("/", s.handleDeleteDeviceType)
				})
			})

			r.Route("/people", func(r chi.Router) {
				r.Use(s.requireAdmin)

				r.Get("/", s.handleListPeople)
				r.Post("/", s.handleCreatePerson)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetPerson)
					r.Put("/", s.handleUpdatePerson)
					r.Delete("/", s.handleDeletePerson)
					r.Put("/devices", s.handleAssignDevices)
				})
			})

			r.Route("/devices", func(r chi.Router) {
				// Listing scope and identity checks live in the resolver.
				r.Get("/", s.handleListDevices)
				r.Get("/user/{id}", s.handleListUserDevices)
				r.Get("/user/{id}/room/{roomID}", s.handleListUserRoomDevices)

				r.With(s.requireAdmin).Post("/", s.handleCreateDevice)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetDevice)
					r.With(s.requireAdmin).Put("/", s.handleUpdateDevice)
					r.With(s.requireAdmin).Delete("/", s.handleDeleteDevice)

					// Any authenticated principal may set status and value.
					r.Put("/status", s.handleSetDeviceStatus)
					r.Put("/value", s.handleSetDeviceValue)
				})
			})

			r.With(s.requireAdmin).Get("/audit", s.handleListAudit)
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}

// idParam parses a chi URL parameter as an int64 record id.
func idParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

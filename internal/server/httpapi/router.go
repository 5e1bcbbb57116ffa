package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router mounts the backup endpoints behind the caller-identity middleware.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1/backups", func(r chi.Router) {
		r.Use(h.withCallerIdentity)

		r.Post("/", h.createBackup)
		r.Get("/", h.listBackups)
		r.Get("/stats", h.backupStats)
		r.Get("/{id}/download", h.downloadBackup)
		r.Post("/{id}/restore", h.restoreBackup)
		r.Delete("/{id}", h.deleteBackup)
	})

	return r
}

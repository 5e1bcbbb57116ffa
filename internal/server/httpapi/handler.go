// Package httpapi exposes the durable-variant backup operations over REST.
// Routing and caller identity live here; all semantics live in the backup
// engine.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mbriard/carnets/internal/backup"
	"github.com/mbriard/carnets/internal/common"
	"github.com/mbriard/carnets/internal/logging"
	"github.com/mbriard/carnets/internal/models"
)

// Handler serves the backup endpoints for the caller's own tenant.
type Handler struct {
	builder   *backup.Builder
	index     *backup.Index
	engine    *backup.Engine
	secretKey []byte
	log       logging.Logger
}

// NewHandler wires the REST surface over the backup engine.
func NewHandler(builder *backup.Builder, index *backup.Index, engine *backup.Engine, secretKey []byte, log logging.Logger) *Handler {
	return &Handler{builder: builder, index: index, engine: engine, secretKey: secretKey, log: log}
}

func (h *Handler) createBackup(w http.ResponseWriter, r *http.Request) {
	id := teacherID(r.Context())

	doc, err := h.builder.Build(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	entry, err := h.index.Store(r.Context(), id, doc)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, entry)
}

func (h *Handler) listBackups(w http.ResponseWriter, r *http.Request) {
	entries, err := h.index.List(r.Context(), teacherID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []models.ArchiveEntry{}
	}
	h.writeJSON(w, r, http.StatusOK, entries)
}

func (h *Handler) backupStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.index.Stats(r.Context(), teacherID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, stats)
}

func (h *Handler) downloadBackup(w http.ResponseWriter, r *http.Request) {
	data, _, err := h.index.FetchRaw(r.Context(), chi.URLParam(r, "id"), teacherID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="snapshot.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) restoreBackup(w http.ResponseWriter, r *http.Request) {
	report, err := h.engine.Restore(r.Context(), chi.URLParam(r, "id"), teacherID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, report)
}

func (h *Handler) deleteBackup(w http.ResponseWriter, r *http.Request) {
	err := h.index.Remove(r.Context(), chi.URLParam(r, "id"), teacherID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error(r.Context(), "write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrSnapshotNotFound), errors.Is(err, common.ErrOwnerNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, common.ErrUnsupportedSnapshotVersion):
		http.Error(w, "unsupported snapshot version", http.StatusConflict)
	case errors.Is(err, common.ErrOwnershipMismatch):
		http.Error(w, "snapshot ownership mismatch", http.StatusConflict)
	default:
		h.log.Error(r.Context(), "backup operation failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

package httpapp

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cesargomez89/songbook/internal/app"
	"github.com/cesargomez89/songbook/internal/constants"
	"github.com/cesargomez89/songbook/internal/domain"
	"github.com/cesargomez89/songbook/internal/http/dto"
	"github.com/cesargomez89/songbook/internal/logger"
	"github.com/cesargomez89/songbook/internal/reconcile"
)

type Handler struct {
	Importer   *app.ImportService
	Queries    *app.QueryService
	Setlist    *app.SetlistService
	Reconciler *reconcile.Reconciler
	Logger     *logger.Logger
}

func NewHandler(importer *app.ImportService, queries *app.QueryService, setlist *app.SetlistService, rec *reconcile.Reconciler, log *logger.Logger) *Handler {
	return &Handler{
		Importer:   importer,
		Queries:    queries,
		Setlist:    setlist,
		Reconciler: rec,
		Logger:     log.WithComponent("http"),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", h.ListCategories)
		r.Get("/categories/{id}", h.GetCategory)
		r.Post("/categories/{id}/update", h.UpdateCategory)
		r.Get("/remote/categories", h.RemoteCatalog)
		r.Post("/import", h.ImportCategory)

		r.Get("/songs", h.ListSongs)
		r.Get("/songs/{id}", h.GetSong)
		r.Get("/search", h.Search)

		r.Get("/setlist", h.ListSetlist)
		r.Post("/setlist", h.AddToSetlist)
		r.Delete("/setlist", h.ClearSetlist)
		r.Delete("/setlist/{id}", h.RemoveFromSetlist)
		r.Get("/setlist/export", h.ExportSetlist)
		r.Post("/setlist/import", h.ImportSetlist)

		r.Get("/sync", h.SyncStatus)
		r.Post("/sync", h.Sync)
	})
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Logger.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain errors to status codes. Unknown errors are 500.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := constants.StatusInternalError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		status = constants.StatusPayloadTooLarge
	case errors.Is(err, domain.ErrParse):
		status = constants.StatusBadRequest
	case errors.Is(err, domain.ErrCategoryNotFound):
		status = constants.StatusNotFound
	case errors.Is(err, domain.ErrRemoteUnavailable):
		status = constants.StatusBadGateway
	case errors.Is(err, reconcile.ErrReconcileInProgress):
		status = constants.StatusConflict
	case errors.Is(err, domain.ErrStorageUnavailable):
		status = constants.StatusServiceUnavailable
	}

	if status >= constants.StatusInternalError {
		h.Logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	} else {
		h.Logger.Warn("Request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (h *Handler) writeValidation(w http.ResponseWriter, errs []dto.ValidationError) {
	h.writeJSON(w, constants.StatusBadRequest, errorResponse{
		Error:  dto.ToResponse(errs),
		Fields: dto.ToMap(errs),
	})
}

func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeJSON(w, constants.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}

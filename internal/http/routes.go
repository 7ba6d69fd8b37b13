package httpapp

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cesargomez89/songbook/internal/constants"
	"github.com/cesargomez89/songbook/internal/http/dto"
)

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Queries.ListCategories(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, constants.StatusOK, cats)
}

func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	cat, err := h.Queries.GetCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if cat == nil {
		h.writeJSON(w, constants.StatusNotFound, errorResponse{Error: "category not found"})
		return
	}
	h.writeJSON(w, constants.StatusOK, cat)
}

// RemoteCatalog lists the remote index. ?refresh=1 bypasses the cached copy.
func (h *Handler) RemoteCatalog(w http.ResponseWriter, r *http.Request) {
	if refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh")); refresh {
		if err := h.Importer.RefreshRemote(r.Context()); err != nil {
			h.writeError(w, r, err)
			return
		}
	}

	catalog, err := h.Importer.RemoteCatalog(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, constants.StatusOK, catalog)
}

// ImportCategory takes a raw category document as the request body.
func (h *Handler) ImportCategory(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, constants.MaxPayloadBytes))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.Importer.ImportCategory(r.Context(), body, nil)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, constants.StatusOK, result)
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	result, err := h.Importer.UpdateCategory(r.Context(), id, nil)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, constants.StatusOK, result)
}

// ListSongs pages through the songs of ?category=, or all songs. Without
// ?page= the whole list is returned.
func (h *Handler) ListSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := h.Queries.ListSongs(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := dto.SongListResponse{Songs: songs}
	if pageParam := r.URL.Query().Get("page"); pageParam != "" {
		page, _ := strconv.Atoi(pageParam)
		pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
		p := dto.NewPagination(page, pageSize, len(songs))
		start, end := p.Bounds()
		resp.Songs = songs[start:end]
		resp.Pagination = p
	}
	h.writeJSON(w, constants.StatusOK, resp)
}

func (h *Handler) GetSong(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	song, err := h.Queries.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if song == nil {
		h.writeJSON(w, constants.StatusNotFound, errorResponse{Error: "song not found"})
		return
	}
	resp := dto.NewSongResponse(song)
	if resp.InSetlist, err = h.Setlist.Contains(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, constants.StatusOK, resp)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")

	var err error
	resp := dto.SongListResponse{}
	if category == "" {
		resp.Songs, err = h.Queries.SearchGlobal(r.Context(), q)
	} else {
		resp.Songs, err = h.Queries.SearchInCategory(r.Context(), category, q)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, constants.StatusOK, resp)
}

func (h *Handler) ListSetlist(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Setlist.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, constants.StatusOK, entries)
}

func (h *Handler) AddToSetlist(w http.ResponseWriter, r *http.Request) {
	var req dto.AddSetlistRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		h.writeValidation(w, errs)
		return
	}

	added, err := h.Setlist.Add(r.Context(), req.SongID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, constants.StatusOK, dto.AddSetlistResponse{SongID: req.SongID, Added: added})
}

func (h *Handler) RemoveFromSetlist(w http.ResponseWriter, r *http.Request) {
	if err := h.Setlist.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ClearSetlist(w http.ResponseWriter, r *http.Request) {
	if err := h.Setlist.Clear(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ExportSetlist(w http.ResponseWriter, r *http.Request) {
	ids, err := h.Setlist.Export(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, constants.StatusOK, dto.ExportSetlistResponse{SongIDs: ids})
}

func (h *Handler) ImportSetlist(w http.ResponseWriter, r *http.Request) {
	var req dto.ImportSetlistRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		h.writeValidation(w, errs)
		return
	}

	added, err := h.Setlist.Import(r.Context(), req.SongIDs)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, constants.StatusOK, dto.ImportSetlistResponse{Added: added})
}

func (h *Handler) SyncStatus(w http.ResponseWriter, r *http.Request) {
	last, err := h.Reconciler.LastReconciled(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	resp := dto.SyncStatusResponse{}
	if !last.IsZero() {
		resp.LastReconciled = &last
	}
	h.writeJSON(w, constants.StatusOK, resp)
}

// Sync runs one reconcile pass in the request.
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Reconciler.Run(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, constants.StatusOK, dto.SyncResponse{Summary: summary})
}

package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ewilliams-labs/segue/internal/adapters/graph"
	"github.com/ewilliams-labs/segue/internal/core/domain"
)

type createPlaylistRequest struct {
	Name   string         `json:"name"`
	Tracks []domain.Track `json:"tracks"`
}

// CreatePlaylist handles POST /playlists
func (h *Handler) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	// 1. Decode Request
	var req createPlaylistRequest
	if !decodeJSON(w, r, &req) || !h.checkTrackCount(w, len(req.Tracks)) {
		return
	}

	// 2. Call Service
	playlist, err := h.svc.ImportPlaylist(r.Context(), req.Name, req.Tracks)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// 3. Respond
	w.Header().Set("Location", "/playlists/"+playlist.ID)
	writeJSON(w, http.StatusCreated, playlist)
}

// ListPlaylists handles GET /playlists
func (h *Handler) ListPlaylists(w http.ResponseWriter, r *http.Request) {
	playlists, err := h.svc.ListPlaylists(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if playlists == nil {
		playlists = []domain.Playlist{}
	}
	writeJSON(w, http.StatusOK, playlists)
}

// GetPlaylist handles GET /playlists/{id}
func (h *Handler) GetPlaylist(w http.ResponseWriter, r *http.Request) {
	playlist, err := h.svc.GetPlaylist(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, playlist)
}

type optimizePlaylistRequest struct {
	Start   string          `json:"start"`
	Weights *domain.Weights `json:"weights"`
}

type optimizePlaylistResponse struct {
	Playlist domain.Playlist `json:"playlist"`
	Stats    searchStats     `json:"stats"`
}

// OptimizePlaylist handles POST /playlists/{id}/optimize
// The body is optional; without one the search starts from the first track.
func (h *Handler) OptimizePlaylist(w http.ResponseWriter, r *http.Request) {
	var req optimizePlaylistRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	playlist, res, err := h.svc.OptimizePlaylist(r.Context(), chi.URLParam(r, "id"), req.Start, req.Weights)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Location", "/playlists/"+playlist.ID)
	writeJSON(w, http.StatusCreated, optimizePlaylistResponse{Playlist: playlist, Stats: statsOf(res)})
}

// GetPlaylistAnalysis handles GET /playlists/{id}/analysis
func (h *Handler) GetPlaylistAnalysis(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.svc.Analysis(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

// GetPlaylistGraph handles GET /playlists/{id}/graph?format=dot|mermaid|svg
func (h *Handler) GetPlaylistGraph(w http.ResponseWriter, r *http.Request) {
	format, err := graph.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeErrorWithCode(w, http.StatusBadRequest, err.Error(), errCodeInvalidInput)
		return
	}

	playlist, err := h.svc.GetPlaylist(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	body, err := graph.Render(r.Context(), format, h.svc.CostModel(nil), playlist.Tracks)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger.Warn("failed to write graph", "id", playlist.ID, "err", err)
	}
}

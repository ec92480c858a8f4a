package handlers

import (
	"context"
	"net/http"

	"github.com/AnshRaj112/innerbloom-companion/internal/feeds"
	"github.com/go-chi/chi/v5"
)

type ScreenResponse struct {
	Success bool   `json:"success"`
	Screen  string `json:"screen"`
	Mounted bool   `json:"mounted"`
	Data    any    `json:"data"`
}

func (h *Handler) screen(w http.ResponseWriter, r *http.Request) (feeds.Screen, bool) {
	s, ok := h.Screens.Get(chi.URLParam(r, "name"))
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown screen")
	}
	return s, ok
}

func screenResponse(s feeds.Screen) ScreenResponse {
	return ScreenResponse{Success: true, Screen: s.Name(), Mounted: s.Mounted(), Data: s.Snapshot()}
}

// MountScreen handles POST /api/screens/{name}/mount. The first load
// completes before the response; timers keep running after the request ends.
func (h *Handler) MountScreen(w http.ResponseWriter, r *http.Request) {
	s, ok := h.screen(w, r)
	if !ok {
		return
	}
	s.Mount(context.WithoutCancel(r.Context()))
	writeJSON(w, http.StatusOK, screenResponse(s))
}

// UnmountScreen handles POST /api/screens/{name}/unmount.
func (h *Handler) UnmountScreen(w http.ResponseWriter, r *http.Request) {
	s, ok := h.screen(w, r)
	if !ok {
		return
	}
	s.Unmount()
	writeJSON(w, http.StatusOK, screenResponse(s))
}

// GetScreen handles GET /api/screens/{name}.
func (h *Handler) GetScreen(w http.ResponseWriter, r *http.Request) {
	s, ok := h.screen(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, screenResponse(s))
}

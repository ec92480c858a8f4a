package handlers

import (
	"net/http"
	"strconv"

	"github.com/AnshRaj112/innerbloom-companion/internal/models"
	"github.com/go-chi/chi/v5"
)

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Success bool              `json:"success"`
	Reply   *models.ChatReply `json:"reply"`
	User    *models.User      `json:"user"`
}

type HugRequest struct {
	Message string `json:"message"`
}

type HugResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	TotalHugsSent int    `json:"total_hugs_sent"`
}

// Chat handles POST /api/ai/chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !decode(w, r, &req) {
		return
	}
	reply, err := h.Companion.Chat(r.Context(), req.Message)
	if err != nil {
		h.fail(w, err, "reach Bloom AI")
		return
	}
	writeJSON(w, http.StatusOK, ChatResponse{Success: true, Reply: reply, User: h.Session.Current()})
}

// DownloadGuide handles POST /api/guides/{type} and streams the PDF back.
func (h *Handler) DownloadGuide(w http.ResponseWriter, r *http.Request) {
	g, err := h.Companion.DownloadGuide(r.Context(), chi.URLParam(r, "type"))
	if err != nil {
		h.fail(w, err, "download guide")
		return
	}
	contentType := g.ContentType
	if contentType == "" {
		contentType = "application/pdf"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+g.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(g.Data)))
	if g.ArchiveURL != "" {
		w.Header().Set("X-Archive-URL", g.ArchiveURL)
	}
	w.WriteHeader(http.StatusOK)
	w.Write(g.Data)
}

// SendHug handles POST /api/community/hugs.
func (h *Handler) SendHug(w http.ResponseWriter, r *http.Request) {
	var req HugRequest
	if !decode(w, r, &req) {
		return
	}
	total, err := h.Companion.SendHug(r.Context(), req.Message)
	if err != nil {
		h.fail(w, err, "send hug")
		return
	}
	writeJSON(w, http.StatusOK, HugResponse{Success: true, Message: "Virtual hug sent to the sisterhood", TotalHugsSent: total})
}

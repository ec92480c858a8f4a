package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/AnshRaj112/innerbloom-companion/internal/feeds"
	"github.com/AnshRaj112/innerbloom-companion/internal/rewards"
	"github.com/AnshRaj112/innerbloom-companion/internal/services"
	"github.com/AnshRaj112/innerbloom-companion/internal/session"
	"github.com/AnshRaj112/innerbloom-companion/pkg/utils"
	"go.uber.org/zap"
)

const maxRequestBody = 64 << 10

// Handler serves the companion API. Every dependency is required except
// Ledger and Hub.
type Handler struct {
	Session     *session.Manager
	Ledger      services.ActivityLedger
	Onboarding  *services.Onboarding
	Affirmation *services.DailyAffirmation
	Stats       *services.StatsService
	Companion   *services.Companion
	Rewards     *rewards.Engine
	Screens     *feeds.Registry
	Hub         *services.EventHub
	Logger      *zap.Logger
}

// Response is the envelope every JSON endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{Success: false, Message: message})
}

// decode reads a JSON body into dest. An empty body leaves dest untouched.
func decode(w http.ResponseWriter, r *http.Request, dest any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	err := json.NewDecoder(r.Body).Decode(dest)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	writeError(w, http.StatusBadRequest, "Invalid request body")
	return false
}

// fail maps a service error onto a status code and message.
func (h *Handler) fail(w http.ResponseWriter, err error, what string) {
	var verr *utils.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, services.ErrNotLoggedIn), errors.Is(err, rewards.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, "Please log in first")
	case errors.Is(err, services.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, "Message is required")
	case errors.Is(err, services.ErrUnknownGuide):
		writeError(w, http.StatusNotFound, "Unknown guide")
	case errors.Is(err, rewards.ErrNoReward), errors.Is(err, feeds.ErrNoOffer):
		writeError(w, http.StatusNotFound, "No reward available")
	case errors.Is(err, rewards.ErrOfferClaimed), errors.Is(err, rewards.ErrOfferExpired), errors.Is(err, rewards.ErrOfferSoldOut):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.Logger.Warn(what+" failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "Failed to "+what)
	}
}

// Health answers the liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

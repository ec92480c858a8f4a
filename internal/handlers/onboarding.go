package handlers

import (
	"net/http"

	"github.com/AnshRaj112/innerbloom-companion/internal/models"
	"github.com/AnshRaj112/innerbloom-companion/internal/services"
)

type OnboardingResponse struct {
	Success bool `json:"success"`
	services.OnboardingState
}

type InitiationRequest struct {
	BloomName      string `json:"bloom_name"`
	BloomBackstory string `json:"bloom_backstory"`
}

type AffirmationResponse struct {
	Success     bool   `json:"success"`
	Affirmation string `json:"affirmation"`
}

type StatsResponse struct {
	Success bool                  `json:"success"`
	Stats   *models.PlatformStats `json:"stats"`
}

type LeaderboardResponse struct {
	Success bool            `json:"success"`
	Leaders []models.Leader `json:"leaders"`
}

// OnboardingState handles GET /api/onboarding. Reading the state consumes the
// one-time welcome.
func (h *Handler) OnboardingState(w http.ResponseWriter, r *http.Request) {
	st, err := h.Onboarding.State(r.Context())
	if err != nil {
		h.fail(w, err, "load onboarding state")
		return
	}
	writeJSON(w, http.StatusOK, OnboardingResponse{Success: true, OnboardingState: st})
}

// StartBlooming handles POST /api/onboarding/start.
func (h *Handler) StartBlooming(w http.ResponseWriter, r *http.Request) {
	if err := h.Onboarding.StartBlooming(r.Context()); err != nil {
		h.fail(w, err, "save onboarding state")
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true})
}

// CompleteInitiation handles POST /api/onboarding/initiation.
func (h *Handler) CompleteInitiation(w http.ResponseWriter, r *http.Request) {
	var req InitiationRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.Onboarding.CompleteInitiation(r.Context(), req.BloomName, req.BloomBackstory); err != nil {
		h.fail(w, err, "save initiation")
		return
	}
	writeJSON(w, http.StatusOK, UserResponse{Success: true, User: h.Session.Current()})
}

// GetAffirmation handles GET /api/affirmation. It always answers with some
// affirmation.
func (h *Handler) GetAffirmation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, AffirmationResponse{Success: true, Affirmation: h.Affirmation.Today(r.Context())})
}

// GetStats handles GET /api/stats; ?refresh=true bypasses the cache.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Stats.Stats(r.Context(), r.URL.Query().Get("refresh") == "true")
	if err != nil {
		h.fail(w, err, "load stats")
		return
	}
	writeJSON(w, http.StatusOK, StatsResponse{Success: true, Stats: stats})
}

// GetLeaderboard handles GET /api/leaderboard.
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	leaders, err := h.Stats.Leaderboard(r.Context(), r.URL.Query().Get("refresh") == "true")
	if err != nil {
		h.fail(w, err, "load leaderboard")
		return
	}
	writeJSON(w, http.StatusOK, LeaderboardResponse{Success: true, Leaders: leaders})
}

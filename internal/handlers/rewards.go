package handlers

import (
	"errors"
	"net/http"

	"github.com/AnshRaj112/innerbloom-companion/internal/feeds"
	"github.com/AnshRaj112/innerbloom-companion/internal/models"
	"github.com/AnshRaj112/innerbloom-companion/internal/rewards"
)

type DailyRewardResponse struct {
	Success   bool `json:"success"`
	Available bool `json:"available"`
}

type RandomRewardResponse struct {
	Success bool                `json:"success"`
	Reward  *models.RewardOffer `json:"reward"`
	Pending bool                `json:"pending"`
}

type ClaimRandomRequest struct {
	ID string `json:"id"`
}

// ClaimResponse returns the applied offer and the updated user.
type ClaimResponse struct {
	Success bool               `json:"success"`
	Reward  models.RewardOffer `json:"reward"`
	User    *models.User       `json:"user"`
}

type OfferClaimResponse struct {
	Success bool                `json:"success"`
	Offer   models.LimitedOffer `json:"offer"`
}

var errRewardsScreen = errors.New("rewards screen is not registered")

// DailyReward handles GET /api/rewards/daily.
func (h *Handler) DailyReward(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, DailyRewardResponse{Success: true, Available: h.Rewards.DailyAvailable()})
}

// ClaimDaily handles POST /api/rewards/daily/claim.
func (h *Handler) ClaimDaily(w http.ResponseWriter, r *http.Request) {
	offer, err := h.Rewards.ClaimDaily(r.Context())
	if err != nil {
		h.fail(w, err, "claim daily reward")
		return
	}
	writeJSON(w, http.StatusOK, ClaimResponse{Success: true, Reward: offer, User: h.Session.Current()})
}

// RandomReward handles GET /api/rewards/random.
func (h *Handler) RandomReward(w http.ResponseWriter, r *http.Request) {
	resp := RandomRewardResponse{Success: true, Pending: h.Rewards.RandomPending()}
	if offer, ok := h.Rewards.Random(); ok {
		resp.Reward = &offer
	}
	writeJSON(w, http.StatusOK, resp)
}

// ClaimRandom handles POST /api/rewards/random/claim.
func (h *Handler) ClaimRandom(w http.ResponseWriter, r *http.Request) {
	var req ClaimRandomRequest
	if !decode(w, r, &req) {
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "Reward id is required")
		return
	}
	offer, err := h.Rewards.ClaimRandom(r.Context(), req.ID)
	if err != nil {
		h.fail(w, err, "claim random reward")
		return
	}
	writeJSON(w, http.StatusOK, ClaimResponse{Success: true, Reward: offer, User: h.Session.Current()})
}

// ClaimOffer handles POST /api/rewards/offer/claim against the mounted
// rewards screen.
func (h *Handler) ClaimOffer(w http.ResponseWriter, r *http.Request) {
	if !h.Session.Authenticated() {
		h.fail(w, rewards.ErrNotAuthenticated, "claim offer")
		return
	}
	s, ok := h.Screens.Get(feeds.ScreenRewards)
	screen, isRewards := s.(*feeds.RewardsScreen)
	if !ok || !isRewards {
		h.fail(w, errRewardsScreen, "claim offer")
		return
	}
	if !screen.Mounted() {
		writeError(w, http.StatusConflict, "Rewards screen is not mounted")
		return
	}
	offer, err := screen.ClaimOffer()
	if err != nil {
		h.fail(w, err, "claim offer")
		return
	}
	writeJSON(w, http.StatusOK, OfferClaimResponse{Success: true, Offer: offer})
}

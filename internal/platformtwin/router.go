// Package platformtwin is an in-memory stand-in for the Inner Bloom platform
// API. It serves every endpoint the gateway calls, from seeded fixtures, and
// can be told to fail individual paths.
package platformtwin

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// APIPrefix is where the platform routes are mounted.
const APIPrefix = "/api"

// Handler holds all twin handler state.
type Handler struct {
	store  *Store
	logger *zap.Logger
}

// NewHandler creates a twin handler over s.
func NewHandler(s *Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: s, logger: logger}
}

// Routes mounts the platform API and the admin endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Route(APIPrefix, func(r chi.Router) {
		r.Use(h.faultInjection)

		r.Get("/health", h.health)
		r.Get("/user/{id}", h.getUser)
		r.Post("/user/{id}/points", h.addPoints)
		r.Get("/stats", h.stats)
		r.Get("/leaderboard", h.leaderboard)
		r.Post("/ai/chat", h.chat)
		r.Get("/ai/affirmation", h.affirmation)
		r.Post("/download/{type}", h.download)

		r.Route("/addiction", func(r chi.Router) {
			r.Post("/random-reward", h.randomReward)
			r.Get("/achievements", h.achievements)
			r.Get("/daily-challenge", h.dailyChallenge)
			r.Get("/limited-offer", h.limitedOffer)
			r.Get("/milestone-progress", h.milestoneProgress)
		})

		r.Route("/social", func(r chi.Router) {
			r.Get("/live-activity", h.liveActivity)
			r.Get("/success-testimonials", h.testimonials)
			r.Get("/urgency-metrics", h.urgencyMetrics)
			r.Get("/scarcity-alerts", h.scarcityAlerts)
			r.Get("/community-energy", h.communityEnergy)
			r.Get("/leaderboard", h.socialLeaderboard)
		})

		r.Route("/identity", func(r chi.Router) {
			r.Get("/sister-profile", h.sisterProfile)
			r.Get("/transformation-tracking", h.transformation)
			r.Get("/exclusive-access", h.exclusiveAccess)
			r.Get("/sisterhood-bonding", h.sisterhoodBonding)
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Post("/fail", h.adminFail)
		r.Post("/reset", h.adminReset)
	})
}

// NewRouter returns a ready-to-serve router.
func NewRouter(s *Store, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	NewHandler(s, logger).Routes(r)
	return r
}

// faultInjection answers switched-off paths with the configured failure.
func (h *Handler) faultInjection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, APIPrefix)
		if mode, ok := h.store.Failure(path); ok {
			h.logger.Debug("injected failure", zap.String("path", path), zap.String("mode", mode))
			if mode == FailEnvelope {
				writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": "injected failure"})
				return
			}
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "injected failure"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type failRequest struct {
	Path string `json:"path"`
	Mode string `json:"mode"`
}

func (h *Handler) adminFail(w http.ResponseWriter, r *http.Request) {
	var req failRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "path is required"})
		return
	}
	switch req.Mode {
	case "":
		req.Mode = FailStatus
	case FailStatus, FailEnvelope:
	case "off":
		req.Mode = ""
	default:
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "unknown mode"})
		return
	}
	h.store.Fail(req.Path, req.Mode)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) adminReset(w http.ResponseWriter, r *http.Request) {
	h.store.Reset()
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/AnshRaj112/innerbloom-companion/internal/models"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type PointsRequest struct {
	Points      int    `json:"points"`
	Activity    string `json:"activity"`
	Description string `json:"description"`
}

// UserResponse carries the current user; User is null when logged out.
type UserResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	User    *models.User `json:"user"`
}

type ActivitiesResponse struct {
	Success    bool                   `json:"success"`
	Activities []models.PointActivity `json:"activities"`
	Pending    int                    `json:"pending"`
}

// Login handles POST /api/session/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decode(w, r, &req) {
		return
	}
	u, err := h.Session.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, err, "log in")
		return
	}
	writeJSON(w, http.StatusOK, UserResponse{Success: true, Message: "Welcome back, sister", User: u})
}

// Signup handles POST /api/session/signup.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !decode(w, r, &req) {
		return
	}
	u, err := h.Session.Signup(r.Context(), req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		h.fail(w, err, "sign up")
		return
	}
	writeJSON(w, http.StatusCreated, UserResponse{Success: true, Message: "Welcome to Inner Bloom", User: u})
}

// Logout handles POST /api/session/logout. Mounted screens and the random
// reward cycle belong to the session and stop with it.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Screens.UnmountAll()
	h.Rewards.StopRandom()
	h.Session.Logout(r.Context())
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Logged out"})
}

// Me handles GET /api/session/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, UserResponse{Success: true, User: h.Session.Current()})
}

// AwardPoints handles POST /api/session/points.
func (h *Handler) AwardPoints(w http.ResponseWriter, r *http.Request) {
	var req PointsRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Points <= 0 || req.Activity == "" {
		writeError(w, http.StatusBadRequest, "Points must be positive and activity is required")
		return
	}
	if !h.Session.AwardPoints(r.Context(), req.Points, req.Activity, req.Description) {
		writeError(w, http.StatusUnauthorized, "Please log in first")
		return
	}
	writeJSON(w, http.StatusOK, UserResponse{Success: true, User: h.Session.Current()})
}

// Activities handles GET /api/session/activities?limit=.
func (h *Handler) Activities(w http.ResponseWriter, r *http.Request) {
	u := h.Session.Current()
	if u == nil {
		writeError(w, http.StatusUnauthorized, "Please log in first")
		return
	}
	if h.Ledger == nil {
		writeJSON(w, http.StatusOK, ActivitiesResponse{Success: true, Activities: u.RecentActivities})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.Ledger.Recent(r.Context(), u.ID, limit)
	if err != nil {
		h.fail(w, err, "load activities")
		return
	}
	pending, err := h.Ledger.Pending(r.Context(), u.ID)
	if err != nil {
		h.fail(w, err, "load activities")
		return
	}
	if entries == nil {
		entries = []models.PointActivity{}
	}
	writeJSON(w, http.StatusOK, ActivitiesResponse{Success: true, Activities: entries, Pending: pending})
}

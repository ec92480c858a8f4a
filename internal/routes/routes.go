package routes

import (
	"github.com/AnshRaj112/innerbloom-companion/internal/handlers"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(r chi.Router, h *handlers.Handler) {
	r.Get("/health", h.Health)

	// Session
	r.Post("/api/session/login", h.Login)
	r.Post("/api/session/signup", h.Signup)
	r.Post("/api/session/logout", h.Logout)
	r.Get("/api/session/me", h.Me)
	r.Post("/api/session/points", h.AwardPoints)
	r.Get("/api/session/activities", h.Activities)

	// Onboarding and home
	r.Get("/api/onboarding", h.OnboardingState)
	r.Post("/api/onboarding/start", h.StartBlooming)
	r.Post("/api/onboarding/initiation", h.CompleteInitiation)
	r.Get("/api/affirmation", h.GetAffirmation)
	r.Get("/api/stats", h.GetStats)
	r.Get("/api/leaderboard", h.GetLeaderboard)

	// Companion features
	r.Post("/api/ai/chat", h.Chat)
	r.Post("/api/guides/{type}", h.DownloadGuide)
	r.Post("/api/community/hugs", h.SendHug)

	// Rewards
	r.Get("/api/rewards/daily", h.DailyReward)
	r.Post("/api/rewards/daily/claim", h.ClaimDaily)
	r.Get("/api/rewards/random", h.RandomReward)
	r.Post("/api/rewards/random/claim", h.ClaimRandom)
	r.Post("/api/rewards/offer/claim", h.ClaimOffer)

	// Screens
	r.Post("/api/screens/{name}/mount", h.MountScreen)
	r.Post("/api/screens/{name}/unmount", h.UnmountScreen)
	r.Get("/api/screens/{name}", h.GetScreen)

	r.Get("/ws/events", h.Events)
}

package platformtwin

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/AnshRaj112/innerbloom-companion/internal/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": h.store.Now().Format(time.RFC3339),
	})
}

// Core platform. These endpoints answer without the success envelope.

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.User(chi.URLParam(r, "id")))
}

type pointsRequest struct {
	Points      int    `json:"points"`
	Activity    string `json:"activity"`
	Description string `json:"description"`
}

func (h *Handler) addPoints(w http.ResponseWriter, r *http.Request) {
	var req pointsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid body"})
		return
	}
	if req.Activity == "" {
		req.Activity = "unknown"
	}
	if req.Description == "" {
		req.Description = "Points earned"
	}
	h.store.AddPoints(chi.URLParam(r, "id"), req.Points, req.Activity, req.Description)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "points_added": req.Points})
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Stats())
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	writeJSON(w, http.StatusOK, h.store.Leaderboard(limit))
}

type chatRequest struct {
	UserID   string `json:"user_id"`
	Message  string `json:"message"`
	UserName string `json:"user_name"`
}

func (h *Handler) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Message is required"})
		return
	}
	if req.UserName == "" {
		req.UserName = "Beautiful"
	}
	mood := 6
	lower := strings.ToLower(req.Message)
	switch {
	case strings.Contains(lower, "sad"), strings.Contains(lower, "tired"), strings.Contains(lower, "anxious"):
		mood = 3
	case strings.Contains(lower, "happy"), strings.Contains(lower, "great"), strings.Contains(lower, "grateful"):
		mood = 9
	}
	writeJSON(w, http.StatusOK, models.ChatReply{
		Response:    fmt.Sprintf("I hear you, %s. Thank you for sharing that with me. 🌸", req.UserName),
		MoodScore:   mood,
		Suggestions: []string{"Take three deep breaths", "Write down one thing you're proud of", "Reach out to a sister"},
		Timestamp:   h.store.Now().Format(time.RFC3339),
	})
}

func (h *Handler) affirmation(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		userID = DemoUserID
	}
	now := h.store.Now()
	f := fnv.New32a()
	f.Write([]byte(userID + now.Format(models.DateLayout)))
	writeJSON(w, http.StatusOK, models.Affirmation{
		Affirmation: affirmations[int(f.Sum32()%uint32(len(affirmations)))],
		Timestamp:   now.Format(time.RFC3339),
	})
}

type guideRequest struct {
	UserEmail string `json:"user_email"`
	UserName  string `json:"user_name"`
	UserID    string `json:"user_id"`
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	title, ok := guides[chi.URLParam(r, "type")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "unknown guide"})
		return
	}
	var req guideRequest
	json.NewDecoder(r.Body).Decode(&req)
	if req.UserName == "" {
		req.UserName = "Demo User"
	}
	body := fmt.Sprintf("%%PDF-1.4\n%% %s\n%% Prepared for %s\n%%%%EOF\n", title, req.UserName)
	filename := strings.ReplaceAll(title+" "+req.UserName, " ", "_") + ".pdf"

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}

// Gamification widgets.

func (h *Handler) randomReward(w http.ResponseWriter, r *http.Request) {
	rarity := rollRarity(h.store.Float64())
	pool := remoteRewards[rarity]
	reward := pool[h.store.Intn(len(pool))]
	reward.Rarity = rarity
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"reward":    reward,
		"timestamp": h.store.Now().Format(time.RFC3339),
	})
}

func (h *Handler) achievements(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "achievements": achievements})
}

func (h *Handler) dailyChallenge(w http.ResponseWriter, r *http.Request) {
	challenge := challenges[h.store.Now().Day()%len(challenges)]
	writeJSON(w, http.StatusOK, map[string]any{
		"success":             true,
		"challenge":           challenge,
		"participation_count": h.store.Between(500, 2000),
		"completion_rate":     h.store.Between(65, 85),
	})
}

func (h *Handler) limitedOffer(w http.ResponseWriter, r *http.Request) {
	offer := limitedOffers[h.store.Intn(len(limitedOffers))]
	offer.SpotsRemaining = h.store.Between(15, 99)
	offer.ClaimedBy = h.store.Between(200, 800)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "offer": offer, "is_active": true})
}

func (h *Handler) milestoneProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":           true,
		"milestones":        milestones,
		"overall_progress":  69,
		"next_breakthrough": "Your next major breakthrough is just 3 days away!",
	})
}

// Social proof.

func (h *Handler) pickName() string {
	return sisterNames[h.store.Intn(len(sisterNames))]
}

func (h *Handler) liveActivity(w http.ResponseWriter, r *http.Request) {
	now := h.store.Now()
	unlocked := []string{"Rising Star", "Divine Warrior", "Sacred Queen"}
	activities := make([]models.Activity, 15)
	for i := range activities {
		a := models.Activity{
			ID:           fmt.Sprintf("activity_%d", i),
			SisterName:   h.pickName(),
			Action:       activityActions[h.store.Intn(len(activityActions))],
			Timestamp:    now.Add(-time.Duration(h.store.Between(1, 120)) * time.Minute).Format(time.RFC3339),
			PointsEarned: []int{25, 50, 75, 100, 150, 200}[h.store.Intn(6)],
			Location:     locations[h.store.Intn(len(locations))],
		}
		if n := h.store.Intn(6); n < len(unlocked) {
			a.AchievementUnlocked = &unlocked[n]
		}
		activities[i] = a
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":                     true,
		"activities":                  activities,
		"total_active_now":            h.store.Between(847, 1247),
		"total_transformations_today": h.store.Between(156, 289),
	})
}

func (h *Handler) testimonials(w http.ResponseWriter, r *http.Request) {
	testimonials := make([]models.Testimonial, 8)
	for i := range testimonials {
		testimonials[i] = models.Testimonial{
			ID:                 fmt.Sprintf("testimonial_%d", i),
			SisterName:         h.pickName(),
			Story:              successStories[h.store.Intn(len(successStories))],
			TransformationArea: transformationAreas[h.store.Intn(len(transformationAreas))],
			TimeToResult:       []string{"2 weeks", "1 month", "3 months", "6 months"}[h.store.Intn(4)],
			BeforeRating:       h.store.Between(2, 4),
			AfterRating:        h.store.Between(8, 10),
			Verified:           true,
			Featured:           h.store.Intn(4) == 0,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":               true,
		"testimonials":          testimonials,
		"total_success_stories": h.store.Between(2847, 3156),
	})
}

func (h *Handler) urgencyMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"metrics": models.UrgencyMetrics{
			SistersJoinedToday:        h.store.Between(47, 89),
			SistersJoinedThisHour:     h.store.Between(3, 12),
			TransformationsInProgress: h.store.Between(234, 456),
			SuccessStoriesSharedToday: h.store.Between(23, 67),
			TotalCommunitySize:        h.store.Between(12847, 15234),
			AverageTransformationTime: "21 days",
			SuccessRate:               "94%",
			SpotsRemainingVIP:         h.store.Between(7, 23),
			LimitedOfferExpiresIn:     h.store.Between(3600, 86400),
			SistersOnlineNow:          h.store.Between(156, 289),
			CurrentEnergyLevel:        h.store.Between(85, 98),
			ManifestationsToday:       h.store.Between(34, 78),
		},
	})
}

func (h *Handler) scarcityAlerts(w http.ResponseWriter, r *http.Request) {
	alerts := []models.ScarcityAlert{
		{Type: "limited_spots", Title: "VIP Circle Almost Full!", Message: fmt.Sprintf("Only %d spots remaining in this month's VIP Sister Circle", h.store.Between(3, 15)), UrgencyLevel: "critical", ExpiresInHours: h.store.Between(6, 48), ClaimedCount: h.store.Between(87, 97), TotalSpots: 100},
		{Type: "exclusive_content", Title: "Sacred Wisdom Disappearing Soon!", Message: "Exclusive masterclass access expires in 24 hours", UrgencyLevel: "high", ExpiresInHours: h.store.Between(12, 24), ClaimedCount: h.store.Between(234, 456), TotalSpots: 500},
		{Type: "bonus_points", Title: "Double Points Ending!", Message: "Last chance to earn double transformation points", UrgencyLevel: "medium", ExpiresInHours: h.store.Between(2, 8), ClaimedCount: h.store.Between(123, 234), TotalSpots: 300},
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":             true,
		"alerts":              alerts,
		"total_active_offers": len(alerts),
	})
}

func (h *Handler) communityEnergy(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"energy": models.CommunityEnergy{
			CurrentEnergy:            h.store.Between(78, 96),
			EnergyTrend:              []string{"rising", "stable", "peak"}[h.store.Intn(3)],
			PeakHours:                []string{"6:00 AM - 9:00 AM", "6:00 PM - 9:00 PM"},
			MostActiveRegions:        []string{"California", "New York", "Texas", "Florida"},
			CollectiveManifestations: h.store.Between(45, 89),
			GroupChallengesActive:    h.store.Between(3, 7),
			SistersMeditatingNow:     h.store.Between(23, 67),
			PositiveVibesSent:        h.store.Between(234, 567),
			TransformationMomentum:   h.store.Between(85, 98),
			NextEnergyBoost:          fmt.Sprintf("Full Moon Ceremony in %d days", h.store.Between(3, 14)),
		},
	})
}

func (h *Handler) socialLeaderboard(w http.ResponseWriter, r *http.Request) {
	recent := []string{"Sacred Warrior", "Divine Queen", "Transformation Master"}
	board := make([]models.RankedSister, 20)
	for i := range board {
		entry := models.RankedSister{
			SisterName:          h.pickName(),
			Points:              h.store.Between(500, 5000),
			Level:               h.store.Between(3, 15),
			Streak:              h.store.Between(7, 180),
			TransformationScore: h.store.Between(65, 98),
			IsCurrentUser:       i == 7,
			Tier:                titleCase(identityOrder[h.store.Intn(len(identityOrder))]),
		}
		if n := h.store.Intn(4); n < len(recent) {
			entry.RecentAchievement = &recent[n]
		}
		board[i] = entry
	}
	sort.SliceStable(board, func(i, j int) bool { return board[i].Points > board[j].Points })
	for i := range board {
		board[i].Rank = i + 1
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"leaderboard": board,
		"user_rank":   8,
	})
}

// Identity.

func (h *Handler) sisterProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		userID = DemoUserID
	}
	u := h.store.User(userID)
	tier := identityTier(u.Points)
	titles := sacredTitles[tier]

	var next models.NextTier
	if name, needed, ok := nextIdentityTier(tier); ok {
		next = models.NextTier{PointsNeeded: &needed, NextTier: &name}
	}
	bloomName := u.BloomName
	if bloomName == "" {
		bloomName = "Divine Rose"
	}
	f := fnv.New32a()
	f.Write([]byte(u.ID))
	sum := int(f.Sum32())

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"profile": models.SisterProfile{
			SisterID:             fmt.Sprintf("SIS%06d", sum%1000000),
			BloomName:            bloomName,
			SacredTitle:          titles[sum%len(titles)],
			Tier:                 tier,
			TierDisplay:          titleCase(tier),
			Points:               u.Points,
			AwakeningDate:        u.CreatedAt.Format(time.RFC3339),
			TransformationLevel:  min(10, u.Level),
			SacredNumber:         111 + sum%889,
			DivineElement:        []string{"Fire", "Water", "Earth", "Air", "Spirit"}[sum%5],
			MoonPhaseJoined:      []string{"New Moon", "Waxing Moon", "Full Moon", "Waning Moon"}[sum%4],
			Privileges:           privileges[tier],
			NextTierRequirements: next,
		},
	})
}

func (h *Handler) transformation(w http.ResponseWriter, r *http.Request) {
	areas := make([]models.TransformationArea, len(growthAreas))
	total := 0
	for i, a := range growthAreas {
		a.CurrentLevel = h.store.Between(2, 9)
		total += a.CurrentLevel
		areas[i] = a
	}
	overall := math.Round(float64(total)/float64(len(areas)*10)*1000) / 10

	stage, next := "Awakening Bud", "Growing Seed"
	switch {
	case overall > 70:
		stage, next = "Blooming Butterfly", "Divine Goddess"
	case overall > 40:
		stage, next = "Growing Seed", "Blooming Butterfly"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"transformation": models.Transformation{
			Areas:               areas,
			OverallProgress:     overall,
			TransformationStage: stage,
			NextEvolution:       next,
		},
	})
}

func (h *Handler) exclusiveAccess(w http.ResponseWriter, r *http.Request) {
	tier := r.URL.Query().Get("tier")
	if _, ok := privileges[tier]; !ok {
		tier = models.IdentityNovice
	}
	rank := 0
	for i, t := range identityOrder {
		if t == tier {
			rank = i
		}
	}
	access := models.ExclusiveAccess{
		CurrentTier: tier,
		Privileges:  privileges[tier],
		ExclusiveContent: []models.ExclusiveContent{
			{Title: "Sacred Feminine Wisdom", Description: "Ancient secrets for modern goddesses", Type: "video_series", Locked: rank < 1},
			{Title: "Manifestation Mastery", Description: "Advanced techniques for creating your reality", Type: "workshop", Locked: rank < 2},
			{Title: "Divine Business Blueprint", Description: "Build your empire with sacred principles", Type: "masterclass", Locked: rank < 3},
		},
		NextUnlock: models.NextUnlock{
			Requirements: "Complete 5 more challenges and earn 200 more points",
			Benefits:     "Unlock VIP Sister Circles and exclusive workshops",
		},
	}
	if name, _, ok := nextIdentityTier(tier); ok {
		access.NextUnlock.Tier = &name
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "access": access})
}

func (h *Handler) sisterhoodBonding(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":           true,
		"activities":        bondingActivities,
		"community_message": "Your sisters are waiting to connect with your divine energy!",
	})
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

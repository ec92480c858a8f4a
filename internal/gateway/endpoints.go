package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/AnshRaj112/innerbloom-companion/internal/models"
)

// User fetches GET /user/{id}.
func (c *Client) User(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := c.getJSON(ctx, "/user/"+url.PathEscape(id), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Stats fetches GET /stats.
func (c *Client) Stats(ctx context.Context) (*models.PlatformStats, error) {
	var s models.PlatformStats
	if err := c.getJSON(ctx, "/stats", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// PointsRequest is the body of POST /user/{id}/points.
type PointsRequest struct {
	Points      int    `json:"points"`
	Activity    string `json:"activity"`
	Description string `json:"description"`
}

// AwardPoints posts a point award for the user.
func (c *Client) AwardPoints(ctx context.Context, userID string, req PointsRequest) error {
	var resp struct {
		Success bool `json:"success"`
	}
	path := "/user/" + url.PathEscape(userID) + "/points"
	if err := c.postJSON(ctx, path, req, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("POST %s not acknowledged: %w", path, ErrNoData)
	}
	return nil
}

// ChatRequest is the body of POST /ai/chat.
type ChatRequest struct {
	UserID   string `json:"user_id"`
	Message  string `json:"message"`
	UserName string `json:"user_name"`
}

// Chat sends a message to the AI companion.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*models.ChatReply, error) {
	var reply models.ChatReply
	if err := c.postJSON(ctx, "/ai/chat", req, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// Affirmation fetches GET /ai/affirmation?user_id=.
func (c *Client) Affirmation(ctx context.Context, userID string) (*models.Affirmation, error) {
	var a models.Affirmation
	if err := c.getJSON(ctx, "/ai/affirmation", url.Values{"user_id": {userID}}, &a); err != nil {
		return nil, err
	}
	if a.Affirmation == "" {
		return nil, fmt.Errorf("empty affirmation: %w", ErrNoData)
	}
	return &a, nil
}

// GuideRequest is the body of POST /download/{type}.
type GuideRequest struct {
	UserEmail string `json:"user_email"`
	UserName  string `json:"user_name"`
	UserID    string `json:"user_id"`
}

// Document is a downloaded binary guide.
type Document struct {
	Data        []byte
	ContentType string
}

// DownloadGuide fetches the binary document for pdfType.
func (c *Client) DownloadGuide(ctx context.Context, pdfType string, req GuideRequest) (*Document, error) {
	data, contentType, err := c.do(ctx, http.MethodPost, "/download/"+url.PathEscape(pdfType), nil, req)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty document %q: %w", pdfType, ErrNoData)
	}
	if contentType == "" {
		contentType = "application/pdf"
	}
	return &Document{Data: data, ContentType: contentType}, nil
}

// Leaderboard fetches GET /leaderboard.
func (c *Client) Leaderboard(ctx context.Context) ([]models.Leader, error) {
	var leaders []models.Leader
	if err := c.getJSON(ctx, "/leaderboard", nil, &leaders); err != nil {
		return nil, err
	}
	return leaders, nil
}

// Gamification widgets.

func (c *Client) DailyChallenge(ctx context.Context) (*models.ChallengeResponse, error) {
	var resp models.ChallengeResponse
	if err := c.getEnvelope(ctx, "/addiction/daily-challenge", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) LimitedOffer(ctx context.Context) (*models.LimitedOffer, error) {
	var resp struct {
		Offer *models.LimitedOffer `json:"offer"`
	}
	if err := c.getEnvelope(ctx, "/addiction/limited-offer", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Offer == nil {
		return nil, fmt.Errorf("limited offer missing: %w", ErrNoData)
	}
	return resp.Offer, nil
}

func (c *Client) Milestones(ctx context.Context) (*models.MilestoneResponse, error) {
	var resp models.MilestoneResponse
	if err := c.getEnvelope(ctx, "/addiction/milestone-progress", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Achievements(ctx context.Context) ([]models.Achievement, error) {
	var resp struct {
		Achievements []models.Achievement `json:"achievements"`
	}
	if err := c.getEnvelope(ctx, "/addiction/achievements", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Achievements, nil
}

// RandomReward asks the platform to roll an unsolicited reward.
func (c *Client) RandomReward(ctx context.Context) (*models.RemoteReward, error) {
	var resp struct {
		Reward *models.RemoteReward `json:"reward"`
	}
	if err := c.postEnvelope(ctx, "/addiction/random-reward", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Reward == nil {
		return nil, fmt.Errorf("reward missing: %w", ErrNoData)
	}
	return resp.Reward, nil
}

// Social proof.

func (c *Client) LiveActivity(ctx context.Context) (*models.LiveActivityFeed, error) {
	var resp models.LiveActivityFeed
	if err := c.getEnvelope(ctx, "/social/live-activity", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Testimonials(ctx context.Context) ([]models.Testimonial, error) {
	var resp struct {
		Testimonials []models.Testimonial `json:"testimonials"`
	}
	if err := c.getEnvelope(ctx, "/social/success-testimonials", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Testimonials, nil
}

func (c *Client) UrgencyMetrics(ctx context.Context) (*models.UrgencyMetrics, error) {
	var resp struct {
		Metrics *models.UrgencyMetrics `json:"metrics"`
	}
	if err := c.getEnvelope(ctx, "/social/urgency-metrics", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Metrics == nil {
		return nil, fmt.Errorf("metrics missing: %w", ErrNoData)
	}
	return resp.Metrics, nil
}

func (c *Client) ScarcityAlerts(ctx context.Context) ([]models.ScarcityAlert, error) {
	var resp struct {
		Alerts []models.ScarcityAlert `json:"alerts"`
	}
	if err := c.getEnvelope(ctx, "/social/scarcity-alerts", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Alerts, nil
}

func (c *Client) CommunityEnergy(ctx context.Context) (*models.CommunityEnergy, error) {
	var resp struct {
		Energy *models.CommunityEnergy `json:"energy"`
	}
	if err := c.getEnvelope(ctx, "/social/community-energy", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Energy == nil {
		return nil, fmt.Errorf("energy missing: %w", ErrNoData)
	}
	return resp.Energy, nil
}

func (c *Client) SocialLeaderboard(ctx context.Context) ([]models.RankedSister, error) {
	var resp struct {
		Leaderboard []models.RankedSister `json:"leaderboard"`
	}
	if err := c.getEnvelope(ctx, "/social/leaderboard", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Leaderboard, nil
}

// Identity.

func (c *Client) SisterProfile(ctx context.Context, userID string) (*models.SisterProfile, error) {
	var resp struct {
		Profile *models.SisterProfile `json:"profile"`
	}
	if err := c.getEnvelope(ctx, "/identity/sister-profile", url.Values{"user_id": {userID}}, &resp); err != nil {
		return nil, err
	}
	if resp.Profile == nil {
		return nil, fmt.Errorf("profile missing: %w", ErrNoData)
	}
	return resp.Profile, nil
}

func (c *Client) Transformation(ctx context.Context) (*models.Transformation, error) {
	var resp struct {
		Transformation *models.Transformation `json:"transformation"`
	}
	if err := c.getEnvelope(ctx, "/identity/transformation-tracking", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Transformation == nil {
		return nil, fmt.Errorf("transformation missing: %w", ErrNoData)
	}
	return resp.Transformation, nil
}

func (c *Client) ExclusiveAccess(ctx context.Context, tier string) (*models.ExclusiveAccess, error) {
	if tier == "" {
		tier = models.IdentityNovice
	}
	var resp struct {
		Access *models.ExclusiveAccess `json:"access"`
	}
	if err := c.getEnvelope(ctx, "/identity/exclusive-access", url.Values{"tier": {tier}}, &resp); err != nil {
		return nil, err
	}
	if resp.Access == nil {
		return nil, fmt.Errorf("access missing: %w", ErrNoData)
	}
	return resp.Access, nil
}

func (c *Client) SisterhoodBonding(ctx context.Context) ([]models.BondingActivity, error) {
	var resp struct {
		Activities []models.BondingActivity `json:"activities"`
	}
	if err := c.getEnvelope(ctx, "/identity/sisterhood-bonding", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Activities, nil
}

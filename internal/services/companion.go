package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AnshRaj112/innerbloom-companion/internal/gateway"
	"github.com/AnshRaj112/innerbloom-companion/internal/models"
	"github.com/AnshRaj112/innerbloom-companion/internal/session"
	"go.uber.org/zap"
)

// Points awarded for companion interactions.
const (
	ChatPoints  = 5
	GuidePoints = 20
)

// Guide types the platform can render.
var GuideTypes = []string{"parenting-guide", "empowerment-guide", "business-guide"}

var (
	ErrNotLoggedIn  = errors.New("services: no user logged in")
	ErrUnknownGuide = errors.New("services: unknown guide type")
	ErrEmptyMessage = errors.New("services: message is required")
)

// Platform is the slice of the gateway the companion features use.
type Platform interface {
	Chat(ctx context.Context, req gateway.ChatRequest) (*models.ChatReply, error)
	DownloadGuide(ctx context.Context, pdfType string, req gateway.GuideRequest) (*gateway.Document, error)
}

// Guide is a downloaded guide ready to hand to the SPA.
type Guide struct {
	Filename    string
	ContentType string
	Data        []byte
	// ArchiveURL is set when the guide was archived.
	ArchiveURL string
}

// Companion implements the AI chat, guide downloads and community hugs.
type Companion struct {
	platform Platform
	session  *session.Manager
	archive  GuideArchive
	logger   *zap.Logger
}

// NewCompanion wires the features. archive may be nil.
func NewCompanion(p Platform, s *session.Manager, archive GuideArchive, logger *zap.Logger) *Companion {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Companion{platform: p, session: s, archive: archive, logger: logger}
}

// Chat sends message to the AI companion and awards ChatPoints on a reply.
func (c *Companion) Chat(ctx context.Context, message string) (*models.ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	u := c.session.Current()
	if u == nil {
		return nil, ErrNotLoggedIn
	}
	reply, err := c.platform.Chat(ctx, gateway.ChatRequest{UserID: u.ID, Message: message, UserName: u.Name})
	if err != nil {
		return nil, fmt.Errorf("chat: %w", err)
	}
	c.session.AwardPoints(ctx, ChatPoints, "ai_chat", "Chatted with Bloom AI")
	return reply, nil
}

// ValidGuide reports whether pdfType is a known guide.
func ValidGuide(pdfType string) bool {
	for _, g := range GuideTypes {
		if g == pdfType {
			return true
		}
	}
	return false
}

// DownloadGuide fetches the guide, archives it when an archive is configured
// and awards GuidePoints. Archive failures are logged and don't fail the
// download.
func (c *Companion) DownloadGuide(ctx context.Context, pdfType string) (*Guide, error) {
	if !ValidGuide(pdfType) {
		return nil, ErrUnknownGuide
	}
	u := c.session.Current()
	if u == nil {
		return nil, ErrNotLoggedIn
	}
	doc, err := c.platform.DownloadGuide(ctx, pdfType, gateway.GuideRequest{UserEmail: u.Email, UserName: u.Name, UserID: u.ID})
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", pdfType, err)
	}

	g := &Guide{
		Filename:    GuideFilename(pdfType, u.Name),
		ContentType: doc.ContentType,
		Data:        doc.Data,
	}
	if c.archive != nil {
		name := strings.TrimSuffix(g.Filename, ".pdf")
		url, err := c.archive.Archive(ctx, name, doc.Data)
		if err != nil {
			c.logger.Warn("archiving guide failed", zap.String("guide", pdfType), zap.Error(err))
		} else {
			g.ArchiveURL = url
		}
	}

	c.session.AwardPoints(ctx, GuidePoints, "pdf_download", fmt.Sprintf("Downloaded %s guide", pdfType))
	return g, nil
}

// GuideFilename is the download name for a guide, e.g.
// "business-guide_Ana_Maria.pdf".
func GuideFilename(pdfType, userName string) string {
	name := strings.Join(strings.Fields(userName), "_")
	if name == "" {
		name = "Sister"
	}
	return pdfType + "_" + name + ".pdf"
}

// SendHug sends a virtual hug to the community. Hugs count toward the user's
// total but award no points.
func (c *Companion) SendHug(ctx context.Context, message string) (int, error) {
	total := 0
	ok := c.session.Update(ctx, func(u *models.User) {
		u.TotalHugsSent++
		total = u.TotalHugsSent
	})
	if !ok {
		return 0, ErrNotLoggedIn
	}
	c.logger.Info("virtual hug sent", zap.Int("total_hugs_sent", total), zap.Int("message_length", len(message)))
	return total, nil
}

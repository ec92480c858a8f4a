package services

import (
	"context"

	"github.com/AnshRaj112/innerbloom-companion/internal/flags"
	"github.com/AnshRaj112/innerbloom-companion/internal/models"
	"github.com/AnshRaj112/innerbloom-companion/internal/session"
	"go.uber.org/zap"
)

// DefaultAffirmation is shown when nothing has ever been fetched.
const DefaultAffirmation = "You are capable of amazing things today! ✨"

// AffirmationSource fetches the day's affirmation from the platform.
type AffirmationSource interface {
	Affirmation(ctx context.Context, userID string) (*models.Affirmation, error)
}

// DailyAffirmation fetches at most one affirmation per calendar day.
type DailyAffirmation struct {
	flags   *flags.Flags
	remote  AffirmationSource
	session *session.Manager
	logger  *zap.Logger
}

func NewDailyAffirmation(f *flags.Flags, remote AffirmationSource, s *session.Manager, logger *zap.Logger) *DailyAffirmation {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DailyAffirmation{flags: f, remote: remote, session: s, logger: logger}
}

// Today returns today's affirmation. A cached one from today is used as is.
// Otherwise the platform is asked on behalf of the logged-in user; when that
// is not possible the last cached affirmation or DefaultAffirmation is
// returned and nothing is cached.
func (d *DailyAffirmation) Today(ctx context.Context) string {
	cached, fresh, err := d.flags.Daily(ctx, models.FlagAffirmationDate, models.FlagDailyAffirmation)
	if err != nil {
		d.logger.Warn("reading cached affirmation failed", zap.Error(err))
	}
	if fresh && cached != "" {
		return cached
	}

	if u := d.session.Current(); u != nil && d.remote != nil {
		a, err := d.remote.Affirmation(ctx, u.ID)
		if err == nil {
			if err := d.flags.SetDaily(ctx, models.FlagAffirmationDate, models.FlagDailyAffirmation, a.Affirmation); err != nil {
				d.logger.Warn("caching affirmation failed", zap.Error(err))
			}
			return a.Affirmation
		}
		d.logger.Warn("fetching affirmation failed", zap.Error(err))
	}

	if cached != "" {
		return cached
	}
	return DefaultAffirmation
}

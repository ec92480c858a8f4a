package flags

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/AnshRaj112/innerbloom-companion/internal/clock"
	"github.com/AnshRaj112/innerbloom-companion/internal/models"
	"github.com/AnshRaj112/innerbloom-companion/pkg/utils"
	"go.uber.org/zap"
)

// Flags gives typed access to the persisted local state keys.
type Flags struct {
	store  Store
	clock  clock.Clock
	sealer *utils.Sealer
	logger *zap.Logger
}

// New wraps store. When sealer is non-nil the user snapshot is encrypted at
// rest.
func New(store Store, clk clock.Clock, sealer *utils.Sealer, logger *zap.Logger) *Flags {
	if clk == nil {
		clk = clock.Real()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Flags{store: store, clock: clk, sealer: sealer, logger: logger}
}

// Bool reads a boolean flag. Missing or unparsable values read as false.
func (f *Flags) Bool(ctx context.Context, key string) (bool, error) {
	v, ok, err := f.store.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, nil
	}
	return b, nil
}

func (f *Flags) SetBool(ctx context.Context, key string, value bool) error {
	return f.store.Set(ctx, key, strconv.FormatBool(value))
}

// Today is the current local calendar date in DateLayout.
func (f *Flags) Today() string {
	return f.clock.Now().Local().Format(models.DateLayout)
}

// IsToday reports whether the date stored under key is today's.
func (f *Flags) IsToday(ctx context.Context, key string) (bool, error) {
	v, ok, err := f.store.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	return v == f.Today(), nil
}

// MarkToday stores today's date under key.
func (f *Flags) MarkToday(ctx context.Context, key string) error {
	return f.store.Set(ctx, key, f.Today())
}

// Daily returns the cached value for a date-scoped cache. fresh is true only
// when the cache was written today.
func (f *Flags) Daily(ctx context.Context, dateKey, valueKey string) (value string, fresh bool, err error) {
	value, _, err = f.store.Get(ctx, valueKey)
	if err != nil {
		return "", false, err
	}
	fresh, err = f.IsToday(ctx, dateKey)
	if err != nil {
		return value, false, err
	}
	return value, fresh && value != "", nil
}

// SetDaily writes the value first so a torn write leaves a stale date rather
// than a fresh date with an old value.
func (f *Flags) SetDaily(ctx context.Context, dateKey, valueKey, value string) error {
	if err := f.store.Set(ctx, valueKey, value); err != nil {
		return err
	}
	return f.MarkToday(ctx, dateKey)
}

// SaveUser persists the user snapshot.
func (f *Flags) SaveUser(ctx context.Context, u *models.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encoding user snapshot: %w", err)
	}
	value := string(data)
	if f.sealer != nil {
		if value, err = f.sealer.Seal(value); err != nil {
			return fmt.Errorf("sealing user snapshot: %w", err)
		}
	}
	return f.store.Set(ctx, models.FlagUserSnapshot, value)
}

// LoadUser reads the user snapshot. It returns nil when there is none. A
// snapshot that can't be read back is removed and treated as logged out.
func (f *Flags) LoadUser(ctx context.Context) (*models.User, error) {
	value, ok, err := f.store.Get(ctx, models.FlagUserSnapshot)
	if err != nil || !ok {
		return nil, err
	}

	if f.sealer != nil {
		opened, err := f.sealer.Open(value)
		if err != nil {
			return nil, f.discardSnapshot(ctx, err)
		}
		value = opened
	}

	var u models.User
	if err := json.Unmarshal([]byte(value), &u); err != nil {
		return nil, f.discardSnapshot(ctx, err)
	}
	if u.ID == "" {
		return nil, f.discardSnapshot(ctx, fmt.Errorf("snapshot has no user id"))
	}
	return &u, nil
}

func (f *Flags) discardSnapshot(ctx context.Context, cause error) error {
	f.logger.Warn("discarding unreadable user snapshot", zap.Error(cause))
	return f.ClearUser(ctx)
}

// ClearUser removes the user snapshot.
func (f *Flags) ClearUser(ctx context.Context) error {
	return f.store.Delete(ctx, models.FlagUserSnapshot)
}

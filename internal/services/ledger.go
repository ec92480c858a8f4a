package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/AnshRaj112/innerbloom-companion/internal/database"
	"github.com/AnshRaj112/innerbloom-companion/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultRecentLimit caps Recent when no limit is given.
const DefaultRecentLimit = 50

// ActivityLedger records every point award and whether the platform has
// acknowledged it.
type ActivityLedger interface {
	Record(ctx context.Context, a models.PointActivity) error
	MarkSynced(ctx context.Context, id string) error
	// Recent returns the user's latest entries, newest first.
	Recent(ctx context.Context, userID string, limit int) ([]models.PointActivity, error)
	// Pending counts entries the platform has not acknowledged.
	Pending(ctx context.Context, userID string) (int, error)
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > DefaultRecentLimit {
		return DefaultRecentLimit
	}
	return limit
}

// MemoryLedger keeps entries in process memory.
type MemoryLedger struct {
	mu      sync.RWMutex
	entries []models.PointActivity
	index   map[string]int
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{index: make(map[string]int)}
}

func (l *MemoryLedger) Record(_ context.Context, a models.PointActivity) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i, ok := l.index[a.ID]; ok {
		l.entries[i] = a
		return nil
	}
	l.index[a.ID] = len(l.entries)
	l.entries = append(l.entries, a)
	return nil
}

func (l *MemoryLedger) MarkSynced(_ context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	i, ok := l.index[id]
	if !ok {
		return fmt.Errorf("ledger: unknown activity %q", id)
	}
	l.entries[i].Synced = true
	return nil
}

func (l *MemoryLedger) Recent(_ context.Context, userID string, limit int) ([]models.PointActivity, error) {
	limit = clampLimit(limit)
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []models.PointActivity
	for i := len(l.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if l.entries[i].UserID == userID {
			out = append(out, l.entries[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (l *MemoryLedger) Pending(_ context.Context, userID string) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := 0
	for _, e := range l.entries {
		if e.UserID == userID && !e.Synced {
			n++
		}
	}
	return n, nil
}

// MongoLedger stores entries in the point_activities collection.
type MongoLedger struct {
	col *mongo.Collection
}

func NewMongoLedger(db *mongo.Database) *MongoLedger {
	return &MongoLedger{col: db.Collection(database.ActivitiesCollection)}
}

func (l *MongoLedger) Record(ctx context.Context, a models.PointActivity) error {
	_, err := l.col.ReplaceOne(ctx, bson.M{"_id": a.ID}, a, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("ledger: record %s: %w", a.ID, err)
	}
	return nil
}

func (l *MongoLedger) MarkSynced(ctx context.Context, id string) error {
	res, err := l.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{"synced": true}})
	if err != nil {
		return fmt.Errorf("ledger: mark %s synced: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("ledger: unknown activity %q", id)
	}
	return nil
}

func (l *MongoLedger) Recent(ctx context.Context, userID string, limit int) ([]models.PointActivity, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(clampLimit(limit)))

	cur, err := l.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("ledger: recent: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.PointActivity
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("ledger: decode: %w", err)
	}
	return out, nil
}

func (l *MongoLedger) Pending(ctx context.Context, userID string) (int, error) {
	n, err := l.col.CountDocuments(ctx, bson.M{"user_id": userID, "synced": false})
	if err != nil {
		return 0, fmt.Errorf("ledger: pending: %w", err)
	}
	return int(n), nil
}

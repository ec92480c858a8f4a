package session

import (
	"context"
	"sync"
	"time"

	"github.com/AnshRaj112/innerbloom-companion/internal/gateway"
	"github.com/AnshRaj112/innerbloom-companion/internal/models"
	"go.uber.org/zap"
)

const (
	defaultQueueSize = 64
	writeTimeout     = 15 * time.Second
)

// reconciler delivers point awards to the platform one at a time, in award
// order. A failed write is logged and dropped; its ledger entry stays
// unsynced and the local total stays as awarded.
type reconciler struct {
	m      *Manager
	queue  chan models.PointActivity
	done   chan struct{}
	once   sync.Once
	mu     sync.RWMutex
	closed bool
}

func newReconciler(m *Manager, size int) *reconciler {
	if size <= 0 {
		size = defaultQueueSize
	}
	r := &reconciler{
		m:     m,
		queue: make(chan models.PointActivity, size),
		done:  make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *reconciler) enqueue(a models.PointActivity) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}
	select {
	case r.queue <- a:
	default:
		r.m.logger.Warn("point sync queue full, dropping remote write",
			zap.String("activity_id", a.ID),
			zap.String("activity", a.Activity),
		)
	}
}

func (r *reconciler) close() {
	r.once.Do(func() {
		r.mu.Lock()
		r.closed = true
		close(r.queue)
		r.mu.Unlock()
		<-r.done
	})
}

func (r *reconciler) run() {
	defer close(r.done)
	for a := range r.queue {
		r.deliver(a)
	}
}

func (r *reconciler) deliver(a models.PointActivity) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	err := r.m.remote.AwardPoints(ctx, a.UserID, gateway.PointsRequest{
		Points:      a.Points,
		Activity:    a.Activity,
		Description: a.Description,
	})
	if err != nil {
		r.m.logger.Warn("remote point write failed, keeping local total",
			zap.String("activity_id", a.ID),
			zap.String("user_id", a.UserID),
			zap.Int("points", a.Points),
			zap.Error(err),
		)
		return
	}

	if r.m.ledger != nil {
		if err := r.m.ledger.MarkSynced(ctx, a.ID); err != nil {
			r.m.logger.Warn("marking activity synced failed", zap.String("activity_id", a.ID), zap.Error(err))
		}
	}

	remote, err := r.m.remote.User(ctx, a.UserID)
	if err != nil {
		r.m.logger.Warn("refreshing user after point write failed", zap.String("user_id", a.UserID), zap.Error(err))
		return
	}
	r.m.reconcile(ctx, remote)
}

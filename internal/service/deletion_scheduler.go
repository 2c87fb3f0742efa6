package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"

	"github.com/Kerhoff/wishlist/internal/metrics"
)

// DefaultUndoWindow is how long a deletion can be undone before it is
// committed to storage.
const DefaultUndoWindow = 4 * time.Second

// commitTimeout bounds a single store delete fired by an expired timer.
const commitTimeout = 10 * time.Second

var (
	// ErrNoPendingDeletion is returned when undoing an item that has no
	// deletion waiting.
	ErrNoPendingDeletion = errors.New("no pending deletion for item")
	// ErrSchedulerClosed is returned once pending deletions were flushed.
	ErrSchedulerClosed = errors.New("deletion scheduler is closed")
)

// Timer is the part of *time.Timer the scheduler relies on.
type Timer interface {
	Stop() bool
}

// AfterFunc starts a timer that calls f after d.
type AfterFunc func(d time.Duration, f func()) Timer

func timeAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// CommitFunc removes an item from storage once its undo window expired.
type CommitFunc func(ctx context.Context, itemID int64) error

// PendingDeletion is a deletion waiting for its undo window to expire.
type PendingDeletion struct {
	ItemID   int64     `json:"item_id"`
	Title    string    `json:"title"`
	Token    string    `json:"token"`
	DeleteAt time.Time `json:"delete_at"`

	timer Timer
}

// DeletionScheduler delays item deletions so they can be undone. Every item
// has its own timer; scheduling several items keeps each one cancelable.
type DeletionScheduler struct {
	window    time.Duration
	commit    CommitFunc
	logger    *logrus.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
	afterFunc AfterFunc

	closed  atomic.Bool
	mu      sync.Mutex
	pending map[int64]*PendingDeletion
	// inflight tracks commits started by expired timers so Flush can wait.
	inflight sync.WaitGroup
}

// NewDeletionScheduler creates a scheduler that calls commit for every
// deletion whose window expires.
func NewDeletionScheduler(window time.Duration, commit CommitFunc, logger *logrus.Logger) *DeletionScheduler {
	if window <= 0 {
		window = DefaultUndoWindow
	}
	return &DeletionScheduler{
		window:    window,
		commit:    commit,
		logger:    logger,
		now:       time.Now,
		afterFunc: timeAfterFunc,
		pending:   make(map[int64]*PendingDeletion),
	}
}

// Window returns the undo window.
func (s *DeletionScheduler) Window() time.Duration {
	return s.window
}

// Closed reports whether Flush has run. It does not take the lock, so
// callers can refuse work before touching the store.
func (s *DeletionScheduler) Closed() bool {
	return s.closed.Load()
}

// Schedule starts the undo window for an item. An item that is already
// pending keeps its original deadline.
func (s *DeletionScheduler) Schedule(itemID int64, title string) (PendingDeletion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return PendingDeletion{}, ErrSchedulerClosed
	}

	if p, ok := s.pending[itemID]; ok {
		return *p, nil
	}

	p := &PendingDeletion{
		ItemID:   itemID,
		Title:    title,
		Token:    uuid.NewString(),
		DeleteAt: s.now().Add(s.window),
	}
	token := p.Token
	p.timer = s.afterFunc(s.window, func() { s.expire(itemID, token) })
	s.pending[itemID] = p

	s.metrics.DeletionScheduled()
	s.metrics.SetPendingDeletions(len(s.pending))

	s.logger.WithFields(logrus.Fields{
		"item_id":   itemID,
		"token":     token,
		"delete_at": p.DeleteAt.Format(time.RFC3339),
	}).Info("Deletion scheduled")

	return *p, nil
}

// Cancel undoes a pending deletion.
func (s *DeletionScheduler) Cancel(itemID int64) (PendingDeletion, error) {
	p, ok := s.remove(itemID)
	if !ok {
		return PendingDeletion{}, fmt.Errorf("item %d: %w", itemID, ErrNoPendingDeletion)
	}

	s.metrics.DeletionUndone()
	s.logger.WithField("item_id", itemID).Info("Deletion undone")

	return p, nil
}

// Forget drops a pending deletion without counting it as undone. It is used
// when the item is removed by other means.
func (s *DeletionScheduler) Forget(itemID int64) bool {
	_, ok := s.remove(itemID)
	return ok
}

func (s *DeletionScheduler) remove(itemID int64) (PendingDeletion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pending[itemID]
	if !ok {
		return PendingDeletion{}, false
	}
	p.timer.Stop()
	delete(s.pending, itemID)
	s.metrics.SetPendingDeletions(len(s.pending))

	return *p, true
}

// IsPending reports whether an item is waiting to be deleted.
func (s *DeletionScheduler) IsPending(itemID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[itemID]
	return ok
}

// Pending returns every pending deletion, earliest deadline first.
func (s *DeletionScheduler) Pending() []PendingDeletion {
	s.mu.Lock()
	out := make([]PendingDeletion, 0, len(s.pending))
	for _, p := range s.pending {
		out = append(out, *p)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].DeleteAt.Equal(out[j].DeleteAt) {
			return out[i].ItemID < out[j].ItemID
		}
		return out[i].DeleteAt.Before(out[j].DeleteAt)
	})
	return out
}

// expire commits a deletion whose timer fired. A token mismatch means the
// entry was canceled and rescheduled in the meantime.
func (s *DeletionScheduler) expire(itemID int64, token string) {
	s.mu.Lock()
	p, ok := s.pending[itemID]
	if !ok || p.Token != token {
		s.mu.Unlock()
		return
	}
	delete(s.pending, itemID)
	n := len(s.pending)
	s.inflight.Add(1)
	s.mu.Unlock()
	defer s.inflight.Done()

	s.metrics.SetPendingDeletions(n)

	ctx, cancel := context.WithTimeout(context.Background(), commitTimeout)
	defer cancel()

	if err := s.commit(ctx, itemID); err != nil {
		s.logger.WithError(err).WithField("item_id", itemID).Error("Failed to commit scheduled deletion")
	}
}

// Flush commits every pending deletion now and refuses new ones. It waits
// for commits already started by expired timers.
func (s *DeletionScheduler) Flush(ctx context.Context) error {
	s.mu.Lock()
	s.closed.Store(true)
	batch := make([]*PendingDeletion, 0, len(s.pending))
	for id, p := range s.pending {
		p.timer.Stop()
		batch = append(batch, p)
		delete(s.pending, id)
	}
	s.mu.Unlock()

	sort.Slice(batch, func(i, j int) bool { return batch[i].DeleteAt.Before(batch[j].DeleteAt) })

	var result *multierror.Error
	for _, p := range batch {
		if err := s.commit(ctx, p.ItemID); err != nil {
			result = multierror.Append(result, fmt.Errorf("item %d: %w", p.ItemID, err))
		}
	}
	s.metrics.SetPendingDeletions(0)

	s.inflight.Wait()

	if len(batch) > 0 {
		s.logger.Infof("Flushed %d pending deletions", len(batch))
	}

	return result.ErrorOrNil()
}

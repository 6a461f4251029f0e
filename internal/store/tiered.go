package store

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/sheetwise/interviewd/internal/interview"
)

// TieredStore layers a durable backend over the volatile one. Writes go to
// both; reads serve the live volatile copy and consult the durable one only
// when the volatile copy is missing, so a failed durable write can never
// resurface a stale record. A durable failure is logged and never blocks the
// in-progress interview.
type TieredStore struct {
	durable  interview.Store
	volatile *MemoryStore
	logger   *slog.Logger
}

// NewTieredStore combines durable and volatile backends.
func NewTieredStore(durable interview.Store, volatile *MemoryStore, logger *slog.Logger) *TieredStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &TieredStore{durable: durable, volatile: volatile, logger: logger}
}

// Get serves the volatile copy, falling back to the durable one only when
// the volatile copy is gone (e.g. after a process restart). A durable hit is
// restored into the volatile tier so later updates find it there.
func (t *TieredStore) Get(ctx context.Context, id string) (*interview.Session, error) {
	s, err := t.volatile.Get(ctx, id)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, interview.ErrSessionNotFound) {
		return nil, err
	}

	s, derr := t.durable.Get(ctx, id)
	if derr != nil {
		return nil, derr
	}
	if perr := t.volatile.Put(ctx, s); perr != nil {
		return nil, perr
	}
	return s, nil
}

// Put writes both backends concurrently. Only a volatile failure is
// returned.
func (t *TieredStore) Put(ctx context.Context, s *interview.Session) error {
	var g errgroup.Group
	g.Go(func() error {
		if err := t.durable.Put(ctx, s); err != nil {
			t.logger.Warn("durable session write failed", "session_id", s.ID, "error", err)
		}
		return nil
	})
	g.Go(func() error {
		return t.volatile.Put(ctx, s)
	})
	return g.Wait()
}

// Update applies mutate atomically on the volatile copy, then persists the
// result to the durable backend best-effort.
func (t *TieredStore) Update(ctx context.Context, id string, mutate func(*interview.Session) error) (*interview.Session, error) {
	updated, err := t.volatile.Update(ctx, id, mutate)
	if errors.Is(err, interview.ErrSessionNotFound) {
		// The volatile copy is gone (e.g. process restart); restore it from
		// the durable backend and retry once.
		durable, derr := t.durable.Get(ctx, id)
		if derr != nil {
			return nil, err
		}
		if perr := t.volatile.Put(ctx, durable); perr != nil {
			return nil, perr
		}
		updated, err = t.volatile.Update(ctx, id, mutate)
	}
	if err != nil {
		return nil, err
	}

	if derr := t.durable.Put(ctx, updated); derr != nil {
		t.logger.Warn("durable session write failed", "session_id", id, "error", derr)
	}
	return updated, nil
}

var _ interview.Store = (*TieredStore)(nil)

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sheetwise/interviewd/internal/interview"
)

// failingStore simulates a broken durable backend.
type failingStore struct {
	err error
}

func (f *failingStore) Get(context.Context, string) (*interview.Session, error) {
	return nil, f.err
}

func (f *failingStore) Put(context.Context, *interview.Session) error {
	return f.err
}

func (f *failingStore) Update(context.Context, string, func(*interview.Session) error) (*interview.Session, error) {
	return nil, f.err
}

// readOnlyDurable keeps whatever it was last able to store but rejects all
// new writes, like a disk that filled up mid-interview.
type readOnlyDurable struct {
	sessions map[string]*interview.Session
}

func (r *readOnlyDurable) Get(_ context.Context, id string) (*interview.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, interview.ErrSessionNotFound
	}
	return s.Clone(), nil
}

func (r *readOnlyDurable) Put(context.Context, *interview.Session) error {
	return errors.New("disk full")
}

func (r *readOnlyDurable) Update(context.Context, string, func(*interview.Session) error) (*interview.Session, error) {
	return nil, errors.New("disk full")
}

func TestTieredStoreReadsFallBackToDurable(t *testing.T) {
	ctx := context.Background()
	durable, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	volatile := NewMemoryStore()
	tiered := NewTieredStore(durable, volatile, nil)

	require.NoError(t, tiered.Put(ctx, newSession("s1")))

	// Remove the volatile copy; the durable one must still serve reads and
	// be restored into the volatile tier.
	volatile.sessions = map[string]*interview.Session{}
	got, err := tiered.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "s1", got.ID)
	require.Equal(t, 1, volatile.Len())
}

func TestTieredStoreReadSeesUpdateAfterDurableWriteFailure(t *testing.T) {
	ctx := context.Background()
	stale := &readOnlyDurable{sessions: map[string]*interview.Session{
		"s1": newSession("s1"),
	}}
	volatile := NewMemoryStore()
	require.NoError(t, volatile.Put(ctx, newSession("s1")))
	tiered := NewTieredStore(stale, volatile, nil)

	updated, err := tiered.Update(ctx, "s1", func(s *interview.Session) error {
		s.CurrentIndex = 1
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, updated.CurrentIndex)

	// The durable backend still holds CurrentIndex 0; the read must serve
	// the committed update, not the stale durable record.
	got, err := tiered.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, 1, got.CurrentIndex)
}

func TestTieredStoreSurvivesDurableFailure(t *testing.T) {
	ctx := context.Background()
	broken := &failingStore{err: errors.New("disk full")}
	volatile := NewMemoryStore()
	tiered := NewTieredStore(broken, volatile, nil)

	// Writes and updates continue on the volatile copy.
	require.NoError(t, tiered.Put(ctx, newSession("s1")))

	updated, err := tiered.Update(ctx, "s1", func(s *interview.Session) error {
		s.CurrentIndex = 2
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 2, updated.CurrentIndex)

	got, err := tiered.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, 2, got.CurrentIndex)
}

func TestTieredStoreUpdateRestoresVolatileFromDurable(t *testing.T) {
	ctx := context.Background()
	durable, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	tiered := NewTieredStore(durable, NewMemoryStore(), nil)

	// Only the durable copy exists, as after a process restart.
	require.NoError(t, durable.Put(ctx, newSession("s1")))

	updated, err := tiered.Update(ctx, "s1", func(s *interview.Session) error {
		s.CurrentIndex = 1
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, updated.CurrentIndex)
}

func TestTieredStoreMissingEverywhere(t *testing.T) {
	tiered := NewTieredStore(&failingStore{err: interview.ErrSessionNotFound}, NewMemoryStore(), nil)

	_, err := tiered.Get(context.Background(), "ghost")
	require.ErrorIs(t, err, interview.ErrSessionNotFound)
}

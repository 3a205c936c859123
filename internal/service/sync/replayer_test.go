package sync

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/herdwise/internal/domain/models"
	"github.com/mamadbah2/herdwise/internal/repository/badgerstore"
)

type fakeRemote struct {
	ops      []string
	failIDs  map[string]bool
	lastUser string
}

func (f *fakeRemote) Upsert(_ context.Context, userID string, entity models.EntityType, id string, _ interface{}) error {
	f.lastUser = userID
	if f.failIDs[id] {
		return errors.New("remote unavailable")
	}
	f.ops = append(f.ops, fmt.Sprintf("upsert %s %s", entity, id))
	return nil
}

func (f *fakeRemote) Delete(_ context.Context, userID string, entity models.EntityType, id string) error {
	f.lastUser = userID
	if f.failIDs[id] {
		return errors.New("remote unavailable")
	}
	f.ops = append(f.ops, fmt.Sprintf("delete %s %s", entity, id))
	return nil
}

func openTestQueue(t *testing.T) *badgerstore.Store {
	t.Helper()
	store, err := badgerstore.Open("", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestReplayAppliesFIFOAndDrainsQueue(t *testing.T) {
	queue := openTestQueue(t)
	ctx := context.Background()

	_, err := queue.Enqueue(ctx, models.OpAdd, models.EntityAnimal, models.Animal{ID: "a1", TagNumber: "C001"})
	require.NoError(t, err)
	_, err = queue.Enqueue(ctx, models.OpUpdate, models.EntityAnimal, models.Animal{ID: "a1", TagNumber: "C001", Status: models.AnimalSold})
	require.NoError(t, err)
	_, err = queue.Enqueue(ctx, models.OpDelete, models.EntityTask, map[string]string{"id": "k1"})
	require.NoError(t, err)

	remote := &fakeRemote{}
	r := NewReplayer(remote, queue, Session{UserID: "u1"}, nil)

	applied, err := r.Replay(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, applied)
	assert.Equal(t, []string{"upsert animal a1", "upsert animal a1", "delete task k1"}, remote.ops)
	assert.Equal(t, "u1", remote.lastUser)

	pending, err := queue.PendingActions(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestReplayLeavesFailedActionQueued(t *testing.T) {
	queue := openTestQueue(t)
	ctx := context.Background()

	_, err := queue.Enqueue(ctx, models.OpAdd, models.EntityCamp, models.Camp{ID: "c1"})
	require.NoError(t, err)
	_, err = queue.Enqueue(ctx, models.OpAdd, models.EntityCamp, models.Camp{ID: "c2"})
	require.NoError(t, err)

	remote := &fakeRemote{failIDs: map[string]bool{"c1": true}}
	r := NewReplayer(remote, queue, Session{UserID: "u1"}, nil)

	applied, err := r.Replay(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	// c1 stays queued for the next replay; c2 went through regardless.
	pending, err := queue.PendingActions(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, models.EntityCamp, pending[0].Entity)

	remote.failIDs = nil
	applied, err = r.Replay(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
}

func TestReplayEmptyQueue(t *testing.T) {
	queue := openTestQueue(t)
	remote := &fakeRemote{}
	r := NewReplayer(remote, queue, Session{UserID: "u1"}, nil)

	applied, err := r.Replay(context.Background())
	require.NoError(t, err)
	assert.Zero(t, applied)
	assert.Empty(t, remote.ops)
}

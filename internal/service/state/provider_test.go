package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/herdwise/internal/domain/models"
	"github.com/mamadbah2/herdwise/internal/repository/badgerstore"
)

func newTestStore(t *testing.T) *badgerstore.Store {
	t.Helper()
	store, err := badgerstore.Open("", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

type recordingMarker struct {
	marks []string
}

func (m *recordingMarker) Mark(entity models.EntityType, id string) {
	m.marks = append(m.marks, string(entity)+"/"+id)
}

func TestProviderDispatchMirrorsCache(t *testing.T) {
	store := newTestStore(t)
	p := NewProvider(store, nil, func() bool { return true }, nil)

	p.Dispatch(AddAnimal{Animal: models.Animal{ID: "a1", TagNumber: "C001", Status: models.AnimalActive}})
	p.Dispatch(AddTransaction{Transaction: models.Transaction{ID: "t1", Type: models.Income, Amount: 2500}})
	p.Close() // drains the effects queue

	var animals []models.Animal
	require.NoError(t, store.GetSnapshot(context.Background(), CollectionAnimals, &animals))
	require.Len(t, animals, 1)
	assert.Equal(t, "C001", animals[0].TagNumber)

	var transactions []models.Transaction
	require.NoError(t, store.GetSnapshot(context.Background(), CollectionTransactions, &transactions))
	require.Len(t, transactions, 1)

	// Online dispatches never reach the offline queue.
	pending, err := store.PendingActions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestProviderBackupSubset(t *testing.T) {
	store := newTestStore(t)
	p := NewProvider(store, nil, func() bool { return true }, nil)

	p.Dispatch(AddAnimal{Animal: models.Animal{ID: "a1", Status: models.AnimalActive}})
	p.Dispatch(AddTransaction{Transaction: models.Transaction{ID: "t1", Type: models.Income, Amount: 10}})
	p.Dispatch(AddEvent{Event: models.Event{ID: "e1", Type: "Shearing"}})
	p.Close()

	var blob BackupBlob
	require.NoError(t, store.GetBackup(context.Background(), &blob))
	assert.Len(t, blob.Transactions, 1)
	assert.Len(t, blob.Events, 1)
}

func TestProviderOfflineDispatchQueuesAction(t *testing.T) {
	store := newTestStore(t)
	p := NewProvider(store, nil, func() bool { return false }, nil)

	p.Dispatch(AddAnimal{Animal: models.Animal{ID: "a1", TagNumber: "C001", Status: models.AnimalActive}})
	p.Dispatch(AddEvent{Event: models.Event{ID: "e1"}}) // not in the capture list
	p.Dispatch(RemoveAnimal{ID: "a1"})
	p.Close()

	pending, err := store.PendingActions(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 2)

	assert.Equal(t, models.OpAdd, pending[0].Op)
	assert.Equal(t, models.EntityAnimal, pending[0].Entity)
	assert.Equal(t, models.OpDelete, pending[1].Op)
	assert.JSONEq(t, `{"id":"a1"}`, string(pending[1].Payload))
}

func TestProviderSeedFromCache(t *testing.T) {
	store := newTestStore(t)

	ctx := context.Background()
	require.NoError(t, store.PutSnapshot(ctx, CollectionAnimals, []models.Animal{
		{ID: "a1", TagNumber: "C001", Status: models.AnimalActive},
	}))
	require.NoError(t, store.PutSnapshot(ctx, CollectionTasks, []models.Task{
		{ID: "k1", Status: models.TaskPending},
	}))

	p := NewProvider(store, nil, func() bool { return false }, nil)
	require.NoError(t, p.SeedFromCache(ctx))

	snap := p.Snapshot()
	require.Len(t, snap.Animals, 1)
	assert.NotNil(t, snap.Animals[0].WeightRecords, "seeding runs the migration pass")
	assert.Equal(t, 1, snap.Stats.Active)
	assert.Equal(t, 1, snap.Stats.PendingTasks)
	assert.Empty(t, snap.Camps, "never-cached collections stay empty")

	// Seeding replays set-collection actions, which are not captured.
	p.Close()
	pending, err := store.PendingActions(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestProviderMarksOptimisticInventoryWrites(t *testing.T) {
	store := newTestStore(t)
	marker := &recordingMarker{}
	p := NewProvider(store, marker, func() bool { return true }, nil)

	p.Dispatch(AddInventoryItem{Item: models.InventoryItem{ID: "i1"}})
	p.Dispatch(UpdateInventoryItem{Item: models.InventoryItem{ID: "i1"}})
	p.Dispatch(AddAnimal{Animal: models.Animal{ID: "a1"}})
	p.Close()

	assert.Equal(t, []string{"inventory/i1", "inventory/i1"}, marker.marks)
}

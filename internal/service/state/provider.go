package state

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdwise/internal/domain/models"
	"github.com/mamadbah2/herdwise/internal/repository/badgerstore"
)

// Collection cache keys.
const (
	CollectionAnimals      = "animals"
	CollectionTransactions = "transactions"
	CollectionTasks        = "tasks"
	CollectionCamps        = "camps"
	CollectionEvents       = "events"
	CollectionInventory    = "inventory"
)

// BackupBlob is the redundant backup payload persisted under a fixed key.
// Animals and tasks are deliberately absent; they only live in the main
// cache and the remote store.
type BackupBlob struct {
	Transactions []models.Transaction   `json:"transactions"`
	Events       []models.Event         `json:"events"`
	Camps        []models.Camp          `json:"camps"`
	Inventory    []models.InventoryItem `json:"inventory"`
}

// OptimisticMarker records that a local optimistic write is in flight so the
// sync listener can hold off clobbering it with a stale remote snapshot.
type OptimisticMarker interface {
	Mark(entity models.EntityType, id string)
}

type effect struct {
	action Action
	state  State
}

// Provider owns the canonical in-memory state. All mutation goes through
// Dispatch, which applies the reducer under a single lock and then hands a
// post-commit effect to one background goroutine, so cache writes, backup
// writes and offline enqueues happen in dispatch order.
type Provider struct {
	mu     sync.Mutex
	state  State
	closed bool

	effects chan effect
	wg      sync.WaitGroup

	cache  *badgerstore.Store
	marker OptimisticMarker
	online func() bool
	logger *zap.Logger
}

// NewProvider wires a provider over the local store. The online probe
// decides, per dispatch, whether the action must also be captured in the
// offline queue. marker may be nil when the sync listener is not running.
func NewProvider(cache *badgerstore.Store, marker OptimisticMarker, online func() bool, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	if online == nil {
		online = func() bool { return true }
	}

	p := &Provider{
		state: State{
			Animals:      []models.Animal{},
			Transactions: []models.Transaction{},
			Tasks:        []models.Task{},
			Camps:        []models.Camp{},
			Events:       []models.Event{},
			Inventory:    []models.InventoryItem{},
		},
		effects: make(chan effect, 64),
		cache:   cache,
		marker:  marker,
		online:  online,
		logger:  logger,
	}

	p.wg.Add(1)
	go p.runEffects()
	return p
}

// Dispatch applies one action. The reducer runs synchronously; by the time
// Dispatch returns, Snapshot reflects the transition. Side effects run
// afterwards on the effects goroutine, in dispatch order.
func (p *Provider) Dispatch(action Action) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.logger.Warn("dispatch after close dropped")
		return
	}

	p.state = Reduce(p.state, action)
	snap := p.state

	// Mark optimistic inventory writes before the effect is even scheduled;
	// a remote snapshot racing this dispatch must already see the token.
	if p.marker != nil {
		switch a := action.(type) {
		case AddInventoryItem:
			p.marker.Mark(models.EntityInventory, a.Item.ID)
		case UpdateInventoryItem:
			p.marker.Mark(models.EntityInventory, a.Item.ID)
		}
	}

	// Sent under the lock: effects are strictly ordered against later
	// dispatches and cannot race Close.
	p.effects <- effect{action: action, state: snap}
	p.mu.Unlock()
}

// Snapshot returns the current state. Slices are shared with the internal
// copy but never mutated in place by the reducer, so readers are safe.
func (p *Provider) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Stats returns the current derived aggregates.
func (p *Provider) Stats() models.Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.Stats
}

// SeedFromCache replays the last known-good snapshots out of the offline
// cache into the reducer. Used on startup when the remote store is
// unreachable; collections never cached are simply skipped.
func (p *Provider) SeedFromCache(ctx context.Context) error {
	var animals []models.Animal
	if err := p.readCached(ctx, CollectionAnimals, &animals); err != nil {
		return err
	} else if animals != nil {
		p.Dispatch(SetAnimals{Animals: animals})
	}

	var transactions []models.Transaction
	if err := p.readCached(ctx, CollectionTransactions, &transactions); err != nil {
		return err
	} else if transactions != nil {
		p.Dispatch(SetTransactions{Transactions: transactions})
	}

	var tasks []models.Task
	if err := p.readCached(ctx, CollectionTasks, &tasks); err != nil {
		return err
	} else if tasks != nil {
		p.Dispatch(SetTasks{Tasks: tasks})
	}

	var camps []models.Camp
	if err := p.readCached(ctx, CollectionCamps, &camps); err != nil {
		return err
	} else if camps != nil {
		p.Dispatch(SetCamps{Camps: camps})
	}

	var events []models.Event
	if err := p.readCached(ctx, CollectionEvents, &events); err != nil {
		return err
	} else if events != nil {
		p.Dispatch(SetEvents{Events: events})
	}

	var items []models.InventoryItem
	if err := p.readCached(ctx, CollectionInventory, &items); err != nil {
		return err
	} else if items != nil {
		p.Dispatch(SetInventory{Items: items})
	}

	p.logger.Info("state seeded from offline cache")
	return nil
}

func (p *Provider) readCached(ctx context.Context, collection string, out interface{}) error {
	err := p.cache.GetSnapshot(ctx, collection, out)
	if errors.Is(err, badgerstore.ErrNotFound) {
		return nil
	}
	return err
}

// Close stops accepting dispatches and drains the pending effects.
func (p *Provider) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	close(p.effects)
	p.wg.Wait()
}

func (p *Provider) runEffects() {
	defer p.wg.Done()

	for e := range p.effects {
		p.persistSnapshots(e.state)
		p.persistBackup(e.state)

		if !p.online() {
			p.captureOffline(e.action)
		}
	}
}

// persistSnapshots mirrors every collection into the offline cache. A failed
// write is logged and skipped; the in-memory state stays authoritative and
// the cache is at worst one generation stale.
func (p *Provider) persistSnapshots(s State) {
	ctx := context.Background()

	writes := []struct {
		key   string
		items interface{}
	}{
		{CollectionAnimals, s.Animals},
		{CollectionTransactions, s.Transactions},
		{CollectionTasks, s.Tasks},
		{CollectionCamps, s.Camps},
		{CollectionEvents, s.Events},
		{CollectionInventory, s.Inventory},
	}

	for _, w := range writes {
		if err := p.cache.PutSnapshot(ctx, w.key, w.items); err != nil {
			p.logger.Error("cache snapshot write failed", zap.String("collection", w.key), zap.Error(err))
		}
	}
}

func (p *Provider) persistBackup(s State) {
	blob := BackupBlob{
		Transactions: s.Transactions,
		Events:       s.Events,
		Camps:        s.Camps,
		Inventory:    s.Inventory,
	}
	if err := p.cache.PutBackup(context.Background(), blob); err != nil {
		p.logger.Error("backup write failed", zap.Error(err))
	}
}

// captureOffline translates a mutation into its queue record. Failures are
// logged only: the durability guarantee for that one action is dropped while
// memory and cache stay updated.
func (p *Provider) captureOffline(action Action) {
	op, entity, payload, ok := OfflineRecord(action)
	if !ok {
		return
	}

	if _, err := p.cache.Enqueue(context.Background(), op, entity, payload); err != nil {
		p.logger.Error("offline enqueue failed",
			zap.String("op", string(op)),
			zap.String("entity", string(entity)),
			zap.Error(err))
	}
}

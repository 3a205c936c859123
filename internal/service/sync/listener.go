// Package sync keeps the in-memory state and the remote document store
// eventually consistent: change-stream listeners pull remote snapshots in,
// the replayer pushes queued offline mutations out, and the optimistic
// registry referees the race between the two.
package sync

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdwise/internal/domain/models"
	"github.com/mamadbah2/herdwise/internal/repository/mongodb"
	"github.com/mamadbah2/herdwise/internal/service/state"
)

// Session carries the authenticated user a listener is scoped to. It exists
// so the user id travels explicitly instead of through package-level state.
type Session struct {
	UserID string
}

var watchedEntities = []models.EntityType{
	models.EntityAnimal,
	models.EntityTransaction,
	models.EntityTask,
	models.EntityCamp,
	models.EntityEvent,
	models.EntityInventory,
}

// Listener subscribes to one change stream per entity type and rebuilds the
// matching local collection from a full remote snapshot on every event.
// There is no incremental patching: any remote change invalidates the whole
// collection.
type Listener struct {
	store    *mongodb.Store
	provider *state.Provider
	registry *Registry
	session  Session
	logger   *zap.Logger
}

// NewListener wires a listener for one user session.
func NewListener(store *mongodb.Store, provider *state.Provider, registry *Registry, session Session, logger *zap.Logger) *Listener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Listener{
		store:    store,
		provider: provider,
		registry: registry,
		session:  session,
		logger:   logger,
	}
}

// Start launches one watch goroutine per entity type. They run until ctx is
// canceled; stream errors restart the stream after a short pause.
func (l *Listener) Start(ctx context.Context) {
	for _, entity := range watchedEntities {
		go l.watchLoop(ctx, entity)
	}
	l.logger.Info("remote sync listeners started", zap.String("user", l.session.UserID))
}

// RefreshAll reloads every collection from the remote store. Used for the
// initial hydration and after offline replay.
func (l *Listener) RefreshAll(ctx context.Context) error {
	for _, entity := range watchedEntities {
		if err := l.Refresh(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}

// Refresh reloads one collection wholesale and dispatches its replacement.
// An inventory refresh is suppressed while an optimistic inventory write is
// still inside its window, so a stale remote snapshot cannot clobber a
// local insert that has not echoed back yet.
func (l *Listener) Refresh(ctx context.Context, entity models.EntityType) error {
	if entity == models.EntityInventory && l.registry != nil && l.registry.Pending(models.EntityInventory) {
		l.logger.Debug("inventory snapshot suppressed; optimistic write in flight")
		return nil
	}

	switch entity {
	case models.EntityAnimal:
		animals, err := l.store.LoadAnimals(ctx, l.session.UserID)
		if err != nil {
			return err
		}
		l.provider.Dispatch(state.SetAnimals{Animals: animals})
	case models.EntityTransaction:
		transactions, err := l.store.LoadTransactions(ctx, l.session.UserID)
		if err != nil {
			return err
		}
		l.provider.Dispatch(state.SetTransactions{Transactions: transactions})
	case models.EntityTask:
		tasks, err := l.store.LoadTasks(ctx, l.session.UserID)
		if err != nil {
			return err
		}
		l.provider.Dispatch(state.SetTasks{Tasks: tasks})
	case models.EntityCamp:
		camps, err := l.store.LoadCamps(ctx, l.session.UserID)
		if err != nil {
			return err
		}
		l.provider.Dispatch(state.SetCamps{Camps: camps})
	case models.EntityEvent:
		events, err := l.store.LoadEvents(ctx, l.session.UserID)
		if err != nil {
			return err
		}
		l.provider.Dispatch(state.SetEvents{Events: events})
	case models.EntityInventory:
		items, err := l.store.LoadInventory(ctx, l.session.UserID)
		if err != nil {
			return err
		}
		l.provider.Dispatch(state.SetInventory{Items: items})
	}
	return nil
}

func (l *Listener) watchLoop(ctx context.Context, entity models.EntityType) {
	log := l.logger.With(zap.String("entity", string(entity)))

	for {
		if ctx.Err() != nil {
			return
		}

		stream, err := l.store.Watch(ctx, entity)
		if err != nil {
			log.Error("change stream open failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
				continue
			}
		}

		for stream.Next(ctx) {
			if err := l.Refresh(ctx, entity); err != nil {
				log.Error("collection refresh failed", zap.Error(err))
			}
		}

		if err := stream.Err(); err != nil && ctx.Err() == nil {
			log.Warn("change stream interrupted", zap.Error(err))
		}
		_ = stream.Close(context.Background())
	}
}

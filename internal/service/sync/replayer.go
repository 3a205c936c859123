package sync

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdwise/internal/domain/models"
	"github.com/mamadbah2/herdwise/internal/repository/badgerstore"
)

// RemoteWriter is the slice of the remote store replay needs.
type RemoteWriter interface {
	Upsert(ctx context.Context, userID string, entity models.EntityType, id string, doc interface{}) error
	Delete(ctx context.Context, userID string, entity models.EntityType, id string) error
}

// Replayer drains the offline action queue against the remote store once
// connectivity returns. Actions are applied in FIFO order; a failure is
// logged and the entry left in place so a later replay can retry it.
type Replayer struct {
	store   RemoteWriter
	queue   *badgerstore.Store
	session Session
	logger  *zap.Logger
}

// NewReplayer wires a replayer for one user session.
func NewReplayer(store RemoteWriter, queue *badgerstore.Store, session Session, logger *zap.Logger) *Replayer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Replayer{store: store, queue: queue, session: session, logger: logger}
}

// Replay applies every queued action and removes each on success. It
// returns the number applied; the error reports only queue access failures,
// not individual action failures.
func (r *Replayer) Replay(ctx context.Context) (int, error) {
	actions, err := r.queue.PendingActions(ctx)
	if err != nil {
		return 0, fmt.Errorf("load offline queue: %w", err)
	}
	if len(actions) == 0 {
		return 0, nil
	}

	r.logger.Info("replaying offline actions", zap.Int("count", len(actions)))

	applied := 0
	for _, action := range actions {
		if err := r.apply(ctx, action); err != nil {
			r.logger.Error("offline action replay failed",
				zap.String("id", action.ID),
				zap.String("op", string(action.Op)),
				zap.String("entity", string(action.Entity)),
				zap.Error(err))
			continue
		}

		if err := r.queue.RemoveAction(ctx, action.ID); err != nil {
			r.logger.Error("replayed action not removed from queue",
				zap.String("id", action.ID), zap.Error(err))
			continue
		}
		applied++
	}

	return applied, nil
}

func (r *Replayer) apply(ctx context.Context, action models.OfflineAction) error {
	id, doc, err := decodePayload(action.Entity, action.Payload)
	if err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("offline payload missing id")
	}

	switch action.Op {
	case models.OpAdd, models.OpUpdate:
		return r.store.Upsert(ctx, r.session.UserID, action.Entity, id, doc)
	case models.OpDelete:
		return r.store.Delete(ctx, r.session.UserID, action.Entity, id)
	}
	return fmt.Errorf("unknown offline op %q", action.Op)
}

// decodePayload rebuilds the typed document so it lands in MongoDB with the
// same field names the loaders expect.
func decodePayload(entity models.EntityType, raw json.RawMessage) (string, interface{}, error) {
	switch entity {
	case models.EntityAnimal:
		var v models.Animal
		if err := json.Unmarshal(raw, &v); err != nil {
			return "", nil, fmt.Errorf("decode animal payload: %w", err)
		}
		return v.ID, v, nil
	case models.EntityTransaction:
		var v models.Transaction
		if err := json.Unmarshal(raw, &v); err != nil {
			return "", nil, fmt.Errorf("decode transaction payload: %w", err)
		}
		return v.ID, v, nil
	case models.EntityTask:
		var v models.Task
		if err := json.Unmarshal(raw, &v); err != nil {
			return "", nil, fmt.Errorf("decode task payload: %w", err)
		}
		return v.ID, v, nil
	case models.EntityCamp:
		var v models.Camp
		if err := json.Unmarshal(raw, &v); err != nil {
			return "", nil, fmt.Errorf("decode camp payload: %w", err)
		}
		return v.ID, v, nil
	case models.EntityInventory:
		var v models.InventoryItem
		if err := json.Unmarshal(raw, &v); err != nil {
			return "", nil, fmt.Errorf("decode inventory payload: %w", err)
		}
		return v.ID, v, nil
	}
	return "", nil, fmt.Errorf("no payload decoder for entity %q", entity)
}

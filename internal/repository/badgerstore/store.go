// Package badgerstore is the local persistence layer: the offline snapshot
// cache, the offline action queue and the secondary backup blob, all kept in
// a single embedded BadgerDB so the app survives restarts without a network
// path.
package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdwise/internal/domain/models"
)

const (
	cachePrefix = "cache/"
	queuePrefix = "queue/"
	backupKey   = "backup/latest"
	queueSeqKey = "queue-seq"
)

// ErrNotFound indicates the requested key has never been written.
var ErrNotFound = errors.New("badgerstore: not found")

// Store wraps a badger database with the three local persistence roles.
type Store struct {
	db     *badger.DB
	seq    *badger.Sequence
	logger *zap.Logger
}

// Open creates or reopens the store at dir. An empty dir opens an in-memory
// instance, which tests rely on.
func Open(dir string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", dir, err)
	}

	seq, err := db.GetSequence([]byte(queueSeqKey), 64)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open queue sequence: %w", err)
	}

	return &Store{db: db, seq: seq, logger: logger}, nil
}

// Close releases the sequence lease and the database.
func (s *Store) Close() error {
	if err := s.seq.Release(); err != nil {
		s.logger.Warn("release queue sequence", zap.Error(err))
	}
	return s.db.Close()
}

// PutSnapshot persists the latest full snapshot of a named collection,
// replacing whatever was cached before. There is no eviction; the cache
// always holds exactly the last known-good copy per collection.
func (s *Store) PutSnapshot(ctx context.Context, collection string, items interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s snapshot: %w", collection, err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(cachePrefix+collection), data)
	})
	if err != nil {
		return fmt.Errorf("write %s snapshot: %w", collection, err)
	}
	return nil
}

// GetSnapshot loads the cached snapshot of a collection into out. Returns
// ErrNotFound when the collection has never been cached.
func (s *Store) GetSnapshot(ctx context.Context, collection string, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(cachePrefix + collection))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("read %s snapshot: %w", collection, err)
	}
	return nil
}

// Enqueue appends a mutation to the offline action queue, assigning its
// identity and timestamp. Entries keep arrival order via a monotonic
// sequence baked into the key.
func (s *Store) Enqueue(ctx context.Context, op models.OfflineOp, entity models.EntityType, payload interface{}) (models.OfflineAction, error) {
	if err := ctx.Err(); err != nil {
		return models.OfflineAction{}, err
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return models.OfflineAction{}, fmt.Errorf("encode offline payload: %w", err)
	}

	action := models.OfflineAction{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UnixMilli(),
		Op:        op,
		Entity:    entity,
		Payload:   raw,
	}

	data, err := json.Marshal(action)
	if err != nil {
		return models.OfflineAction{}, fmt.Errorf("encode offline action: %w", err)
	}

	n, err := s.seq.Next()
	if err != nil {
		return models.OfflineAction{}, fmt.Errorf("next queue sequence: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(queueKey(n), data)
	})
	if err != nil {
		return models.OfflineAction{}, fmt.Errorf("enqueue offline action: %w", err)
	}

	s.logger.Debug("offline action queued",
		zap.String("id", action.ID),
		zap.String("op", string(op)),
		zap.String("entity", string(entity)))
	return action, nil
}

// PendingActions returns every queued action in FIFO order.
func (s *Store) PendingActions(ctx context.Context) ([]models.OfflineAction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var actions []models.OfflineAction
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(queuePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var a models.OfflineAction
				if err := json.Unmarshal(val, &a); err != nil {
					return err
				}
				actions = append(actions, a)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list offline actions: %w", err)
	}
	return actions, nil
}

// RemoveAction drops a replayed action from the queue by identity.
func (s *Store) RemoveAction(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(queuePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var key []byte
			var match bool
			err := it.Item().Value(func(val []byte) error {
				var a models.OfflineAction
				if err := json.Unmarshal(val, &a); err != nil {
					return err
				}
				if a.ID == id {
					match = true
					key = it.Item().KeyCopy(nil)
				}
				return nil
			})
			if err != nil {
				return err
			}
			if match {
				return txn.Delete(key)
			}
		}
		return ErrNotFound
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("remove offline action %s: %w", id, err)
	}
	return nil
}

// PutBackup stores the redundant backup blob under its fixed key.
func (s *Store) PutBackup(ctx context.Context, blob interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("encode backup blob: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(backupKey), data)
	})
	if err != nil {
		return fmt.Errorf("write backup blob: %w", err)
	}
	return nil
}

// GetBackup loads the backup blob into out, or ErrNotFound if never written.
func (s *Store) GetBackup(ctx context.Context, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(backupKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("read backup blob: %w", err)
	}
	return nil
}

func queueKey(n uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", queuePrefix, n))
}

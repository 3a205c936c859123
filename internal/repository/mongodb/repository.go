// Package mongodb adapts the remote document store: one collection per
// entity type, documents scoped to a user, with change-stream subscriptions
// driving remote sync.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/herdwise/internal/domain/models"
)

// collectionNames maps logical entity types onto their MongoDB collections.
var collectionNames = map[models.EntityType]string{
	models.EntityAnimal:      "animals",
	models.EntityTransaction: "transactions",
	models.EntityTask:        "tasks",
	models.EntityCamp:        "camps",
	models.EntityEvent:       "events",
	models.EntityInventory:   "inventory",
}

// Store is the remote document store adapter.
type Store struct {
	client *mongo.Client
	dbName string
}

// NewStore initializes the MongoDB client. Connecting is lazy and the
// constructor does not ping: the app must come up with no network path and
// run from the offline cache, so reachability is the probe's business, not
// the constructor's.
func NewStore(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	return &Store{client: client, dbName: dbName}, nil
}

// Ping reports whether the remote store is currently reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) collection(entity models.EntityType) (*mongo.Collection, error) {
	name, ok := collectionNames[entity]
	if !ok {
		return nil, fmt.Errorf("no collection mapped for entity %q", entity)
	}
	return s.client.Database(s.dbName).Collection(name), nil
}

// Upsert writes a full document under its string identifier, creating or
// replacing it. Last writer wins; there is no merge.
func (s *Store) Upsert(ctx context.Context, userID string, entity models.EntityType, id string, doc interface{}) error {
	coll, err := s.collection(entity)
	if err != nil {
		return err
	}

	scoped, err := withUser(doc, userID)
	if err != nil {
		return fmt.Errorf("scope %s document: %w", entity, err)
	}

	filter := bson.M{"_id": id, "userId": userID}
	opts := options.Replace().SetUpsert(true)
	if _, err := coll.ReplaceOne(ctx, filter, scoped, opts); err != nil {
		return fmt.Errorf("upsert %s %s: %w", entity, id, err)
	}
	return nil
}

// Delete removes a document by identifier. Deleting a missing document is
// not an error.
func (s *Store) Delete(ctx context.Context, userID string, entity models.EntityType, id string) error {
	coll, err := s.collection(entity)
	if err != nil {
		return err
	}

	if _, err := coll.DeleteOne(ctx, bson.M{"_id": id, "userId": userID}); err != nil {
		return fmt.Errorf("delete %s %s: %w", entity, id, err)
	}
	return nil
}

// Watch opens a change stream on an entity's collection. Callers own the
// returned stream and must close it; any event on it means "reload the whole
// collection", so the stream payload itself is never inspected beyond
// arrival.
func (s *Store) Watch(ctx context.Context, entity models.EntityType) (*mongo.ChangeStream, error) {
	coll, err := s.collection(entity)
	if err != nil {
		return nil, err
	}

	stream, err := coll.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return nil, fmt.Errorf("watch %s collection: %w", entity, err)
	}
	return stream, nil
}

// LoadAnimals fetches the full animal collection for a user, in the order
// the server returns it. That listing order is load-bearing downstream: camp
// deletion falls back to the first camp as listed.
func (s *Store) LoadAnimals(ctx context.Context, userID string) ([]models.Animal, error) {
	var out []models.Animal
	if err := s.loadAll(ctx, userID, models.EntityAnimal, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadTransactions fetches the full transaction collection for a user.
func (s *Store) LoadTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	var out []models.Transaction
	if err := s.loadAll(ctx, userID, models.EntityTransaction, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadTasks fetches the full task collection for a user.
func (s *Store) LoadTasks(ctx context.Context, userID string) ([]models.Task, error) {
	var out []models.Task
	if err := s.loadAll(ctx, userID, models.EntityTask, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadCamps fetches the full camp collection for a user. Geo shapes stored
// as serialized strings are normalized on decode.
func (s *Store) LoadCamps(ctx context.Context, userID string) ([]models.Camp, error) {
	var out []models.Camp
	if err := s.loadAll(ctx, userID, models.EntityCamp, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadEvents fetches the full event collection for a user.
func (s *Store) LoadEvents(ctx context.Context, userID string) ([]models.Event, error) {
	var out []models.Event
	if err := s.loadAll(ctx, userID, models.EntityEvent, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadInventory fetches the full inventory collection for a user.
func (s *Store) LoadInventory(ctx context.Context, userID string) ([]models.InventoryItem, error) {
	var out []models.InventoryItem
	if err := s.loadAll(ctx, userID, models.EntityInventory, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) loadAll(ctx context.Context, userID string, entity models.EntityType, out interface{}) error {
	coll, err := s.collection(entity)
	if err != nil {
		return err
	}

	cursor, err := coll.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return fmt.Errorf("load %s collection: %w", entity, err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s collection: %w", entity, err)
	}
	return nil
}

// withUser re-encodes a document with the owning user stamped in, since the
// domain models themselves carry no tenancy field.
func withUser(doc interface{}, userID string) (bson.D, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}

	var d bson.D
	if err := bson.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return append(d, bson.E{Key: "userId", Value: userID}), nil
}

package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mamadbah2/herdwise/internal/domain/models"
)

// Action kind tags used on the HTTP wire. These match the tags the web client
// has always dispatched.
const (
	KindAddAnimal       = "ADD_ANIMAL"
	KindUpdateAnimal    = "UPDATE_ANIMAL"
	KindRemoveAnimal    = "REMOVE_ANIMAL"
	KindBulkAssignCamp  = "BULK_UPDATE_ANIMALS_CAMP"
	KindAddWeightRecord = "ADD_WEIGHT_RECORD"
	KindAddTransaction  = "ADD_TRANSACTION"
	KindUpdateTxn       = "UPDATE_TRANSACTION"
	KindRemoveTxn       = "REMOVE_TRANSACTION"
	KindAddTask         = "ADD_TASK"
	KindUpdateTask      = "UPDATE_TASK"
	KindRemoveTask      = "REMOVE_TASK"
	KindAddCamp         = "ADD_CAMP"
	KindUpdateCamp      = "UPDATE_CAMP"
	KindDeleteCamp      = "DELETE_CAMP"
	KindAddEvent        = "ADD_EVENT"
	KindUpdateEvent     = "UPDATE_EVENT"
	KindRemoveEvent     = "REMOVE_EVENT"
	KindAddInventory    = "ADD_INVENTORY_ITEM"
	KindUpdateInventory = "UPDATE_INVENTORY_ITEM"
	KindRemoveInventory = "REMOVE_INVENTORY_ITEM"
	KindLogUsage        = "LOG_INVENTORY_USAGE"
)

// Envelope is the wire form of a dispatched action.
type Envelope struct {
	Type    string          `json:"type" binding:"required"`
	Payload json.RawMessage `json:"payload"`
}

// ErrUnknownActionKind is returned when an envelope names a kind outside the
// closed action set.
var ErrUnknownActionKind = errors.New("unknown action kind")

type idPayload struct {
	ID string `json:"id"`
}

// DecodeEnvelope turns a wire envelope into a reducer action. Kinds outside
// the closed set are rejected here at the boundary; the reducer itself stays
// a silent pass-through for anything it does not recognize.
func DecodeEnvelope(env Envelope, now time.Time) (Action, error) {
	stamp := now.UTC().Format(time.RFC3339)

	switch env.Type {
	case KindAddAnimal:
		var a models.Animal
		if err := json.Unmarshal(env.Payload, &a); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		return AddAnimal{Animal: a}, nil
	case KindUpdateAnimal:
		var a models.Animal
		if err := json.Unmarshal(env.Payload, &a); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		return UpdateAnimal{Animal: a}, nil
	case KindRemoveAnimal:
		var p idPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		return RemoveAnimal{ID: p.ID}, nil
	case KindBulkAssignCamp:
		var p struct {
			AnimalIDs []string `json:"animalIds"`
			CampID    string   `json:"campId"`
		}
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		return BulkAssignCamp{AnimalIDs: p.AnimalIDs, CampID: p.CampID, Date: stamp}, nil
	case KindAddWeightRecord:
		var p struct {
			AnimalID string              `json:"animalId"`
			Record   models.WeightRecord `json:"record"`
		}
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		if p.Record.Date == "" {
			p.Record.Date = stamp
		}
		return AddWeightRecord{AnimalID: p.AnimalID, Record: p.Record}, nil
	case KindAddTransaction:
		var t models.Transaction
		if err := json.Unmarshal(env.Payload, &t); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		return AddTransaction{Transaction: t}, nil
	case KindUpdateTxn:
		var t models.Transaction
		if err := json.Unmarshal(env.Payload, &t); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		return UpdateTransaction{Transaction: t}, nil
	case KindRemoveTxn:
		var p idPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		return RemoveTransaction{ID: p.ID}, nil
	case KindAddTask:
		var t models.Task
		if err := json.Unmarshal(env.Payload, &t); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		return AddTask{Task: t}, nil
	case KindUpdateTask:
		var t models.Task
		if err := json.Unmarshal(env.Payload, &t); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		return UpdateTask{Task: t}, nil
	case KindRemoveTask:
		var p idPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		return RemoveTask{ID: p.ID}, nil
	case KindAddCamp:
		var c models.Camp
		if err := json.Unmarshal(env.Payload, &c); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		return AddCamp{Camp: c}, nil
	case KindUpdateCamp:
		var c models.Camp
		if err := json.Unmarshal(env.Payload, &c); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		return UpdateCamp{Camp: c}, nil
	case KindDeleteCamp:
		var p idPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		return RemoveCamp{ID: p.ID}, nil
	case KindAddEvent:
		var e models.Event
		if err := json.Unmarshal(env.Payload, &e); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		return AddEvent{Event: e}, nil
	case KindUpdateEvent:
		var e models.Event
		if err := json.Unmarshal(env.Payload, &e); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		return UpdateEvent{Event: e}, nil
	case KindRemoveEvent:
		var p idPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		return RemoveEvent{ID: p.ID}, nil
	case KindAddInventory:
		var item models.InventoryItem
		if err := json.Unmarshal(env.Payload, &item); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		return AddInventoryItem{Item: item}, nil
	case KindUpdateInventory:
		var item models.InventoryItem
		if err := json.Unmarshal(env.Payload, &item); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		return UpdateInventoryItem{Item: item}, nil
	case KindRemoveInventory:
		var p idPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		return RemoveInventoryItem{ID: p.ID}, nil
	case KindLogUsage:
		var p struct {
			ID     string  `json:"id"`
			Change float64 `json:"change"`
			Reason string  `json:"reason"`
		}
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		return LogInventoryUsage{ID: p.ID, Change: p.Change, Reason: p.Reason, Date: stamp}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownActionKind, env.Type)
}

// OfflineRecord maps an action to its remote operation for the offline
// queue. Only mutations with a clear remote analogue are captured: event
// CRUD, bulk camp reassignment, weight appends, usage logging and the
// set-collection actions all return ok=false and are not queued.
func OfflineRecord(action Action) (op models.OfflineOp, entity models.EntityType, payload interface{}, ok bool) {
	switch a := action.(type) {
	case AddAnimal:
		return models.OpAdd, models.EntityAnimal, a.Animal, true
	case UpdateAnimal:
		return models.OpUpdate, models.EntityAnimal, a.Animal, true
	case RemoveAnimal:
		return models.OpDelete, models.EntityAnimal, idPayload{ID: a.ID}, true
	case AddTransaction:
		return models.OpAdd, models.EntityTransaction, a.Transaction, true
	case UpdateTransaction:
		return models.OpUpdate, models.EntityTransaction, a.Transaction, true
	case RemoveTransaction:
		return models.OpDelete, models.EntityTransaction, idPayload{ID: a.ID}, true
	case AddTask:
		return models.OpAdd, models.EntityTask, a.Task, true
	case UpdateTask:
		return models.OpUpdate, models.EntityTask, a.Task, true
	case RemoveTask:
		return models.OpDelete, models.EntityTask, idPayload{ID: a.ID}, true
	case AddCamp:
		return models.OpAdd, models.EntityCamp, a.Camp, true
	case UpdateCamp:
		return models.OpUpdate, models.EntityCamp, a.Camp, true
	case RemoveCamp:
		return models.OpDelete, models.EntityCamp, idPayload{ID: a.ID}, true
	case AddInventoryItem:
		return models.OpAdd, models.EntityInventory, a.Item, true
	case UpdateInventoryItem:
		return models.OpUpdate, models.EntityInventory, a.Item, true
	case RemoveInventoryItem:
		return models.OpDelete, models.EntityInventory, idPayload{ID: a.ID}, true
	}
	return "", "", nil, false
}

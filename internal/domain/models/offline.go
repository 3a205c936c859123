package models

import "encoding/json"

// OfflineOp enumerates the remote operations an offline action can carry.
type OfflineOp string

const (
	OpAdd    OfflineOp = "ADD"
	OpUpdate OfflineOp = "UPDATE"
	OpDelete OfflineOp = "DELETE"
)

// EntityType names the logical collections synchronized with the remote
// document store.
type EntityType string

const (
	EntityAnimal      EntityType = "animal"
	EntityTransaction EntityType = "transaction"
	EntityTask        EntityType = "task"
	EntityCamp        EntityType = "camp"
	EntityEvent       EntityType = "event"
	EntityInventory   EntityType = "inventory"
)

// OfflineAction is a mutation captured while the remote store was
// unreachable, queued durably for replay once connectivity returns.
type OfflineAction struct {
	ID        string          `json:"id"`
	Timestamp int64           `json:"timestamp"`
	Op        OfflineOp       `json:"op"`
	Entity    EntityType      `json:"entity"`
	Payload   json.RawMessage `json:"payload"`
}

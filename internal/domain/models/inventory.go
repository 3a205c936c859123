package models

// InitialStockReason is the history reason recorded when an item is first
// added to inventory.
const InitialStockReason = "Initial stock"

// InventoryCategory groups inventory items for reporting.
type InventoryCategory string

const (
	CategoryMedicine  InventoryCategory = "medicine"
	CategoryFeed      InventoryCategory = "feed"
	CategoryFencing   InventoryCategory = "fencing"
	CategoryEquipment InventoryCategory = "equipment"
	CategoryOther     InventoryCategory = "other"
)

// InventoryItem is a stocked supply with an append-only quantity-change log.
// Quantity is not reconciled against History and is never clamped; usage
// logging may drive it negative.
type InventoryItem struct {
	ID                string            `bson:"_id" json:"id"`
	Name              string            `bson:"name" json:"name"`
	Quantity          float64           `bson:"quantity" json:"quantity"`
	Unit              string            `bson:"unit,omitempty" json:"unit,omitempty"`
	Category          InventoryCategory `bson:"category,omitempty" json:"category,omitempty"`
	Price             float64           `bson:"price,omitempty" json:"price,omitempty"`
	Supplier          string            `bson:"supplier,omitempty" json:"supplier,omitempty"`
	LowStockThreshold float64           `bson:"lowStockThreshold,omitempty" json:"lowStockThreshold,omitempty"`
	ExpiryDate        string            `bson:"expiryDate,omitempty" json:"expiryDate,omitempty"`
	LastUsed          string            `bson:"lastUsed,omitempty" json:"lastUsed,omitempty"`
	History           []InventoryChange `bson:"history" json:"history"`
}

// InventoryChange is one entry in an item's quantity-change log.
type InventoryChange struct {
	Date   string  `bson:"date" json:"date"`
	Change float64 `bson:"change" json:"change"`
	Reason string  `bson:"reason" json:"reason"`
}

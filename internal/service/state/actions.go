package state

import "github.com/mamadbah2/herdwise/internal/domain/models"

// Action is the closed set of state transitions understood by the reducer.
// Variants are matched exhaustively by type; anything outside this package
// cannot implement it.
type Action interface {
	isAction()
}

// Animal actions.

type AddAnimal struct{ Animal models.Animal }
type UpdateAnimal struct{ Animal models.Animal }
type RemoveAnimal struct{ ID string }

// BulkAssignCamp moves a set of animals into one camp, appending an audit
// history entry to each animal whose effective camp actually changes.
type BulkAssignCamp struct {
	AnimalIDs []string
	CampID    string
	Date      string
}

// AddWeightRecord appends one weighing to an animal without touching the
// existing records.
type AddWeightRecord struct {
	AnimalID string
	Record   models.WeightRecord
}

// Transaction actions.

type AddTransaction struct{ Transaction models.Transaction }
type UpdateTransaction struct{ Transaction models.Transaction }
type RemoveTransaction struct{ ID string }

// Task actions.

type AddTask struct{ Task models.Task }
type UpdateTask struct{ Task models.Task }
type RemoveTask struct{ ID string }

// Camp actions.

type AddCamp struct{ Camp models.Camp }
type UpdateCamp struct{ Camp models.Camp }
type RemoveCamp struct{ ID string }

// Event actions.

type AddEvent struct{ Event models.Event }
type UpdateEvent struct{ Event models.Event }
type RemoveEvent struct{ ID string }

// Inventory actions.

type AddInventoryItem struct{ Item models.InventoryItem }
type UpdateInventoryItem struct{ Item models.InventoryItem }
type RemoveInventoryItem struct{ ID string }

// LogInventoryUsage atomically adjusts an item's quantity by a signed delta,
// stamps its last-used time and appends one history entry. The delta is not
// validated; quantity may go negative.
type LogInventoryUsage struct {
	ID     string
	Change float64
	Reason string
	Date   string
}

// Set-collection actions replace a collection wholesale. Remote sync and
// offline cache seeding use these; they never merge.

type SetAnimals struct{ Animals []models.Animal }
type SetTransactions struct{ Transactions []models.Transaction }
type SetTasks struct{ Tasks []models.Task }
type SetCamps struct{ Camps []models.Camp }
type SetEvents struct{ Events []models.Event }
type SetInventory struct{ Items []models.InventoryItem }

func (AddAnimal) isAction()           {}
func (UpdateAnimal) isAction()        {}
func (RemoveAnimal) isAction()        {}
func (BulkAssignCamp) isAction()      {}
func (AddWeightRecord) isAction()     {}
func (AddTransaction) isAction()      {}
func (UpdateTransaction) isAction()   {}
func (RemoveTransaction) isAction()   {}
func (AddTask) isAction()             {}
func (UpdateTask) isAction()          {}
func (RemoveTask) isAction()          {}
func (AddCamp) isAction()             {}
func (UpdateCamp) isAction()          {}
func (RemoveCamp) isAction()          {}
func (AddEvent) isAction()            {}
func (UpdateEvent) isAction()         {}
func (RemoveEvent) isAction()         {}
func (AddInventoryItem) isAction()    {}
func (UpdateInventoryItem) isAction() {}
func (RemoveInventoryItem) isAction() {}
func (LogInventoryUsage) isAction()   {}
func (SetAnimals) isAction()          {}
func (SetTransactions) isAction()     {}
func (SetTasks) isAction()            {}
func (SetCamps) isAction()            {}
func (SetEvents) isAction()           {}
func (SetInventory) isAction()        {}

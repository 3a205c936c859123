package state

import (
	"fmt"

	"github.com/mamadbah2/herdwise/internal/domain/models"
)

// State is the canonical in-memory snapshot of every collection plus the
// derived stats. Values are treated as immutable: Reduce returns a new State
// with fresh slices for whatever changed.
type State struct {
	Animals      []models.Animal        `json:"animals"`
	Transactions []models.Transaction   `json:"transactions"`
	Tasks        []models.Task          `json:"tasks"`
	Camps        []models.Camp          `json:"camps"`
	Events       []models.Event         `json:"events"`
	Inventory    []models.InventoryItem `json:"inventory"`
	Stats        models.Stats           `json:"stats"`
}

// Reduce applies a single action to the state and returns the successor
// state. Animal, transaction and task mutations recompute Stats
// synchronously; everything else leaves Stats untouched. An action variant
// the switch does not know passes the state through unchanged.
func Reduce(s State, action Action) State {
	switch a := action.(type) {
	case AddAnimal:
		s.Animals = append(cloneSlice(s.Animals), a.Animal)
		return withStats(s)

	case UpdateAnimal:
		s.Animals = replaceByID(s.Animals, a.Animal, func(v models.Animal) string { return v.ID })
		return withStats(s)

	case RemoveAnimal:
		s.Animals = removeByID(s.Animals, a.ID, func(v models.Animal) string { return v.ID })
		return withStats(s)

	case BulkAssignCamp:
		s.Animals = bulkAssignCamp(s.Animals, a)
		return s

	case AddWeightRecord:
		animals := cloneSlice(s.Animals)
		for i := range animals {
			if animals[i].ID == a.AnimalID {
				animals[i].WeightRecords = append(cloneSlice(animals[i].WeightRecords), a.Record)
			}
		}
		s.Animals = animals
		return s

	case AddTransaction:
		s.Transactions = append(cloneSlice(s.Transactions), a.Transaction)
		return withStats(s)

	case UpdateTransaction:
		s.Transactions = replaceByID(s.Transactions, a.Transaction, func(v models.Transaction) string { return v.ID })
		return withStats(s)

	case RemoveTransaction:
		s.Transactions = removeByID(s.Transactions, a.ID, func(v models.Transaction) string { return v.ID })
		return withStats(s)

	case AddTask:
		s.Tasks = append(cloneSlice(s.Tasks), a.Task)
		return withStats(s)

	case UpdateTask:
		s.Tasks = replaceByID(s.Tasks, a.Task, func(v models.Task) string { return v.ID })
		return withStats(s)

	case RemoveTask:
		s.Tasks = removeByID(s.Tasks, a.ID, func(v models.Task) string { return v.ID })
		return withStats(s)

	case AddCamp:
		// Duplicate creation can arrive from racing sync events; adding an
		// existing camp id is a no-op.
		for _, c := range s.Camps {
			if c.ID == a.Camp.ID {
				return s
			}
		}
		s.Camps = append(cloneSlice(s.Camps), a.Camp)
		return s

	case UpdateCamp:
		s.Camps = replaceByID(s.Camps, a.Camp, func(v models.Camp) string { return v.ID })
		return s

	case RemoveCamp:
		return removeCampCascade(s, a.ID)

	case AddEvent:
		s.Events = append(cloneSlice(s.Events), a.Event)
		return s

	case UpdateEvent:
		s.Events = replaceByID(s.Events, a.Event, func(v models.Event) string { return v.ID })
		return s

	case RemoveEvent:
		s.Events = removeByID(s.Events, a.ID, func(v models.Event) string { return v.ID })
		return s

	case AddInventoryItem:
		s.Inventory = append(cloneSlice(s.Inventory), a.Item)
		return s

	case UpdateInventoryItem:
		s.Inventory = replaceByID(s.Inventory, a.Item, func(v models.InventoryItem) string { return v.ID })
		return s

	case RemoveInventoryItem:
		s.Inventory = removeByID(s.Inventory, a.ID, func(v models.InventoryItem) string { return v.ID })
		return s

	case LogInventoryUsage:
		s.Inventory = logInventoryUsage(s.Inventory, a)
		return s

	case SetAnimals:
		s.Animals = MigrateAnimals(a.Animals)
		return withStats(s)

	case SetTransactions:
		s.Transactions = a.Transactions
		return withStats(s)

	case SetTasks:
		s.Tasks = a.Tasks
		return withStats(s)

	case SetCamps:
		s.Camps = a.Camps
		return s

	case SetEvents:
		s.Events = a.Events
		return s

	case SetInventory:
		s.Inventory = a.Items
		return s
	}

	return s
}

// MigrateAnimals backfills the history and weightRecords slices that older
// documents are missing. Existing entries are never reordered or removed.
func MigrateAnimals(animals []models.Animal) []models.Animal {
	out := cloneSlice(animals)
	for i := range out {
		if out[i].WeightRecords == nil {
			out[i].WeightRecords = []models.WeightRecord{}
		}
		if out[i].History == nil {
			out[i].History = []models.HistoryEvent{}
		}
	}
	return out
}

func withStats(s State) State {
	s.Stats = CalculateStats(s.Animals, s.Transactions, s.Tasks)
	return s
}

func bulkAssignCamp(animals []models.Animal, a BulkAssignCamp) []models.Animal {
	targets := make(map[string]bool, len(a.AnimalIDs))
	for _, id := range a.AnimalIDs {
		targets[id] = true
	}

	out := cloneSlice(animals)
	for i := range out {
		if !targets[out[i].ID] {
			continue
		}

		// Only record history when the effective camp value changes;
		// reassigning an animal to its current camp must not spam the log.
		from := out[i].CampName()
		to := a.CampID
		if to == "" {
			to = models.UnassignedCamp
		}
		if from == to {
			continue
		}

		out[i].CampID = a.CampID
		out[i].History = append(cloneSlice(out[i].History), models.HistoryEvent{
			Date:        a.Date,
			Description: fmt.Sprintf("Moved from %s to %s", from, to),
		})
	}
	return out
}

// removeCampCascade deletes the camp and repoints every animal referencing it
// to the first remaining camp, or to no camp when none remain. The tie-break
// is the stored order of the camps collection.
func removeCampCascade(s State, campID string) State {
	s.Camps = removeByID(s.Camps, campID, func(v models.Camp) string { return v.ID })

	fallback := ""
	if len(s.Camps) > 0 {
		fallback = s.Camps[0].ID
	}

	animals := cloneSlice(s.Animals)
	for i := range animals {
		if animals[i].CampID == campID {
			animals[i].CampID = fallback
		}
	}
	s.Animals = animals
	return s
}

func logInventoryUsage(items []models.InventoryItem, a LogInventoryUsage) []models.InventoryItem {
	out := cloneSlice(items)
	for i := range out {
		if out[i].ID != a.ID {
			continue
		}
		out[i].Quantity += a.Change
		out[i].LastUsed = a.Date
		out[i].History = append(cloneSlice(out[i].History), models.InventoryChange{
			Date:   a.Date,
			Change: a.Change,
			Reason: a.Reason,
		})
	}
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func replaceByID[T any](in []T, item T, id func(T) string) []T {
	out := cloneSlice(in)
	target := id(item)
	for i := range out {
		if id(out[i]) == target {
			out[i] = item
		}
	}
	return out
}

func removeByID[T any](in []T, target string, id func(T) string) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if id(v) != target {
			out = append(out, v)
		}
	}
	return out
}

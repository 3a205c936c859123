package models

// Stats holds the derived aggregates shown on the dashboard. It is recomputed
// from the animal, transaction and task collections and never persisted on
// its own.
type Stats struct {
	Active        int     `json:"active"`
	Sold          int     `json:"sold"`
	Deceased      int     `json:"deceased"`
	TotalIncome   float64 `json:"totalIncome"`
	TotalExpenses float64 `json:"totalExpenses"`
	Balance       float64 `json:"balance"`
	PendingTasks  int     `json:"pendingTasks"`
}

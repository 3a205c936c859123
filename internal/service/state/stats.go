package state

import "github.com/mamadbah2/herdwise/internal/domain/models"

// CalculateStats derives the dashboard aggregates from the raw collections.
// It is pure and order-independent: items that match no filter are simply
// excluded, so malformed records never produce an error.
func CalculateStats(animals []models.Animal, transactions []models.Transaction, tasks []models.Task) models.Stats {
	var s models.Stats

	for _, a := range animals {
		switch a.Status {
		case models.AnimalActive:
			s.Active++
		case models.AnimalSold:
			s.Sold++
		case models.AnimalDeceased:
			s.Deceased++
		}
	}

	for _, t := range transactions {
		switch t.Type {
		case models.Income:
			s.TotalIncome += t.Amount
		case models.Expense:
			s.TotalExpenses += t.Amount
		}
	}

	s.Balance = s.TotalIncome - s.TotalExpenses

	for _, t := range tasks {
		if t.Status == models.TaskPending {
			s.PendingTasks++
		}
	}

	return s
}

package state

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/herdwise/internal/domain/models"
)

func TestCalculateStatsEmpty(t *testing.T) {
	stats := CalculateStats(nil, nil, nil)
	assert.Equal(t, models.Stats{}, stats)
}

func TestCalculateStatsAnimalCounts(t *testing.T) {
	animals := []models.Animal{
		{ID: "a1", Status: models.AnimalActive},
		{ID: "a2", Status: models.AnimalActive},
		{ID: "a3", Status: models.AnimalSold},
		{ID: "a4", Status: models.AnimalDeceased},
		{ID: "a5", Status: "Quarantined"}, // unknown status is simply not counted
	}

	stats := CalculateStats(animals, nil, nil)
	assert.Equal(t, 2, stats.Active)
	assert.Equal(t, 1, stats.Sold)
	assert.Equal(t, 1, stats.Deceased)
}

func TestCalculateStatsBalance(t *testing.T) {
	transactions := []models.Transaction{
		{ID: "t1", Type: models.Income, Amount: 2500},
		{ID: "t2", Type: models.Expense, Amount: 450},
	}

	stats := CalculateStats(nil, transactions, nil)
	assert.Equal(t, 2500.0, stats.TotalIncome)
	assert.Equal(t, 450.0, stats.TotalExpenses)
	assert.Equal(t, 2050.0, stats.Balance)
}

func TestCalculateStatsPendingTasks(t *testing.T) {
	tasks := []models.Task{
		{ID: "k1", Status: models.TaskPending},
		{ID: "k2", Status: models.TaskCompleted},
		{ID: "k3", Status: models.TaskPending},
	}

	stats := CalculateStats(nil, nil, tasks)
	assert.Equal(t, 2, stats.PendingTasks)
}

func TestCalculateStatsOrderIndependent(t *testing.T) {
	forward := []models.Transaction{
		{ID: "t1", Type: models.Income, Amount: 100},
		{ID: "t2", Type: models.Expense, Amount: 30},
		{ID: "t3", Type: models.Income, Amount: 70},
	}
	reversed := []models.Transaction{forward[2], forward[1], forward[0]}

	assert.Equal(t, CalculateStats(nil, forward, nil), CalculateStats(nil, reversed, nil))
}

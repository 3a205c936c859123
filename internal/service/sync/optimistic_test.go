package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/herdwise/internal/domain/models"
)

func TestRegistryPendingInsideWindow(t *testing.T) {
	r := NewRegistry(0)
	clock := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return clock }

	r.Mark(models.EntityInventory, "i1")

	assert.True(t, r.Pending(models.EntityInventory))
	assert.False(t, r.Pending(models.EntityAnimal), "tokens are scoped per entity")
}

func TestRegistryTokenExpires(t *testing.T) {
	r := NewRegistry(0)
	clock := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return clock }

	r.Mark(models.EntityInventory, "i1")

	clock = clock.Add(DefaultOptimisticWindow + time.Millisecond)
	assert.False(t, r.Pending(models.EntityInventory))
}

func TestRegistryRemarkExtendsWindow(t *testing.T) {
	r := NewRegistry(0)
	clock := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return clock }

	r.Mark(models.EntityInventory, "i1")
	clock = clock.Add(1500 * time.Millisecond)
	r.Mark(models.EntityInventory, "i1")

	clock = clock.Add(1500 * time.Millisecond)
	assert.True(t, r.Pending(models.EntityInventory), "second mark restarts the window")
}

func TestRegistryIndependentTokens(t *testing.T) {
	r := NewRegistry(0)
	clock := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return clock }

	r.Mark(models.EntityInventory, "i1")
	clock = clock.Add(time.Second)
	r.Mark(models.EntityInventory, "i2")

	// i1 expires, i2 still holds the suppression open.
	clock = clock.Add(1500 * time.Millisecond)
	assert.True(t, r.Pending(models.EntityInventory))

	clock = clock.Add(time.Second)
	assert.False(t, r.Pending(models.EntityInventory))
}

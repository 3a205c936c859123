package state

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/herdwise/internal/domain/models"
)

var decodeNow = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func TestDecodeEnvelopeAddAnimal(t *testing.T) {
	env := Envelope{
		Type:    KindAddAnimal,
		Payload: json.RawMessage(`{"id":"a1","tagNumber":"C001","status":"Active"}`),
	}

	action, err := DecodeEnvelope(env, decodeNow)
	require.NoError(t, err)

	add, ok := action.(AddAnimal)
	require.True(t, ok)
	assert.Equal(t, "C001", add.Animal.TagNumber)
	assert.Equal(t, models.AnimalActive, add.Animal.Status)
}

func TestDecodeEnvelopeRemoveByID(t *testing.T) {
	env := Envelope{Type: KindDeleteCamp, Payload: json.RawMessage(`{"id":"c7"}`)}

	action, err := DecodeEnvelope(env, decodeNow)
	require.NoError(t, err)
	assert.Equal(t, RemoveCamp{ID: "c7"}, action)
}

func TestDecodeEnvelopeStampsUsageDate(t *testing.T) {
	env := Envelope{
		Type:    KindLogUsage,
		Payload: json.RawMessage(`{"id":"i1","change":-5,"reason":"Dosed lambs"}`),
	}

	action, err := DecodeEnvelope(env, decodeNow)
	require.NoError(t, err)

	usage, ok := action.(LogInventoryUsage)
	require.True(t, ok)
	assert.Equal(t, -5.0, usage.Change)
	assert.Equal(t, "2026-08-31T12:00:00Z", usage.Date)
}

func TestDecodeEnvelopeUnknownKind(t *testing.T) {
	_, err := DecodeEnvelope(Envelope{Type: "FEED_THE_DOG"}, decodeNow)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownActionKind)
}

func TestDecodeEnvelopeMalformedPayload(t *testing.T) {
	env := Envelope{Type: KindAddTask, Payload: json.RawMessage(`{"id":`)}
	_, err := DecodeEnvelope(env, decodeNow)
	require.Error(t, err)
}

func TestOfflineRecordCaptureList(t *testing.T) {
	captured := []Action{
		AddAnimal{Animal: models.Animal{ID: "a1"}},
		UpdateAnimal{Animal: models.Animal{ID: "a1"}},
		RemoveAnimal{ID: "a1"},
		AddTransaction{Transaction: models.Transaction{ID: "t1"}},
		UpdateTransaction{Transaction: models.Transaction{ID: "t1"}},
		RemoveTransaction{ID: "t1"},
		AddTask{Task: models.Task{ID: "k1"}},
		UpdateTask{Task: models.Task{ID: "k1"}},
		RemoveTask{ID: "k1"},
		AddCamp{Camp: models.Camp{ID: "c1"}},
		UpdateCamp{Camp: models.Camp{ID: "c1"}},
		RemoveCamp{ID: "c1"},
		AddInventoryItem{Item: models.InventoryItem{ID: "i1"}},
		UpdateInventoryItem{Item: models.InventoryItem{ID: "i1"}},
		RemoveInventoryItem{ID: "i1"},
	}
	for _, a := range captured {
		_, _, _, ok := OfflineRecord(a)
		assert.True(t, ok, "%T must be captured", a)
	}

	// Purely-local mutations and set-collection actions are not queued.
	skipped := []Action{
		AddEvent{Event: models.Event{ID: "e1"}},
		UpdateEvent{Event: models.Event{ID: "e1"}},
		RemoveEvent{ID: "e1"},
		BulkAssignCamp{AnimalIDs: []string{"a1"}, CampID: "c1"},
		AddWeightRecord{AnimalID: "a1"},
		LogInventoryUsage{ID: "i1", Change: -1},
		SetAnimals{},
		SetInventory{},
	}
	for _, a := range skipped {
		_, _, _, ok := OfflineRecord(a)
		assert.False(t, ok, "%T must not be captured", a)
	}
}

func TestOfflineRecordMapping(t *testing.T) {
	op, entity, payload, ok := OfflineRecord(UpdateInventoryItem{Item: models.InventoryItem{ID: "i1", Name: "Vaccine"}})
	require.True(t, ok)
	assert.Equal(t, models.OpUpdate, op)
	assert.Equal(t, models.EntityInventory, entity)

	item, ok := payload.(models.InventoryItem)
	require.True(t, ok)
	assert.Equal(t, "Vaccine", item.Name)
}

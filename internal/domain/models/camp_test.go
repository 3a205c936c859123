package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson"
)

func TestGeoShapeFromJSONDocument(t *testing.T) {
	var c Camp
	err := json.Unmarshal([]byte(`{"id":"c1","name":"North","geoJson":{"type":"Polygon","coordinates":[]}}`), &c)
	require.NoError(t, err)
	assert.Equal(t, "Polygon", c.GeoJSON["type"])
}

func TestGeoShapeFromJSONString(t *testing.T) {
	var c Camp
	err := json.Unmarshal([]byte(`{"id":"c1","name":"North","geoJson":"{\"type\":\"Polygon\"}"}`), &c)
	require.NoError(t, err)
	assert.Equal(t, "Polygon", c.GeoJSON["type"])
}

func TestGeoShapeFromJSONNull(t *testing.T) {
	var c Camp
	err := json.Unmarshal([]byte(`{"id":"c1","name":"North","geoJson":null}`), &c)
	require.NoError(t, err)
	assert.Nil(t, c.GeoJSON)
}

func TestGeoShapeFromJSONBadString(t *testing.T) {
	var c Camp
	err := json.Unmarshal([]byte(`{"id":"c1","geoJson":"not json"}`), &c)
	require.Error(t, err)
}

func TestGeoShapeFromBSONDocument(t *testing.T) {
	raw, err := bson.Marshal(bson.M{
		"_id":     "c1",
		"name":    "North",
		"geoJson": bson.M{"type": "Polygon"},
	})
	require.NoError(t, err)

	var c Camp
	require.NoError(t, bson.Unmarshal(raw, &c))
	assert.Equal(t, "Polygon", c.GeoJSON["type"])
}

func TestGeoShapeFromBSONString(t *testing.T) {
	// Older documents persisted the shape as a serialized string.
	raw, err := bson.Marshal(bson.M{
		"_id":     "c1",
		"name":    "North",
		"geoJson": `{"type":"Polygon","coordinates":[]}`,
	})
	require.NoError(t, err)

	var c Camp
	require.NoError(t, bson.Unmarshal(raw, &c))
	assert.Equal(t, "Polygon", c.GeoJSON["type"])
}

func TestGeoShapeRoundTripsThroughBSON(t *testing.T) {
	in := Camp{ID: "c1", Name: "North", GeoJSON: GeoShape{"type": "Polygon"}}

	raw, err := bson.Marshal(in)
	require.NoError(t, err)

	var out Camp
	require.NoError(t, bson.Unmarshal(raw, &out))
	assert.Equal(t, in.GeoJSON["type"], out.GeoJSON["type"])
}

package models

import (
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Camp is a pasture or paddock that animals can be assigned to.
type Camp struct {
	ID        string   `bson:"_id" json:"id"`
	Name      string   `bson:"name" json:"name"`
	GeoJSON   GeoShape `bson:"geoJson,omitempty" json:"geoJson,omitempty"`
	AnimalIDs []string `bson:"animalIds,omitempty" json:"animalIds,omitempty"`
}

// GeoShape is the geographic boundary descriptor of a camp. Older documents
// store it as a serialized JSON string rather than an embedded document, so
// both wire forms decode into the same map.
type GeoShape map[string]interface{}

// UnmarshalJSON accepts either a JSON object or a JSON string containing a
// serialized object.
func (g *GeoShape) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*g = nil
		return nil
	}

	if data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("decode geo shape string: %w", err)
		}
		return g.parseSerialized(raw)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode geo shape document: %w", err)
	}
	*g = GeoShape(doc)
	return nil
}

// UnmarshalBSONValue handles the same string-or-document duality on the
// MongoDB wire.
func (g *GeoShape) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}

	switch t {
	case bson.TypeNull, bson.TypeUndefined:
		*g = nil
		return nil
	case bson.TypeString:
		return g.parseSerialized(rv.StringValue())
	case bson.TypeEmbeddedDocument:
		var doc map[string]interface{}
		if err := rv.Unmarshal(&doc); err != nil {
			return fmt.Errorf("decode geo shape document: %w", err)
		}
		*g = GeoShape(doc)
		return nil
	}

	return fmt.Errorf("unsupported geo shape bson type %s", t)
}

func (g *GeoShape) parseSerialized(raw string) error {
	if raw == "" {
		*g = nil
		return nil
	}

	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return fmt.Errorf("parse serialized geo shape: %w", err)
	}
	*g = GeoShape(doc)
	return nil
}

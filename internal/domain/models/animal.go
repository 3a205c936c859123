package models

// AnimalStatus enumerates the lifecycle states of an animal record.
type AnimalStatus string

const (
	AnimalActive   AnimalStatus = "Active"
	AnimalSold     AnimalStatus = "Sold"
	AnimalDeceased AnimalStatus = "Deceased"
)

// UnassignedCamp is the sentinel used when an animal has no camp reference.
const UnassignedCamp = "Unassigned"

// Animal is a single livestock record.
type Animal struct {
	ID             string         `bson:"_id" json:"id"`
	TagNumber      string         `bson:"tagNumber" json:"tagNumber"`
	TagColor       string         `bson:"tagColor,omitempty" json:"tagColor,omitempty"`
	Type           string         `bson:"type" json:"type"`
	Breed          string         `bson:"breed,omitempty" json:"breed,omitempty"`
	Sex            string         `bson:"sex" json:"sex"`
	Status         AnimalStatus   `bson:"status" json:"status"`
	Birthdate      string         `bson:"birthdate,omitempty" json:"birthdate,omitempty"`
	CampID         string         `bson:"campId,omitempty" json:"campId,omitempty"`
	SalePrice      float64        `bson:"salePrice,omitempty" json:"salePrice,omitempty"`
	SaleDate       string         `bson:"saleDate,omitempty" json:"saleDate,omitempty"`
	DeceasedReason string         `bson:"deceasedReason,omitempty" json:"deceasedReason,omitempty"`
	DeceasedDate   string         `bson:"deceasedDate,omitempty" json:"deceasedDate,omitempty"`
	MotherTag      string         `bson:"motherTag,omitempty" json:"motherTag,omitempty"`
	FatherTag      string         `bson:"fatherTag,omitempty" json:"fatherTag,omitempty"`
	OffspringTags  []string       `bson:"offspringTags,omitempty" json:"offspringTags,omitempty"`
	Health         []HealthRecord `bson:"health,omitempty" json:"health,omitempty"`
	WeightRecords  []WeightRecord `bson:"weightRecords" json:"weightRecords"`
	History        []HistoryEvent `bson:"history" json:"history"`
}

// HealthRecord captures a veterinary intervention on an animal.
type HealthRecord struct {
	Date              string `bson:"date" json:"date"`
	Type              string `bson:"type" json:"type"`
	Description       string `bson:"description" json:"description"`
	Performer         string `bson:"performer,omitempty" json:"performer,omitempty"`
	NextScheduledDate string `bson:"nextScheduledDate,omitempty" json:"nextScheduledDate,omitempty"`
}

// WeightRecord is a timestamped weighing of an animal.
type WeightRecord struct {
	Date   string  `bson:"date" json:"date"`
	Weight float64 `bson:"weight" json:"weight"`
}

// HistoryEvent is one entry in an animal's append-only event log.
type HistoryEvent struct {
	Date        string `bson:"date" json:"date"`
	Description string `bson:"description" json:"description"`
}

// CampName resolves the effective camp value used for history audit entries.
func (a Animal) CampName() string {
	if a.CampID == "" {
		return UnassignedCamp
	}
	return a.CampID
}

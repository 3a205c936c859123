package models

// TaskStatus enumerates task completion states.
type TaskStatus string

const (
	TaskPending   TaskStatus = "Pending"
	TaskCompleted TaskStatus = "Completed"
)

// Task is a scheduled piece of farm work.
type Task struct {
	ID       string     `bson:"_id" json:"id"`
	Title    string     `bson:"title" json:"title"`
	Priority string     `bson:"priority,omitempty" json:"priority,omitempty"`
	Status   TaskStatus `bson:"status" json:"status"`
	DueDate  string     `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	Category string     `bson:"category,omitempty" json:"category,omitempty"`
}

// Event is a free-form calendar entry tied to zero or more animals.
type Event struct {
	ID               string   `bson:"_id" json:"id"`
	Type             string   `bson:"type" json:"type"`
	Date             string   `bson:"date" json:"date"`
	Notes            string   `bson:"notes,omitempty" json:"notes,omitempty"`
	AnimalTagNumbers []string `bson:"animalTagNumbers,omitempty" json:"animalTagNumbers,omitempty"`
	Status           string   `bson:"status,omitempty" json:"status,omitempty"`
}

package models

// TransactionType distinguishes money in from money out.
type TransactionType string

const (
	Income  TransactionType = "Income"
	Expense TransactionType = "Expense"
)

// Transaction is a single financial entry feeding the balance computation.
type Transaction struct {
	ID          string          `bson:"_id" json:"id"`
	Type        TransactionType `bson:"type" json:"type"`
	Category    string          `bson:"category,omitempty" json:"category,omitempty"`
	Amount      float64         `bson:"amount" json:"amount"`
	Description string          `bson:"description,omitempty" json:"description,omitempty"`
	Date        string          `bson:"date" json:"date"`
}

package expenses

import "time"

type ExpenseStatus string

const (
	StatusActive  ExpenseStatus = "Active"
	StatusDeleted ExpenseStatus = "Deleted"
)

// ExpenseDetails is an expense record with optional proof attachment
// and audit columns. Deletion is a soft status flip; deleted rows stay
// in the table but are excluded from every read path.
type ExpenseDetails struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	ExpenseGuid     string    `json:"expense_guid" gorm:"uniqueIndex;not null"`
	ExpenseID       string    `json:"expense_id" gorm:"column:expense_id;not null"`
	CategoryName    string    `json:"category_name" gorm:"not null"`
	Amount          float64   `json:"amount" gorm:"not null"`
	Notes           string    `json:"notes"`
	Proof           string    `json:"proof"`
	ProofType       string    `json:"proof_type"`
	AddedBy         string    `json:"added_by"`
	AddedOn         time.Time `json:"added_on"`
	AddedIP         string    `json:"added_ip"`
	UpdatedBy       string    `json:"updated_by"`
	UpdatedOn       time.Time `json:"updated_on"`
	UpdatedIP       string    `json:"updated_ip"`
	Status          string    `json:"status" gorm:"not null;default:'Active'"`
	CollectionMax   int       `json:"collection_max"`
	CollectionMaxID string    `json:"collection_max_id"`
}

// Actor identifies who performs a mutation, taken from the validated
// token claims and the request.
type Actor struct {
	UserGuid string
	ClientIP string
}

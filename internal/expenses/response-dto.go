package expenses

import "time"

// ExpenseResponse is a single expense as returned to clients. Proof is
// an absolute media URL when an attachment exists.
type ExpenseResponse struct {
	ExpenseGuid  string    `json:"expense_guid"`
	ExpenseID    string    `json:"expense_id"`
	CategoryName string    `json:"category_name"`
	Amount       float64   `json:"amount"`
	Notes        string    `json:"notes"`
	Proof        string    `json:"proof"`
	ProofType    string    `json:"proof_type"`
	AddedOn      time.Time `json:"added_on"`
	Status       string    `json:"status"`
}

// ExpenseListResponse is the paginated list payload.
type ExpenseListResponse struct {
	Expenses   []ExpenseResponse `json:"expenses"`
	TotalCount int64             `json:"total_count"`
	PageNo     int               `json:"page_no"`
	PageSize   int               `json:"page_size"`
}

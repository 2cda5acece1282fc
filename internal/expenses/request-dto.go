package expenses

import "mime/multipart"

// CreateExpenseRequest is the multipart create payload.
type CreateExpenseRequest struct {
	CategoryName string                `form:"category_name" validate:"required,max=100"`
	Amount       float64               `form:"amount" validate:"required"`
	Notes        string                `form:"notes"`
	Attachment   *multipart.FileHeader `form:"attachment"`
}

// UpdateExpenseRequest is the multipart update payload. The expense
// GUID travels in the URL.
type UpdateExpenseRequest struct {
	CategoryName string                `form:"category_name" validate:"required,max=100"`
	Amount       float64               `form:"amount" validate:"required"`
	Notes        string                `form:"notes"`
	Attachment   *multipart.FileHeader `form:"attachment"`
}

// FilterQuery holds list filtering parameters.
type FilterQuery struct {
	PageSize int    `form:"page_size"`
	PageNo   int    `form:"page_no"`
	FromDate string `form:"from_date"` // 2006-01-02
	ToDate   string `form:"to_date"`   // 2006-01-02
	SParam   string `form:"s_param"`
}

package expense

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kyber/backend/internal/domain/expense"
)

// CreateExpenseRequest represents a request to record an expense
type CreateExpenseRequest struct {
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	CategoryID  uuid.UUID       `json:"category_id" binding:"required"`
	VendorID    *uuid.UUID      `json:"vendor_id"`
	Date        time.Time       `json:"date"`
	Notes       string          `json:"notes"`
}

// UpdateExpenseRequest represents a request to update an expense
type UpdateExpenseRequest struct {
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	CategoryID  uuid.UUID       `json:"category_id" binding:"required"`
	VendorID    *uuid.UUID      `json:"vendor_id"`
	Date        time.Time       `json:"date"`
	Notes       *string         `json:"notes"`
}

// ExpenseListFilter represents filter options for listing expenses
type ExpenseListFilter struct {
	Page       int              `form:"page"`
	PageSize   int              `form:"page_size"`
	OrderBy    string           `form:"order_by"`
	OrderDir   string           `form:"order_dir"`
	Search     string           `form:"search"`
	CategoryID *uuid.UUID       `form:"category_id"`
	VendorID   *uuid.UUID       `form:"vendor_id"`
	StartDate  *time.Time       `form:"start_date"`
	EndDate    *time.Time       `form:"end_date"`
	MinAmount  *decimal.Decimal `form:"min_amount"`
	MaxAmount  *decimal.Decimal `form:"max_amount"`
}

// ExpenseResponse represents an expense in responses
type ExpenseResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	CategoryID  uuid.UUID       `json:"category_id"`
	VendorID    *uuid.UUID      `json:"vendor_id"`
	Date        time.Time       `json:"date"`
	Notes       string          `json:"notes"`
	ReceiptURL  string          `json:"receipt_url"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToExpenseResponse converts a domain expense to a response DTO
func ToExpenseResponse(e *expense.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount,
		CategoryID:  e.CategoryID,
		VendorID:    e.VendorID,
		Date:        e.Date,
		Notes:       e.Notes,
		ReceiptURL:  e.ReceiptURL,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// ToExpenseResponses converts domain expenses to response DTOs
func ToExpenseResponses(expenses []expense.Expense) []ExpenseResponse {
	responses := make([]ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		responses = append(responses, ToExpenseResponse(&expenses[i]))
	}
	return responses
}

// CategoryRequest represents a request to create or update a category
type CategoryRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=100"`
	Color string `json:"color" binding:"max=20"`
}

// CategoryResponse represents a category in responses
type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

// ToCategoryResponse converts a domain category to a response DTO
func ToCategoryResponse(c *expense.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Color:     c.Color,
		CreatedAt: c.CreatedAt,
	}
}

// ToCategoryResponses converts domain categories to response DTOs
func ToCategoryResponses(categories []expense.Category) []CategoryResponse {
	responses := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		responses = append(responses, ToCategoryResponse(&categories[i]))
	}
	return responses
}

// VendorRequest represents a request to create or update a vendor
type VendorRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone" binding:"max=50"`
	Address string `json:"address" binding:"max=500"`
}

// VendorResponse represents a vendor in responses
type VendorResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// ToVendorResponse converts a domain vendor to a response DTO
func ToVendorResponse(v *expense.Vendor) VendorResponse {
	return VendorResponse{
		ID:        v.ID,
		Name:      v.Name,
		Email:     v.Email,
		Phone:     v.Phone,
		Address:   v.Address,
		CreatedAt: v.CreatedAt,
	}
}

// ToVendorResponses converts domain vendors to response DTOs
func ToVendorResponses(vendors []expense.Vendor) []VendorResponse {
	responses := make([]VendorResponse, 0, len(vendors))
	for i := range vendors {
		responses = append(responses, ToVendorResponse(&vendors[i]))
	}
	return responses
}

package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order.
// Returns "ASC" unless the input is explicitly descending.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "desc") {
		return "DESC"
	}
	return "ASC"
}

// ValidateSortField validates the sort field against a whitelist of
// allowed columns. Anything not whitelisted falls back to defaultField,
// so client-supplied sort input never reaches the ORDER BY clause raw.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// QuoteSortFields contains allowed sort columns for quotes
var QuoteSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"number":      true,
	"client_name": true,
	"status":      true,
	"subtotal":    true,
	"total":       true,
}

// InvoiceSortFields contains allowed sort columns for invoices
var InvoiceSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"number":      true,
	"client_name": true,
	"status":      true,
	"subtotal":    true,
	"total":       true,
	"due_date":    true,
	"paid_at":     true,
}

// ExpenseSortFields contains allowed sort columns for expenses
var ExpenseSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"date":        true,
	"amount":      true,
	"description": true,
	"category_id": true,
	"vendor_id":   true,
}

// UserSortFields contains allowed sort columns for users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"email":         true,
	"name":          true,
	"role":          true,
	"last_login_at": true,
}

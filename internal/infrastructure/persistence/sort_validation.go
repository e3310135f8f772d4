package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
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

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// PaymentSortFields contains allowed sort fields for payments
var PaymentSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"payment_date": true,
	"amount":       true,
	"method":       true,
	"target_kind":  true,
	"party_kind":   true,
}

// ClientSortFields contains allowed sort fields for clients
var ClientSortFields = map[string]bool{
	"id":                     true,
	"created_at":             true,
	"updated_at":             true,
	"name":                   true,
	"phone":                  true,
	"status":                 true,
	"outstanding_receivable": true,
}

// VendorSortFields contains allowed sort fields for vendors
var VendorSortFields = map[string]bool{
	"id":                  true,
	"created_at":          true,
	"updated_at":          true,
	"name":                true,
	"phone":               true,
	"category":            true,
	"status":              true,
	"outstanding_payable": true,
}

// SaleSortFields contains allowed sort fields for sales
var SaleSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"sale_number":    true,
	"sale_date":      true,
	"client_name":    true,
	"grand_total":    true,
	"paid_amount":    true,
	"payment_status": true,
}

// OrderSortFields contains allowed sort fields for procurement orders
var OrderSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"order_number":   true,
	"order_date":     true,
	"type":           true,
	"vendor_name":    true,
	"grand_total":    true,
	"paid_amount":    true,
	"payment_status": true,
}

// AssetSortFields contains allowed sort fields for assets
var AssetSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"name":           true,
	"category":       true,
	"purchase_date":  true,
	"purchase_price": true,
	"paid_amount":    true,
	"payment_status": true,
}

// ExpenseSortFields contains allowed sort fields for expenses
var ExpenseSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"category":       true,
	"expense_date":   true,
	"amount":         true,
	"paid_amount":    true,
	"payment_status": true,
}

// LoanSortFields contains allowed sort fields for loans
var LoanSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"loan_number":        true,
	"lender_name":        true,
	"start_date":         true,
	"principal_amount":   true,
	"outstanding_amount": true,
	"status":             true,
}

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

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"name":          true,
	"barcode":       true,
	"category_id":   true,
	"unit":          true,
	"cost_price":    true,
	"selling_price": true,
	"stock_qty":     true,
	"min_stock":     true,
	"status":        true,
}

// CategorySortFields contains allowed sort fields for categories
var CategorySortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"sort_order": true,
}

// SaleSortFields contains allowed sort fields for sales
var SaleSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"occurred_at":    true,
	"customer_name":  true,
	"total_amount":   true,
	"paid_amount":    true,
	"debt_amount":    true,
	"payment_method": true,
}

// SaleLineSortFields contains allowed sort fields for debt ledger lines
var SaleLineSortFields = map[string]bool{
	"id":                  true,
	"created_at":          true,
	"updated_at":          true,
	"occurred_at":         true,
	"normalized_customer": true,
	"product_name":        true,
	"total_amount":        true,
	"paid_amount":         true,
	"debt":                true,
}

// StockCountSortFields contains allowed sort fields for stock count sessions
var StockCountSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"status":            true,
	"completed_at":      true,
	"total_items":       true,
	"counted_items":     true,
	"discrepancy_items": true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"username":      true,
	"full_name":     true,
	"role":          true,
	"status":        true,
	"last_login_at": true,
}

// TenantSortFields contains allowed sort fields for tenants
var TenantSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"name":             true,
	"status":           true,
	"subscription_end": true,
}

// PaymentRequestSortFields contains allowed sort fields for payment requests
var PaymentRequestSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"status":      true,
	"amount":      true,
	"months":      true,
	"reviewed_at": true,
}

package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// ShipmentSortFields contains allowed sort fields for shipments
var ShipmentSortFields = map[string]bool{
	"created_at":         true,
	"updated_at":         true,
	"tracking_number":    true,
	"status":             true,
	"estimated_cost":     true,
	"estimated_delivery": true,
	"actual_delivery":    true,
	"sender_name":        true,
	"receiver_name":      true,
	"receiver_country":   true,
}

// ContactSortFields contains allowed sort fields for contact submissions
var ContactSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"email":      true,
	"status":     true,
}

// likeEscaper escapes LIKE wildcards so user text matches literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern returns a "%text%" pattern with wildcards in text escaped
func ContainsPattern(text string) string {
	return "%" + likeEscaper.Replace(text) + "%"
}

package utils

import "strings"

// Canonical vocabularies for enumerated fields. Matching is case-insensitive,
// responses always carry the canonical casing.
var (
	EventRepeatTypes      = []string{"None", "Daily", "Weekly", "Monthly"}
	EventStatuses         = []string{"Planned", "Cancelled"}
	TaskPriorities        = []string{"Low", "Medium", "High"}
	TaskStatuses          = []string{"Todo", "InProgress", "Done"}
	SessionPaymentMethods = []string{"Cash", "Card", "Transfer"}
	SessionStatuses       = []string{"Scheduled", "Completed", "Cancelled", "NoShow"}
)

// NormalizeValue matches a free-text candidate against a fixed vocabulary.
// The candidate is trimmed and compared case-insensitively; on a match the
// canonical casing is returned. Empty input and unknown values both fail.
func NormalizeValue(value string, allowed []string) (string, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", false
	}

	for _, allowedValue := range allowed {
		if strings.EqualFold(allowedValue, trimmed) {
			return allowedValue, true
		}
	}

	return "", false
}

// NormalizePaymentMethod is the optional variant: a blank method is a valid
// "no method" and returns success with an empty string. Every other field
// that goes through NormalizeValue is mandatory.
func NormalizePaymentMethod(value string) (string, bool) {
	if strings.TrimSpace(value) == "" {
		return "", true
	}
	return NormalizeValue(value, SessionPaymentMethods)
}

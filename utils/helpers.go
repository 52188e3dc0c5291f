package utils

import (
	"net/mail"
	"regexp"
	"strings"
)

var colorHexPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// NormalizeEmail lowercases and trims an email for case-insensitive uniqueness.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEmail checks email syntax
func IsValidEmail(email string) bool {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return false
	}
	addr, err := mail.ParseAddress(trimmed)
	return err == nil && addr.Address == trimmed
}

// IsValidColorHex checks the "#RRGGBB" calendar color format
func IsValidColorHex(colorHex string) bool {
	return colorHexPattern.MatchString(colorHex)
}

// OptionalString trims the input and maps blank to nil, so optional text
// columns store NULL instead of empty strings.
func OptionalString(input string) *string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

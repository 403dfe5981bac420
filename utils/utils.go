package utils

import (
	"strings"
	"time"
)

// FormatCreationDate renders the human-readable creation date stored on a
// course, e.g. "28-08-2026 14:05".
func FormatCreationDate(t time.Time) string {
	return t.Format("02-01-2006 15:04")
}

// NormalizeEmail lowercases and trims an email address so uniqueness is
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

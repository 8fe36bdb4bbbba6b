package services

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yeremiapane/quickserve/models"
)

const maxTableNumberLen = 50

// NormalizeTableNumber trims a scanned table code and rejects empty or
// malformed values.
func NormalizeTableNumber(raw string) (string, error) {
	table := strings.TrimSpace(raw)
	if table == "" {
		return "", models.NewValidationError("tableNumber", "is required")
	}
	if utf8.RuneCountInString(table) > maxTableNumberLen {
		return "", models.NewValidationError("tableNumber", "must be at most %d characters", maxTableNumberLen)
	}
	for _, r := range table {
		if unicode.IsControl(r) {
			return "", models.NewValidationError("tableNumber", "contains invalid characters")
		}
	}
	return table, nil
}

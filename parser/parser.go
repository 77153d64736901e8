// Package parser contains the pure normalization rules applied to raw
// catalog page fragments before they become records.
package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// currencyReplacer strips the currency symbols the catalog is known to use.
// The mojibake pound form shows up when pages are served with a mismatched
// charset header.
var currencyReplacer = strings.NewReplacer("Â£", "", "£", "", "€", "", "$", "")

// ParsePrice strips currency symbols and parses the remainder as a float.
func ParsePrice(text string) (float64, error) {
	cleaned := strings.TrimSpace(currencyReplacer.Replace(text))
	if cleaned == "" {
		return 0, fmt.Errorf("empty price text %q", text)
	}
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", text, err)
	}
	return price, nil
}

// RatingToNumeric converts the textual rating class token to a numeric
// scale. Unknown tokens map to 0, the "unrecognized" sentinel.
func RatingToNumeric(rating string) int {
	switch strings.TrimSpace(rating) {
	case "One":
		return 1
	case "Two":
		return 2
	case "Three":
		return 3
	case "Four":
		return 4
	case "Five":
		return 5
	default:
		return 0
	}
}

// NormalizeAvailability trims spacing from the availability text.
func NormalizeAvailability(text string) string {
	return strings.TrimSpace(text)
}

// TruncateTitle shortens a title to max runes, appending an ellipsis when
// anything was cut.
func TruncateTitle(title string, max int) string {
	runes := []rune(title)
	if len(runes) <= max {
		return title
	}
	return string(runes[:max]) + "..."
}

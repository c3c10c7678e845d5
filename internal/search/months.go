package search

import (
	"strings"
	"time"
)

// monthSynonyms maps every accepted month spelling (full name, 3-letter
// abbreviation, abbreviation with trailing period, matched lowercased)
// to its month. The table is closed: anything outside it does not match.
var monthSynonyms = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// canonicalMonth resolves a user-supplied month name to a month.
func canonicalMonth(s string) (time.Month, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.TrimSuffix(key, ".")
	m, ok := monthSynonyms[key]
	return m, ok
}

// expiryLayouts covers the formats instrument dumps are known to carry.
var expiryLayouts = []string{
	"2006-01-02",
	"02-Jan-2006",
	"2-Jan-2006",
}

// parseExpiry parses an instrument expiry string. Month names in dumps are
// uppercase ("29-MAY-2025"), which time.Parse rejects, so a case-normalized
// variant is tried as well.
func parseExpiry(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	norm := normalizeMonthCase(s)
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, norm); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// normalizeMonthCase rewrites "29-MAY-2025" into "29-May-2025".
func normalizeMonthCase(s string) string {
	parts := strings.Split(s, "-")
	for i, p := range parts {
		if len(p) < 3 || p[0] < 'A' || p[0] > 'Z' {
			continue
		}
		parts[i] = p[:1] + strings.ToLower(p[1:])
	}
	return strings.Join(parts, "-")
}

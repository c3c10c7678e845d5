package search

import (
	"testing"
	"time"
)

func TestCanonicalMonth(t *testing.T) {
	cases := []struct {
		in   string
		want time.Month
		ok   bool
	}{
		{"May", time.May, true},
		{"may", time.May, true},
		{"MAY", time.May, true},
		{" sep ", time.September, true},
		{"sept", time.September, true},
		{"Sep.", time.September, true},
		{"January", time.January, true},
		{"m", 0, false},
		{"month", 0, false},
		{"", 0, false},
	}

	for _, c := range cases {
		got, ok := canonicalMonth(c.in)
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("canonicalMonth(%q) = %v, %v; want %v, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestParseExpiry(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2025-05-29", "2025-05-29", true},
		{"29-May-2025", "2025-05-29", true},
		{"29-MAY-2025", "2025-05-29", true},
		{"5-Jun-2025", "2025-06-05", true},
		{" 29-May-2025 ", "2025-05-29", true},
		{"", "", false},
		{"soon", "", false},
		{"29/05/2025", "", false},
	}

	for _, c := range cases {
		got, ok := parseExpiry(c.in)
		if ok != c.ok {
			t.Errorf("parseExpiry(%q) ok = %v, want %v", c.in, ok, c.ok)
			continue
		}
		if ok && got.Format("2006-01-02") != c.want {
			t.Errorf("parseExpiry(%q) = %s, want %s", c.in, got.Format("2006-01-02"), c.want)
		}
	}
}

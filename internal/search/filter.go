package search

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"finvasia-agent/internal/catalog"
)

// Query is one search request. Optional criteria are conjunctive: a record
// must satisfy every supplied criterion to match.
type Query struct {
	Text           string   `json:"stext"`
	Exchange       string   `json:"exch"`
	InstrumentType string   `json:"instrumentType,omitempty"`
	OptionType     string   `json:"optionType,omitempty"`
	ExpiryMonth    string   `json:"expiryMonth,omitempty"`
	ExpiryYear     string   `json:"expiryYear,omitempty"`
	StrikePrice    *float64 `json:"strikePrice,omitempty"`
	MinStrike      *float64 `json:"minStrike,omitempty"`
	MaxStrike      *float64 `json:"maxStrike,omitempty"`
	Limit          int      `json:"limit,omitempty"`
	Offset         int      `json:"offset,omitempty"`
}

// matches applies the filter conjunction to one record. A record whose
// Expiry or StrikePrice cannot be parsed fails any criterion referencing
// that field; the malformed value never surfaces as an error.
func matches(rec catalog.Record, q Query) bool {
	text := strings.ToUpper(strings.TrimSpace(q.Text))
	if text != "" {
		if !strings.Contains(strings.ToUpper(rec.Symbol), text) &&
			!strings.Contains(strings.ToUpper(rec.TradingSymbol), text) {
			return false
		}
	}

	if q.InstrumentType != "" && rec.Instrument != q.InstrumentType {
		return false
	}

	if q.OptionType != "" && rec.OptionType != q.OptionType {
		return false
	}

	if q.ExpiryMonth != "" || q.ExpiryYear != "" {
		expiry, ok := parseExpiry(rec.Expiry)
		if !ok {
			return false
		}
		if q.ExpiryMonth != "" {
			want, ok := canonicalMonth(q.ExpiryMonth)
			if !ok || expiry.Month() != want {
				return false
			}
		}
		if q.ExpiryYear != "" && strconv.Itoa(expiry.Year()) != q.ExpiryYear {
			return false
		}
	}

	if q.StrikePrice != nil || q.MinStrike != nil || q.MaxStrike != nil {
		strike, err := strconv.ParseFloat(strings.TrimSpace(rec.StrikePrice), 64)
		if err != nil {
			return false
		}
		if q.StrikePrice != nil && strike != *q.StrikePrice {
			return false
		}
		if q.MinStrike != nil && strike < *q.MinStrike {
			return false
		}
		if q.MaxStrike != nil && strike > *q.MaxStrike {
			return false
		}
	}

	return true
}

// filterRecords returns the records matching the full conjunction, in
// catalog order.
func filterRecords(records []catalog.Record, q Query) []catalog.Record {
	var out []catalog.Record
	for _, rec := range records {
		if matches(rec, q) {
			out = append(out, rec)
		}
	}
	return out
}

// facets derives the three facet lists from the full filtered set: distinct
// expiry dates and distinct Mon-YYYY pairs in chronological order (January
// of next year sorts after December of this one), distinct strikes
// ascending.
func facets(filtered []catalog.Record) (dates, months []string, strikes []float64) {
	dateSeen := map[time.Time]string{}
	monthSeen := map[time.Time]bool{}
	strikeSeen := map[float64]bool{}

	for _, rec := range filtered {
		if expiry, ok := parseExpiry(rec.Expiry); ok {
			if _, dup := dateSeen[expiry]; !dup {
				dateSeen[expiry] = rec.Expiry
			}
			monthSeen[time.Date(expiry.Year(), expiry.Month(), 1, 0, 0, 0, 0, time.UTC)] = true
		}
		if strike, err := strconv.ParseFloat(strings.TrimSpace(rec.StrikePrice), 64); err == nil {
			strikeSeen[strike] = true
		}
	}

	dateKeys := make([]time.Time, 0, len(dateSeen))
	for t := range dateSeen {
		dateKeys = append(dateKeys, t)
	}
	sort.Slice(dateKeys, func(i, j int) bool { return dateKeys[i].Before(dateKeys[j]) })
	for _, t := range dateKeys {
		dates = append(dates, dateSeen[t])
	}

	monthKeys := make([]time.Time, 0, len(monthSeen))
	for t := range monthSeen {
		monthKeys = append(monthKeys, t)
	}
	sort.Slice(monthKeys, func(i, j int) bool { return monthKeys[i].Before(monthKeys[j]) })
	for _, t := range monthKeys {
		months = append(months, t.Format("Jan-2006"))
	}

	for s := range strikeSeen {
		strikes = append(strikes, s)
	}
	sort.Float64s(strikes)

	return dates, months, strikes
}

// page slices the filtered set to [offset, offset+limit).
func page(filtered []catalog.Record, offset, limit int) []catalog.Record {
	if offset >= len(filtered) {
		return nil
	}
	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[offset:end]
}

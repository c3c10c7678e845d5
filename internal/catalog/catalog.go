// Package catalog holds the locally materialized instrument snapshot, one
// record set per exchange, replaced wholesale on refresh.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"
)

// Record is one tradable instrument as it appears in the exchange dump.
// All dump columns ride along as strings; identity is (Exchange,
// TradingSymbol).
type Record struct {
	Exchange      string `json:"Exchange" csv:"Exchange"`
	Token         string `json:"Token,omitempty" csv:"Token"`
	LotSize       string `json:"LotSize,omitempty" csv:"LotSize"`
	Symbol        string `json:"Symbol" csv:"Symbol"`
	TradingSymbol string `json:"TradingSymbol" csv:"TradingSymbol"`
	Expiry        string `json:"Expiry,omitempty" csv:"Expiry"`
	Instrument    string `json:"Instrument,omitempty" csv:"Instrument"`
	OptionType    string `json:"OptionType,omitempty" csv:"OptionType"`
	StrikePrice   string `json:"StrikePrice,omitempty" csv:"StrikePrice"`
	TickSize      string `json:"TickSize,omitempty" csv:"TickSize"`
}

// Catalog is the in-memory snapshot. The exchange map is immutable once
// stored; Load swaps the whole map so readers see either the old or the new
// snapshot, never a partially filled one.
type Catalog struct {
	current atomic.Pointer[map[string][]Record]
}

// New returns an empty catalog.
func New() *Catalog {
	c := &Catalog{}
	empty := map[string][]Record{}
	c.current.Store(&empty)
	return c
}

// Load reads and parses the snapshot file, then atomically replaces the
// in-memory catalog. On a missing or malformed file the previous catalog
// stays in place and the error is reported to the caller.
func (c *Catalog) Load(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading instrument snapshot: %w", err)
	}

	var byExchange map[string][]Record
	if err := json.Unmarshal(b, &byExchange); err != nil {
		return fmt.Errorf("parsing instrument snapshot: %w", err)
	}

	c.Replace(byExchange)
	return nil
}

// Replace installs a fully built snapshot.
func (c *Catalog) Replace(byExchange map[string][]Record) {
	if byExchange == nil {
		byExchange = map[string][]Record{}
	}
	c.current.Store(&byExchange)
}

// Query returns the records for an exchange, or an empty slice when the
// exchange is absent. The returned slice is shared and must not be mutated.
func (c *Catalog) Query(exchange string) []Record {
	m := *c.current.Load()
	return m[exchange]
}

// Len reports the total number of records across exchanges.
func (c *Catalog) Len() int {
	n := 0
	for _, recs := range *c.current.Load() {
		n += len(recs)
	}
	return n
}

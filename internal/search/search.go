// Package search resolves instrument queries against the local catalog
// first and the broker's SearchScrip endpoint second.
package search

import (
	"context"
	"encoding/json"
	"strings"

	"finvasia-agent/internal/catalog"
	"finvasia-agent/internal/logger"
	"finvasia-agent/internal/noren"
)

// TokenSource supplies a live session token.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Caller issues broker requests.
type Caller interface {
	Call(ctx context.Context, endpoint string, payload map[string]string, token string) noren.Response
}

// Result is a search outcome. Local hits carry a page plus facet lists;
// remote fallback hits carry the broker's verbatim body under Remote,
// tagged with the broker's own stat.
type Result struct {
	Stat                  string           `json:"stat"`
	Emsg                  string           `json:"emsg,omitempty"`
	MatchedTotal          int              `json:"matched_total"`
	Values                []catalog.Record `json:"values,omitempty"`
	AvailableExpiryDates  []string         `json:"available_expiry_dates,omitempty"`
	AvailableExpiryMonths []string         `json:"available_expiry_months,omitempty"`
	AvailableStrikes      []float64        `json:"available_strikes,omitempty"`
	Remote                json.RawMessage  `json:"remote,omitempty"`
}

// Params configures the engine.
type Params struct {
	UserID              string
	DefaultExchange     string
	DerivativesExchange string
	MaxLimit            int
}

// Engine is the two-stage query resolver: the local stage scans the catalog
// snapshot, the remote stage calls SearchScrip through an authenticated
// session. Stages run in order; an empty local result falls through because
// catalog coverage is partial and proves nothing about non-existence.
type Engine struct {
	catalog   *catalog.Catalog
	session   TokenSource
	client    Caller
	p         Params
	resolvers []resolver
}

type resolver func(ctx context.Context, q Query) (Result, bool)

// New creates a search engine over the given catalog, session and client.
func New(cat *catalog.Catalog, session TokenSource, client Caller, p Params) *Engine {
	if p.DefaultExchange == "" {
		p.DefaultExchange = "NSE"
	}
	if p.DerivativesExchange == "" {
		p.DerivativesExchange = "NFO"
	}
	if p.MaxLimit <= 0 {
		p.MaxLimit = 100
	}

	e := &Engine{catalog: cat, session: session, client: client, p: p}
	e.resolvers = []resolver{e.resolveLocal, e.resolveRemote}
	return e
}

// Search normalizes the query and runs the resolver chain.
func (e *Engine) Search(ctx context.Context, q Query) Result {
	q = e.normalize(q)

	for _, resolve := range e.resolvers {
		if res, ok := resolve(ctx, q); ok {
			return res
		}
	}

	// The remote stage always produces a result; this is unreachable
	// unless the chain is rewired.
	return Result{Stat: noren.StatNotOK, Emsg: "no resolver produced a result"}
}

func (e *Engine) normalize(q Query) Query {
	q.Text = strings.TrimSpace(q.Text)
	if q.Text == "" {
		q.Text = "a"
	}
	if q.Exchange == "" {
		q.Exchange = e.p.DefaultExchange
	}
	if q.Limit <= 0 || q.Limit > e.p.MaxLimit {
		q.Limit = e.p.MaxLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

// useLocal decides whether the catalog stage applies. The catalog is only
// consulted for the derivatives exchange or for index-family text queries;
// plain equity lookups go straight to the remote API, which is fast and
// does not need the (large) local snapshot.
func (e *Engine) useLocal(q Query) bool {
	if q.Exchange == e.p.DerivativesExchange {
		return true
	}
	return strings.Contains(strings.ToUpper(q.Text), "NIFTY")
}

func (e *Engine) resolveLocal(ctx context.Context, q Query) (Result, bool) {
	if !e.useLocal(q) {
		return Result{}, false
	}

	filtered := filterRecords(e.catalog.Query(q.Exchange), q)
	if len(filtered) == 0 {
		logger.Debug(ctx, "Catalog stage empty, falling back to remote search",
			"exchange", q.Exchange, "text", q.Text)
		return Result{}, false
	}

	dates, months, strikes := facets(filtered)
	return Result{
		Stat:                  noren.StatOK,
		MatchedTotal:          len(filtered),
		Values:                page(filtered, q.Offset, q.Limit),
		AvailableExpiryDates:  dates,
		AvailableExpiryMonths: months,
		AvailableStrikes:      strikes,
	}, true
}

// resolveRemote issues the broker search. No client-side filtering or
// pagination applies here; the broker's body comes back verbatim.
func (e *Engine) resolveRemote(ctx context.Context, q Query) (Result, bool) {
	token, err := e.session.Token(ctx)
	if err != nil {
		logger.ErrorWithErr(ctx, "Remote search blocked by authentication", err)
		return Result{Stat: noren.StatNotOK, Emsg: err.Error()}, true
	}

	payload := map[string]string{
		"uid":   e.p.UserID,
		"stext": q.Text,
		"exch":  q.Exchange,
	}

	resp := e.client.Call(ctx, noren.EndpointSearchScrip, payload, token)
	return Result{Stat: resp.Stat, Emsg: resp.Emsg, Remote: resp.Raw}, true
}

package ops

import (
	"context"
	"encoding/json"

	"finvasia-agent/internal/noren"
	"finvasia-agent/internal/types"
)

// Quotes fetches the live quote for one instrument token.
func (s *Service) Quotes(ctx context.Context, p types.QuotesParams) noren.Response {
	payload := map[string]string{"uid": s.uid}
	setIfPresent(payload, "exch", p.Exch)
	setIfPresent(payload, "token", p.Token)

	return s.authed(ctx, func(token string) noren.Response {
		return s.client.Call(ctx, noren.EndpointGetQuotes, payload, token)
	})
}

// Positions returns the position book.
func (s *Service) Positions(ctx context.Context, actid string) noren.Response {
	payload := map[string]string{"uid": s.uid}
	setIfPresent(payload, "actid", actid)

	return s.authed(ctx, func(token string) noren.Response {
		return s.client.Call(ctx, noren.EndpointPositions, payload, token)
	})
}

// Holdings returns the holdings book for a product.
func (s *Service) Holdings(ctx context.Context, p types.HoldingsParams) noren.Response {
	payload := map[string]string{"uid": s.uid}
	setIfPresent(payload, "actid", p.Actid)
	if p.Prd == "" {
		p.Prd = "C"
	}
	payload["prd"] = p.Prd

	return s.authed(ctx, func(token string) noren.Response {
		return s.client.Call(ctx, noren.EndpointHoldings, payload, token)
	})
}

// Watchlist resolves the account's watchlists and returns the contents of
// the first one. The list endpoint only yields names; a second call fetches
// the actual scrips.
func (s *Service) Watchlist(ctx context.Context) noren.Response {
	return s.authed(ctx, func(token string) noren.Response {
		listResp := s.client.Call(ctx, noren.EndpointWatchlist, map[string]string{"uid": s.uid}, token)
		if !listResp.OK() {
			return listResp
		}

		var names struct {
			Values []string `json:"values"`
		}
		if err := json.Unmarshal(listResp.Raw, &names); err != nil || len(names.Values) == 0 {
			return noren.Fail("no watchlist found")
		}

		return s.client.Call(ctx, noren.EndpointMarketWatch, map[string]string{
			"uid":    s.uid,
			"wlname": names.Values[0],
		}, token)
	})
}

// Profile returns the account's user details.
func (s *Service) Profile(ctx context.Context) noren.Response {
	payload := map[string]string{"uid": s.uid}

	return s.authed(ctx, func(token string) noren.Response {
		return s.client.Call(ctx, noren.EndpointUserDetails, payload, token)
	})
}

// Balance returns the account's limits and margins.
func (s *Service) Balance(ctx context.Context) noren.Response {
	payload := map[string]string{
		"uid":   s.uid,
		"actid": s.uid,
	}

	return s.authed(ctx, func(token string) noren.Response {
		return s.client.Call(ctx, noren.EndpointLimits, payload, token)
	})
}

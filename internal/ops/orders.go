package ops

import (
	"context"
	"encoding/json"
	"strconv"

	"finvasia-agent/internal/journal"
	"finvasia-agent/internal/logger"
	"finvasia-agent/internal/noren"
	"finvasia-agent/internal/types"
)

// record journals an order action. Journal failures are logged and
// swallowed; the broker response already happened and must reach the
// caller regardless.
func record(ctx context.Context, action, tsym, orderNo string, resp noren.Response) {
	err := journal.Append(journal.Entry{
		Action:        action,
		TradingSymbol: tsym,
		OrderNo:       orderNo,
		Stat:          resp.Stat,
		Emsg:          resp.Emsg,
	})
	if err != nil {
		logger.Warn(ctx, "Order journal write failed", "error", err.Error())
	}
}

// PlaceOrder submits a new order. Missing optionals get the broker's
// conventional defaults: DAY retention, CNC product, LMT when a price is
// supplied and MKT otherwise, zeroed prices, disclosed qty equal to qty.
func (s *Service) PlaceOrder(ctx context.Context, p types.PlaceOrderParams) noren.Response {
	if p.Ret == "" {
		p.Ret = "DAY"
	}
	if p.Prd == "" {
		p.Prd = "C"
	}
	if p.Prctyp == "" {
		if p.Prc != "" {
			p.Prctyp = "LMT"
		} else {
			p.Prctyp = "MKT"
		}
	}
	if p.Prc == "" {
		p.Prc = "0"
	}
	if p.Trgprc == "" {
		p.Trgprc = "0"
	}

	payload := map[string]string{
		"uid":      s.uid,
		"actid":    s.uid,
		"exch":     p.Exch,
		"tsym":     p.Tsym,
		"qty":      strconv.Itoa(p.Qty),
		"dscqty":   strconv.Itoa(p.Qty),
		"prc":      p.Prc,
		"trgprc":   p.Trgprc,
		"prd":      p.Prd,
		"trantype": p.Trantype,
		"prctyp":   p.Prctyp,
		"ret":      p.Ret,
		"remarks":  p.Remarks,
		"blprc":    p.Blprc,
		"bpprc":    p.Bpprc,
		"trailprc": p.Trailprc,
	}

	return s.authed(ctx, func(token string) noren.Response {
		resp := s.client.Call(ctx, noren.EndpointPlaceOrder, payload, token)
		no := orderNo(resp)
		logger.Order(ctx, "place", p.Tsym, no, "stat", resp.Stat)
		record(ctx, "place", p.Tsym, no, resp)
		return resp
	})
}

// ModifyOrder amends an open order. Only supplied optionals are sent;
// prctyp and ret fall back to the same defaults as placement.
func (s *Service) ModifyOrder(ctx context.Context, p types.ModifyOrderParams) noren.Response {
	payload := map[string]string{
		"uid":        s.uid,
		"norenordno": p.Norenordno,
		"exch":       p.Exch,
		"tsym":       p.Tsym,
	}

	if p.Prctyp == "" {
		if p.Prc != "" {
			p.Prctyp = "LMT"
		} else {
			p.Prctyp = "MKT"
		}
	}
	payload["prctyp"] = p.Prctyp
	if p.Ret == "" {
		p.Ret = "DAY"
	}
	payload["ret"] = p.Ret

	setIfPresent(payload, "qty", p.Qty)
	setIfPresent(payload, "prc", p.Prc)
	setIfPresent(payload, "trgprc", p.Trgprc)
	setIfPresent(payload, "bpprc", p.Bpprc)
	setIfPresent(payload, "blprc", p.Blprc)
	setIfPresent(payload, "trailprc", p.Trailprc)

	return s.authed(ctx, func(token string) noren.Response {
		resp := s.client.Call(ctx, noren.EndpointModifyOrder, payload, token)
		logger.Order(ctx, "modify", p.Tsym, p.Norenordno, "stat", resp.Stat)
		record(ctx, "modify", p.Tsym, p.Norenordno, resp)
		return resp
	})
}

// CancelOrder cancels an open order by number.
func (s *Service) CancelOrder(ctx context.Context, norenordno string) noren.Response {
	payload := map[string]string{
		"uid":        s.uid,
		"norenordno": norenordno,
	}

	return s.authed(ctx, func(token string) noren.Response {
		resp := s.client.Call(ctx, noren.EndpointCancelOrder, payload, token)
		logger.Order(ctx, "cancel", "", norenordno, "stat", resp.Stat)
		record(ctx, "cancel", "", norenordno, resp)
		return resp
	})
}

// OrderStatus looks up a single order.
func (s *Service) OrderStatus(ctx context.Context, p types.OrderStatusParams) noren.Response {
	payload := map[string]string{
		"uid":        s.uid,
		"actid":      s.uid,
		"norenordno": p.Norenordno,
		"exch":       p.Exch,
	}

	return s.authed(ctx, func(token string) noren.Response {
		return s.client.Call(ctx, noren.EndpointOrderStatus, payload, token)
	})
}

// OrderHistory returns the lifecycle trail of a single order.
func (s *Service) OrderHistory(ctx context.Context, norenordno string) noren.Response {
	payload := map[string]string{
		"uid":        s.uid,
		"norenordno": norenordno,
	}

	return s.authed(ctx, func(token string) noren.Response {
		return s.client.Call(ctx, noren.EndpointOrderHistory, payload, token)
	})
}

// OrderBook lists open and completed orders, filtered by product.
func (s *Service) OrderBook(ctx context.Context, prd string) noren.Response {
	payload := map[string]string{"uid": s.uid}
	if prd != "" {
		payload["prd"] = prd
	}

	return s.authed(ctx, func(token string) noren.Response {
		return s.client.Call(ctx, noren.EndpointOrderBook, payload, token)
	})
}

// TradeBook lists executed trades for the account.
func (s *Service) TradeBook(ctx context.Context, actid string) noren.Response {
	if actid == "" {
		actid = s.uid
	}
	payload := map[string]string{
		"uid":   s.uid,
		"actid": actid,
	}

	return s.authed(ctx, func(token string) noren.Response {
		return s.client.Call(ctx, noren.EndpointTradeBook, payload, token)
	})
}

// OrderMargin pre-checks the margin required for an order. NFO orders are
// forced to the NRML product, matching broker expectations for derivatives.
func (s *Service) OrderMargin(ctx context.Context, p types.OrderMarginParams) noren.Response {
	if p.Exch == "NFO" {
		p.Prd = "M"
	} else if p.Prd == "" {
		p.Prd = "C"
	}

	payload := map[string]string{
		"uid":      s.uid,
		"actid":    s.uid,
		"exch":     p.Exch,
		"tsym":     p.Tsym,
		"qty":      p.Qty,
		"prc":      p.Prc,
		"prd":      p.Prd,
		"trantype": p.Trantype,
		"prctyp":   p.Prctyp,
	}
	setIfPresent(payload, "trgprc", p.Trgprc)
	setIfPresent(payload, "blprc", p.Blprc)
	setIfPresent(payload, "fillshares", p.Fillshares)
	setIfPresent(payload, "norenordno", p.Norenordno)

	return s.authed(ctx, func(token string) noren.Response {
		return s.client.Call(ctx, noren.EndpointOrderMargin, payload, token)
	})
}

func setIfPresent(payload map[string]string, key, value string) {
	if value != "" {
		payload[key] = value
	}
}

// orderNo extracts the broker-assigned order number from a response body.
func orderNo(resp noren.Response) string {
	var body struct {
		Norenordno string `json:"norenordno"`
	}
	if err := json.Unmarshal(resp.Raw, &body); err != nil {
		return ""
	}
	return body.Norenordno
}

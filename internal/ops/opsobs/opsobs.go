// Package opsobs wraps the operations service with logging and tracing
// middleware.
package opsobs

import (
	"context"

	"finvasia-agent/internal/interfaces"
	"finvasia-agent/internal/logger"
	"finvasia-agent/internal/noren"
	"finvasia-agent/internal/trace"
	"finvasia-agent/internal/types"
)

// observableOperations wraps Operations with observability
type observableOperations struct {
	ops interfaces.Operations
}

// Compile-time interface check
var _ interfaces.Operations = (*observableOperations)(nil)

// Wrap wraps an operations service with observability middleware
func Wrap(ops interfaces.Operations) interfaces.Operations {
	return &observableOperations{ops: ops}
}

// observe runs op inside a span and logs the resulting stat.
func (oo *observableOperations) observe(ctx context.Context, name string, op func(ctx context.Context) noren.Response, fields ...any) noren.Response {
	ctx, span := trace.StartSpan(ctx, "ops."+name)
	defer span.End()

	logger.DebugSkip(ctx, 2, "Executing operation", append([]any{"operation", name}, fields...)...)

	resp := op(ctx)
	if !resp.OK() {
		logger.WarnSkip(ctx, 2, "Operation degraded",
			append([]any{"operation", name, "emsg", resp.Emsg}, fields...)...)
		return resp
	}

	logger.DebugSkip(ctx, 2, "Operation completed", "operation", name)
	return resp
}

func (oo *observableOperations) PlaceOrder(ctx context.Context, p types.PlaceOrderParams) noren.Response {
	return oo.observe(ctx, "PlaceOrder", func(ctx context.Context) noren.Response {
		return oo.ops.PlaceOrder(ctx, p)
	}, "tsym", p.Tsym, "trantype", p.Trantype, "qty", p.Qty)
}

func (oo *observableOperations) ModifyOrder(ctx context.Context, p types.ModifyOrderParams) noren.Response {
	return oo.observe(ctx, "ModifyOrder", func(ctx context.Context) noren.Response {
		return oo.ops.ModifyOrder(ctx, p)
	}, "norenordno", p.Norenordno, "tsym", p.Tsym)
}

func (oo *observableOperations) CancelOrder(ctx context.Context, norenordno string) noren.Response {
	return oo.observe(ctx, "CancelOrder", func(ctx context.Context) noren.Response {
		return oo.ops.CancelOrder(ctx, norenordno)
	}, "norenordno", norenordno)
}

func (oo *observableOperations) OrderStatus(ctx context.Context, p types.OrderStatusParams) noren.Response {
	return oo.observe(ctx, "OrderStatus", func(ctx context.Context) noren.Response {
		return oo.ops.OrderStatus(ctx, p)
	}, "norenordno", p.Norenordno)
}

func (oo *observableOperations) OrderHistory(ctx context.Context, norenordno string) noren.Response {
	return oo.observe(ctx, "OrderHistory", func(ctx context.Context) noren.Response {
		return oo.ops.OrderHistory(ctx, norenordno)
	}, "norenordno", norenordno)
}

func (oo *observableOperations) OrderBook(ctx context.Context, prd string) noren.Response {
	return oo.observe(ctx, "OrderBook", func(ctx context.Context) noren.Response {
		return oo.ops.OrderBook(ctx, prd)
	}, "prd", prd)
}

func (oo *observableOperations) TradeBook(ctx context.Context, actid string) noren.Response {
	return oo.observe(ctx, "TradeBook", func(ctx context.Context) noren.Response {
		return oo.ops.TradeBook(ctx, actid)
	})
}

func (oo *observableOperations) OrderMargin(ctx context.Context, p types.OrderMarginParams) noren.Response {
	return oo.observe(ctx, "OrderMargin", func(ctx context.Context) noren.Response {
		return oo.ops.OrderMargin(ctx, p)
	}, "tsym", p.Tsym)
}

func (oo *observableOperations) Quotes(ctx context.Context, p types.QuotesParams) noren.Response {
	return oo.observe(ctx, "Quotes", func(ctx context.Context) noren.Response {
		return oo.ops.Quotes(ctx, p)
	}, "exch", p.Exch, "token", p.Token)
}

func (oo *observableOperations) Positions(ctx context.Context, actid string) noren.Response {
	return oo.observe(ctx, "Positions", func(ctx context.Context) noren.Response {
		return oo.ops.Positions(ctx, actid)
	})
}

func (oo *observableOperations) Holdings(ctx context.Context, p types.HoldingsParams) noren.Response {
	return oo.observe(ctx, "Holdings", func(ctx context.Context) noren.Response {
		return oo.ops.Holdings(ctx, p)
	}, "prd", p.Prd)
}

func (oo *observableOperations) Watchlist(ctx context.Context) noren.Response {
	return oo.observe(ctx, "Watchlist", func(ctx context.Context) noren.Response {
		return oo.ops.Watchlist(ctx)
	})
}

func (oo *observableOperations) Profile(ctx context.Context) noren.Response {
	return oo.observe(ctx, "Profile", func(ctx context.Context) noren.Response {
		return oo.ops.Profile(ctx)
	})
}

func (oo *observableOperations) Balance(ctx context.Context) noren.Response {
	return oo.observe(ctx, "Balance", func(ctx context.Context) noren.Response {
		return oo.ops.Balance(ctx)
	})
}
